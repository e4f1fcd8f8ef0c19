// Package assistant calls Claude to pre-fill submission metadata: a theme
// classification guess, a draft definition and usage notes, and register
// hints. Everything it produces is a suggestion for the contributor and the
// moderators; nothing is stored without human confirmation.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/jyutlore/jyutlore-backend/internal/domain"
)

// Suggestion is the assistant's draft metadata for a submitted expression.
// Empty fields mean the model had no confident answer.
type Suggestion struct {
	ThemeLeafName string
	Definition    string
	UsageNotes    string
	Formality     *domain.FormalityLevel
	Frequency     *domain.Frequency
}

// SpellCheckResult reports likely orthography problems in a submission.
type SpellCheckResult struct {
	CorrectedText string
	Issues        []string
}

// Client wraps the Anthropic API for submission assistance.
type Client struct {
	client  anthropic.Client
	model   string
	timeout time.Duration
	log     *slog.Logger
}

// NewClient creates an assistant client. timeout bounds each API call; zero
// means no bound beyond the caller's context.
func NewClient(apiKey, model string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:   model,
		timeout: timeout,
		log:     logger.With("adapter", "assistant"),
	}
}

// Suggest asks the model for draft metadata. themeLeaves is the list of
// leaf-level theme names the model may pick from; the classification guess
// is constrained to that list so it can be resolved against the taxonomy.
func (c *Client) Suggest(ctx context.Context, text string, region domain.Region, themeLeaves []string) (*Suggestion, error) {
	prompt := buildSuggestPrompt(text, region, themeLeaves)

	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var decoded suggestResponse
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("assistant: decode suggestion: %w", err)
	}

	s := mapSuggestion(decoded)

	c.log.DebugContext(ctx, "assistant suggestion",
		slog.String("theme_guess", s.ThemeLeafName),
		slog.Bool("has_definition", s.Definition != ""),
	)

	return s, nil
}

// SpellCheck asks the model to flag orthography issues in the raw text.
func (c *Client) SpellCheck(ctx context.Context, text string) (*SpellCheckResult, error) {
	prompt := buildSpellCheckPrompt(text)

	raw, err := c.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var decoded spellCheckResponse
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return nil, fmt.Errorf("assistant: decode spellcheck: %w", err)
	}

	result := &SpellCheckResult{
		CorrectedText: decoded.CorrectedText,
		Issues:        decoded.Issues,
	}
	if result.Issues == nil {
		result.Issues = []string{}
	}

	return result, nil
}

// complete runs one prompt and returns the JSON object found in the reply.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 1024,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("assistant: api call: %w", err)
	}

	if len(msg.Content) == 0 {
		return "", fmt.Errorf("assistant: empty response")
	}

	jsonStr, err := extractJSON(msg.Content[0].Text)
	if err != nil {
		return "", fmt.Errorf("assistant: %w", err)
	}
	if !json.Valid([]byte(jsonStr)) {
		return "", fmt.Errorf("assistant: response does not contain valid JSON")
	}

	return jsonStr, nil
}

type suggestResponse struct {
	Theme      string `json:"theme"`
	Definition string `json:"definition"`
	UsageNotes string `json:"usage_notes"`
	Formality  string `json:"formality"`
	Frequency  string `json:"frequency"`
}

type spellCheckResponse struct {
	CorrectedText string   `json:"corrected_text"`
	Issues        []string `json:"issues"`
}

// mapSuggestion converts the raw model output to a Suggestion, dropping
// enum values the model invented.
func mapSuggestion(r suggestResponse) *Suggestion {
	s := &Suggestion{
		ThemeLeafName: strings.TrimSpace(r.Theme),
		Definition:    strings.TrimSpace(r.Definition),
		UsageNotes:    strings.TrimSpace(r.UsageNotes),
	}

	if f := domain.FormalityLevel(r.Formality); f.IsValid() {
		s.Formality = &f
	}
	if f := domain.Frequency(r.Frequency); f.IsValid() {
		s.Frequency = &f
	}

	return s
}

func buildSuggestPrompt(text string, region domain.Region, themeLeaves []string) string {
	return fmt.Sprintf(`You are a lexicographer specializing in Cantonese regional expressions.

A contributor from the %s region submitted this expression:
%q

Available theme topics (pick exactly one, or use "" if none fits):
%s

Output ONLY a valid JSON object matching this exact schema:
{
  "theme": "<one of the topics above, or empty>",
  "definition": "<concise definition of the expression in English>",
  "usage_notes": "<when and how the expression is used, one or two sentences>",
  "formality": "<FORMAL|NEUTRAL|COLLOQUIAL|VULGAR or empty>",
  "frequency": "<COMMON|OCCASIONAL|RARE or empty>"
}

Rules:
- Leave a field empty rather than guessing when unsure
- The definition should be usable as-is in a dictionary entry
- Output ONLY the JSON, no markdown, no explanations`,
		region, text, strings.Join(themeLeaves, "\n"))
}

func buildSpellCheckPrompt(text string) string {
	return fmt.Sprintf(`You are a copy editor for written Cantonese.

Check this expression for character mistakes, mixed romanization, and
non-standard variants:
%q

Output ONLY a valid JSON object matching this exact schema:
{
  "corrected_text": "<the expression with corrections applied, or unchanged>",
  "issues": ["<description of each issue found>"]
}

Rules:
- Keep intentional regional spellings; only flag genuine mistakes
- An empty issues list means the text looks fine
- Output ONLY the JSON, no markdown, no explanations`, text)
}

// extractJSON finds the first complete JSON object in a string.
func extractJSON(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in response")
	}
	return s[start : end+1], nil
}
