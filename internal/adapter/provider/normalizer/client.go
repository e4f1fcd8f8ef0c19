// Package normalizer calls the external text normalization service that
// converts raw submissions (mixed scripts, romanization quirks, stray
// punctuation) into canonical written form. The service is optional: when it
// is unreachable or not configured, submissions proceed with the raw text
// marked as unnormalized so a later pass can fix them up.
package normalizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Result is the outcome of a normalization attempt. Normalized is false when
// the service was skipped or failed and Text carries the input unchanged.
type Result struct {
	Text       string
	Normalized bool
}

type normalizeRequest struct {
	Text string `json:"text"`
}

type normalizeResponse struct {
	NormalizedText string `json:"normalized_text"`
}

// Client talks to the normalization service over HTTP.
// An empty base URL disables the client entirely.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a normalizer client. Pass an empty baseURL to run in
// passthrough mode.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "normalizer"),
	}
}

// Normalize converts raw text to canonical form. It never fails the caller:
// any transport or protocol problem degrades to the raw text with
// Normalized set to false.
func (c *Client) Normalize(ctx context.Context, text string) Result {
	passthrough := Result{Text: text, Normalized: false}

	if c.baseURL == "" {
		return passthrough
	}

	body, err := json.Marshal(normalizeRequest{Text: text})
	if err != nil {
		c.log.ErrorContext(ctx, "normalizer encode request", slog.String("error", err.Error()))
		return passthrough
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/normalize", bytes.NewReader(body))
	if err != nil {
		c.log.ErrorContext(ctx, "normalizer create request", slog.String("error", err.Error()))
		return passthrough
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.doWithRetry(ctx, req, body)
	if err != nil {
		c.log.WarnContext(ctx, "normalizer unavailable, storing raw text",
			slog.String("error", err.Error()))
		return passthrough
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.WarnContext(ctx, "normalizer unexpected status, storing raw text",
			slog.Int("status", resp.StatusCode))
		return passthrough
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.WarnContext(ctx, "normalizer read body", slog.String("error", err.Error()))
		return passthrough
	}

	var decoded normalizeResponse
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		c.log.WarnContext(ctx, "normalizer decode json", slog.String("error", err.Error()))
		return passthrough
	}

	if decoded.NormalizedText == "" {
		c.log.WarnContext(ctx, "normalizer returned empty text, storing raw text")
		return passthrough
	}

	return Result{Text: decoded.NormalizedText, Normalized: true}
}

// doWithRetry executes the request with a single retry on 5xx or network
// errors. The body is re-created for the second attempt since POST bodies
// are consumed by the first.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "normalizer retry", slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(200 * time.Millisecond)

	retryReq := req.Clone(ctx)
	retryReq.Body = io.NopCloser(bytes.NewReader(body))

	return c.httpClient.Do(retryReq)
}
