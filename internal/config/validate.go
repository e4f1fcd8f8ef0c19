package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if c.Submission.MaxExamplesPerEntry <= 0 {
		return fmt.Errorf("submission.max_examples_per_entry must be > 0 (got %d)", c.Submission.MaxExamplesPerEntry)
	}
	if c.Submission.MaxTextLength <= 0 {
		return fmt.Errorf("submission.max_text_length must be > 0 (got %d)", c.Submission.MaxTextLength)
	}
	if c.Submission.DuplicateLimit <= 0 {
		return fmt.Errorf("submission.duplicate_limit must be > 0 (got %d)", c.Submission.DuplicateLimit)
	}

	if c.Assistant.Enabled() && c.Assistant.Timeout <= 0 {
		return fmt.Errorf("assistant.timeout must be > 0 (got %v)", c.Assistant.Timeout)
	}

	if c.Normalizer.BaseURL != "" {
		if _, err := url.ParseRequestURI(c.Normalizer.BaseURL); err != nil {
			return fmt.Errorf("normalizer.base_url: %w", err)
		}
		if c.Normalizer.Timeout <= 0 {
			return fmt.Errorf("normalizer.timeout must be > 0 (got %v)", c.Normalizer.Timeout)
		}
	}

	return nil
}
