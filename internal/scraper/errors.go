package scraper

import (
	"errors"
	"fmt"
)

// ErrCredentialMissing indicates no provider credential is configured. The
// job manager treats it like any other adapter failure and falls back to
// synthetic data.
var ErrCredentialMissing = errors.New("scraping provider credential is not configured")

// ErrProviderTimeout indicates the provider call did not complete within its
// deadline.
var ErrProviderTimeout = errors.New("scraping provider call timed out")

// ProviderError reports a failure returned by the provider itself, such as a
// rate limit or an invalid query. It exists for diagnostics only; recovery
// policy belongs to the job manager.
type ProviderError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("provider returned status %d: %s", e.StatusCode, e.Message)
}
