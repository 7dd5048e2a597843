package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/octobees/outreach-toolkit/api/internal/entity"
)

// RawRecord is one untyped provider record. The provider payload shape varies
// by platform, so records stay loosely typed until normalization.
type RawRecord map[string]any

// ProviderAdapter performs the single outbound call to the external scraping
// provider. It never retries and never touches job or store state.
type ProviderAdapter interface {
	Fetch(ctx context.Context, req entity.ScrapeRequest) ([]RawRecord, error)
}

// platformActors maps each platform to the provider actor that scrapes it.
var platformActors = map[entity.Platform]string{
	entity.PlatformLinkedIn:   "outreach~linkedin-profile-scraper",
	entity.PlatformInstagram:  "outreach~instagram-profile-scraper",
	entity.PlatformTwitter:    "outreach~twitter-profile-scraper",
	entity.PlatformFacebook:   "outreach~facebook-pages-scraper",
	entity.PlatformGoogleMaps: "outreach~google-maps-scraper",
}

// ApifyAdapter talks to an Apify-compatible scraping provider over HTTP, one
// synchronous actor run per requested platform.
type ApifyAdapter struct {
	client  *http.Client
	baseURL string
	token   string
	limiter *rate.Limiter
}

// NewApifyAdapter builds a provider adapter. Outbound calls are paced by
// callsPerSecond across all jobs; pass <= 0 to disable pacing.
func NewApifyAdapter(client *http.Client, baseURL, token string, callsPerSecond float64) *ApifyAdapter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	var limiter *rate.Limiter
	if callsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(callsPerSecond), 1)
	}
	return &ApifyAdapter{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		limiter: limiter,
	}
}

// Fetch runs one actor per requested platform and concatenates the raw
// datasets. Each record is tagged with its source platform so normalization
// does not have to guess.
func (a *ApifyAdapter) Fetch(ctx context.Context, req entity.ScrapeRequest) ([]RawRecord, error) {
	if a.token == "" {
		return nil, ErrCredentialMissing
	}

	var records []RawRecord
	for _, platform := range req.Platforms {
		batch, err := a.fetchPlatform(ctx, platform, req)
		if err != nil {
			return nil, err
		}
		for _, record := range batch {
			if _, ok := record["platform"]; !ok {
				record["platform"] = string(platform)
			}
		}
		records = append(records, batch...)
	}
	return records, nil
}

func (a *ApifyAdapter) fetchPlatform(ctx context.Context, platform entity.Platform, req entity.ScrapeRequest) ([]RawRecord, error) {
	actor, ok := platformActors[platform]
	if !ok {
		return nil, &ProviderError{StatusCode: http.StatusBadRequest, Message: fmt.Sprintf("no actor configured for platform %s", platform)}
	}

	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, classifyTransportError(err)
		}
	}

	payload := map[string]any{
		"searchQuery": buildSearchQuery(req),
		"maxResults":  req.MaxResults,
	}
	if len(req.Regions) > 0 {
		payload["regions"] = req.Regions
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal provider payload: %w", err)
	}

	url := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items", a.baseURL, actor)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create provider request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+a.token)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: extractProviderError(resp.Body)}
	}

	var records []RawRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil && err != io.EOF {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("malformed dataset payload: %v", err)}
	}
	return records, nil
}

// buildSearchQuery folds the free-form filters into the single query string
// the provider actors accept.
func buildSearchQuery(req entity.ScrapeRequest) string {
	parts := make([]string, 0, 3)
	if q := strings.TrimSpace(req.SearchQuery); q != "" {
		parts = append(parts, q)
	}
	if len(req.Roles) > 0 {
		parts = append(parts, strings.Join(req.Roles, " OR "))
	}
	if len(req.Industries) > 0 {
		parts = append(parts, strings.Join(req.Industries, " OR "))
	}
	return strings.Join(parts, " ")
}

func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}
	// net/http wraps the context error inside a *url.Error.
	if strings.Contains(err.Error(), context.DeadlineExceeded.Error()) ||
		strings.Contains(err.Error(), "Client.Timeout exceeded") {
		return fmt.Errorf("%w: %v", ErrProviderTimeout, err)
	}
	return &ProviderError{Message: err.Error()}
}

func extractProviderError(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return "provider returned an error"
	}

	var payload struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error.Message != "" {
		return payload.Error.Message
	}
	return string(data)
}

var _ ProviderAdapter = (*ApifyAdapter)(nil)
