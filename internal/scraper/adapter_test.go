package scraper

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/octobees/outreach-toolkit/api/internal/entity"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestAdapter(rt roundTripFunc, token string) *ApifyAdapter {
	client := &http.Client{Transport: rt}
	return NewApifyAdapter(client, "https://api.provider.test", token, 0)
}

func linkedInRequest(maxResults int) entity.ScrapeRequest {
	return entity.ScrapeRequest{
		Platforms:   []entity.Platform{entity.PlatformLinkedIn},
		SearchQuery: "startup founder",
		MaxResults:  maxResults,
	}
}

func TestApifyAdapter_Fetch(t *testing.T) {
	t.Run("missing credential", func(t *testing.T) {
		adapter := newTestAdapter(func(req *http.Request) (*http.Response, error) {
			t.Fatal("no request expected without a credential")
			return nil, nil
		}, "")

		_, err := adapter.Fetch(context.Background(), linkedInRequest(5))
		if !errors.Is(err, ErrCredentialMissing) {
			t.Fatalf("expected ErrCredentialMissing, got %v", err)
		}
	})

	t.Run("success tags platform", func(t *testing.T) {
		var capturedAuth string
		adapter := newTestAdapter(func(req *http.Request) (*http.Response, error) {
			capturedAuth = req.Header.Get("Authorization")
			body := `[{"full_name":"Jane Doe"},{"full_name":"John Roe","platform":"Twitter"}]`
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}, nil
		}, "token-123")

		records, err := adapter.Fetch(context.Background(), linkedInRequest(5))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if capturedAuth != "Bearer token-123" {
			t.Fatalf("expected bearer auth header, got %q", capturedAuth)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		if records[0]["platform"] != "LinkedIn" {
			t.Fatalf("expected untagged record to inherit request platform, got %v", records[0]["platform"])
		}
		if records[1]["platform"] != "Twitter" {
			t.Fatalf("expected provider platform tag preserved, got %v", records[1]["platform"])
		}
	})

	t.Run("provider error status", func(t *testing.T) {
		adapter := newTestAdapter(func(req *http.Request) (*http.Response, error) {
			body := `{"error":{"message":"rate limit exceeded"}}`
			return &http.Response{StatusCode: http.StatusTooManyRequests, Body: io.NopCloser(strings.NewReader(body))}, nil
		}, "token-123")

		_, err := adapter.Fetch(context.Background(), linkedInRequest(5))
		var provErr *ProviderError
		if !errors.As(err, &provErr) {
			t.Fatalf("expected ProviderError, got %v", err)
		}
		if provErr.StatusCode != http.StatusTooManyRequests {
			t.Fatalf("expected status 429, got %d", provErr.StatusCode)
		}
		if !strings.Contains(provErr.Message, "rate limit exceeded") {
			t.Fatalf("expected provider message, got %q", provErr.Message)
		}
	})

	t.Run("deadline exceeded", func(t *testing.T) {
		adapter := newTestAdapter(func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		}, "token-123")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := adapter.Fetch(ctx, linkedInRequest(5))
		if !errors.Is(err, ErrProviderTimeout) {
			t.Fatalf("expected ErrProviderTimeout, got %v", err)
		}
	})

	t.Run("malformed dataset payload", func(t *testing.T) {
		adapter := newTestAdapter(func(req *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(`{"not":"an array"`))}, nil
		}, "token-123")

		_, err := adapter.Fetch(context.Background(), linkedInRequest(5))
		var provErr *ProviderError
		if !errors.As(err, &provErr) {
			t.Fatalf("expected ProviderError for malformed payload, got %v", err)
		}
	})

	t.Run("one call per platform", func(t *testing.T) {
		var urls []string
		adapter := newTestAdapter(func(req *http.Request) (*http.Response, error) {
			urls = append(urls, req.URL.Path)
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(`[]`))}, nil
		}, "token-123")

		req := entity.ScrapeRequest{
			Platforms:  []entity.Platform{entity.PlatformLinkedIn, entity.PlatformGoogleMaps},
			MaxResults: 3,
		}
		if _, err := adapter.Fetch(context.Background(), req); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(urls) != 2 {
			t.Fatalf("expected 2 provider calls, got %d", len(urls))
		}
		if !strings.Contains(urls[0], "linkedin") || !strings.Contains(urls[1], "google-maps") {
			t.Fatalf("unexpected actor paths: %v", urls)
		}
	})
}

func TestBuildSearchQuery(t *testing.T) {
	req := entity.ScrapeRequest{
		SearchQuery: "fintech",
		Roles:       []string{"CTO", "VP Engineering"},
		Industries:  []string{"Finance"},
	}
	got := buildSearchQuery(req)
	want := "fintech CTO OR VP Engineering Finance"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if got := buildSearchQuery(entity.ScrapeRequest{}); got != "" {
		t.Fatalf("expected empty query, got %q", got)
	}
}
