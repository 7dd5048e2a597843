package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach-toolkit/api/internal/entity"
	"github.com/octobees/outreach-toolkit/api/internal/scraper"
	"github.com/octobees/outreach-toolkit/api/internal/service"
	"github.com/octobees/outreach-toolkit/api/internal/store"
)

type stubAdapter struct {
	fetch func(ctx context.Context, req entity.ScrapeRequest) ([]scraper.RawRecord, error)
}

func (s *stubAdapter) Fetch(ctx context.Context, req entity.ScrapeRequest) ([]scraper.RawRecord, error) {
	return s.fetch(ctx, req)
}

func newScrapeFixture(adapter scraper.ProviderAdapter) (*ScrapeHandler, *service.JobManager, *store.ResultStore) {
	results := store.NewResultStore()
	jobs := service.NewJobManager(adapter, results, nil, service.JobManagerOptions{})
	return NewScrapeHandler(jobs), jobs, results
}

func postJSON(e *echo.Echo, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestScrapeHandler_Submit_Success(t *testing.T) {
	adapter := &stubAdapter{fetch: func(ctx context.Context, req entity.ScrapeRequest) ([]scraper.RawRecord, error) {
		return []scraper.RawRecord{
			{"platform": "LinkedIn", "name": "Ada Example", "profile_url": "https://linkedin.com/in/ada"},
		}, nil
	}}
	handler, jobs, results := newScrapeFixture(adapter)

	e := echo.New()
	c, rec := postJSON(e, "/scrape", `{"platforms":["LinkedIn"],"max_results":5}`)

	if err := handler.Submit(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}

	var payload APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	data, ok := payload.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", payload.Data)
	}
	jobID, err := uuid.Parse(data["job_id"].(string))
	if err != nil {
		t.Fatalf("expected valid job id, got %v", data["job_id"])
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	job, err := jobs.Wait(ctx, jobID)
	if err != nil {
		t.Fatalf("job did not finish: %v", err)
	}
	if job.Status != entity.JobStatusCompleted {
		t.Fatalf("expected completed job, got %s", job.Status)
	}
	if results.Len() != 1 {
		t.Fatalf("expected 1 ingested contact, got %d", results.Len())
	}
}

func TestScrapeHandler_Submit_InvalidRequest(t *testing.T) {
	handler, _, _ := newScrapeFixture(&stubAdapter{fetch: func(ctx context.Context, req entity.ScrapeRequest) ([]scraper.RawRecord, error) {
		t.Fatal("adapter must not be called for invalid requests")
		return nil, nil
	}})

	e := echo.New()

	t.Run("no platforms", func(t *testing.T) {
		c, rec := postJSON(e, "/scrape", `{"platforms":[]}`)
		if err := handler.Submit(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown platform", func(t *testing.T) {
		c, rec := postJSON(e, "/scrape", `{"platforms":["MySpace"]}`)
		if err := handler.Submit(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		c, rec := postJSON(e, "/scrape", `{"platforms":`)
		if err := handler.Submit(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestScrapeHandler_Status(t *testing.T) {
	adapter := &stubAdapter{fetch: func(ctx context.Context, req entity.ScrapeRequest) ([]scraper.RawRecord, error) {
		return nil, nil
	}}
	handler, jobs, _ := newScrapeFixture(adapter)

	e := echo.New()

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/scrape/status/nope", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("job_id")
		c.SetParamValues("nope")

		if err := handler.Status(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/scrape/status/"+uuid.NewString(), nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("job_id")
		c.SetParamValues(uuid.NewString())

		if err := handler.Status(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("known job", func(t *testing.T) {
		job, err := jobs.Submit(context.Background(), entity.ScrapeRequest{Platforms: []entity.Platform{entity.PlatformTwitter}})
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := jobs.Wait(ctx, job.ID); err != nil {
			t.Fatalf("job did not finish: %v", err)
		}

		req := httptest.NewRequest(http.MethodGet, "/scrape/status/"+job.ID.String(), nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("job_id")
		c.SetParamValues(job.ID.String())

		if err := handler.Status(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"status":"completed"`) {
			t.Fatalf("expected completed status in body, got %s", rec.Body.String())
		}
	})
}

func TestScrapeHandler_Cancel(t *testing.T) {
	release := make(chan struct{})
	adapter := &stubAdapter{fetch: func(ctx context.Context, req entity.ScrapeRequest) ([]scraper.RawRecord, error) {
		<-release
		return nil, nil
	}}
	handler, jobs, _ := newScrapeFixture(adapter)

	e := echo.New()

	t.Run("unknown id", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodPost, "/scrape/cancel/"+id, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("job_id")
		c.SetParamValues(id)

		if err := handler.Cancel(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("running job", func(t *testing.T) {
		job, err := jobs.Submit(context.Background(), entity.ScrapeRequest{Platforms: []entity.Platform{entity.PlatformFacebook}})
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}

		req := httptest.NewRequest(http.MethodPost, "/scrape/cancel/"+job.ID.String(), nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("job_id")
		c.SetParamValues(job.ID.String())

		if err := handler.Cancel(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}

		close(release)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		final, err := jobs.Wait(ctx, job.ID)
		if err != nil {
			t.Fatalf("job did not finish: %v", err)
		}
		if final.Status != entity.JobStatusCancelled {
			t.Fatalf("expected cancelled job, got %s", final.Status)
		}
	})
}
