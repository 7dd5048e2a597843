package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach-toolkit/api/internal/dto"
	"github.com/octobees/outreach-toolkit/api/internal/entity"
	"github.com/octobees/outreach-toolkit/api/internal/service"
)

// ScrapeHandler exposes the scrape job lifecycle endpoints.
type ScrapeHandler struct {
	jobs *service.JobManager
}

// NewScrapeHandler creates a new handler instance.
func NewScrapeHandler(jobs *service.JobManager) *ScrapeHandler {
	return &ScrapeHandler{jobs: jobs}
}

// Submit handles POST /scrape requests.
func (h *ScrapeHandler) Submit(c echo.Context) error {
	var req entity.ScrapeRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	job, err := h.jobs.Submit(c.Request().Context(), req)
	if err != nil {
		var invalid service.InvalidRequestError
		if errors.As(err, &invalid) {
			return Error(c, http.StatusBadRequest, invalid.Message)
		}
		return Error(c, http.StatusInternalServerError, "failed to create scrape job")
	}

	accepted := dto.ScrapeAccepted{
		JobID:  job.ID.String(),
		Status: string(job.Status),
	}
	return Success(c, http.StatusAccepted, "scrape job created", accepted)
}

// Status handles GET /scrape/status/:job_id requests.
func (h *ScrapeHandler) Status(c echo.Context) error {
	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid job id")
	}

	job, err := h.jobs.Status(jobID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return Error(c, http.StatusNotFound, "scrape job not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load scrape job")
	}
	return Success(c, http.StatusOK, "scrape job status", job)
}

// Cancel handles POST /scrape/cancel/:job_id requests. Cancellation is
// cooperative: the response confirms the request was recorded, not that the
// job has already stopped.
func (h *ScrapeHandler) Cancel(c echo.Context) error {
	jobID, err := uuid.Parse(c.Param("job_id"))
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid job id")
	}

	if err := h.jobs.RequestCancel(jobID); err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return Error(c, http.StatusNotFound, "scrape job not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to cancel scrape job")
	}

	job, err := h.jobs.Status(jobID)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to load scrape job")
	}
	return Success(c, http.StatusOK, "cancellation requested", job)
}
