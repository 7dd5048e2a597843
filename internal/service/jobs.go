package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/outreach-toolkit/api/internal/entity"
	"github.com/octobees/outreach-toolkit/api/internal/scraper"
	"github.com/octobees/outreach-toolkit/api/internal/store"
)

// InvalidRequestError indicates the scrape request is malformed. It surfaces
// to the caller before any job is created.
type InvalidRequestError struct {
	Message string
}

// Error implements the error interface.
func (e InvalidRequestError) Error() string {
	return e.Message
}

// ErrJobNotFound indicates an unknown job id.
var ErrJobNotFound = errors.New("scrape job not found")

// ResultArchiver persists completed result batches outside the process
// lifetime. It is an optional collaborator; archive failures never affect
// the job outcome.
type ResultArchiver interface {
	ArchiveBatch(ctx context.Context, runID uuid.UUID, contacts []entity.Contact) error
}

const (
	defaultMaxResults     = 20
	maxResultsCap         = 100
	defaultAdapterTimeout = 45 * time.Second
	defaultMaxConcurrent  = 4
)

// JobManagerOptions tunes execution behavior.
type JobManagerOptions struct {
	// AdapterTimeout bounds the single provider call per job.
	AdapterTimeout time.Duration
	// MaxConcurrent caps how many jobs may execute at once.
	MaxConcurrent int
}

func (o JobManagerOptions) withDefaults() JobManagerOptions {
	if o.AdapterTimeout <= 0 {
		o.AdapterTimeout = defaultAdapterTimeout
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = defaultMaxConcurrent
	}
	return o
}

// jobState pairs a job with its execution bookkeeping. Each job has a single
// logical owner: all mutation happens under mu inside the manager.
type jobState struct {
	mu              sync.Mutex
	job             entity.ScrapeJob
	cancelRequested bool
	done            chan struct{}
}

// JobManager owns the scrape job state machine. It drives the provider
// adapter, falls back to the synthetic generator when the adapter fails, and
// feeds normalized contacts into the result store. From the caller's point
// of view a valid scrape request essentially always completes: adapter
// faults degrade to clearly marked synthetic data instead of failing.
type JobManager struct {
	adapter  scraper.ProviderAdapter
	results  *store.ResultStore
	archiver ResultArchiver
	opts     JobManagerOptions
	sem      chan struct{}

	mu   sync.RWMutex
	jobs map[uuid.UUID]*jobState
}

// NewJobManager wires a manager around its collaborators. The result store
// must not be nil; the archiver may be.
func NewJobManager(adapter scraper.ProviderAdapter, results *store.ResultStore, archiver ResultArchiver, opts JobManagerOptions) *JobManager {
	opts = opts.withDefaults()
	return &JobManager{
		adapter:  adapter,
		results:  results,
		archiver: archiver,
		opts:     opts,
		sem:      make(chan struct{}, opts.MaxConcurrent),
		jobs:     make(map[uuid.UUID]*jobState),
	}
}

// Submit validates the request, creates the job and starts executing it.
// The returned snapshot reflects the job immediately after dispatch.
func (m *JobManager) Submit(ctx context.Context, req entity.ScrapeRequest) (entity.ScrapeJob, error) {
	req, err := normalizeRequest(req)
	if err != nil {
		return entity.ScrapeJob{}, err
	}

	state := &jobState{
		job: entity.ScrapeJob{
			ID:        uuid.New(),
			Status:    entity.JobStatusPending,
			Request:   req,
			StartedAt: time.Now().UTC(),
		},
		done: make(chan struct{}),
	}

	m.mu.Lock()
	m.jobs[state.job.ID] = state
	m.mu.Unlock()

	m.transition(state, entity.JobStatusRunning)
	go m.execute(state)

	return m.snapshot(state), nil
}

// Status returns the current snapshot of the job.
func (m *JobManager) Status(jobID uuid.UUID) (entity.ScrapeJob, error) {
	state, ok := m.lookup(jobID)
	if !ok {
		return entity.ScrapeJob{}, ErrJobNotFound
	}
	return m.snapshot(state), nil
}

// RequestCancel flags a job for cooperative cancellation. The flag is
// honored at the checkpoints around the provider call; in-flight I/O is
// never preempted.
func (m *JobManager) RequestCancel(jobID uuid.UUID) error {
	state, ok := m.lookup(jobID)
	if !ok {
		return ErrJobNotFound
	}
	state.mu.Lock()
	state.cancelRequested = true
	state.mu.Unlock()
	return nil
}

// Wait blocks until the job reaches a terminal state or ctx expires, then
// returns the latest snapshot.
func (m *JobManager) Wait(ctx context.Context, jobID uuid.UUID) (entity.ScrapeJob, error) {
	state, ok := m.lookup(jobID)
	if !ok {
		return entity.ScrapeJob{}, ErrJobNotFound
	}
	select {
	case <-state.done:
	case <-ctx.Done():
		return m.snapshot(state), ctx.Err()
	}
	return m.snapshot(state), nil
}

// execute runs the job pipeline. The provider call is the single suspension
// point; cancellation is checked immediately before and after it.
func (m *JobManager) execute(state *jobState) {
	defer close(state.done)

	m.sem <- struct{}{}
	defer func() { <-m.sem }()

	req := state.job.Request

	if m.cancelled(state) {
		m.transition(state, entity.JobStatusCancelled)
		return
	}
	m.setProgress(state, 10)

	contacts, usedFallback := m.acquire(state, req)

	if m.cancelled(state) {
		m.transition(state, entity.JobStatusCancelled)
		return
	}

	if contacts == nil && !usedFallback {
		// Fallback itself failed. The generator is pure and deterministic,
		// so this path is a safety net rather than an expected outcome.
		m.fail(state, "synthetic fallback generation failed")
		return
	}
	m.setProgress(state, 80)

	// All-or-nothing ingestion: the batch lands in the store in one atomic
	// append once the job is on its terminal success path.
	m.results.AddBatch(contacts)

	if m.archiver != nil {
		ctx, cancel := context.WithTimeout(context.Background(), m.opts.AdapterTimeout)
		if err := m.archiver.ArchiveBatch(ctx, state.job.ID, contacts); err != nil {
			log.Printf("job_id=%s archive_failed=%v", state.job.ID, err)
		}
		cancel()
	}

	state.mu.Lock()
	state.job.TotalResults = len(contacts)
	state.mu.Unlock()

	m.setProgress(state, 100)
	m.transition(state, entity.JobStatusCompleted)
	log.Printf("job_id=%s status=completed results=%d fallback=%v", state.job.ID, len(contacts), usedFallback)
}

// acquire fetches raw records through the adapter and normalizes them. Any
// adapter or normalization fault degrades to the synthetic generator; the
// boolean reports whether fallback data was used. A nil slice with
// usedFallback=false means even the fallback failed.
func (m *JobManager) acquire(state *jobState, req entity.ScrapeRequest) (contacts []entity.Contact, usedFallback bool) {
	ctx, cancel := context.WithTimeout(context.Background(), m.opts.AdapterTimeout)
	records, err := m.adapter.Fetch(ctx, req)
	cancel()

	m.setProgress(state, 60)

	if err == nil {
		contacts, err = normalizeBatch(records, req)
		if err == nil {
			return contacts, false
		}
	}

	log.Printf("job_id=%s fallback_reason=%v", state.job.ID, err)
	contacts, genErr := safeGenerate(req)
	if genErr != nil {
		log.Printf("job_id=%s generator_failed=%v", state.job.ID, genErr)
		return nil, false
	}
	return contacts, true
}

// normalizeBatch converts the full batch or none of it. A single bad record
// poisons the batch, which the caller treats like any other provider fault.
func normalizeBatch(records []scraper.RawRecord, req entity.ScrapeRequest) ([]entity.Contact, error) {
	contacts := make([]entity.Contact, 0, len(records))
	for i, record := range records {
		contact, err := scraper.NormalizeRecord(record, req)
		if err != nil {
			return nil, fmt.Errorf("normalize record %d: %w", i, err)
		}
		contacts = append(contacts, contact)
	}
	return contacts, nil
}

func safeGenerate(req entity.ScrapeRequest) (contacts []entity.Contact, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mock generator panic: %v", r)
		}
	}()
	return scraper.GenerateMockContacts(req), nil
}

func (m *JobManager) lookup(jobID uuid.UUID) (*jobState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.jobs[jobID]
	return state, ok
}

func (m *JobManager) snapshot(state *jobState) entity.ScrapeJob {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.job
}

func (m *JobManager) cancelled(state *jobState) bool {
	state.mu.Lock()
	defer state.mu.Unlock()
	return state.cancelRequested
}

func (m *JobManager) setProgress(state *jobState, progress int) {
	state.mu.Lock()
	defer state.mu.Unlock()
	if progress > state.job.Progress {
		state.job.Progress = progress
	}
}

func (m *JobManager) transition(state *jobState, to entity.JobStatus) {
	state.mu.Lock()
	defer state.mu.Unlock()
	if !entity.CanTransition(state.job.Status, to) {
		log.Printf("job_id=%s invalid_transition=%s->%s", state.job.ID, state.job.Status, to)
		return
	}
	state.job.Status = to
	if to.IsTerminal() {
		now := time.Now().UTC()
		state.job.CompletedAt = &now
	}
}

func (m *JobManager) fail(state *jobState, message string) {
	state.mu.Lock()
	state.job.Error = message
	state.mu.Unlock()
	m.transition(state, entity.JobStatusFailed)
}

// normalizeRequest applies bounds and validates the platform set. The
// validated request becomes the job's immutable snapshot.
func normalizeRequest(req entity.ScrapeRequest) (entity.ScrapeRequest, error) {
	if len(req.Platforms) == 0 {
		return entity.ScrapeRequest{}, InvalidRequestError{Message: "at least one platform is required"}
	}
	for _, platform := range req.Platforms {
		if _, err := entity.ParsePlatform(string(platform)); err != nil {
			return entity.ScrapeRequest{}, InvalidRequestError{Message: err.Error()}
		}
	}
	if req.MaxResults <= 0 {
		req.MaxResults = defaultMaxResults
	}
	if req.MaxResults > maxResultsCap {
		req.MaxResults = maxResultsCap
	}
	return req, nil
}
