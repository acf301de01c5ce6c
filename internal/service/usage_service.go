package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/unischeduler-api/internal/models"
	"github.com/noah-isme/unischeduler-api/pkg/jobs"
)

const usageJobType = "usage.record"

// UsageStore keeps the running token total.
type UsageStore interface {
	Add(ctx context.Context, tokens int64) (int64, error)
	Total(ctx context.Context) (int64, error)
}

// RunLog persists finished generation runs.
type RunLog interface {
	Insert(ctx context.Context, run *models.GenerationRun) error
	ListRecent(ctx context.Context, limit int) ([]models.GenerationRun, error)
}

type tokenCounter interface {
	AddTokens(tokens int64)
}

// usageJob is shared by every attempt of one run, so recorded survives a retry.
type usageJob struct {
	run      models.GenerationRun
	recorded bool
}

// MemoryUsageStore is a process-local UsageStore.
type MemoryUsageStore struct {
	total atomic.Int64
}

// NewMemoryUsageStore constructs an empty in-memory store.
func NewMemoryUsageStore() *MemoryUsageStore {
	return &MemoryUsageStore{}
}

// Add implements UsageStore.
func (m *MemoryUsageStore) Add(_ context.Context, tokens int64) (int64, error) {
	return m.total.Add(tokens), nil
}

// Total implements UsageStore.
func (m *MemoryUsageStore) Total(context.Context) (int64, error) {
	return m.total.Load(), nil
}

// UsageService accounts generator token usage off the request path. All
// writes go through a single-worker queue so updates to the running total
// are serialized.
type UsageService struct {
	store   UsageStore
	runs    RunLog
	metrics tokenCounter
	queue   *jobs.Queue
	logger  *zap.Logger
}

// NewUsageService constructs the service. runs may be nil when the run log
// is disabled.
func NewUsageService(store UsageStore, runs RunLog, metrics tokenCounter, logger *zap.Logger) *UsageService {
	return newUsageService(store, runs, metrics, logger, 2*time.Second)
}

func newUsageService(store UsageStore, runs RunLog, metrics tokenCounter, logger *zap.Logger, retryDelay time.Duration) *UsageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &UsageService{store: store, runs: runs, metrics: metrics, logger: logger}
	s.queue = jobs.NewQueue("usage", s.handle, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 256,
		MaxRetries: 3,
		RetryDelay: retryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the background writer.
func (s *UsageService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop flushes pending records and stops the writer.
func (s *UsageService) Stop() {
	s.queue.Stop()
}

// Track enqueues a finished run. It never blocks the caller and never fails
// the request; a full or stopped queue only logs.
func (s *UsageService) Track(run models.GenerationRun) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if err := s.queue.TryEnqueue(jobs.Job{ID: run.ID, Type: usageJobType, Payload: &usageJob{run: run}}); err != nil {
		s.logger.Warn("usage record dropped", zap.String("run_id", run.ID), zap.Int64("tokens", run.TokensUsed), zap.Error(err))
	}
}

// Record adds tokens to the running total and returns the new total.
func (s *UsageService) Record(ctx context.Context, tokens int64) (int64, error) {
	total, err := s.store.Add(ctx, tokens)
	if err != nil {
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.AddTokens(tokens)
	}
	return total, nil
}

// Summary returns the running total.
func (s *UsageService) Summary(ctx context.Context) (*models.UsageSummary, error) {
	total, err := s.store.Total(ctx)
	if err != nil {
		return nil, err
	}
	return &models.UsageSummary{TotalTokens: total, ObservedAt: time.Now().UTC()}, nil
}

// RecentRuns lists the newest entries of the run log. It returns an empty
// list when the run log is disabled.
func (s *UsageService) RecentRuns(ctx context.Context, limit int) ([]models.GenerationRun, error) {
	if s.runs == nil {
		return []models.GenerationRun{}, nil
	}
	return s.runs.ListRecent(ctx, limit)
}

func (s *UsageService) handle(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(*usageJob)
	if !ok {
		return fmt.Errorf("unexpected usage payload %T", job.Payload)
	}
	run := payload.run

	if !payload.recorded {
		total, err := s.Record(ctx, run.TokensUsed)
		if err != nil {
			return fmt.Errorf("record usage for run %s: %w", run.ID, err)
		}
		payload.recorded = true
		s.logger.Info("token usage recorded",
			zap.String("run_id", run.ID),
			zap.Int64("tokens", run.TokensUsed),
			zap.Int64("total_tokens", total),
		)
	}

	if s.runs == nil {
		return nil
	}
	if err := s.runs.Insert(ctx, &run); err != nil {
		return fmt.Errorf("append generation run %s: %w", run.ID, err)
	}
	return nil
}
