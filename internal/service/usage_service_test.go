package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unischeduler-api/internal/models"
)

type stubRunLog struct {
	mu      sync.Mutex
	runs    []models.GenerationRun
	failFor int
}

func (s *stubRunLog) Insert(_ context.Context, run *models.GenerationRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFor > 0 {
		s.failFor--
		return errors.New("insert failed")
	}
	s.runs = append(s.runs, *run)
	return nil
}

func (s *stubRunLog) ListRecent(_ context.Context, limit int) ([]models.GenerationRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > len(s.runs) {
		limit = len(s.runs)
	}
	return append([]models.GenerationRun(nil), s.runs[:limit]...), nil
}

func (s *stubRunLog) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runs)
}

func TestUsageServiceAccumulatesAcrossRuns(t *testing.T) {
	store := NewMemoryUsageStore()
	runs := &stubRunLog{}
	svc := NewUsageService(store, runs, NewMetricsService(), nil)
	svc.Start(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Track(models.GenerationRun{Courses: "CS2114", TokensUsed: 50})
		}()
	}
	wg.Wait()
	svc.Stop()

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), summary.TotalTokens)
	assert.Equal(t, 20, runs.count())
}

func TestUsageServiceRecordReturnsRunningTotal(t *testing.T) {
	svc := NewUsageService(NewMemoryUsageStore(), nil, nil, nil)

	total, err := svc.Record(context.Background(), 120)
	require.NoError(t, err)
	assert.Equal(t, int64(120), total)

	total, err = svc.Record(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, int64(150), total)
}

func TestUsageServiceRetriesRunLogWithoutDoubleCounting(t *testing.T) {
	store := NewMemoryUsageStore()
	runs := &stubRunLog{failFor: 1}
	svc := newUsageService(store, runs, nil, nil, 10*time.Millisecond)
	svc.Start(context.Background())

	svc.Track(models.GenerationRun{Courses: "CS2114", TokensUsed: 75})

	require.Eventually(t, func() bool { return runs.count() == 1 }, time.Second, 5*time.Millisecond)
	svc.Stop()

	total, err := store.Total(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(75), total)
}

type flakyUsageStore struct {
	MemoryUsageStore
	mu      sync.Mutex
	calls   int
	failFor int
}

func (f *flakyUsageStore) Add(ctx context.Context, tokens int64) (int64, error) {
	f.mu.Lock()
	f.calls++
	if f.failFor > 0 {
		f.failFor--
		f.mu.Unlock()
		return 0, errors.New("redis: connection reset")
	}
	f.mu.Unlock()
	return f.MemoryUsageStore.Add(ctx, tokens)
}

func (f *flakyUsageStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestUsageServiceRetriesFailedRecord(t *testing.T) {
	store := &flakyUsageStore{failFor: 1}
	svc := newUsageService(store, nil, nil, nil, 10*time.Millisecond)
	svc.Start(context.Background())

	svc.Track(models.GenerationRun{Courses: "CS2114", TokensUsed: 1000})

	require.Eventually(t, func() bool { return store.callCount() == 2 }, time.Second, 5*time.Millisecond)
	svc.Stop()

	total, err := store.Total(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), total)
}

func TestUsageServiceRecordFailureThenRunLogFailureCountsOnce(t *testing.T) {
	store := &flakyUsageStore{failFor: 1}
	runs := &stubRunLog{failFor: 1}
	svc := newUsageService(store, runs, nil, nil, 10*time.Millisecond)
	svc.Start(context.Background())

	svc.Track(models.GenerationRun{Courses: "CS2114", TokensUsed: 40})

	require.Eventually(t, func() bool { return runs.count() == 1 }, time.Second, 5*time.Millisecond)
	svc.Stop()

	total, err := store.Total(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(40), total)
	assert.Equal(t, 2, store.callCount())
}

func TestUsageServiceTrackBeforeStartIsDropped(t *testing.T) {
	store := NewMemoryUsageStore()
	svc := NewUsageService(store, nil, nil, nil)

	svc.Track(models.GenerationRun{TokensUsed: 10})

	total, err := store.Total(context.Background())
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestUsageServiceRecentRunsWithoutLog(t *testing.T) {
	svc := NewUsageService(NewMemoryUsageStore(), nil, nil, nil)
	runs, err := svc.RecentRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
