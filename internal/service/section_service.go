package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/unischeduler-api/internal/models"
	appErrors "github.com/noah-isme/unischeduler-api/pkg/errors"
)

// SectionSource fetches the offered sections of one course for a term.
type SectionSource interface {
	FetchSections(ctx context.Context, department, number, term string) ([]models.Section, error)
}

// SectionCache abstracts persistence for cached section tables.
type SectionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

type sectionMetrics interface {
	RecordCacheOperation(hit bool, duration time.Duration)
	ObserveCacheWrite(duration time.Duration)
	ObserveScrape(duration time.Duration, err error)
}

// SectionService resolves section tables, reading through the cache when
// one is configured. Cache failures fall through to the source.
type SectionService struct {
	source  SectionSource
	cache   SectionCache
	ttl     time.Duration
	metrics sectionMetrics
	logger  *zap.Logger
}

// NewSectionService constructs the service. cache may be nil.
func NewSectionService(source SectionSource, cache SectionCache, ttl time.Duration, metrics sectionMetrics, logger *zap.Logger) *SectionService {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionService{source: source, cache: cache, ttl: ttl, metrics: metrics, logger: logger}
}

// Sections returns the sections of course for term.
func (s *SectionService) Sections(ctx context.Context, course models.CourseRequest, term string) ([]models.Section, error) {
	key := sectionCacheKey(term, course.Key())

	if s.cache != nil {
		var cached []models.Section
		start := time.Now()
		err := s.cache.Get(ctx, key, &cached)
		hit := err == nil
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(hit, time.Since(start))
		}
		if hit {
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("section cache get failed", zap.String("key", key), zap.Error(err))
		}
	}

	start := time.Now()
	sections, err := s.source.FetchSections(ctx, course.Department, course.Number, term)
	if s.metrics != nil {
		s.metrics.ObserveScrape(time.Since(start), err)
	}
	if err != nil {
		return nil, err
	}

	// An empty table may mean the timetable had a hiccup; don't pin it.
	if s.cache != nil && len(sections) > 0 {
		start = time.Now()
		if err := s.cache.Set(ctx, key, sections, s.ttl); err != nil {
			s.logger.Warn("section cache set failed", zap.String("key", key), zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.ObserveCacheWrite(time.Since(start))
		}
	}
	return sections, nil
}

func sectionCacheKey(term, courseKey string) string {
	return fmt.Sprintf("sections:%s:%s", term, courseKey)
}
