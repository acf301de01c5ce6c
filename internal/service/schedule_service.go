package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/unischeduler-api/internal/dto"
	"github.com/noah-isme/unischeduler-api/internal/models"
	appErrors "github.com/noah-isme/unischeduler-api/pkg/errors"
	"github.com/noah-isme/unischeduler-api/pkg/logger"
	"github.com/noah-isme/unischeduler-api/pkg/timetable"
)

type sectionResolver interface {
	Sections(ctx context.Context, course models.CourseRequest, term string) ([]models.Section, error)
}

type scheduleRunner interface {
	Run(ctx context.Context, req models.GenerationRequest) (*RunResult, error)
}

type usageTracker interface {
	Track(run models.GenerationRun)
}

// ScheduleService generates schedules and validates submitted ones.
type ScheduleService struct {
	sections  sectionResolver
	runner    scheduleRunner
	usage     usageTracker
	validator *validator.Validate
	minGap    int
	logger    *zap.Logger
}

// NewScheduleService wires the generation pipeline. usage may be nil.
func NewScheduleService(sections sectionResolver, runner scheduleRunner, usage usageTracker, validate *validator.Validate, minGapMinutes int, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if minGapMinutes <= 0 {
		minGapMinutes = timetable.DefaultMinGapMinutes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{
		sections:  sections,
		runner:    runner,
		usage:     usage,
		validator: validate,
		minGap:    minGapMinutes,
		logger:    logger,
	}
}

// Generate resolves the section table of every requested course and runs the
// generate-and-validate loop. An empty class list means no valid schedule was
// found within the attempt budget.
func (s *ScheduleService) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.ScheduleResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule generation payload")
	}
	keys, err := uniqueCourseKeys(req.Courses)
	if err != nil {
		return nil, err
	}

	genReq := models.GenerationRequest{Preferences: req.Preferences}
	for _, course := range req.Courses {
		sections, err := s.sections.Sections(ctx, course, req.TermYear)
		if err != nil {
			if ctx.Err() != nil {
				return nil, appErrors.Wrap(ctx.Err(), appErrors.ErrTimeout.Code, appErrors.ErrTimeout.Status, appErrors.ErrTimeout.Message)
			}
			return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, fmt.Sprintf("failed to load sections for %s", course.Key()))
		}
		if len(sections) == 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("no sections offered for %s in term %s", course.Key(), req.TermYear))
		}
		genReq.Courses = append(genReq.Courses, models.CourseSections{Course: course, Sections: sections})
	}

	result, err := s.runner.Run(ctx, genReq)
	if result != nil {
		s.track(req, keys, result)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, appErrors.Wrap(err, appErrors.ErrTimeout.Code, appErrors.ErrTimeout.Status, appErrors.ErrTimeout.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "schedule generation failed")
	}

	logger.WithContext(ctx, s.logger).Info("schedule generated",
		zap.Strings("courses", keys),
		zap.String("outcome", result.Outcome),
		zap.Int("attempts", result.Attempts),
		zap.Int("classes", len(result.Blocks)),
	)
	return &dto.ScheduleResponse{Classes: dto.ClassesFromBlocks(result.Blocks)}, nil
}

// Validate runs the deterministic checks against a caller-supplied schedule.
// Rejections are reported in the verdict, not as errors.
func (s *ScheduleService) Validate(_ context.Context, req dto.ValidateScheduleRequest) (*dto.ValidationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule validation payload")
	}
	keys, err := uniqueCourseKeys(req.Courses)
	if err != nil {
		return nil, err
	}

	candidate, err := timetable.DecodeCandidate(string(req.Schedule))
	if err != nil {
		return &dto.ValidationResponse{
			Verdict: models.Reject(models.ReasonMalformed, err.Error()),
			Classes: []dto.ClassEntry{},
		}, nil
	}

	gap := s.minGap
	if req.MinGapMinutes != nil {
		gap = *req.MinGapMinutes
	}
	verdict := timetable.Validator{MinGapMinutes: gap}.Validate(timetable.CourseSet(keys...), nil, candidate.Blocks)
	return &dto.ValidationResponse{Verdict: verdict, Classes: dto.ClassesFromBlocks(candidate.Blocks)}, nil
}

func (s *ScheduleService) track(req dto.GenerateScheduleRequest, keys []string, result *RunResult) {
	if s.usage == nil {
		return
	}
	run := models.GenerationRun{
		Courses:    strings.Join(keys, ","),
		Classes:    len(result.Blocks),
		Attempts:   result.Attempts,
		TokensUsed: result.TokensUsed,
	}
	if req.Email != "" {
		email := req.Email
		run.Email = &email
	}
	s.usage.Track(run)
}

func uniqueCourseKeys(courses []models.CourseRequest) ([]string, error) {
	seen := make(map[string]struct{}, len(courses))
	keys := make([]string, 0, len(courses))
	for _, course := range courses {
		key := course.Key()
		if _, dup := seen[key]; dup {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("course %s requested more than once", key))
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return keys, nil
}
