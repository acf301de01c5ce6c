package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/unischeduler-api/internal/generator"
	"github.com/noah-isme/unischeduler-api/internal/models"
	"github.com/noah-isme/unischeduler-api/pkg/logger"
	"github.com/noah-isme/unischeduler-api/pkg/timetable"
)

// OrchestratorConfig bounds the retry loop.
type OrchestratorConfig struct {
	MaxAttempts   int
	MinGapMinutes int
	CallTimeout   time.Duration
}

type attemptObserver interface {
	ObserveGenerationAttempt(reason models.VerdictReason, duration time.Duration)
	ObserveGenerationOutcome(outcome string, attempts int)
}

// Outcome labels reported for a finished run.
const (
	OutcomeAccepted   = "accepted"
	OutcomeNoSolution = "no_solution"
	OutcomeExhausted  = "exhausted"
)

// RunResult is the terminal result of one orchestrated run. Blocks is empty
// when the generator reported no solution or the attempt budget ran out.
type RunResult struct {
	Blocks     []models.TimeBlock
	Outcome    string
	Attempts   int
	TokensUsed int64
}

// Orchestrator drives a generator until a candidate passes validation or the
// attempt budget is spent. Each Run is independent; an Orchestrator holds no
// per-run state and may be shared across requests.
type Orchestrator struct {
	generator generator.Generator
	validator timetable.Validator
	cfg       OrchestratorConfig
	metrics   attemptObserver
	logger    *zap.Logger
}

// NewOrchestrator wires the retry loop.
func NewOrchestrator(gen generator.Generator, cfg OrchestratorConfig, metrics attemptObserver, logger *zap.Logger) *Orchestrator {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.MinGapMinutes <= 0 {
		cfg.MinGapMinutes = timetable.DefaultMinGapMinutes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		generator: gen,
		validator: timetable.Validator{MinGapMinutes: cfg.MinGapMinutes},
		cfg:       cfg,
		metrics:   metrics,
		logger:    logger,
	}
}

// Run executes GENERATING -> VALIDATING -> {ACCEPTED, RETRYING, EXHAUSTED}.
// Rejections never surface as errors; the only error is cancellation of ctx
// by the caller, which does not consume an attempt.
func (o *Orchestrator) Run(ctx context.Context, req models.GenerationRequest) (*RunResult, error) {
	requested := req.RequestedKeys()
	sections := req.SectionTable()
	result := &RunResult{}
	log := logger.WithContext(ctx, o.logger)

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		start := time.Now()
		candidate, verdict, tokens, err := o.attempt(ctx, req, requested, sections)
		result.TokensUsed += tokens
		if err != nil {
			return result, err
		}
		result.Attempts++
		o.observeAttempt(verdict.Reason, time.Since(start))

		if verdict.Accepted && candidate.Empty() {
			result.Outcome = OutcomeNoSolution
			o.finish(log, result)
			return result, nil
		}

		switch timetable.Decide(verdict, result.Attempts, o.cfg.MaxAttempts) {
		case timetable.DecisionAccept:
			result.Blocks = candidate.Blocks
			result.Outcome = OutcomeAccepted
			o.finish(log, result)
			return result, nil
		case timetable.DecisionRetry:
			log.Info("candidate rejected, retrying",
				zap.Int("attempt", result.Attempts),
				zap.String("reason", string(verdict.Reason)),
				zap.String("detail", verdict.Detail),
			)
		default:
			log.Warn("attempt budget exhausted",
				zap.Int("attempts", result.Attempts),
				zap.String("last_reason", string(verdict.Reason)),
				zap.String("detail", verdict.Detail),
			)
			result.Outcome = OutcomeExhausted
			o.finish(log, result)
			return result, nil
		}
	}
}

// attempt performs one generation call and validates its output. A non-nil
// error is returned only when the caller's context was cancelled.
func (o *Orchestrator) attempt(ctx context.Context, req models.GenerationRequest, requested map[string]struct{}, sections []models.Section) (models.Candidate, models.Verdict, int64, error) {
	callCtx := ctx
	if o.cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, o.cfg.CallTimeout)
		defer cancel()
	}

	raw, err := o.generator.Generate(callCtx, req)
	if err != nil {
		if ctx.Err() != nil {
			return models.Candidate{}, models.Verdict{}, 0, ctx.Err()
		}
		detail := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			detail = "generator call timed out"
		}
		return models.Candidate{}, models.Reject(models.ReasonGeneratorUnavailable, detail), 0, nil
	}

	candidate, err := timetable.DecodeCandidate(raw.Text)
	if err != nil {
		return models.Candidate{}, models.Reject(models.ReasonMalformed, err.Error()), raw.TokensUsed, nil
	}
	if candidate.Empty() {
		return candidate, models.Accept(), raw.TokensUsed, nil
	}
	return candidate, o.validator.Validate(requested, sections, candidate.Blocks), raw.TokensUsed, nil
}

func (o *Orchestrator) observeAttempt(reason models.VerdictReason, d time.Duration) {
	if o.metrics != nil {
		o.metrics.ObserveGenerationAttempt(reason, d)
	}
}

func (o *Orchestrator) finish(log *zap.Logger, result *RunResult) {
	if o.metrics != nil {
		o.metrics.ObserveGenerationOutcome(result.Outcome, result.Attempts)
	}
	log.Info("schedule generation finished",
		zap.String("outcome", result.Outcome),
		zap.Int("attempts", result.Attempts),
		zap.Int("classes", len(result.Blocks)),
		zap.Int64("tokens", result.TokensUsed),
	)
}
