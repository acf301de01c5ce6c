package timetable

import "github.com/noah-isme/unischeduler-api/internal/models"

// Decision is the orchestrator's next step after validating an attempt.
type Decision int

// Possible decisions.
const (
	DecisionAccept Decision = iota
	DecisionRetry
	DecisionExhaust
)

// String returns the decision name used in logs and metrics.
func (d Decision) String() string {
	switch d {
	case DecisionAccept:
		return "accept"
	case DecisionRetry:
		return "retry"
	case DecisionExhaust:
		return "exhaust"
	default:
		return "unknown"
	}
}

// Decide maps a verdict to the next step. attempts is the number of
// generation attempts already made, including the one just validated.
func Decide(verdict models.Verdict, attempts, maxAttempts int) Decision {
	if verdict.Accepted {
		return DecisionAccept
	}
	if attempts < maxAttempts {
		return DecisionRetry
	}
	return DecisionExhaust
}

// Validator runs the hard-constraint checks in order: completeness, section
// integrity, then the overlap scan.
type Validator struct {
	MinGapMinutes int
}

// Validate checks a non-empty candidate. sections may be nil.
func (v Validator) Validate(requested map[string]struct{}, sections []models.Section, blocks []models.TimeBlock) models.Verdict {
	if verdict := CheckCompleteness(requested, blocks); !verdict.Accepted {
		return verdict
	}
	if verdict := CheckSections(sections, blocks); !verdict.Accepted {
		return verdict
	}
	return DetectOverlap(blocks, v.MinGapMinutes)
}
