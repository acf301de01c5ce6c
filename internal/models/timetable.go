package models

// VerdictReason classifies the outcome of validating one candidate schedule.
type VerdictReason string

// Verdict reasons produced by the validation pipeline.
const (
	ReasonOK                   VerdictReason = "OK"
	ReasonMissingCourses       VerdictReason = "MISSING_COURSES"
	ReasonExtraCourses         VerdictReason = "EXTRA_COURSES"
	ReasonOverlap              VerdictReason = "OVERLAP"
	ReasonGapTooSmall          VerdictReason = "GAP_TOO_SMALL"
	ReasonMalformed            VerdictReason = "MALFORMED"
	ReasonUnknownSection       VerdictReason = "UNKNOWN_SECTION"
	ReasonMultipleSections     VerdictReason = "MULTIPLE_SECTIONS"
	ReasonPartialSection       VerdictReason = "PARTIAL_SECTION"
	ReasonGeneratorUnavailable VerdictReason = "GENERATOR_UNAVAILABLE"
)

// Verdict is the result of a single validation step.
type Verdict struct {
	Accepted bool          `json:"accepted"`
	Reason   VerdictReason `json:"reason"`
	Detail   string        `json:"detail,omitempty"`
}

// Accept returns the passing verdict.
func Accept() Verdict {
	return Verdict{Accepted: true, Reason: ReasonOK}
}

// Reject builds a failing verdict.
func Reject(reason VerdictReason, detail string) Verdict {
	return Verdict{Reason: reason, Detail: detail}
}

// TimeBlock is one contiguous meeting interval of a CRN on a set of weekdays.
// Arranged blocks (online/TBA) carry no days and are exempt from overlap checks.
type TimeBlock struct {
	CRN         string `json:"crn"`
	CourseKey   string `json:"courseKey"`
	CourseName  string `json:"courseName"`
	Professor   string `json:"professor"`
	Location    string `json:"location"`
	Days        []Day  `json:"days"`
	StartMinute int    `json:"startMinute"`
	EndMinute   int    `json:"endMinute"`
	IsLab       bool   `json:"isLab"`
	Arranged    bool   `json:"arranged"`

	// RawDays and RawTime keep the generator's original strings for display.
	RawDays string `json:"-"`
	RawTime string `json:"-"`
}

// Candidate is one decoded generation attempt. NoSolution marks the explicit
// "no valid schedule" sentinel.
type Candidate struct {
	Blocks     []TimeBlock
	NoSolution bool
}

// Empty reports whether the candidate is an accepted empty result.
func (c Candidate) Empty() bool {
	return c.NoSolution || len(c.Blocks) == 0
}

// RawCandidate is the untrusted document returned by a generator call.
type RawCandidate struct {
	Text       string
	TokensUsed int64
}
