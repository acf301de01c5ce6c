package models

import "strings"

// Day is a single-letter weekday code.
type Day byte

// Weekdays recognised by the timetable, in scan order.
const (
	Monday    Day = 'M'
	Tuesday   Day = 'T'
	Wednesday Day = 'W'
	Thursday  Day = 'R'
	Friday    Day = 'F'
)

// Weekdays lists the schedulable days in calendar order.
var Weekdays = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

// String renders the day letter.
func (d Day) String() string {
	return string(rune(d))
}

// ParseDay reports whether b is a known day letter.
func ParseDay(b byte) (Day, bool) {
	switch Day(b) {
	case Monday, Tuesday, Wednesday, Thursday, Friday:
		return Day(b), true
	}
	return 0, false
}

// CourseRequest is one course the student wants on the schedule.
type CourseRequest struct {
	Department         string `json:"department" validate:"required,max=8"`
	Number             string `json:"number" validate:"required,max=8"`
	PreferredProfessor string `json:"professor"`
}

// Key returns the normalized course key (department+number).
func (c CourseRequest) Key() string {
	return NormalizeCourseKey(c.Department + c.Number)
}

// NormalizeCourseKey strips separators and upper-cases a course code so that
// "CS-2114", "cs 2114" and "CS2114" compare equal.
func NormalizeCourseKey(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToUpper(raw) {
		switch r {
		case '-', ' ', '\t', '_':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Meeting is one days/time/location row of a section.
type Meeting struct {
	Days      string `json:"days"`
	BeginTime string `json:"beginTime"`
	EndTime   string `json:"endTime"`
	Location  string `json:"location"`
}

// Section is one row of the registration timetable for a course.
type Section struct {
	CRN          string    `json:"crn"`
	Course       string    `json:"course"`
	Title        string    `json:"title"`
	ScheduleType string    `json:"scheduleType"`
	Modality     string    `json:"modality"`
	CreditHours  string    `json:"creditHours"`
	Capacity     string    `json:"capacity"`
	Instructor   string    `json:"instructor"`
	Meetings     []Meeting `json:"meetings"`
	ExamCode     string    `json:"examCode"`
}

// CourseKey returns the normalized key of the section's course.
func (s Section) CourseKey() string {
	return NormalizeCourseKey(s.Course)
}

// CourseSections pairs a requested course with its available sections.
type CourseSections struct {
	Course   CourseRequest
	Sections []Section
}

// GenerationRequest is the structured context handed to a generator.
type GenerationRequest struct {
	Courses     []CourseSections
	Preferences string
}

// RequestedKeys returns the requested course key set.
func (r GenerationRequest) RequestedKeys() map[string]struct{} {
	keys := make(map[string]struct{}, len(r.Courses))
	for _, c := range r.Courses {
		keys[c.Course.Key()] = struct{}{}
	}
	return keys
}

// SectionTable flattens the sections of every requested course.
func (r GenerationRequest) SectionTable() []Section {
	var out []Section
	for _, c := range r.Courses {
		out = append(out, c.Sections...)
	}
	return out
}
