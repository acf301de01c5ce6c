package timetable

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/noah-isme/unischeduler-api/internal/models"
)

// NoValidScheduleSentinel is the generator's explicit "no solution" answer.
const NoValidScheduleSentinel = "NO_VALID_SCHEDULE_FOUND"

type wireDocument struct {
	Classes *[]wireClass `json:"classes"`
}

type wireClass struct {
	CRN           *string `json:"crn"`
	CourseNumber  *string `json:"courseNumber"`
	CourseName    *string `json:"courseName"`
	ProfessorName *string `json:"professorName"`
	Days          *string `json:"days"`
	Time          *string `json:"time"`
	Location      *string `json:"location"`
	IsLab         *bool   `json:"isLab"`
}

// DecodeCandidate validates a generator document of the form
// {"classes":[{crn, courseNumber, courseName, professorName, days, time, location, isLab?}]}
// into typed blocks. Any missing required field, unknown day letter or
// unparseable time range yields an error wrapping ErrMalformed.
func DecodeCandidate(text string) (models.Candidate, error) {
	body := stripCodeFence(strings.TrimSpace(text))
	if isSentinel(body) {
		return models.Candidate{NoSolution: true}, nil
	}
	if body == "" {
		return models.Candidate{}, fmt.Errorf("%w: empty generator response", ErrMalformed)
	}

	var doc wireDocument
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return models.Candidate{}, fmt.Errorf("%w: decode generator response: %v", ErrMalformed, err)
	}
	if doc.Classes == nil {
		return models.Candidate{}, fmt.Errorf("%w: response has no classes", ErrMalformed)
	}

	blocks := make([]models.TimeBlock, 0, len(*doc.Classes))
	for i, class := range *doc.Classes {
		block, err := decodeClass(class)
		if err != nil {
			return models.Candidate{}, fmt.Errorf("class %d: %w", i, err)
		}
		blocks = append(blocks, block)
	}
	return models.Candidate{Blocks: blocks}, nil
}

func decodeClass(class wireClass) (models.TimeBlock, error) {
	required := []struct {
		name  string
		value *string
	}{
		{"crn", class.CRN},
		{"courseNumber", class.CourseNumber},
		{"courseName", class.CourseName},
		{"professorName", class.ProfessorName},
		{"days", class.Days},
		{"time", class.Time},
		{"location", class.Location},
	}
	for _, field := range required {
		if field.value == nil {
			return models.TimeBlock{}, fmt.Errorf("%w: missing field %s", ErrMalformed, field.name)
		}
	}
	if strings.TrimSpace(*class.CRN) == "" || strings.TrimSpace(*class.CourseNumber) == "" {
		return models.TimeBlock{}, fmt.Errorf("%w: crn and courseNumber must not be empty", ErrMalformed)
	}

	block := models.TimeBlock{
		CRN:        strings.TrimSpace(*class.CRN),
		CourseKey:  models.NormalizeCourseKey(*class.CourseNumber),
		CourseName: strings.TrimSpace(*class.CourseName),
		Professor:  strings.TrimSpace(*class.ProfessorName),
		Location:   strings.TrimSpace(*class.Location),
		RawDays:    strings.TrimSpace(*class.Days),
		RawTime:    strings.TrimSpace(*class.Time),
	}
	if class.IsLab != nil {
		block.IsLab = *class.IsLab
	}

	if (block.RawDays != "" && IsArranged(block.RawDays)) || IsArrangedRange(block.RawTime) {
		block.Arranged = true
		return block, nil
	}

	days, err := ParseDays(block.RawDays)
	if err != nil {
		return models.TimeBlock{}, err
	}
	start, end, err := ParseRange(block.RawTime)
	if err != nil {
		return models.TimeBlock{}, err
	}
	block.Days = days
	block.StartMinute = start
	block.EndMinute = end
	return block, nil
}

// ParseDays reads a day string such as "MWF", "T R" or "m,w" into distinct
// day codes in the order given.
func ParseDays(raw string) ([]models.Day, error) {
	seen := make(map[models.Day]bool, 5)
	var days []models.Day
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		switch c {
		case ' ', ',', '/', '\t':
			continue
		}
		day, ok := models.ParseDay(c)
		if !ok {
			return nil, fmt.Errorf("%w: unknown day %q in %q", ErrMalformed, string(c), raw)
		}
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: no meeting days in %q", ErrMalformed, raw)
	}
	return days, nil
}

func isSentinel(body string) bool {
	return strings.Trim(body, "\"' \n") == NoValidScheduleSentinel
}

func stripCodeFence(body string) string {
	if !strings.HasPrefix(body, "```") {
		return body
	}
	body = strings.TrimPrefix(body, "```")
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(body), "```"))
}
