package dto

import (
	"encoding/json"
	"strings"

	"github.com/noah-isme/unischeduler-api/internal/models"
	"github.com/noah-isme/unischeduler-api/pkg/timetable"
)

// GenerateScheduleRequest asks for a conflict-free schedule covering every listed course.
type GenerateScheduleRequest struct {
	Courses     []models.CourseRequest `json:"courses" validate:"required,min=1,max=12,dive"`
	Preferences string                 `json:"preferences" validate:"max=4000"`
	TermYear    string                 `json:"term_year" validate:"required,numeric,len=6"`
	Email       string                 `json:"email" validate:"omitempty,email"`
}

// ValidateScheduleRequest checks an existing schedule document against the requested courses.
type ValidateScheduleRequest struct {
	Courses       []models.CourseRequest `json:"courses" validate:"required,min=1,dive"`
	Schedule      json.RawMessage        `json:"schedule" validate:"required"`
	MinGapMinutes *int                   `json:"minGapMinutes" validate:"omitempty,min=0,max=120"`
}

// ClassEntry is one time block in the generator's wire shape.
type ClassEntry struct {
	CRN           string `json:"crn"`
	CourseNumber  string `json:"courseNumber"`
	CourseName    string `json:"courseName"`
	ProfessorName string `json:"professorName"`
	Days          string `json:"days"`
	Time          string `json:"time"`
	Location      string `json:"location"`
	IsLab         bool   `json:"isLab"`
	StartMinute   int    `json:"startMinute,omitempty"`
	EndMinute     int    `json:"endMinute,omitempty"`
}

// ScheduleResponse carries the accepted schedule; an empty list means no valid schedule was found.
type ScheduleResponse struct {
	Classes []ClassEntry `json:"classes"`
}

// ValidationResponse reports the verdict for a submitted schedule.
type ValidationResponse struct {
	Verdict models.Verdict `json:"verdict"`
	Classes []ClassEntry   `json:"classes"`
}

// ClassesFromBlocks converts validated blocks back into the wire shape.
func ClassesFromBlocks(blocks []models.TimeBlock) []ClassEntry {
	classes := make([]ClassEntry, 0, len(blocks))
	for _, block := range blocks {
		entry := ClassEntry{
			CRN:           block.CRN,
			CourseNumber:  block.CourseKey,
			CourseName:    block.CourseName,
			ProfessorName: block.Professor,
			Days:          block.RawDays,
			Time:          block.RawTime,
			Location:      block.Location,
			IsLab:         block.IsLab,
		}
		if !block.Arranged {
			entry.StartMinute = block.StartMinute
			entry.EndMinute = block.EndMinute
			if entry.Days == "" {
				entry.Days = joinDays(block.Days)
			}
			if entry.Time == "" {
				entry.Time = timetable.FormatRange(block.StartMinute, block.EndMinute)
			}
		}
		classes = append(classes, entry)
	}
	return classes
}

func joinDays(days []models.Day) string {
	var b strings.Builder
	for _, day := range days {
		b.WriteByte(byte(day))
	}
	return b.String()
}
