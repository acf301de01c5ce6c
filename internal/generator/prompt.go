package generator

import (
	"fmt"
	"strings"

	"github.com/noah-isme/unischeduler-api/internal/models"
	"github.com/noah-isme/unischeduler-api/pkg/export"
	"github.com/noah-isme/unischeduler-api/pkg/timetable"
)

const additionalTimesLabel = "* Additional Times *"

// sectionHeaders is the column order of the section table handed to the model.
var sectionHeaders = []string{
	"CRN", "Course", "Title", "Schedule Type", "Modality", "Credit Hours", "Capacity",
	"Instructor", "Days", "Begin Time", "End Time", "Location", "Exam Code",
}

const instructions = `You build weekly university timetables.
Pick exactly one CRN for every required course and include every meeting of that CRN,
including rows labelled "` + additionalTimesLabel + `".
No two classes may overlap, and consecutive classes on the same day need at least %d minutes between them.
Course numbers must be DEPARTMENTNUMBER without separators, for example CS2114.
Write one entry per meeting row, days as letters from MTWRF, time as "9:30AM - 10:45AM".
Apply the student's preferences only when every rule above holds.
If no valid combination exists answer exactly ` + timetable.NoValidScheduleSentinel + `.`

// Instructions returns the fixed system instruction for a given spacing rule.
func Instructions(minGapMinutes int) string {
	return fmt.Sprintf(instructions, minGapMinutes)
}

// BuildPrompt renders the structured request: preferences, then for each
// course its key, professor preference and section table as CSV.
func BuildPrompt(req models.GenerationRequest, renderer *export.CSVExporter) (string, error) {
	if renderer == nil {
		renderer = export.NewCSVExporter()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<preferences_by_user>\n%s\n</preferences_by_user>\n", strings.TrimSpace(req.Preferences))
	for _, course := range req.Courses {
		table, err := renderer.Render(SectionDataset(course.Sections))
		if err != nil {
			return "", fmt.Errorf("render sections for %s: %w", course.Course.Key(), err)
		}
		fmt.Fprintf(&b, "<course_number>%s</course_number>\n", course.Course.Key())
		fmt.Fprintf(&b, "<professor_preference>%s</professor_preference>\n", strings.TrimSpace(course.Course.PreferredProfessor))
		b.WriteString("<timetable_of_classes_for_the_course>\n")
		b.Write(table)
		b.WriteString("</timetable_of_classes_for_the_course>\n")
	}
	return b.String(), nil
}

// SectionDataset flattens sections into one row per meeting. Meetings after
// the first are labelled as additional times of the same CRN.
func SectionDataset(sections []models.Section) export.Dataset {
	data := export.Dataset{Headers: sectionHeaders}
	for _, section := range sections {
		meetings := section.Meetings
		if len(meetings) == 0 {
			meetings = []models.Meeting{{}}
		}
		for i, meeting := range meetings {
			scheduleType := section.ScheduleType
			if i > 0 {
				scheduleType = additionalTimesLabel
			}
			data.Rows = append(data.Rows, map[string]string{
				"CRN":           section.CRN,
				"Course":        section.Course,
				"Title":         section.Title,
				"Schedule Type": scheduleType,
				"Modality":      section.Modality,
				"Credit Hours":  section.CreditHours,
				"Capacity":      section.Capacity,
				"Instructor":    section.Instructor,
				"Days":          meeting.Days,
				"Begin Time":    meeting.BeginTime,
				"End Time":      meeting.EndTime,
				"Location":      meeting.Location,
				"Exam Code":     section.ExamCode,
			})
		}
	}
	return data
}
