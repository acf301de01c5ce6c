package timetable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/unischeduler-api/internal/models"
)

type meetingKey struct {
	day   models.Day
	start int
	end   int
}

func (k meetingKey) String() string {
	return fmt.Sprintf("%s %s", k.day, FormatRange(k.start, k.end))
}

// CheckSections re-verifies candidate blocks against the scraped section
// table: every CRN must be offered for its course, a course may use only one
// CRN, and all timed meetings of a chosen CRN must be present. Courses absent
// from the table are not checked.
func CheckSections(sections []models.Section, blocks []models.TimeBlock) models.Verdict {
	if len(sections) == 0 {
		return models.Accept()
	}

	byCRN := make(map[string]models.Section, len(sections))
	covered := make(map[string]bool)
	for _, section := range sections {
		byCRN[section.CRN] = section
		covered[section.CourseKey()] = true
	}

	chosen := make(map[string]string)
	scheduled := make(map[string]map[meetingKey]bool)
	for _, block := range blocks {
		course := models.NormalizeCourseKey(block.CourseKey)
		if !covered[course] {
			continue
		}
		section, ok := byCRN[block.CRN]
		if !ok || section.CourseKey() != course {
			return models.Reject(models.ReasonUnknownSection, fmt.Sprintf("crn %s is not a section of %s", block.CRN, course))
		}
		if prev, ok := chosen[course]; ok && prev != block.CRN {
			return models.Reject(models.ReasonMultipleSections, fmt.Sprintf("%s scheduled with crn %s and %s", course, prev, block.CRN))
		}
		chosen[course] = block.CRN

		if scheduled[block.CRN] == nil {
			scheduled[block.CRN] = make(map[meetingKey]bool)
		}
		if block.Arranged {
			continue
		}
		for _, day := range block.Days {
			scheduled[block.CRN][meetingKey{day: day, start: block.StartMinute, end: block.EndMinute}] = true
		}
	}

	crns := make([]string, 0, len(chosen))
	for _, crn := range chosen {
		crns = append(crns, crn)
	}
	sort.Strings(crns)

	for _, crn := range crns {
		offered := sectionMeetings(byCRN[crn])
		for key := range scheduled[crn] {
			if !offered[key] {
				return models.Reject(models.ReasonUnknownSection, fmt.Sprintf("crn %s does not meet %s", crn, key))
			}
		}
		var missing []string
		for key := range offered {
			if !scheduled[crn][key] {
				missing = append(missing, key.String())
			}
		}
		if len(missing) > 0 {
			sort.Strings(missing)
			return models.Reject(models.ReasonPartialSection, fmt.Sprintf("crn %s is missing meetings: %s", crn, strings.Join(missing, "; ")))
		}
	}

	return models.Accept()
}

// sectionMeetings expands the timed meetings of a section. Meetings whose
// times cannot be parsed are skipped.
func sectionMeetings(section models.Section) map[meetingKey]bool {
	out := make(map[meetingKey]bool)
	for _, meeting := range section.Meetings {
		if IsArranged(meeting.Days) || IsArranged(meeting.BeginTime) {
			continue
		}
		start, err := ParseClock(meeting.BeginTime)
		if err != nil {
			continue
		}
		end, err := ParseClock(meeting.EndTime)
		if err != nil {
			continue
		}
		days, err := ParseDays(meeting.Days)
		if err != nil {
			continue
		}
		for _, day := range days {
			out[meetingKey{day: day, start: start, end: end}] = true
		}
	}
	return out
}
