package timetable

import (
	"fmt"
	"sort"

	"github.com/noah-isme/unischeduler-api/internal/models"
)

// DefaultMinGapMinutes is the minimum break required between two classes on
// the same day.
const DefaultMinGapMinutes = 5

type occurrence struct {
	day    models.Day
	start  int
	end    int
	crn    string
	course string
}

// DetectOverlap expands blocks into per-day occurrences and scans each day in
// start order. Touching intervals count as an overlap; a positive gap smaller
// than minGap is GAP_TOO_SMALL. Equal starts are ordered by CRN, then end.
func DetectOverlap(blocks []models.TimeBlock, minGap int) models.Verdict {
	if minGap < 0 {
		minGap = 0
	}

	byDay := make(map[models.Day][]occurrence)
	for _, block := range blocks {
		if block.Arranged {
			continue
		}
		if block.StartMinute < 0 || block.EndMinute > MinutesPerDay || block.StartMinute >= block.EndMinute {
			return models.Reject(models.ReasonMalformed,
				fmt.Sprintf("crn %s (%s) has invalid interval %d-%d", block.CRN, block.CourseKey, block.StartMinute, block.EndMinute))
		}
		for _, day := range block.Days {
			byDay[day] = append(byDay[day], occurrence{
				day:    day,
				start:  block.StartMinute,
				end:    block.EndMinute,
				crn:    block.CRN,
				course: block.CourseKey,
			})
		}
	}

	for _, day := range dayOrder(byDay) {
		items := byDay[day]
		if len(items) < 2 {
			continue
		}
		sort.Slice(items, func(i, j int) bool {
			if items[i].start != items[j].start {
				return items[i].start < items[j].start
			}
			if items[i].crn != items[j].crn {
				return items[i].crn < items[j].crn
			}
			return items[i].end < items[j].end
		})

		for i := 1; i < len(items); i++ {
			prev, cur := items[i-1], items[i]
			if prev.end >= cur.start {
				return models.Reject(models.ReasonOverlap,
					fmt.Sprintf("%s: %s (crn %s, %s) overlaps %s (crn %s, %s)",
						day, prev.course, prev.crn, FormatRange(prev.start, prev.end),
						cur.course, cur.crn, FormatRange(cur.start, cur.end)))
			}
			if gap := cur.start - prev.end; gap < minGap {
				return models.Reject(models.ReasonGapTooSmall,
					fmt.Sprintf("%s: only %d minutes between %s (crn %s) and %s (crn %s), need %d",
						day, gap, prev.course, prev.crn, cur.course, cur.crn, minGap))
			}
		}
	}

	return models.Accept()
}

// dayOrder returns weekdays first in calendar order, then any other day codes.
func dayOrder(byDay map[models.Day][]occurrence) []models.Day {
	order := make([]models.Day, 0, len(byDay))
	known := make(map[models.Day]bool, len(models.Weekdays))
	for _, day := range models.Weekdays {
		known[day] = true
		if _, ok := byDay[day]; ok {
			order = append(order, day)
		}
	}
	var extra []models.Day
	for day := range byDay {
		if !known[day] {
			extra = append(extra, day)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(order, extra...)
}

// FormatRange renders minutes as "9:30AM - 10:45AM".
func FormatRange(start, end int) string {
	return FormatClock(start) + " - " + FormatClock(end)
}

// FormatClock renders a minute of day in 12-hour form.
func FormatClock(minute int) string {
	hour, min := minute/60, minute%60
	marker := "AM"
	if hour >= 12 {
		marker = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d%s", hour, min, marker)
}
