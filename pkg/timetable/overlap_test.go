package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/unischeduler-api/internal/models"
)

func block(crn, course, days string, start, end int) models.TimeBlock {
	b := models.TimeBlock{CRN: crn, CourseKey: course, StartMinute: start, EndMinute: end}
	for i := 0; i < len(days); i++ {
		b.Days = append(b.Days, models.Day(days[i]))
	}
	return b
}

func TestDetectOverlapGapRules(t *testing.T) {
	cases := []struct {
		name   string
		blocks []models.TimeBlock
		want   models.VerdictReason
	}{
		{
			name:   "touching blocks overlap",
			blocks: []models.TimeBlock{block("1", "CS2114", "M", 540, 600), block("2", "MATH1226", "M", 600, 650)},
			want:   models.ReasonOverlap,
		},
		{
			name:   "six minute gap passes",
			blocks: []models.TimeBlock{block("1", "CS2114", "M", 540, 600), block("2", "MATH1226", "M", 606, 650)},
			want:   models.ReasonOK,
		},
		{
			name:   "three minute gap too small",
			blocks: []models.TimeBlock{block("1", "CS2114", "M", 540, 600), block("2", "MATH1226", "M", 603, 650)},
			want:   models.ReasonGapTooSmall,
		},
		{
			name:   "exact minimum gap passes",
			blocks: []models.TimeBlock{block("1", "CS2114", "M", 540, 600), block("2", "MATH1226", "M", 605, 650)},
			want:   models.ReasonOK,
		},
		{
			name:   "intersecting blocks overlap",
			blocks: []models.TimeBlock{block("1", "CS2114", "TR", 540, 615), block("2", "MATH1226", "R", 600, 650)},
			want:   models.ReasonOverlap,
		},
		{
			name:   "different days never conflict",
			blocks: []models.TimeBlock{block("1", "CS2114", "MWF", 540, 600), block("2", "MATH1226", "TR", 540, 600)},
			want:   models.ReasonOK,
		},
		{
			name:   "unsorted input is sorted per day",
			blocks: []models.TimeBlock{block("2", "MATH1226", "W", 700, 750), block("1", "CS2114", "W", 540, 600), block("3", "PHYS2305", "W", 610, 690)},
			want:   models.ReasonOK,
		},
		{
			name:   "inverted interval is malformed",
			blocks: []models.TimeBlock{block("1", "CS2114", "M", 600, 540)},
			want:   models.ReasonMalformed,
		},
		{
			name:   "zero length interval is malformed",
			blocks: []models.TimeBlock{block("1", "CS2114", "M", 600, 600)},
			want:   models.ReasonMalformed,
		},
		{
			name:   "interval past midnight is malformed",
			blocks: []models.TimeBlock{block("1", "CS2114", "M", 1400, 1500)},
			want:   models.ReasonMalformed,
		},
		{
			name:   "single block per day",
			blocks: []models.TimeBlock{block("1", "CS2114", "MWF", 540, 600)},
			want:   models.ReasonOK,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict := DetectOverlap(tc.blocks, DefaultMinGapMinutes)
			assert.Equal(t, tc.want, verdict.Reason, verdict.Detail)
			assert.Equal(t, tc.want == models.ReasonOK, verdict.Accepted)
		})
	}
}

func TestDetectOverlapSkipsArrangedBlocks(t *testing.T) {
	online := models.TimeBlock{CRN: "9", CourseKey: "ENGL1106", Arranged: true}
	verdict := DetectOverlap([]models.TimeBlock{block("1", "CS2114", "M", 540, 600), online}, DefaultMinGapMinutes)
	assert.True(t, verdict.Accepted)
}

func TestDetectOverlapMalformedBeforeOverlap(t *testing.T) {
	blocks := []models.TimeBlock{
		block("1", "CS2114", "M", 540, 600),
		block("2", "MATH1226", "M", 550, 620),
		block("3", "PHYS2305", "F", 700, 650),
	}
	verdict := DetectOverlap(blocks, DefaultMinGapMinutes)
	assert.Equal(t, models.ReasonMalformed, verdict.Reason)
}

func TestDetectOverlapTieBreakIsDeterministic(t *testing.T) {
	a := block("20000", "CS2114", "M", 540, 600)
	b := block("10000", "MATH1226", "M", 540, 590)

	first := DetectOverlap([]models.TimeBlock{a, b}, DefaultMinGapMinutes)
	second := DetectOverlap([]models.TimeBlock{b, a}, DefaultMinGapMinutes)

	assert.Equal(t, models.ReasonOverlap, first.Reason)
	assert.Equal(t, first.Detail, second.Detail)
	assert.Contains(t, first.Detail, "MATH1226 (crn 10000")
}

func TestDetectOverlapCustomGap(t *testing.T) {
	blocks := []models.TimeBlock{block("1", "CS2114", "T", 540, 600), block("2", "MATH1226", "T", 610, 650)}
	assert.True(t, DetectOverlap(blocks, 10).Accepted)
	assert.Equal(t, models.ReasonGapTooSmall, DetectOverlap(blocks, 15).Reason)
}
