package timetable

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/unischeduler-api/internal/models"
)

func sectionTable() []models.Section {
	return []models.Section{
		{
			CRN:    "13466",
			Course: "CS-2114",
			Meetings: []models.Meeting{
				{Days: "M W F", BeginTime: "9:05AM", EndTime: "9:55AM"},
			},
		},
		{
			CRN:    "13470",
			Course: "CS-2114",
			Meetings: []models.Meeting{
				{Days: "T R", BeginTime: "2:00PM", EndTime: "3:15PM"},
				{Days: "W", BeginTime: "4:00PM", EndTime: "5:50PM"},
			},
		},
		{
			CRN:      "20001",
			Course:   "ENGL-1106",
			Meetings: []models.Meeting{{Days: "(ARR)", BeginTime: "-----", EndTime: "-----"}},
		},
	}
}

func TestCheckSectionsAcceptsFullSection(t *testing.T) {
	blocks := []models.TimeBlock{
		block("13470", "CS2114", "TR", 840, 915),
		block("13470", "CS2114", "W", 960, 1070),
	}
	assert.True(t, CheckSections(sectionTable(), blocks).Accepted)
}

func TestCheckSectionsReasons(t *testing.T) {
	cases := []struct {
		name   string
		blocks []models.TimeBlock
		want   models.VerdictReason
	}{
		{
			name:   "unknown crn",
			blocks: []models.TimeBlock{block("99999", "CS2114", "MWF", 545, 595)},
			want:   models.ReasonUnknownSection,
		},
		{
			name:   "crn of another course",
			blocks: []models.TimeBlock{block("20001", "CS2114", "MWF", 545, 595)},
			want:   models.ReasonUnknownSection,
		},
		{
			name:   "meeting not offered",
			blocks: []models.TimeBlock{block("13466", "CS2114", "MWF", 600, 650)},
			want:   models.ReasonUnknownSection,
		},
		{
			name: "two sections of one course",
			blocks: []models.TimeBlock{
				block("13466", "CS2114", "MWF", 545, 595),
				block("13470", "CS2114", "TR", 840, 915),
			},
			want: models.ReasonMultipleSections,
		},
		{
			name:   "lab meeting dropped",
			blocks: []models.TimeBlock{block("13470", "CS2114", "TR", 840, 915)},
			want:   models.ReasonPartialSection,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict := CheckSections(sectionTable(), tc.blocks)
			assert.Equal(t, tc.want, verdict.Reason, verdict.Detail)
		})
	}
}

func TestCheckSectionsIgnoresArrangedAndUnknownCourses(t *testing.T) {
	blocks := []models.TimeBlock{
		{CRN: "20001", CourseKey: "ENGL1106", Arranged: true},
		block("55555", "PHYS2305", "MWF", 700, 750),
	}
	assert.True(t, CheckSections(sectionTable(), blocks).Accepted)
}

func TestCheckSectionsWithoutTable(t *testing.T) {
	blocks := []models.TimeBlock{block("1", "CS2114", "M", 540, 600)}
	assert.True(t, CheckSections(nil, blocks).Accepted)
}
