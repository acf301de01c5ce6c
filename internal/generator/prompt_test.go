package generator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/unischeduler-api/pkg/timetable"
)

func TestBuildPrompt(t *testing.T) {
	prompt, err := BuildPrompt(sampleRequest(), nil)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(prompt, "<preferences_by_user>\nmornings off\n</preferences_by_user>\n"))
	assert.Contains(t, prompt, "<professor_preference>Smith</professor_preference>")
	assert.Contains(t, prompt, "CRN,Course,Title,Schedule Type")
	assert.Contains(t, prompt, "13466,CS-2114,Software Design,L,")
	assert.Contains(t, prompt, "13466,CS-2114,Software Design,"+additionalTimesLabel+",")
}

func TestSectionDatasetOneRowPerMeeting(t *testing.T) {
	data := SectionDataset(sampleRequest().Courses[0].Sections)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "L", data.Rows[0]["Schedule Type"])
	assert.Equal(t, additionalTimesLabel, data.Rows[1]["Schedule Type"])
	assert.Equal(t, "2:00PM", data.Rows[1]["Begin Time"])
}

func TestInstructionsMentionSentinelAndGap(t *testing.T) {
	text := Instructions(5)
	assert.Contains(t, text, timetable.NoValidScheduleSentinel)
	assert.Contains(t, text, "at least 5 minutes")
}
