package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/noah-isme/unischeduler-api/internal/models"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
	resp     *genai.GenerateContentResponse
	err      error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func textResponse(text string, tokens int32) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates:    []*genai.Candidate{{Content: genai.NewContentFromText(text, genai.RoleModel)}},
		UsageMetadata: &genai.GenerateContentResponseUsageMetadata{TotalTokenCount: tokens},
	}
}

func TestGeminiGeneratorGenerate(t *testing.T) {
	fake := &fakeModels{resp: textResponse(`{"classes":[]}`, 321)}
	gen := newGeminiGenerator(fake, GeminiConfig{MinGapMinutes: 10}, nil)

	raw, err := gen.Generate(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"classes":[]}`, raw.Text)
	assert.Equal(t, int64(321), raw.TokensUsed)

	assert.Equal(t, DefaultModel, fake.model)
	require.NotNil(t, fake.config)
	assert.Equal(t, "application/json", fake.config.ResponseMIMEType)
	require.NotNil(t, fake.config.ResponseSchema)
	assert.Contains(t, fake.config.ResponseSchema.Required, "classes")
	require.NotNil(t, fake.config.SystemInstruction)
	assert.Contains(t, fake.config.SystemInstruction.Parts[0].Text, "at least 10 minutes")

	require.Len(t, fake.contents, 1)
	prompt := fake.contents[0].Parts[0].Text
	assert.Contains(t, prompt, "<course_number>CS2114</course_number>")
	assert.Contains(t, prompt, "13466")
}

func TestGeminiGeneratorTransportError(t *testing.T) {
	fake := &fakeModels{err: errors.New("quota exceeded")}
	gen := newGeminiGenerator(fake, GeminiConfig{Model: "gemini-custom"}, nil)

	_, err := gen.Generate(context.Background(), sampleRequest())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "quota exceeded"))
	assert.Equal(t, "gemini-custom", fake.model)
}

func TestNewGeminiGeneratorRequiresKey(t *testing.T) {
	_, err := NewGeminiGenerator(context.Background(), GeminiConfig{}, nil)
	assert.Error(t, err)
}

func sampleRequest() models.GenerationRequest {
	return models.GenerationRequest{
		Preferences: "mornings off",
		Courses: []models.CourseSections{{
			Course: models.CourseRequest{Department: "CS", Number: "2114", PreferredProfessor: "Smith"},
			Sections: []models.Section{{
				CRN:          "13466",
				Course:       "CS-2114",
				Title:        "Software Design",
				ScheduleType: "L",
				Instructor:   "Smith",
				Meetings: []models.Meeting{
					{Days: "M W F", BeginTime: "9:05AM", EndTime: "9:55AM", Location: "MCB 100"},
					{Days: "R", BeginTime: "2:00PM", EndTime: "3:50PM", Location: "MCB 200"},
				},
			}},
		}},
	}
}
