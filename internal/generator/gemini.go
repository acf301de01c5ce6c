package generator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/noah-isme/unischeduler-api/internal/models"
	"github.com/noah-isme/unischeduler-api/pkg/export"
)

// DefaultModel is used when no model name is configured.
const DefaultModel = "gemini-2.0-flash-exp"

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig configures the Gemini adapter.
type GeminiConfig struct {
	APIKey        string
	Model         string
	MinGapMinutes int
}

// GeminiGenerator asks Gemini for a schedule using a JSON response schema.
type GeminiGenerator struct {
	models   contentGenerator
	model    string
	minGap   int
	renderer *export.CSVExporter
	logger   *zap.Logger
}

// NewGeminiGenerator creates a Gemini API client.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig, logger *zap.Logger) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return newGeminiGenerator(client.Models, cfg, logger), nil
}

func newGeminiGenerator(models contentGenerator, cfg GeminiConfig, logger *zap.Logger) *GeminiGenerator {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiGenerator{
		models:   models,
		model:    cfg.Model,
		minGap:   cfg.MinGapMinutes,
		renderer: export.NewCSVExporter(),
		logger:   logger,
	}
}

// Generate performs one generation call. Transport failures are returned as
// errors; the document itself is not inspected.
func (g *GeminiGenerator) Generate(ctx context.Context, req models.GenerationRequest) (*models.RawCandidate, error) {
	prompt, err := BuildPrompt(req, g.renderer)
	if err != nil {
		return nil, err
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(Instructions(g.minGap), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}

	raw := &models.RawCandidate{Text: resp.Text()}
	if resp.UsageMetadata != nil {
		raw.TokensUsed = int64(resp.UsageMetadata.TotalTokenCount)
	}
	g.logger.Debug("gemini response received", zap.String("model", g.model), zap.Int64("tokens", raw.TokensUsed), zap.Int("bytes", len(raw.Text)))
	return raw, nil
}

func responseSchema() *genai.Schema {
	str := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"classes": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"crn":           str(),
						"courseNumber":  str(),
						"courseName":    str(),
						"professorName": str(),
						"days":          str(),
						"time":          str(),
						"location":      str(),
						"isLab":         {Type: genai.TypeBoolean},
					},
					Required: []string{"crn", "courseNumber", "courseName", "professorName", "days", "time", "location"},
				},
			},
		},
		Required: []string{"classes"},
	}
}
