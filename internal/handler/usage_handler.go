package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/unischeduler-api/internal/models"
	appErrors "github.com/noah-isme/unischeduler-api/pkg/errors"
	"github.com/noah-isme/unischeduler-api/pkg/response"
)

const maxRecentRuns = 100

type usageReader interface {
	Summary(ctx context.Context) (*models.UsageSummary, error)
	RecentRuns(ctx context.Context, limit int) ([]models.GenerationRun, error)
}

// UsageHandler exposes generator token accounting.
type UsageHandler struct {
	service usageReader
}

// NewUsageHandler constructs the handler.
func NewUsageHandler(svc usageReader) *UsageHandler {
	return &UsageHandler{service: svc}
}

// Summary godoc
// @Summary Running generator token total
// @Tags Usage
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /usage [get]
func (h *UsageHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// Runs godoc
// @Summary Most recent generation runs
// @Tags Usage
// @Produce json
// @Param limit query int false "Maximum number of runs (1-100)"
// @Success 200 {object} response.Envelope
// @Router /usage/runs [get]
func (h *UsageHandler) Runs(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxRecentRuns {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be between 1 and 100"))
			return
		}
		limit = parsed
	}
	runs, err := h.service.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, runs, map[string]interface{}{"limit": limit})
}
