package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/unischeduler-api/internal/dto"
	appErrors "github.com/noah-isme/unischeduler-api/pkg/errors"
	"github.com/noah-isme/unischeduler-api/pkg/response"
)

type scheduleService interface {
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.ScheduleResponse, error)
	Validate(ctx context.Context, req dto.ValidateScheduleRequest) (*dto.ValidationResponse, error)
}

// ScheduleHandler exposes schedule generation and validation endpoints.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Generate godoc
// @Summary Generate a conflict-free weekly schedule
// @Description Fetches the section table of every course, asks the generator for a schedule and validates it, retrying within the attempt budget. An empty class list means no valid schedule was found.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generate schedule payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	resp, ok := h.generate(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// GenerateLegacy godoc
// @Summary Generate a schedule (legacy path)
// @Description Kept for the existing web client. Returns the bare {"classes": [...]} document without the response envelope.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generate schedule payload"
// @Success 200 {object} dto.ScheduleResponse
// @Router /api/generate_schedule [post]
func (h *ScheduleHandler) GenerateLegacy(c *gin.Context) {
	resp, ok := h.generate(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Validate godoc
// @Summary Validate a schedule document
// @Description Runs decoding, completeness and the overlap scan on a caller-supplied schedule. Rejections are reported in the verdict.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.ValidateScheduleRequest true "Validate schedule payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedules/validate [post]
func (h *ScheduleHandler) Validate(c *gin.Context) {
	var req dto.ValidateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid validation payload"))
		return
	}
	resp, err := h.service.Validate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

func (h *ScheduleHandler) generate(c *gin.Context) (*dto.ScheduleResponse, bool) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return nil, false
	}
	resp, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return resp, true
}
