package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/issue-insights-api/internal/dto"
	"github.com/noah-isme/issue-insights-api/internal/models"
	"github.com/noah-isme/issue-insights-api/internal/service"
	appErrors "github.com/noah-isme/issue-insights-api/pkg/errors"
	"github.com/noah-isme/issue-insights-api/pkg/response"
)

type insightsService interface {
	Dashboard(ctx context.Context) (*dto.AIAnalyticsResponse, error)
	Refresh(ctx context.Context) (*models.ComprehensiveAnalysis, error)
}

type chatService interface {
	Reply(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error)
}

type reportService interface {
	Generate(ctx context.Context, format models.ReportFormat) (*models.ReportFile, error)
}

// InsightsHandler serves the AI insights endpoints.
type InsightsHandler struct {
	insights insightsService
	chat     chatService
	reports  reportService
}

// NewInsightsHandler constructs the handler.
func NewInsightsHandler(insights insightsService, chat chatService, reports reportService) *InsightsHandler {
	return &InsightsHandler{insights: insights, chat: chat, reports: reports}
}

// Analytics godoc
// @Summary Comprehensive insights dashboard
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /api/ai/analytics [get]
func (h *InsightsHandler) Analytics(c *gin.Context) {
	dashboard, err := h.insights.Dashboard(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, dashboard)
}

// Chat godoc
// @Summary Ask the insights assistant
// @Tags AI
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.ChatRequest true "Chat message"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /api/ai/chat [post]
func (h *InsightsHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid chat payload"))
		return
	}
	reply, err := h.chat.Reply(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, reply)
}

// Refresh godoc
// @Summary Clear cached insights and recompute
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /api/ai/refresh [post]
func (h *InsightsHandler) Refresh(c *gin.Context) {
	analysis, err := h.insights.Refresh(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respond(c, dto.RefreshResponse{Message: "insights refreshed", Timestamp: analysis.Timestamp})
}

// Report godoc
// @Summary Download the insights report
// @Tags AI
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /api/ai/report [get]
func (h *InsightsHandler) Report(c *gin.Context) {
	format, err := service.ParseReportFormat(c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.reports.Generate(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Payload)
}

func respond(c *gin.Context, data interface{}) {
	response.JSON(c, http.StatusOK, data, middlewareMeta(c))
}
