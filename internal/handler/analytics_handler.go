package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/issue-insights-api/internal/models"
	"github.com/noah-isme/issue-insights-api/internal/service"
	"github.com/noah-isme/issue-insights-api/pkg/response"
)

type analyticsService interface {
	Overview(ctx context.Context) (*models.AnalyticsOverview, bool, error)
	Projects(ctx context.Context) ([]models.ProjectSummary, bool, error)
	Trends(ctx context.Context, days int) ([]models.DailyTrendPoint, bool, error)
	UserActivity(ctx context.Context, days int) ([]models.UserActivity, bool, error)
	Team(ctx context.Context) ([]models.TeamMemberStats, bool, error)
	SystemMetrics() models.AnalyticsSystemMetrics
}

// AnalyticsHandler exposes the read-only analytics endpoints.
type AnalyticsHandler struct {
	analytics analyticsService
}

// NewAnalyticsHandler constructs the analytics handler.
func NewAnalyticsHandler(analytics analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

// Overview godoc
// @Summary Entity totals and ticket breakdowns
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /api/analytics/overview [get]
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, cacheHit, err := h.analytics.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, overview, cacheHit)
}

// Projects godoc
// @Summary Per-project ticket statistics
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /api/analytics/projects [get]
func (h *AnalyticsHandler) Projects(c *gin.Context) {
	projects, cacheHit, err := h.analytics.Projects(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, projects, cacheHit)
}

// Trends godoc
// @Summary Daily created and resolved tickets
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days (1-365)" default(30)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /api/analytics/trends [get]
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	days, err := service.ParseAnalyticsDays(c.Query("days"))
	if err != nil {
		response.Error(c, err)
		return
	}
	points, cacheHit, err := h.analytics.Trends(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, points, cacheHit)
}

// UserActivity godoc
// @Summary Per-user activity
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param days query int false "Window in days (1-365)" default(30)
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /api/analytics/user-activity [get]
func (h *AnalyticsHandler) UserActivity(c *gin.Context) {
	days, err := service.ParseAnalyticsDays(c.Query("days"))
	if err != nil {
		response.Error(c, err)
		return
	}
	activity, cacheHit, err := h.analytics.UserActivity(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, activity, cacheHit)
}

// Team godoc
// @Summary All-time workload per team member
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /api/analytics/team [get]
func (h *AnalyticsHandler) Team(c *gin.Context) {
	team, cacheHit, err := h.analytics.Team(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	respondCached(c, team, cacheHit)
}

// System godoc
// @Summary Instrumentation snapshot
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /api/analytics/system [get]
func (h *AnalyticsHandler) System(c *gin.Context) {
	respond(c, h.analytics.SystemMetrics())
}
