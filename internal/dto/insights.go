package dto

import (
	"time"

	"github.com/noah-isme/issue-insights-api/internal/models"
)

// InsightCard is a dashboard tile derived from the comprehensive analysis.
type InsightCard struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Value       string  `json:"value"`
	Change      float64 `json:"change"`
	Trend       string  `json:"trend"`
	Description string  `json:"description"`
}

// AIAnalyticsResponse is the dashboard bundle served by GET /ai/analytics.
type AIAnalyticsResponse struct {
	Timestamp       time.Time                    `json:"timestamp"`
	Insights        []InsightCard                `json:"insights"`
	Predictions     models.PredictionReport      `json:"predictions"`
	Recommendations []models.Recommendation      `json:"recommendations"`
	Summary         models.InsightsSummary       `json:"summary"`
	Analysis        models.ComprehensiveAnalysis `json:"analysis"`
}

// ChatRequest is the payload of POST /ai/chat.
type ChatRequest struct {
	Message string `json:"message" validate:"required,max=1000"`
}

// ChatResponse is the assistant reply.
type ChatResponse struct {
	ID        string                 `json:"id"`
	Intent    string                 `json:"intent"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// RefreshResponse reports the outcome of a cache refresh.
type RefreshResponse struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
