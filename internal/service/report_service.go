package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/issue-insights-api/internal/models"
	appErrors "github.com/noah-isme/issue-insights-api/pkg/errors"
	"github.com/noah-isme/issue-insights-api/pkg/export"
)

type csvRenderer interface {
	Render(report export.Report) ([]byte, error)
}

type pdfRenderer interface {
	Render(report export.Report) ([]byte, error)
}

// ReportService renders the comprehensive analysis as a downloadable document.
type ReportService struct {
	insights analysisProvider
	csv      csvRenderer
	pdf      pdfRenderer
	logger   *zap.Logger
}

// NewReportService constructs a ReportService. Nil renderers fall back to the default exporters.
func NewReportService(insights analysisProvider, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ReportService{insights: insights, csv: csv, pdf: pdf, logger: logger}
}

// ParseReportFormat validates a user supplied format, defaulting to CSV.
func ParseReportFormat(raw string) (models.ReportFormat, error) {
	switch models.ReportFormat(strings.ToLower(strings.TrimSpace(raw))) {
	case "", models.ReportFormatCSV:
		return models.ReportFormatCSV, nil
	case models.ReportFormatPDF:
		return models.ReportFormatPDF, nil
	default:
		return "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

// Generate runs the analysis and renders it in the requested format.
func (s *ReportService) Generate(ctx context.Context, format models.ReportFormat) (*models.ReportFile, error) {
	analysis, err := s.insights.Analyze(ctx)
	if err != nil {
		return nil, err
	}

	report := buildInsightsReport(analysis)
	filename := fmt.Sprintf("insights-%s.%s", analysis.Timestamp.Format("20060102-150405"), format)

	var (
		payload     []byte
		contentType string
	)
	switch format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(report)
		contentType = "text/csv"
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(report)
		contentType = "application/pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if err != nil {
		s.logger.Error("failed to render insights report", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	s.logger.Info("insights report generated", zap.String("format", string(format)), zap.Int("bytes", len(payload)))
	return &models.ReportFile{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func buildInsightsReport(a *models.ComprehensiveAnalysis) export.Report {
	trends := a.Trends.Metrics
	team := a.TeamPerformance
	projects := a.ProjectHealth
	predictions := a.Predictions

	metrics := [][]string{
		{"Trend data status", string(a.Trends.DataStatus)},
		{"Tickets this month", strconv.Itoa(trends.TicketsThisMonth)},
		{"Tickets last month", strconv.Itoa(trends.TicketsLastMonth)},
		{"Monthly growth (%)", formatFloat(trends.MonthlyGrowth)},
		{"Weekly growth (%)", formatFloat(trends.WeeklyGrowth)},
		{"Resolution rate (%)", formatFloat(trends.ResolutionRate)},
		{"High priority rate (%)", formatFloat(trends.HighPriorityRate)},
		{"Team resolution rate (%)", formatFloat(team.TeamResolutionRate)},
		{"Team avg resolution (days)", formatFloat(team.AvgResolutionTime)},
		{"Projects", strconv.Itoa(projects.TotalProjects)},
		{"Active projects", strconv.Itoa(projects.ActiveProjects)},
		{"Avg project health", formatFloat(projects.AvgHealthScore)},
		{"Critical projects", strconv.Itoa(projects.CriticalProjects)},
		{"Predicted tickets next week", strconv.Itoa(predictions.Tickets.PredictedNextWeek)},
		{"Predicted resolutions next week", strconv.Itoa(predictions.Tickets.PredictedResolutions)},
		{"Volume trend", string(predictions.Tickets.Trend)},
		{"Forecast confidence (%)", strconv.Itoa(predictions.Tickets.Confidence)},
		{"Workload per user", formatFloat(predictions.Workload.WorkloadPerUser)},
		{"Workload level", string(predictions.Workload.Level)},
		{"Expected resolution time", predictions.Performance.AvgResolutionTime},
		{"Overall health", formatFloat(a.Summary.OverallHealth)},
		{"Project stability (%)", formatFloat(a.Summary.ProjectStability)},
	}

	recommendations := make([][]string, 0, len(a.Recommendations))
	for _, rec := range a.Recommendations {
		recommendations = append(recommendations, []string{string(rec.Priority), rec.Category, rec.Title, rec.Description})
	}

	projectRows := make([][]string, 0, len(projects.Projects))
	for _, p := range projects.Projects {
		projectRows = append(projectRows, []string{
			p.Name,
			string(p.Status),
			strconv.Itoa(p.TicketCount),
			strconv.Itoa(p.OpenTickets),
			formatFloat(p.HealthScore),
			string(p.Health),
		})
	}

	return export.Report{
		Title:       "Issue insights report",
		GeneratedAt: a.Timestamp,
		Tables: []export.Table{
			{Name: "Metrics", Headers: []string{"Metric", "Value"}, Rows: metrics, Weights: []float64{3, 2}},
			{Name: "Recommendations", Headers: []string{"Priority", "Category", "Title", "Description"}, Rows: recommendations, Weights: []float64{1, 1.2, 2.5, 4}},
			{Name: "Project health", Headers: []string{"Project", "Status", "Tickets", "Open", "Score", "Health"}, Rows: projectRows, Weights: []float64{3, 1.2, 1, 1, 1, 1.2}},
		},
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
