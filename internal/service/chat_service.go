package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/issue-insights-api/internal/dto"
	"github.com/noah-isme/issue-insights-api/internal/models"
	appErrors "github.com/noah-isme/issue-insights-api/pkg/errors"
)

// Chat intents, matched in declaration order.
const (
	ChatIntentTrends          = "trends"
	ChatIntentPredictions     = "predictions"
	ChatIntentRecommendations = "recommendations"
	ChatIntentTeam            = "team"
	ChatIntentProjects        = "projects"
	ChatIntentHelp            = "help"
)

type chatIntent struct {
	name     string
	keywords []string
	reply    func(a *models.ComprehensiveAnalysis) (string, map[string]interface{})
}

var chatIntents = []chatIntent{
	{name: ChatIntentTrends, keywords: []string{"analyze", "trend"}, reply: trendsReply},
	{name: ChatIntentPredictions, keywords: []string{"predict", "forecast"}, reply: predictionsReply},
	{name: ChatIntentRecommendations, keywords: []string{"improve", "suggest"}, reply: recommendationsReply},
	{name: ChatIntentTeam, keywords: []string{"team", "performance"}, reply: teamReply},
	{name: ChatIntentProjects, keywords: []string{"project", "health"}, reply: projectsReply},
}

const chatHelpMessage = "I can help with ticket analytics. Ask me to analyze trends, predict next week's volume, " +
	"suggest improvements, review team performance or check project health."

type analysisProvider interface {
	Analyze(ctx context.Context) (*models.ComprehensiveAnalysis, error)
}

// ChatService answers keyword-matched questions with live insights.
type ChatService struct {
	insights  analysisProvider
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewChatService constructs a ChatService.
func NewChatService(insights analysisProvider, validate *validator.Validate, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ChatService{insights: insights, validator: validate, logger: logger, now: time.Now}
}

// Reply classifies the message and renders the matching canned answer.
func (s *ChatService) Reply(ctx context.Context, req dto.ChatRequest) (*dto.ChatResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid chat payload")
	}

	resp := &dto.ChatResponse{
		ID:        uuid.NewString(),
		Intent:    ChatIntentHelp,
		Message:   chatHelpMessage,
		Timestamp: s.now().UTC(),
	}

	intent, ok := matchIntent(req.Message)
	if !ok {
		return resp, nil
	}

	analysis, err := s.insights.Analyze(ctx)
	if err != nil {
		return nil, err
	}
	resp.Intent = intent.name
	resp.Message, resp.Data = intent.reply(analysis)
	s.logger.Debug("chat reply", zap.String("intent", intent.name))
	return resp, nil
}

func matchIntent(message string) (chatIntent, bool) {
	lower := strings.ToLower(message)
	for _, intent := range chatIntents {
		for _, keyword := range intent.keywords {
			if strings.Contains(lower, keyword) {
				return intent, true
			}
		}
	}
	return chatIntent{}, false
}

func trendsReply(a *models.ComprehensiveAnalysis) (string, map[string]interface{}) {
	if a.Trends.IsEmpty() {
		return "There are no tickets yet, so there is no trend to analyze.", map[string]interface{}{"trends": a.Trends}
	}
	m := a.Trends.Metrics
	msg := fmt.Sprintf("This month %d tickets were created (%+.1f%% vs last month) and %.1f%% were resolved. "+
		"%d tickets arrived this week, %.1f%% of this month's tickets are high priority.",
		m.TicketsThisMonth, m.MonthlyGrowth, m.ResolutionRate, m.TicketsThisWeek, m.HighPriorityRate)
	return msg, map[string]interface{}{"trends": a.Trends}
}

func predictionsReply(a *models.ComprehensiveAnalysis) (string, map[string]interface{}) {
	p := a.Predictions
	msg := fmt.Sprintf("Expect about %d new tickets and %d resolutions next week (trend %s, %d%% confidence). "+
		"Current workload is %s with %.1f open tickets per member.",
		p.Tickets.PredictedNextWeek, p.Tickets.PredictedResolutions, p.Tickets.Trend, p.Tickets.Confidence,
		p.Workload.Level, p.Workload.WorkloadPerUser)
	return msg, map[string]interface{}{"predictions": p}
}

func recommendationsReply(a *models.ComprehensiveAnalysis) (string, map[string]interface{}) {
	titles := make([]string, 0, len(a.Recommendations))
	for _, rec := range a.Recommendations {
		titles = append(titles, fmt.Sprintf("[%s] %s", rec.Priority, rec.Title))
	}
	msg := fmt.Sprintf("I have %d recommendation(s): %s.", len(a.Recommendations), strings.Join(titles, "; "))
	return msg, map[string]interface{}{"recommendations": a.Recommendations}
}

func teamReply(a *models.ComprehensiveAnalysis) (string, map[string]interface{}) {
	t := a.TeamPerformance
	msg := fmt.Sprintf("The team resolved %d of %d assigned tickets this month (%.1f%%), averaging %.1f days per ticket.",
		t.TotalResolved, t.TotalAssigned, t.TeamResolutionRate, t.AvgResolutionTime)
	if t.TopPerformer != nil {
		msg += fmt.Sprintf(" Top performer: %s with %d resolved.", t.TopPerformer.Name, t.TopPerformer.ResolvedCount)
	}
	return msg, map[string]interface{}{"teamPerformance": t}
}

func projectsReply(a *models.ComprehensiveAnalysis) (string, map[string]interface{}) {
	p := a.ProjectHealth
	msg := fmt.Sprintf("%d projects (%d active) average a health score of %.1f. "+
		"%d excellent, %d good, %d fair, %d poor, %d critical.",
		p.TotalProjects, p.ActiveProjects, p.AvgHealthScore,
		p.Distribution.Excellent, p.Distribution.Good, p.Distribution.Fair, p.Distribution.Poor, p.CriticalProjects)
	return msg, map[string]interface{}{"projectHealth": p}
}
