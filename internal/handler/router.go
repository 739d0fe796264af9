package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/issue-insights-api/api/swagger"
	"github.com/noah-isme/issue-insights-api/internal/middleware"
	"github.com/noah-isme/issue-insights-api/internal/models"
	"github.com/noah-isme/issue-insights-api/pkg/config"
	"github.com/noah-isme/issue-insights-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/issue-insights-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/issue-insights-api/pkg/middleware/requestid"
)

// RouterDeps bundles what NewRouter needs to mount every route.
type RouterDeps struct {
	Config        *config.Config
	Logger        *zap.Logger
	Observer      middleware.RequestObserver
	Tokens        middleware.TokenValidator
	Insights      *InsightsHandler
	Analytics     *AnalyticsHandler
	Observability *MetricsHandler
}

// NewRouter builds the gin engine with the global middleware chain and all routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Observer))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", deps.Observability.Health)
	r.GET("/ready", deps.Observability.Ready)
	r.GET("/metrics", deps.Observability.Prometheus)

	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(deps.Config.APIPrefix)
	api.Use(middleware.JWT(deps.Tokens))

	ai := api.Group("/ai")
	ai.GET("/analytics", deps.Insights.Analytics)
	ai.POST("/chat", deps.Insights.Chat)
	ai.POST("/refresh", deps.Insights.Refresh)
	ai.GET("/report", middleware.RequireRoles(models.RoleAdmin, models.RoleCore), deps.Insights.Report)

	analytics := api.Group("/analytics")
	analytics.GET("/overview", deps.Analytics.Overview)
	analytics.GET("/projects", deps.Analytics.Projects)
	analytics.GET("/trends", deps.Analytics.Trends)
	analytics.GET("/user-activity", deps.Analytics.UserActivity)
	analytics.GET("/team", deps.Analytics.Team)
	analytics.GET("/system", deps.Analytics.System)

	return r
}
