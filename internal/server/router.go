package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyplan-backend/internal/handlers"
	"github.com/yungbote/studyplan-backend/internal/middleware"
)

type RouterConfig struct {
	RequestLogMiddleware *middleware.RequestLogMiddleware
	StudentHandler       *handlers.StudentHandler
	ContentHandler       *handlers.ContentHandler
	PlanHandler          *handlers.PlanHandler
	TimelineHandler      *handlers.TimelineHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))
	if cfg.RequestLogMiddleware != nil {
		router.Use(cfg.RequestLogMiddleware.LogRequests())
	}

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Students
		api.POST("/students", cfg.StudentHandler.CreateStudent)
		api.GET("/students/:id", cfg.StudentHandler.GetStudent)
		api.GET("/students/:id/catalog", cfg.ContentHandler.GetCatalog)
		api.POST("/students/:id/catalog/refresh", cfg.ContentHandler.RefreshCatalog)
		api.GET("/students/:id/plans", cfg.PlanHandler.ListStudentPlans)
		api.GET("/students/:id/plan-groups", cfg.PlanHandler.ListStudentPlanGroups)
		api.GET("/students/:id/timeline", cfg.TimelineHandler.GetDayTimeline)
		api.POST("/students/:id/timeline/reorder", cfg.TimelineHandler.Reorder)
		// Plan groups
		api.POST("/plan-groups", cfg.PlanHandler.CreatePlanGroup)
		api.GET("/plan-groups/:id", cfg.PlanHandler.GetPlanGroup)
		api.GET("/plan-groups/:id/plans", cfg.PlanHandler.ListGroupPlans)
		api.GET("/plan-groups/:id/conflicts", cfg.PlanHandler.ValidatePlanGroup)
		api.POST("/plan-groups/:id/generate", cfg.PlanHandler.GeneratePlans)
		api.POST("/plan-groups/:id/adjust", cfg.PlanHandler.AdjustPlanGroup)
	}

	return router
}
