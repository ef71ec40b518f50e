package main

import (
	"fmt"
	"os"

	"github.com/yungbote/studyplan-backend/internal/clients/redis"
	"github.com/yungbote/studyplan-backend/internal/db"
	"github.com/yungbote/studyplan-backend/internal/handlers"
	"github.com/yungbote/studyplan-backend/internal/logger"
	"github.com/yungbote/studyplan-backend/internal/middleware"
	"github.com/yungbote/studyplan-backend/internal/repos"
	"github.com/yungbote/studyplan-backend/internal/server"
	"github.com/yungbote/studyplan-backend/internal/services"
	"github.com/yungbote/studyplan-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	configPath := utils.GetEnv("SCHEDULER_CONFIG_PATH", "", log)
	schedulerConfig, err := utils.LoadSchedulerConfig(configPath, log)
	if err != nil {
		log.Error("Could not load scheduler config", "error", err)
		os.Exit(1)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	studentRepo := repos.NewStudentRepo(thePG, log)
	contentRepo := repos.NewContentRepo(thePG, log)
	planGroupRepo := repos.NewPlanGroupRepo(thePG, log)
	scheduledPlanRepo := repos.NewScheduledPlanRepo(thePG, log)
	nonStudyBlockRepo := repos.NewNonStudyBlockRepo(thePG, log)
	academyScheduleRepo := repos.NewAcademyScheduleRepo(thePG, log)

	// Redis
	catalogCache, err := redis.NewCatalogCache(log)
	if err != nil {
		log.Warn("Catalog cache unavailable, reads go straight to Postgres", "error", err)
		catalogCache = nil
	}

	// Services
	log.Info("Setting up Services from main...")
	studentService := services.NewStudentService(thePG, log, studentRepo)
	contentService := services.NewContentService(thePG, log, contentRepo, catalogCache)
	planGroupService := services.NewPlanGroupService(thePG, log, planGroupRepo, scheduledPlanRepo)
	planGenerationService := services.NewPlanGenerationService(
		thePG,
		log,
		schedulerConfig,
		planGroupRepo,
		studentRepo,
		scheduledPlanRepo,
		academyScheduleRepo,
		contentService,
	)
	reconcileService := services.NewReconcileService(thePG, log, schedulerConfig, planGroupRepo, scheduledPlanRepo, academyScheduleRepo)
	timelineService := services.NewTimelineService(thePG, log, schedulerConfig, scheduledPlanRepo, nonStudyBlockRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	studentHandler := handlers.NewStudentHandler(studentService)
	contentHandler := handlers.NewContentHandler(contentService)
	planHandler := handlers.NewPlanHandler(planGroupService, planGenerationService, reconcileService)
	timelineHandler := handlers.NewTimelineHandler(timelineService)

	// Middleware
	log.Info("Setting up middleware from main...")
	requestLogMiddleware := middleware.NewRequestLogMiddleware(log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		RequestLogMiddleware: requestLogMiddleware,
		StudentHandler:       studentHandler,
		ContentHandler:       contentHandler,
		PlanHandler:          planHandler,
		TimelineHandler:      timelineHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
