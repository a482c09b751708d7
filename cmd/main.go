package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/discoveros/backend/internal/db"
	"github.com/discoveros/backend/internal/handlers"
	"github.com/discoveros/backend/internal/middleware"
	"github.com/discoveros/backend/internal/observability"
	"github.com/discoveros/backend/internal/platform/logger"
	"github.com/discoveros/backend/internal/repos"
	"github.com/discoveros/backend/internal/server"
	"github.com/discoveros/backend/internal/services"
	"github.com/discoveros/backend/internal/utils"
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
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
	serviceName := utils.GetEnv("SERVICE_NAME", "discoveros-backend", log)

	// Tracing
	shutdownOTel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: utils.GetEnv("APP_ENV", "development", log),
		Version:     utils.GetEnv("APP_VERSION", "", log),
	})
	if shutdownOTel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownOTel(ctx); err != nil {
				log.Warn("OTel shutdown failed", "error", err)
			}
		}()
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
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	workspaceRepo := repos.NewWorkspaceRepo(thePG, log)
	productRepo := repos.NewProductRepo(thePG, log)
	blueprintRepo := repos.NewBlueprintRepo(thePG, log)
	inceptionRepo := repos.NewInceptionRepo(thePG, log)
	inceptionStepRepo := repos.NewInceptionStepRepo(thePG, log)
	problemRepo := repos.NewProblemRepo(thePG, log)
	personaRepo := repos.NewPersonaRepo(thePG, log)
	journeyRepo := repos.NewJourneyRepo(thePG, log)
	okrRepo := repos.NewOKRRepo(thePG, log)
	featureRepo := repos.NewFeatureRepo(thePG, log)
	storyRepo := repos.NewStoryRepo(thePG, log)

	// Services
	log.Info("Setting up Services from main...")
	authService := services.NewAuthService(thePG, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	backfillService := services.NewBackfillService(thePG, log, blueprintRepo, personaRepo, journeyRepo, okrRepo, inceptionStepRepo)
	workspaceService := services.NewWorkspaceService(thePG, log, workspaceRepo, productRepo, blueprintRepo, backfillService)
	inceptionService := services.NewInceptionService(thePG, log, inceptionRepo, inceptionStepRepo, personaRepo, productRepo, blueprintRepo, okrRepo, journeyRepo)
	discoveryService := services.NewDiscoveryService(thePG, log, problemRepo, personaRepo, journeyRepo, okrRepo, productRepo, backfillService)
	deliveryService := services.NewDeliveryService(thePG, log, featureRepo, storyRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(log, authService)
	workspaceHandler := handlers.NewWorkspaceHandler(log, workspaceService)
	inceptionHandler := handlers.NewInceptionHandler(log, inceptionService)
	discoveryHandler := handlers.NewDiscoveryHandler(log, discoveryService)
	deliveryHandler := handlers.NewDeliveryHandler(log, deliveryService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ServiceName:      serviceName,
		AuthHandler:      authHandler,
		AuthMiddleware:   authMiddleware,
		WorkspaceHandler: workspaceHandler,
		InceptionHandler: inceptionHandler,
		DiscoveryHandler: discoveryHandler,
		DeliveryHandler:  deliveryHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
