package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/discoveros/backend/internal/handlers"
	"github.com/discoveros/backend/internal/middleware"
)

type RouterConfig struct {
	ServiceName      string
	AuthHandler      *handlers.AuthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	WorkspaceHandler *handlers.WorkspaceHandler
	InceptionHandler *handlers.InceptionHandler
	DiscoveryHandler *handlers.DiscoveryHandler
	DeliveryHandler  *handlers.DeliveryHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware(cfg.ServiceName))

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

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// Workspaces
	protected.POST("/workspaces", cfg.WorkspaceHandler.CreateWorkspace)
	protected.GET("/workspaces", cfg.WorkspaceHandler.ListWorkspaces)
	protected.GET("/workspaces/:wsid/products", cfg.WorkspaceHandler.ListProducts)
	protected.GET("/workspaces/:wsid/products/:pid", cfg.WorkspaceHandler.GetProduct)
	protected.PATCH("/workspaces/:wsid/products/:pid", cfg.WorkspaceHandler.UpdateProduct)
	// Inceptions
	protected.POST("/inceptions", cfg.InceptionHandler.CreateInception)
	protected.GET("/inceptions", cfg.InceptionHandler.ListInceptions)
	protected.GET("/inceptions/:id", cfg.InceptionHandler.GetInception)
	protected.DELETE("/inceptions/:id", cfg.InceptionHandler.DeleteInception)
	protected.GET("/inceptions/:id/steps", cfg.InceptionHandler.ListSteps)
	protected.GET("/inceptions/:id/steps/:step_key", cfg.InceptionHandler.GetStep)
	protected.PUT("/inceptions/:id/steps/:step_key", cfg.InceptionHandler.UpsertStep)
	protected.POST("/inceptions/:id/publish-product", cfg.InceptionHandler.PublishProduct)
	// Discovery
	discovery := protected.Group("/discovery")
	discovery.POST("/problems", cfg.DiscoveryHandler.CreateProblem)
	discovery.GET("/problems", cfg.DiscoveryHandler.ListProblems)
	discovery.POST("/personas", cfg.DiscoveryHandler.CreatePersona)
	discovery.GET("/personas", cfg.DiscoveryHandler.ListPersonas)
	discovery.POST("/journeys", cfg.DiscoveryHandler.CreateJourney)
	discovery.GET("/journeys", cfg.DiscoveryHandler.ListJourneys)
	discovery.POST("/okrs", cfg.DiscoveryHandler.CreateOKR)
	discovery.GET("/okrs", cfg.DiscoveryHandler.ListOKRs)
	// Delivery
	delivery := protected.Group("/delivery")
	delivery.POST("/features", cfg.DeliveryHandler.CreateFeature)
	delivery.GET("/features", cfg.DeliveryHandler.ListFeatures)
	delivery.POST("/stories", cfg.DeliveryHandler.CreateStory)
	delivery.GET("/stories", cfg.DeliveryHandler.ListStories)

	return router
}
