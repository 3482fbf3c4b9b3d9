package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/aquiferlab/aquifer-console/internal/api/handler"
	"github.com/aquiferlab/aquifer-console/internal/api/middleware"
	"github.com/aquiferlab/aquifer-console/internal/core/domain"
	"github.com/aquiferlab/aquifer-console/internal/core/ports"
)

// Dependencies carries everything the router needs, constructed once at
// startup. Tests build a subset with in-memory fakes.
type Dependencies struct {
	Directory         ports.UserDirectory
	Codec             ports.TokenCodec
	AuthService       ports.AuthService
	ModelService      ports.ModelService
	SimulationService ports.SimulationService
	SimulationRepo    ports.SimulationRepository
	Dispatcher        handler.RunEventDispatcher

	Mongo  *mongo.Database
	Redis  *redis.Client
	Logger zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("aquifer"))

	// --- Auth middleware ---
	requireAuth := middleware.Auth(deps.Codec, deps.Directory)
	optionalAuth := middleware.OptionalAuth(deps.Codec, deps.Directory)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.AuthService)
	modelHandler := handler.NewModelHandler(deps.ModelService)
	simHandler := handler.NewSimulationHandler(deps.SimulationService)
	eventHandler := handler.NewRunEventHandler(deps.Dispatcher)
	statsHandler := handler.NewStatsHandler(deps.SimulationRepo)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", authHandler.Me, requireAuth, middleware.RequireAuthenticated())
	auth.POST("/users", authHandler.CreateUser, requireAuth, middleware.RBAC(domain.RoleAdmin))
	auth.GET("/users", authHandler.ListUsers, requireAuth, middleware.RBAC(domain.RoleAdmin))

	// --- Aquifer models ---
	models := e.Group("/v1/models", requireAuth, middleware.RBAC(domain.RoleUser, domain.RoleAnalyst, domain.RoleAdmin))
	models.POST("", modelHandler.Create)
	models.GET("", modelHandler.List)
	models.GET("/:id", modelHandler.Get)
	models.PUT("/:id", modelHandler.Update)
	models.DELETE("/:id", modelHandler.Delete)

	// --- Simulations ---
	sims := e.Group("/v1/simulations", requireAuth)
	sims.POST("", simHandler.Create, middleware.RBAC(domain.RoleUser, domain.RoleAnalyst, domain.RoleAdmin))
	sims.GET("", simHandler.List, middleware.RBAC(domain.RoleUser, domain.RoleAnalyst, domain.RoleAdmin))
	// Worker event ingestion; registered before /:id so the literal path wins.
	sims.POST("/events", eventHandler.Receive, middleware.RBAC(domain.RoleAnalyst, domain.RoleAdmin))
	sims.POST("/events/batch", eventHandler.ReceiveBatch, middleware.RBAC(domain.RoleAnalyst, domain.RoleAdmin))
	sims.GET("/:id", simHandler.Get, middleware.RBAC(domain.RoleUser, domain.RoleAnalyst, domain.RoleAdmin))

	// --- Public / optional-auth routes ---
	e.GET("/v1/stats", statsHandler.Get, optionalAuth)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	e.GET("/health", healthHandler.Liveness)
	if deps.Mongo != nil && deps.Redis != nil {
		healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)
		e.GET("/health/ready", healthDepsHandler.Readiness)
	}

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
