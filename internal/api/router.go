package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/uventlo/event-platform/internal/api/handler"
	"github.com/uventlo/event-platform/internal/api/middleware"
	"github.com/uventlo/event-platform/internal/core/domain"
	"github.com/uventlo/event-platform/internal/core/ports"
)

// Dependencies carries everything the router needs to register routes.
type Dependencies struct {
	Accounts ports.AccountService
	Events   ports.EventService
	Contacts ports.ContactService
	Tokens   ports.TokenIssuer

	Mongo *mongo.Database
	Redis *redis.Client
	Log   zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("uventlo"))

	accountHandler := handler.NewAccountHandler(deps.Accounts)
	eventHandler := handler.NewEventHandler(deps.Events)
	contactHandler := handler.NewContactHandler(deps.Contacts)
	healthHandler := handler.NewHealthHandler(deps.Mongo, deps.Redis)

	authRequired := middleware.Auth(deps.Tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Probes and operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	v1 := e.Group("/v1")

	// --- Account lifecycle (public) ---
	users := v1.Group("/users")
	users.POST("/register", accountHandler.Register)
	users.POST("/login", accountHandler.Login)
	users.POST("/logout", accountHandler.Logout)
	users.POST("/reset-password/request", accountHandler.RequestPasswordReset)
	users.POST("/reset-password/verify", accountHandler.VerifyPasswordReset)
	users.POST("/reset-password/confirm", accountHandler.ConfirmPasswordReset)

	// --- Account management (authenticated) ---
	users.GET("", accountHandler.List, authRequired, adminOnly)
	users.GET("/:id", accountHandler.Get, authRequired)
	users.PUT("/:id", accountHandler.Update, authRequired)
	users.DELETE("/:id", accountHandler.Delete, authRequired)
	users.PUT("/:id/activate", accountHandler.Activate, authRequired)
	users.PUT("/:id/deactivate", accountHandler.Deactivate, authRequired)
	users.POST("/:id/contacts", contactHandler.Add, authRequired)
	users.GET("/:id/contacts", contactHandler.List, authRequired)

	// --- Events (authenticated) ---
	events := v1.Group("/events", authRequired)
	events.POST("", eventHandler.Create)
	events.GET("", eventHandler.List)
	events.GET("/user/:id", eventHandler.ListByOwner)
	events.GET("/statistics/attendance/:id", eventHandler.Attendance)
	events.GET("/statistics/next-date/:id", eventHandler.NextEventDate)
	events.GET("/statistics/tasks", eventHandler.LastEventTasks)
	events.GET("/:id", eventHandler.Get)
	events.PUT("/:id", eventHandler.Update)
	events.DELETE("/:id", eventHandler.Delete)

	return e
}
