package api

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/messagely/messaging-system/docs"
	"github.com/messagely/messaging-system/internal/api/handler"
	"github.com/messagely/messaging-system/internal/api/middleware"
	"github.com/messagely/messaging-system/internal/core/ports"
)

// Dependencies are the services and probes the router wires into handlers.
type Dependencies struct {
	Auth      ports.AuthService
	Users     ports.UserService
	Messages  ports.MessageService
	Readiness map[string]handler.Pinger
	Logger    zerolog.Logger

	// Registry receives the HTTP request metrics and backs /metrics. The
	// process-wide default registry is used when nil.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "messagely",
		Registerer: registerer,
	}))
	// The request logger renders errors itself, so status codes seen by the
	// metrics middleware above are the final ones.
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.BodyLimitWithConfig(echomiddleware.BodyLimitConfig{
		Limit: strconv.Itoa(middleware.MaxBodyBytes),
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Users, deps.Messages)
	messageHandler := handler.NewMessageHandler(deps.Messages)

	loggedIn := middleware.RequireLoggedIn(deps.Auth)
	correctUser := middleware.RequireCorrectUser("username")

	// --- Auth routes ---
	for _, prefix := range []string{"", "/auth"} {
		e.POST(prefix+"/login", authHandler.Login)
		e.POST(prefix+"/register", authHandler.Register)
	}

	// --- Users ---
	users := e.Group("/users", loggedIn)
	users.GET("", userHandler.List)
	users.GET("/:username", userHandler.Get, correctUser)
	users.GET("/:username/to", userHandler.MessagesTo, correctUser)
	users.GET("/:username/from", userHandler.MessagesFrom, correctUser)

	// --- Messages ---
	messages := e.Group("/messages", loggedIn)
	messages.POST("", messageHandler.Create)
	messages.GET("/:id", messageHandler.Get)
	messages.POST("/:id/read", messageHandler.MarkRead)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Ops ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
