package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/bt-group/leave-portal/docs"
	"github.com/bt-group/leave-portal/internal/api/handler"
	"github.com/bt-group/leave-portal/internal/api/metrics"
	"github.com/bt-group/leave-portal/internal/api/middleware"
	"github.com/bt-group/leave-portal/internal/core/guard"
	"github.com/bt-group/leave-portal/internal/core/ports"
	"github.com/bt-group/leave-portal/internal/core/service"
	"github.com/bt-group/leave-portal/internal/core/session"
)

// Deps carries everything the router wires together.
type Deps struct {
	Manager      *session.Manager
	Gateway      *service.AuthGateway
	Backend      ports.LeaveBackend
	SubmitGuard  handler.SubmitGuard
	Redis        *redis.Client
	Mongo        *mongo.Database
	CookieName   string
	SecureCookie bool
	Log          zerolog.Logger
}

// NewRouter builds the Echo instance with all portal routes registered.
// Every protected page and affordance is registered from the static route
// table, so the role requirements live in exactly one place.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Gateway, d.Log)

	// The router is the rendering layer's subscriber to forced logouts:
	// the redirect itself happens in the error handler, the event feeds
	// the invalidation counter and releases the in-memory store.
	d.Gateway.OnInvalidated(func(store *session.Store) {
		metrics.SessionsInvalidatedTotal.Inc()
		d.Manager.Drop(store.ID())
	})

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("leaveportal"))
	e.Use(middleware.Session(d.Manager, d.CookieName, d.SecureCookie))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Gateway)
	portalHandler := handler.NewPortalHandler(d.Backend)
	leaveHandler := handler.NewLeaveHandler(d.Backend, d.SubmitGuard, d.Log)
	userHandler := handler.NewUserHandler(d.Backend)

	// --- Public routes ---
	e.POST("/login", authHandler.Login)
	e.POST("/logout", authHandler.Logout)
	e.GET("/navigation", portalHandler.Navigation)

	// --- Guarded pages, driven by the route table ---
	pages := map[string]echo.HandlerFunc{
		"/dashboard":             portalHandler.Dashboard,
		"/leave-requests":        leaveHandler.MyRequests,
		"/leave-requests/create": leaveHandler.CreateForm,
		"/team-requests":         leaveHandler.TeamRequests,
		"/all-requests":          leaveHandler.AllRequests,
		"/users":                 userHandler.List,
		"/settings":              portalHandler.Settings,
	}
	actions := map[string]echo.HandlerFunc{
		"/leave-requests/:id/approve": leaveHandler.Approve,
		"/leave-requests/:id/reject":  leaveHandler.Reject,
		"/leave-requests/:id/cancel":  leaveHandler.Cancel,
	}
	for _, route := range guard.Routes() {
		if h, ok := pages[route.Path]; ok {
			e.GET(route.Path, h, middleware.Guard(route))
		}
		if h, ok := actions[route.Path]; ok {
			e.PUT(route.Path, h, middleware.Guard(route))
		}
	}
	if route, ok := guard.Lookup("/leave-requests"); ok {
		e.POST("/leave-requests", leaveHandler.Create, middleware.Guard(route))
	}

	// --- Health probes and operational surfaces ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Redis, d.Mongo)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
