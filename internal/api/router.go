package api

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/code-sharad/expense-tracker/internal/api/handler"
	"github.com/code-sharad/expense-tracker/internal/api/middleware"
	"github.com/code-sharad/expense-tracker/internal/core/domain"
	"github.com/code-sharad/expense-tracker/internal/core/ports"
)

// Deps groups everything NewRouter wires into the HTTP surface.
type Deps struct {
	Log      zerolog.Logger
	Auth     ports.AuthService
	Users    ports.UserService
	Expenses ports.ExpenseService

	// HealthChecks are run by GET /health/ready, keyed by dependency name.
	HealthChecks map[string]handler.HealthCheck

	CORSOrigins []string
	// LoginRateLimit is the sustained number of POST /login requests per
	// second allowed per client IP. Zero disables the limiter.
	LoginRateLimit float64

	// Registerer and Gatherer back the HTTP metrics and GET /metrics. Both
	// default to a private registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	if d.Registerer == nil || d.Gatherer == nil {
		reg := prometheus.NewRegistry()
		d.Registerer, d.Gatherer = reg, reg
	}
	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "expense_tracker",
		Registerer: d.Registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.Auth)
	userHandler := handler.NewUserHandler(d.Users)
	expenseHandler := handler.NewExpenseHandler(d.Expenses)
	healthHandler := handler.NewHealthHandler(d.HealthChecks)
	authMiddleware := middleware.Auth(d.Auth)

	// --- Public routes ---
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)        // liveness
	e.GET("/health/ready", healthHandler.Readiness) // readiness
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: d.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/login", authHandler.Login, loginLimiter(d.LoginRateLimit)...)
	e.GET("/logout", authHandler.Logout, authMiddleware)

	// --- Expense routes ---
	e.GET("/user/expenses", expenseHandler.ListMine,
		authMiddleware, middleware.RBAC(domain.RoleAdmin, domain.RoleManager, domain.RoleEmployee))
	e.GET("/user/expenses/:userId", expenseHandler.ListForUser,
		authMiddleware, middleware.RequireMinimumRank(domain.RoleEmployee))
	e.POST("/expenses", expenseHandler.Create,
		authMiddleware, middleware.RequireRole(domain.RoleEmployee))
	e.PATCH("/expenses/:expenseId/:status", expenseHandler.Resolve,
		authMiddleware, middleware.RequireRole(domain.RoleManager))

	// --- User routes ---
	e.POST("/user", userHandler.Create,
		authMiddleware, middleware.RBAC(domain.RoleAdmin, domain.RoleManager))
	e.GET("/user", userHandler.ListByManager,
		authMiddleware, middleware.RequireRole(domain.RoleManager))
	e.GET("/users", userHandler.ListAll,
		authMiddleware, middleware.RequireRole(domain.RoleAdmin))

	return e
}

// loginLimiter returns the per-IP limiter for POST /login, or nothing when
// perSecond is not positive.
func loginLimiter(perSecond float64) []echo.MiddlewareFunc {
	if perSecond <= 0 {
		return nil
	}
	burst := int(math.Ceil(perSecond))
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     burst,
		ExpiresIn: 3 * time.Minute,
	})
	return []echo.MiddlewareFunc{echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
		},
	})}
}
