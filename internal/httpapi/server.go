// Package httpapi exposes the expense-sharing services over a JSON HTTP API.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eduvision/expenses/internal/auth"
	"github.com/eduvision/expenses/internal/service"
	"github.com/eduvision/expenses/internal/storage"
)

// Options configures the HTTP server.
type Options struct {
	Store              storage.Store
	Authenticator      auth.Authenticator
	JWT                *auth.JWTManager
	DisableRequestLogs bool
}

// Server wires the services into echo routes.
type Server struct {
	echo     *echo.Echo
	jwt      *auth.JWTManager
	authSvc  *service.AuthService
	groups   *service.GroupService
	expenses *service.ExpenseService
}

// NewServer builds the echo application with all routes registered.
func NewServer(opts Options) *Server {
	s := &Server{
		echo:     echo.New(),
		jwt:      opts.JWT,
		authSvc:  service.NewAuthService(opts.Authenticator, opts.JWT, opts.Store),
		groups:   service.NewGroupService(opts.Store),
		expenses: service.NewExpenseService(opts.Store),
	}
	s.setup(opts)
	return s
}

func (s *Server) setup(opts Options) {
	s.echo.HideBanner = true
	s.echo.HTTPErrorHandler = apiErrorHandler
	s.echo.Validator = &payloadValidator{validate: validator.New()}

	s.echo.Pre(middleware.RemoveTrailingSlash())
	s.echo.Use(middleware.Recover())
	s.echo.Use(metricsMiddleware())
	if !opts.DisableRequestLogs {
		s.echo.Use(requestLogger())
	}

	s.echo.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := s.echo.Group("/api")

	ag := api.Group("/auth")
	ag.POST("/register", s.register)
	ag.POST("/login", s.login)
	ag.GET("/me", s.currentUser, requireAuth(s.jwt))

	eg := api.Group("/expenses", requireAuth(s.jwt))
	eg.GET("/groups", s.getGroups)
	eg.POST("/groups", s.createGroup)
	eg.PUT("/groups", s.updateGroup)
	eg.DELETE("/groups", s.deleteGroup)

	eg.GET("/members", s.getMembers)
	eg.POST("/members", s.addMember)
	eg.PATCH("/members", s.updateMember)
	eg.DELETE("/members", s.removeMember)

	eg.GET("/expenses", s.getExpenses)
	eg.POST("/expenses", s.createExpense)
	eg.PUT("/expenses", s.updateExpense)
	eg.DELETE("/expenses", s.deleteExpense)

	eg.GET("/settlements", s.getSettlements)
	eg.POST("/settlements", s.createSettlement)
	eg.DELETE("/settlements", s.deleteSettlement)

	eg.GET("/balances", s.getBalances)
	eg.GET("/suggestions", s.getSuggestions)
	eg.GET("/classmates", s.getClassmates)
}

// Start begins serving on the given address, blocking until shutdown.
func (s *Server) Start(addr string) error {
	slog.Info("HTTP server starting", "address", addr)
	return s.echo.Start(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP lets tests drive the server without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// payloadValidator adapts go-playground/validator to echo's Validator interface.
type payloadValidator struct {
	validate *validator.Validate
}

func (v *payloadValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}
