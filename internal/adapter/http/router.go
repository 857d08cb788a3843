package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/traveldesk/cashbox/internal/adapter/http/handler"
	"github.com/traveldesk/cashbox/internal/adapter/http/middleware"
	"github.com/traveldesk/cashbox/internal/domain"
	"github.com/traveldesk/cashbox/internal/infrastructure/auth"
	"github.com/traveldesk/cashbox/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	BalanceHandler   *handler.BalanceHandler
	CashBoxHandler   *handler.CashBoxHandler
	AdvanceHandler   *handler.AdvanceHandler
	AuditHandler     *handler.AuditHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	JWTManager       *auth.JWTManager
	RateLimiter      *middleware.RateLimiter
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Mutating endpoints demand an operator token when auth is on; reads
	// stay open but still pick up the caller identity for audit logs.
	operatorOnly := func(next http.Handler) http.Handler { return next }
	if cfg.JWTManager != nil {
		authMW := middleware.AuthMiddleware(cfg.JWTManager)
		roleMW := middleware.RequireRole(domain.RoleOperator)
		operatorOnly = func(next http.Handler) http.Handler { return authMW(roleMW(next)) }
	}

	// Health and observability endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTManager != nil {
			r.Use(middleware.OptionalAuth(cfg.JWTManager))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Balances
		r.With(operatorOnly).Post("/balances/recompute", cfg.BalanceHandler.Recompute)

		// Cash boxes
		r.Route("/cashboxes", func(r chi.Router) {
			r.With(operatorOnly).Post("/", cfg.CashBoxHandler.Create)
			r.Get("/{id}", cfg.CashBoxHandler.Get)
			r.Get("/{id}/entries", cfg.CashBoxHandler.ListEntries)
			r.With(operatorOnly).Post("/{id}/transactions", cfg.CashBoxHandler.SubmitTransactions)
			r.With(operatorOnly).Delete("/{id}", cfg.CashBoxHandler.Delete)
		})

		// Employees
		r.Route("/employees/{employeeID}", func(r chi.Router) {
			r.Get("/cashboxes", cfg.CashBoxHandler.ListByEmployee)
			r.Get("/advances", cfg.AdvanceHandler.ListByOwner)
		})

		// Advances
		r.Route("/advances", func(r chi.Router) {
			r.With(operatorOnly).Post("/", cfg.AdvanceHandler.Create)
			r.Get("/{id}", cfg.AdvanceHandler.Get)
			r.With(operatorOnly).Post("/{id}/attach", cfg.AdvanceHandler.Attach)
			r.With(operatorOnly).Post("/{id}/detach", cfg.AdvanceHandler.Detach)
			r.With(operatorOnly).Delete("/{id}", cfg.AdvanceHandler.Delete)
		})

		// Audit logs
		r.Get("/audit-logs", cfg.AuditHandler.List)
	})

	return r
}
