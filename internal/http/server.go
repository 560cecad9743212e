package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	applog "sitio/internal/log"
	"sitio/internal/services"
	"sitio/internal/storage"
)

// IdentityProvider is the slice of the external identity client the server
// needs: sign-in returning an opaque session, and best-effort sign-out.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (json.RawMessage, error)
	SignOut(ctx context.Context, accessToken string)
}

// Deps bundles everything the HTTP surface serves. Identity may be nil when
// no provider is configured; the auth endpoints then answer 500.
type Deps struct {
	CV        *services.CVService
	Finance   *services.FinanceService
	Recurring *services.RecurringService
	Processor *services.RecurringProcessor
	Rates     *services.RatesService
	Visitors  *services.VisitorService
	Identity  IdentityProvider
	Storage   *storage.SQLiteRepository
	Logger    *applog.Logger
}

type Server struct {
	http.Server

	cv        *services.CVService
	finance   *services.FinanceService
	recurring *services.RecurringService
	processor *services.RecurringProcessor
	rates     *services.RatesService
	visitors  *services.VisitorService
	identity  IdentityProvider
	db        *storage.SQLiteRepository

	structured  *applog.StructuredLogger
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		cv:          deps.CV,
		finance:     deps.Finance,
		recurring:   deps.Recurring,
		processor:   deps.Processor,
		rates:       deps.Rates,
		visitors:    deps.Visitors,
		identity:    deps.Identity,
		db:          deps.Storage,
		structured:  applog.NewStructuredLogger(logger.WithComponent(applog.ComponentHTTP)),
		rateLimiter: newRateLimiter(),
		metrics:     &securityMetrics{},
	}

	s.registerRoutes(mux)
	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /test-db", s.wrap(s.handleTestDB))

	// CV
	mux.HandleFunc("GET /cv", s.wrap(s.handleCVSnapshot))
	mux.HandleFunc("POST /cv/{entity}", s.wrap(s.handleCVCreate))
	mux.HandleFunc("PUT /cv/{entity}/{id}/{lang}", s.wrap(s.handleCVUpdate))
	mux.HandleFunc("DELETE /cv/{entity}/{id}", s.wrap(s.handleCVDelete))
	mux.HandleFunc("PUT /cv/contact/{lang}", s.wrap(s.handleContactUpdate))
	mux.HandleFunc("GET /cv/profile", s.wrap(s.handleProfileGet))
	mux.HandleFunc("PUT /cv/profile/{lang}", s.wrap(s.handleProfileUpdate))

	// Finance
	mux.HandleFunc("GET /finance/{month}/{year}", s.wrap(s.handleMonthFinance))
	mux.HandleFunc("PUT /finance/{month}/{year}/income", s.wrap(s.handleIncomeUpsert))
	mux.HandleFunc("DELETE /finance/{month}/{year}/income", s.wrap(s.handleIncomeDelete))
	mux.HandleFunc("POST /finance/{month}/{year}/expenses", s.wrap(s.handleExpenseCreate))
	mux.HandleFunc("PUT /finance/{month}/{year}/expenses/{id}", s.wrap(s.handleExpenseUpdate))
	mux.HandleFunc("DELETE /finance/{month}/{year}/expenses/{id}", s.wrap(s.handleExpenseDelete))
	mux.HandleFunc("POST /finance/{month}/{year}/migrate-expenses", s.wrap(s.handleMigrateExpenses))
	mux.HandleFunc("POST /finance/migrate-recurring-expenses", s.wrap(s.handleMigrateRecurring))

	// Recurring templates
	mux.HandleFunc("GET /api/recurring-expenses", s.wrap(s.handleRecurringList))
	mux.HandleFunc("POST /api/recurring-expenses", s.wrap(s.handleRecurringCreate))
	mux.HandleFunc("PUT /api/recurring-expenses/{id}", s.wrap(s.handleRecurringUpdate))
	mux.HandleFunc("DELETE /api/recurring-expenses/{id}", s.wrap(s.handleRecurringDelete))

	// Rates, visitors, auth
	mux.HandleFunc("GET /exchange-rates", s.wrap(s.handleRatesGet))
	mux.HandleFunc("POST /exchange-rates", s.wrap(s.handleRatesRefresh))
	mux.HandleFunc("POST /visitors", s.wrap(s.handleVisitorLog))
	mux.HandleFunc("GET /visitors/stats", s.wrap(s.handleVisitorStats))
	mux.HandleFunc("POST /auth/login", s.wrap(s.handleLogin))
	mux.HandleFunc("POST /auth/logout", s.wrap(s.handleLogout))
}

// wrap applies security headers, request tracing, rate limiting on mutating
// methods, and request logging around a handler.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), applog.LoggerContextKey, applog.FromContext(r.Context()).With(applog.FieldRequestID, requestID))
		r = r.WithContext(ctx)

		s.structured.LogHTTPStart(ctx, r, clientIP)

		if detectSuspiciousRequest(r, s.metrics) {
			applog.FromContext(ctx).WarnContext(ctx, "Suspicious request pattern",
				"client_ip", clientIP,
				"url", r.URL.String())
		}

		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP, s.metrics) {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Demasiadas solicitudes. Intenta de nuevo más tarde."})
			return
		}

		setSecurityHeaders(w)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.structured.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch:
		return true
	}
	return false
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown stops the server and its background cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
