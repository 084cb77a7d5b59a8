package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"penny/internal/log"
	"penny/internal/middleware/ratelimit"
	"penny/internal/middleware/security"
	"penny/internal/middleware/trace"
	"penny/internal/services"
)

// Options configures the optional parts of the server.
type Options struct {
	Logger    *log.Logger
	RateLimit ratelimit.Config
	// Now feeds defaults such as the current year; defaults to time.Now.
	Now func() time.Time
}

type Server struct {
	http.Server
	svc     *services.Services
	logger  *log.Logger
	limiter *ratelimit.Limiter
	tracer  *trace.Middleware
	now     func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, svc *services.Services, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Server{
		svc:     svc,
		logger:  opts.Logger.WithComponent(log.ComponentHTTP),
		limiter: ratelimit.NewLimiter(opts.RateLimit),
		tracer:  trace.NewMiddleware(),
		now:     opts.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/recurrence/parse", s.handleParseRecurrence)

	mux.HandleFunc("POST /api/users/{user}/plans", s.handleAddPlan)
	mux.HandleFunc("GET /api/users/{user}/plans", s.handleView)
	mux.HandleFunc("GET /api/users/{user}/plans/details", s.handlePlanDetails)
	mux.HandleFunc("POST /api/users/{user}/plans/copy", s.handleCopyPlan)
	mux.HandleFunc("GET /api/users/{user}/plans/years", s.handleAvailableYears)

	mux.HandleFunc("POST /api/users/{user}/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/users/{user}/transactions", s.handleListTransactions)
	mux.HandleFunc("DELETE /api/users/{user}/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("POST /api/users/{user}/transactions/undo", s.handleUndo)
	mux.HandleFunc("POST /api/users/{user}/transactions/{id}/promote", s.handlePromote)

	mux.HandleFunc("GET /api/users/{user}/trends", s.handleTrends)

	limited := s.limiter.Middleware(ratelimit.ClientIP, s.onRateLimited)
	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	var h http.Handler = mux
	h = limited(h)
	h = headers.Middleware(h)
	h = log.Middleware(opts.Logger, trace.FromRequest)(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, ratelimit.ClientIP(r),
		log.FieldPath, r.URL.Path)
	w.Header().Set("Retry-After", "60")
	writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded, try again later"})
}

// Shutdown stops the limiter cleanup and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
