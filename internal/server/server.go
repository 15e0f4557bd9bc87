// Package server provides the HTTP API for ATS scoring, job analysis and saved applications.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/jonathan/ats-tailor/internal/config"
	"github.com/jonathan/ats-tailor/internal/db"
	"github.com/jonathan/ats-tailor/internal/fetch"
	"github.com/jonathan/ats-tailor/internal/logging"
	"github.com/jonathan/ats-tailor/internal/server/middleware"
	"github.com/jonathan/ats-tailor/internal/server/ratelimit"
	"github.com/jonathan/ats-tailor/internal/types"
)

const (
	defaultMaxBodyBytes = 1 << 20
	shutdownTimeout     = 30 * time.Second
)

// ApplicationStore persists saved job applications. Lookups return nil, nil when the row
// does not exist or belongs to another user.
type ApplicationStore interface {
	CreateApplication(ctx context.Context, userID uuid.UUID, in *db.ApplicationInput) (*types.Application, error)
	GetApplication(ctx context.Context, userID, id uuid.UUID) (*types.Application, error)
	ListApplications(ctx context.Context, userID uuid.UUID, limit int) ([]types.Application, error)
	UpdateApplication(ctx context.Context, userID, id uuid.UUID, in *db.ApplicationInput) (*types.Application, error)
	DeleteApplication(ctx context.Context, userID, id uuid.UUID) (bool, error)
	DuplicateApplication(ctx context.Context, userID, id uuid.UUID) (*types.Application, error)
	UpdateOptimizedScore(ctx context.Context, userID, id uuid.UUID, resumeContent string, score *types.ATSScore) (bool, error)
}

// JobAnalyzer turns a job description into a job profile.
type JobAnalyzer interface {
	Analyze(ctx context.Context, description string) (*types.JobProfile, error)
}

// PostingFetcher downloads a job posting.
type PostingFetcher interface {
	FetchPosting(ctx context.Context, url string) (*fetch.Posting, error)
}

// PostingFetcherFunc adapts a function to PostingFetcher.
type PostingFetcherFunc func(ctx context.Context, url string) (*fetch.Posting, error)

// FetchPosting calls f.
func (f PostingFetcherFunc) FetchPosting(ctx context.Context, url string) (*fetch.Posting, error) {
	return f(ctx, url)
}

// Deps are the server's collaborators. Nil stores or a nil JWT config leave the
// authenticated routes unregistered; a nil analyzer or fetcher does the same for
// /analyze and /fetch-job.
type Deps struct {
	Users        UserStore
	Applications ApplicationStore
	Analyzer     JobAnalyzer
	Fetcher      PostingFetcher
	JWT          *config.JWTConfig
	Password     *config.PasswordConfig
	Logger       *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	cfg          config.ServerConfig
	deps         Deps
	logger       *zap.Logger
	validate     *validator.Validate
	rateLimiter  *ratelimit.Limiter
	jwtService   *JWTService
	authHandler  *AuthHandler
	handler      http.Handler
	httpServer   *http.Server
	maxBodyBytes int64
}

// New creates a server and builds its routes.
func New(cfg config.ServerConfig, deps Deps) (*Server, error) {
	s := &Server{
		cfg:          cfg,
		deps:         deps,
		logger:       logging.OrNop(deps.Logger),
		validate:     types.Validator(),
		rateLimiter:  ratelimit.NewLimiter(ratelimit.FromConfig(cfg.RateLimit)),
		maxBodyBytes: cfg.MaxBodyBytes,
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = defaultMaxBodyBytes
	}

	if deps.Users != nil {
		if deps.JWT == nil || deps.Password == nil {
			return nil, errors.New("user store requires JWT and password configuration")
		}
		s.jwtService = NewJWTService(deps.JWT)
		s.authHandler = &AuthHandler{
			server:      s,
			userService: NewUserService(deps.Users, deps.Password),
			jwtService:  s.jwtService,
		}
	}

	s.handler = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /ats-score", s.handleATSScore)
	mux.HandleFunc("POST /format-ats", s.handleFormatATS)

	if s.deps.Analyzer != nil {
		mux.HandleFunc("POST /analyze", s.handleAnalyze)
	}
	if s.deps.Fetcher != nil {
		mux.HandleFunc("POST /fetch-job", s.handleFetchJob)
	}

	if s.authHandler != nil {
		auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
		mux.HandleFunc("POST /auth/register", s.authHandler.Register)
		mux.HandleFunc("POST /auth/login", s.authHandler.Login)
		mux.Handle("PUT /auth/password", auth(http.HandlerFunc(s.authHandler.UpdatePassword)))

		if s.deps.Applications != nil {
			mux.Handle("GET /jobs", auth(http.HandlerFunc(s.handleListJobs)))
			mux.Handle("POST /jobs", auth(http.HandlerFunc(s.handleCreateJob)))
			mux.Handle("GET /jobs/{id}", auth(http.HandlerFunc(s.handleGetJob)))
			mux.Handle("PUT /jobs/{id}", auth(http.HandlerFunc(s.handleUpdateJob)))
			mux.Handle("DELETE /jobs/{id}", auth(http.HandlerFunc(s.handleDeleteJob)))
			mux.Handle("POST /jobs/{id}/duplicate", auth(http.HandlerFunc(s.handleDuplicateJob)))
			mux.Handle("POST /reanalyze-ats", auth(http.HandlerFunc(s.handleReanalyzeATS)))
		}
	} else {
		s.logger.Warn("no user store configured, auth and saved job routes are disabled")
	}

	var h http.Handler = mux
	h = middleware.BodyLimit(s.maxBodyBytes)(h)
	h = middleware.CORS(h)
	h = s.withRateLimit(h)
	h = middleware.Logging(s.logger)(h)
	h = middleware.Recover(s.logger)(h)
	return h
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second, // analysis waits on the model
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.rateLimiter.Stop()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	defer s.rateLimiter.Stop()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources for servers that were never started.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withRateLimit applies per-client token buckets keyed by remote IP.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(clientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientID uses the IP from RemoteAddr. Forwarded headers are not trusted.
func clientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":   "rate_limit_exceeded",
		"message": "Rate limit exceeded. Please try again later.",
		"limit":   info.Limit,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}
	s.logger.Debug("rate limit exceeded", zap.Int("limit", info.Limit))
	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
