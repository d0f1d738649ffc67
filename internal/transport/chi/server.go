package chi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/zeit-online/contentapi/internal/db"
	"github.com/zeit-online/contentapi/internal/domain"
	logpkg "github.com/zeit-online/contentapi/internal/logger"
	clientrepo "github.com/zeit-online/contentapi/internal/repository/client"
	refrepo "github.com/zeit-online/contentapi/internal/repository/reference"
	"github.com/zeit-online/contentapi/internal/usecase/access"
	healthuc "github.com/zeit-online/contentapi/internal/usecase/health"
	"github.com/zeit-online/contentapi/internal/usecase/query"
)

// Ingester refreshes the reference tables.
type Ingester interface {
	Run(ctx context.Context) error
}

// Deps are the long-lived collaborators of the server.
type Deps struct {
	Store   db.RowStore
	Engine  query.Engine
	Captcha query.CaptchaVerifier
	// Usage keeps request counters outside the row store. Nil counts on the
	// client row through the request's session.
	Usage  access.UsageStore
	Ingest Ingester
	Health *healthuc.Service
}

// Config holds request handling settings.
type Config struct {
	APIURL     string
	ServerName string
	Access     access.Config
}

// Server serves the content API.
type Server struct {
	deps          Deps
	cfg           Config
	logger        *zap.Logger
	now           func() time.Time
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(deps Deps, cfg Config, logger *zap.Logger) *Server {
	if cfg.Access.Tiers == nil {
		cfg.Access.Tiers = domain.DefaultTiers()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		deps:          deps,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
		errorHandlers: defaultErrorHandlers(),
	}
}

// WithClock replaces the time source used for quota windows and registration.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r gochi.Router) {
	r.Use(HeadersMiddleware(s.cfg.ServerName))
	r.Use(PreflightMiddleware)

	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.methodNotAllowed)

	r.Get("/health", s.healthCheck)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/trigger", s.trigger)

	r.Get("/", s.handle(false, func(f *query.Factory, _ *http.Request) (query.Query, error) {
		return f.Definition(), nil
	}))
	r.Post("/client", s.handle(false, func(f *query.Factory, r *http.Request) (query.Query, error) {
		return f.Registration(remoteIP(r)), nil
	}))
	r.Get("/client", s.handle(true, func(f *query.Factory, _ *http.Request) (query.Query, error) {
		return f.Endpoint("client")
	}))
	r.Get("/{endpoint}", s.handle(true, func(f *query.Factory, r *http.Request) (query.Query, error) {
		return f.Endpoint(gochi.URLParam(r, "endpoint"))
	}))
	r.Get("/content/{id}", s.handle(true, func(f *query.Factory, r *http.Request) (query.Query, error) {
		return f.ContentByID(gochi.URLParam(r, "id")), nil
	}))
	r.Get("/{endpoint}/{id}", s.handle(true, func(f *query.Factory, r *http.Request) (query.Query, error) {
		return f.Filtered(gochi.URLParam(r, "endpoint"), gochi.URLParam(r, "id"))
	}))
}

// builder resolves the query a route serves.
type builder func(f *query.Factory, r *http.Request) (query.Query, error)

// handle runs one query inside a row store session. Gated routes pass the
// access gate first.
func (s *Server) handle(gated bool, build builder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := logpkg.FromContext(ctx)

		if !validCallback(r) {
			s.handleDomainError(w, r, fmt.Errorf("%w: invalid callback", domain.ErrBadRequest))
			return
		}

		conn, err := s.deps.Store.Acquire(ctx)
		if err != nil {
			s.handleDomainError(w, r, fmt.Errorf("%w: %v", domain.ErrServiceUnavailable, err))
			return
		}
		defer func() { _ = conn.Close() }()

		clients := clientrepo.New(conn)
		env := &query.Env{
			APIURL:     s.cfg.APIURL,
			References: refrepo.New(conn),
			Clients:    clients,
			Engine:     s.deps.Engine,
			Captcha:    s.deps.Captcha,
			Tiers:      s.cfg.Access.Tiers,
			Now:        s.now,
			Logger:     logger,
		}
		factory := query.NewFactory(env)

		run := func(ctx context.Context, c domain.Client) error {
			if c.Tier != "" {
				ctx = logpkg.With(ctx, zap.String("tier", string(c.Tier)))
				env.Logger = logpkg.FromContext(ctx)
			}
			env.Client = c
			q, err := build(factory, r)
			if err != nil {
				return err
			}
			values, err := requestValues(r)
			if err != nil {
				return err
			}
			if err := q.Params().Bind(values, env.Logger); err != nil {
				return err
			}
			body, err := q.Fetch(ctx)
			if err != nil {
				return err
			}
			s.write(w, r, http.StatusOK, body)
			return nil
		}

		if gated {
			var usage access.UsageStore = clients
			if s.deps.Usage != nil {
				usage = s.deps.Usage
			}
			gate := access.New(clients, usage, s.cfg.Access, logger).WithClock(s.now)
			err = gate.Guard(ctx, apiKey(r), run)
		} else {
			err = run(ctx, domain.Client{})
		}
		if err != nil {
			s.handleDomainError(w, r, err)
		}
	}
}

// trigger refreshes the reference tables synchronously.
func (s *Server) trigger(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ingest == nil {
		s.handleDomainError(w, r, fmt.Errorf("%w: ingestion not configured", domain.ErrServiceUnavailable))
		return
	}
	if err := s.deps.Ingest.Run(r.Context()); err != nil {
		s.handleDomainError(w, r, fmt.Errorf("metadata update: %w", err))
		return
	}
	s.logger.Info("metadata update completed")
	w.WriteHeader(http.StatusNoContent)
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.deps.Health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	s.write(w, r, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.handleDomainError(w, r, fmt.Errorf("%w: %s", domain.ErrResourceNotFound, r.URL.Path))
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.handleDomainError(w, r, domain.NewMethodNotAllowed(r.Method))
}

// requestValues returns the form of a POST and the query string otherwise.
func requestValues(r *http.Request) (url.Values, error) {
	if r.Method != http.MethodPost {
		return r.URL.Query(), nil
	}
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBadRequest, err)
	}
	return r.PostForm, nil
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(r.Context())
	for _, h := range s.errorHandlers {
		if status, desc, ok := h(err); ok {
			logger.Warn("domain error", zap.Int("status", status), zap.Error(err))
			s.write(w, r, status, errorBody{Description: desc})
			return
		}
	}
	if errors.Is(err, context.Canceled) {
		logger.Info("request cancelled", zap.Error(err))
	} else {
		logger.Error("internal error", zap.Error(err))
	}
	s.write(w, r, http.StatusInternalServerError, errorBody{Description: descInternal})
}
