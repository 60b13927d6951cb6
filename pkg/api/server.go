// Package api exposes skill selection over HTTP for orchestrators that load
// skill content into model context. The server is read-only with respect to
// the ruleset: selection behavior changes only through a new config version.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Drcollinjc/claude-skills/pkg/compose"
	"github.com/Drcollinjc/claude-skills/pkg/history"
	"github.com/Drcollinjc/claude-skills/pkg/logger"
	"github.com/Drcollinjc/claude-skills/pkg/selector"
	"github.com/Drcollinjc/claude-skills/pkg/skills"
)

const tracerName = "github.com/Drcollinjc/claude-skills/pkg/api"

// Server serves skill selection, listing, and composition endpoints.
type Server struct {
	router    *mux.Router
	ruleset   *selector.Ruleset
	discovery *skills.Discovery
	composer  *compose.Composer
	store     *history.Store
	allowed   []string
	tracer    trace.Tracer

	mu    sync.RWMutex
	cache map[string]*skills.Skill

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithHistory enables selection history recording.
func WithHistory(store *history.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithAllowedSkills restricts served skills to the given glob patterns.
func WithAllowedSkills(patterns []string) Option {
	return func(s *Server) {
		s.allowed = patterns
	}
}

// NewServer creates a Server with its routes registered.
func NewServer(ruleset *selector.Ruleset, discovery *skills.Discovery, composer *compose.Composer, opts ...Option) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		ruleset:   ruleset,
		discovery: discovery,
		composer:  composer,
		tracer:    otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/api/v1/select", s.handleSelect).Methods(http.MethodPost)
	s.router.HandleFunc("/api/v1/command", s.handleCommand).Methods(http.MethodPost)
	s.router.HandleFunc("/api/v1/compose", s.handleCompose).Methods(http.MethodPost)
	s.router.HandleFunc("/api/v1/skills", s.handleListSkills).Methods(http.MethodGet)
	s.router.HandleFunc("/api/v1/skills/{category}/{name}", s.handleGetSkill).Methods(http.MethodGet)
	s.router.Use(s.traceMiddleware)

	return s
}

// Router returns the HTTP handler, usable directly in tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server on host:port and a skill-directory watcher that
// invalidates the discovery cache on changes. Blocks until the server stops.
func (s *Server) Start(ctx context.Context, host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.watchSkillRoots(ctx)

	logger.G(ctx).WithField("addr", addr).Info("starting selection API server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return errors.Wrap(err, "selection API server failed")
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// watchSkillRoots invalidates the skill cache when skill directories change.
// The ruleset stays immutable; only discovered content refreshes.
func (s *Server) watchSkillRoots(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.G(ctx).WithError(err).Warn("failed to create skill watcher, cache will not refresh")
		return
	}
	defer watcher.Close()

	watching := 0
	for _, root := range s.discovery.Roots() {
		if err := watcher.Add(root); err != nil {
			logger.G(ctx).WithError(err).WithField("root", root).Debug("skill root not watchable")
			continue
		}
		watching++
	}
	if watching == 0 {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			logger.G(ctx).WithField("event", event.String()).Debug("skill root changed, invalidating cache")
			s.invalidateCache()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.G(ctx).WithError(err).Warn("skill watcher error")
		}
	}
}

func (s *Server) invalidateCache() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

// snapshot returns the current skill set, discovering and filtering once and
// caching the result until invalidated.
func (s *Server) snapshot() (map[string]*skills.Skill, error) {
	s.mu.RLock()
	cached := s.cache
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	discovered, err := s.discovery.DiscoverSkills()
	if err != nil {
		return nil, err
	}

	filtered, err := skills.FilterByPatterns(discovered, s.allowed)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache = filtered
	s.mu.Unlock()
	return filtered, nil
}

func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.Start(r.Context(), r.Method+" "+r.URL.Path,
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
			),
		)
		defer span.End()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) recordHistory(ctx context.Context, kind, command, description string, selection []string) {
	if s.store == nil {
		return
	}
	if _, err := s.store.Record(ctx, kind, command, description, selection); err != nil {
		logger.G(ctx).WithError(err).Warn("failed to record selection history")
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
