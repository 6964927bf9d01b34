// Package server provides the HTTP JSON API over the scorer, the data
// provider and the AI advisor.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/team-matcher/internal/ai"
	"github.com/spigell/team-matcher/internal/employee"
	"github.com/spigell/team-matcher/internal/logger"
	"github.com/spigell/team-matcher/internal/metrics"
	"github.com/spigell/team-matcher/internal/store"
	"github.com/spigell/team-matcher/internal/team"
)

const (
	defaultAddr         = ":8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 120 * time.Second
	shutdownTimeout     = 15 * time.Second
	maxBodyBytes        = 1 << 20
)

// DataProvider is the read/write surface the API needs. store.Store
// implements it.
type DataProvider interface {
	ListEmployees(ctx context.Context) ([]*employee.Profile, error)
	GetEmployee(ctx context.Context, id int64) (*employee.Profile, error)
	GetEmployees(ctx context.Context, ids []int64) ([]*employee.Profile, error)
	ListSkills(ctx context.Context) ([]employee.Skill, error)
	ListTeams(ctx context.Context) ([]team.Team, error)
	GetTeam(ctx context.Context, id int64) (team.Team, error)
	GetRoster(ctx context.Context, teamID int64) (*team.Roster, error)
	SaveRoster(ctx context.Context, teamID, leaderID int64, members []team.Member) ([]team.Member, error)
	Snapshot(ctx context.Context) (*store.Snapshot, error)
}

type Config struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	WriteTimeout time.Duration `mapstructure:"write-timeout"`
}

// Server represents the HTTP server.
type Server struct {
	httpServer *http.Server
	data       DataProvider
	advisor    ai.Advisor
	logger     *zap.Logger
	metrics    *metrics.Manager
	validator  *validator.Validate
}

// New wires the routes. advisor may be nil, the AI endpoints then answer 503.
func New(cfg Config, data DataProvider, advisor ai.Advisor, log *zap.Logger, m *metrics.Manager) *Server {
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}

	s := &Server{
		data:      data,
		advisor:   advisor,
		logger:    logger.OrNop(log),
		metrics:   m,
		validator: validator.New(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", m.Handler())

	mux.HandleFunc("GET /api/archetypes", s.handleListArchetypes)
	mux.HandleFunc("GET /api/archetypes/{name}", s.handleGetArchetype)

	mux.HandleFunc("GET /api/employees", s.handleListEmployees)
	mux.HandleFunc("GET /api/employees/{id}", s.handleGetEmployee)
	mux.HandleFunc("GET /api/employees/{id}/fit", s.handleEmployeeFit)
	mux.HandleFunc("GET /api/skills", s.handleListSkills)

	mux.HandleFunc("GET /api/teams", s.handleListTeams)
	mux.HandleFunc("GET /api/teams/{id}", s.handleGetTeam)
	mux.HandleFunc("PUT /api/teams/{id}/members", s.handleSaveMembers)
	mux.HandleFunc("GET /api/teams/{id}/composition", s.handleTeamComposition)
	mux.HandleFunc("GET /api/teams/{id}/balance", s.handleTeamBalance)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	mux.HandleFunc("POST /api/fit", s.handleScoreFit)
	mux.HandleFunc("POST /api/composition", s.handleScoreComposition)

	mux.HandleFunc("POST /api/ai/analyze-team-fit", s.handleAnalyzeTeamFit)
	mux.HandleFunc("POST /api/ai/match-skills", s.handleMatchSkills)
	mux.HandleFunc("POST /api/ai/suggest-team-leader", s.handleSuggestLeader)
	mux.HandleFunc("POST /api/ai/suggest-team-composition", s.handleSuggestComposition)

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.withRequestID(s.withLogging(s.withCORS(mux))),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the full middleware chain, mostly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("encoding json response", zap.Error(err))
	}
}

func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	s.jsonResponse(w, status, map[string]string{"error": err.Error()})
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return &ErrBadRequest{Message: fmt.Sprintf("invalid request body: %v", err)}
	}
	if err := s.validator.Struct(dst); err != nil {
		return err
	}
	return nil
}
