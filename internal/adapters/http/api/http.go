// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/rinkstats/internal/adapters/repository"
	"github.com/okian/rinkstats/internal/adapters/source"
	"github.com/okian/rinkstats/internal/adapters/teams"
	"github.com/okian/rinkstats/internal/domain/counters"
	"github.com/okian/rinkstats/internal/domain/gamestats"
	"github.com/okian/rinkstats/internal/domain/summary"
	"github.com/okian/rinkstats/internal/domain/types"
)

// maxBodyBytes caps POST /games bodies. A full game is a few thousand plays.
const maxBodyBytes = 16 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Submit validates a game and queues it for computation.
	Submit(ctx context.Context, sub types.Submission) (types.Receipt, error)
	// SubmitSaved queues a game read from the plays source.
	SubmitSaved(ctx context.Context, gameID string) (types.Receipt, error)

	// Read operations expose computed reports.
	Report(ctx context.Context, gameID string) (*gamestats.Report, error)
	Games(ctx context.Context, limit int) ([]repository.Entry, error)
	Series(ctx context.Context, ids []string) (summary.SeriesReport, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	gamesHandler  *GamesHandler
	seriesHandler *SeriesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		gamesHandler:  NewGamesHandler(deps),
		seriesHandler: NewSeriesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /games", MetricsMiddleware(s.gamesHandler.HandleSubmit, "games_submit"))
	mux.HandleFunc("GET /games", MetricsMiddleware(s.gamesHandler.HandleList, "games_list"))
	mux.HandleFunc("POST /games/{id}/load", MetricsMiddleware(s.gamesHandler.HandleLoad, "games_load"))
	mux.HandleFunc("GET /games/{id}", MetricsMiddleware(s.gamesHandler.HandleReport, "games_report"))
	mux.HandleFunc("GET /games/{id}/summary", MetricsMiddleware(s.gamesHandler.HandleSummary, "games_summary"))
	mux.HandleFunc("GET /games/{id}/momentum", MetricsMiddleware(s.gamesHandler.HandleMomentum, "games_momentum"))
	mux.HandleFunc("GET /games/{id}/penalties", MetricsMiddleware(s.gamesHandler.HandlePenalties, "games_penalties"))
	mux.HandleFunc("GET /games/{id}/rink", MetricsMiddleware(s.gamesHandler.HandleRink, "games_rink"))
	mux.HandleFunc("GET /games/{id}/counters", MetricsMiddleware(s.gamesHandler.HandleCounters, "games_counters"))
	mux.HandleFunc("GET /games/{id}/rolling/{stat}", MetricsMiddleware(s.gamesHandler.HandleRolling, "games_rolling"))

	mux.HandleFunc("GET /series", MetricsMiddleware(s.seriesHandler.HandleSeries, "series"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err to its status and error code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	writeError(w, status, code, err)
}

// statusOf translates service and domain errors to HTTP statuses.
func statusOf(err error) (int, string) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "too_large"
	case errors.Is(err, types.ErrNotStarted):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, types.ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, types.ErrNoSource):
		return http.StatusNotImplemented, "no_source"
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, source.ErrGameNotFound),
		errors.Is(err, ErrNoRolling):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrNoIDs),
		errors.Is(err, types.ErrMissingGameID),
		errors.Is(err, types.ErrMissingTeams),
		errors.Is(err, types.ErrMissingPlays),
		errors.Is(err, summary.ErrInvalidGameID),
		errors.Is(err, source.ErrInvalidGameID),
		errors.Is(err, teams.ErrUnknownTeam),
		errors.Is(err, counters.ErrUnknownStat),
		errors.Is(err, repository.ErrInvalidLimit),
		errors.Is(err, summary.ErrNoGames),
		errors.Is(err, summary.ErrMixedTeams):
		return http.StatusBadRequest, "bad_request"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
