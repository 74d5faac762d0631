package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/rinkstats/internal/domain/counters"
	"github.com/okian/rinkstats/internal/domain/gamestats"
	"github.com/okian/rinkstats/internal/domain/model"
	"github.com/okian/rinkstats/internal/domain/penalty"
	"github.com/okian/rinkstats/internal/domain/rolling"
	"github.com/okian/rinkstats/internal/domain/summary"
	"github.com/okian/rinkstats/internal/domain/types"
)

// GamesHandler handles game submission and report views.
type GamesHandler struct {
	deps Dependencies
}

// NewGamesHandler creates a new games handler.
func NewGamesHandler(deps Dependencies) *GamesHandler {
	return &GamesHandler{deps: deps}
}

// HandleSubmit handles POST /games.
func (h *GamesHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var sub types.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeFailure(w, fmt.Errorf("%w: invalid json: %w", ErrBadRequest, err))
		return
	}
	h.accept(w, func() (types.Receipt, error) { return h.deps.Submit(r.Context(), sub) })
}

// HandleLoad handles POST /games/{id}/load.
func (h *GamesHandler) HandleLoad(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.accept(w, func() (types.Receipt, error) { return h.deps.SubmitSaved(r.Context(), id) })
}

func (h *GamesHandler) accept(w http.ResponseWriter, submit func() (types.Receipt, error)) {
	rec, err := submit()
	if err != nil {
		writeFailure(w, err)
		return
	}
	status := http.StatusAccepted
	if rec.Duplicate {
		status = http.StatusOK
	}
	writeJSON(w, status, rec)
}

// HandleList handles GET /games?limit=N.
func (h *GamesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			writeFailure(w, fmt.Errorf("%w: limit must be an integer", ErrBadRequest))
			return
		}
		limit = n
	}
	games, err := h.deps.Games(r.Context(), limit)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, games)
}

// HandleReport handles GET /games/{id}.
func (h *GamesHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, func(rep *gamestats.Report) (any, error) { return rep, nil })
}

type summaryResponse struct {
	Game    summary.Game    `json:"game"`
	Summary summary.Table   `json:"summary"`
	Goals   summary.GoalLog `json:"goals"`
}

// HandleSummary handles GET /games/{id}/summary.
func (h *GamesHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, func(rep *gamestats.Report) (any, error) {
		return summaryResponse{Game: rep.Game, Summary: rep.Summary, Goals: rep.Goals}, nil
	})
}

// HandleMomentum handles GET /games/{id}/momentum.
func (h *GamesHandler) HandleMomentum(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, func(rep *gamestats.Report) (any, error) { return rep.Momentum, nil })
}

type penaltiesResponse struct {
	Away penaltySide `json:"away"`
	Home penaltySide `json:"home"`
}

type penaltySide struct {
	Team      string             `json:"team"`
	PIM       int                `json:"pim"`
	PPG       int                `json:"ppg"`
	SHG       int                `json:"shg"`
	Intervals []penalty.Interval `json:"intervals"`
}

// HandlePenalties handles GET /games/{id}/penalties.
func (h *GamesHandler) HandlePenalties(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, func(rep *gamestats.Report) (any, error) {
		side := func(s model.Side, team string) penaltySide {
			return penaltySide{
				Team:      team,
				PIM:       rep.Final[s][counters.PIM],
				PPG:       rep.Final[s][counters.PPG],
				SHG:       rep.Final[s][counters.SHG],
				Intervals: rep.Intervals[s],
			}
		}
		return penaltiesResponse{
			Away: side(model.Away, rep.Game.Matchup.Away.Abbrev),
			Home: side(model.Home, rep.Game.Matchup.Home.Abbrev),
		}, nil
	})
}

// HandleRink handles GET /games/{id}/rink.
func (h *GamesHandler) HandleRink(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, func(rep *gamestats.Report) (any, error) { return rep.Rink, nil })
}

// HandleCounters handles GET /games/{id}/counters: both sides' running
// totals and the shot differential at every grid point.
func (h *GamesHandler) HandleCounters(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, func(rep *gamestats.Report) (any, error) { return rep.Series, nil })
}

// HandleRolling handles GET /games/{id}/rolling/{stat}.
func (h *GamesHandler) HandleRolling(w http.ResponseWriter, r *http.Request) {
	stat, err := counters.ParseStat(r.PathValue("stat"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	h.view(w, r, func(rep *gamestats.Report) (any, error) {
		t, ok := rolling.Find(rep.Rolling, stat)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoRolling, stat)
		}
		return t, nil
	})
}

// view loads the report named in the path and writes the part pick returns.
func (h *GamesHandler) view(w http.ResponseWriter, r *http.Request, pick func(*gamestats.Report) (any, error)) {
	rep, err := h.deps.Report(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	v, err := pick(rep)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
