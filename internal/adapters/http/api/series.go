package api

import (
	"net/http"
	"strings"
)

// SeriesHandler handles series aggregates.
type SeriesHandler struct {
	deps Dependencies
}

// NewSeriesHandler creates a new series handler.
func NewSeriesHandler(deps Dependencies) *SeriesHandler {
	return &SeriesHandler{deps: deps}
}

// HandleSeries handles GET /series?ids=a,b,c. Games are aggregated in the
// order given.
func (h *SeriesHandler) HandleSeries(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		writeFailure(w, ErrNoIDs)
		return
	}
	rep, err := h.deps.Series(r.Context(), ids)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
