package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pressline/apiserver/internal/services"
)

// StatsHandler provides HTTP handlers for the live dashboard metrics.
type StatsHandler struct {
	statsService *services.StatsService
}

// NewStatsHandler constructs a handler with the provided dependencies.
func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// StatsRouter registers stats routes on the given router.
func StatsRouter(r chi.Router, statsService *services.StatsService) {
	handler := NewStatsHandler(statsService)

	r.Get("/today", handler.Today)
	r.Get("/efficiency/{userID}", handler.Efficiency)
	r.Get("/session", handler.Session)
	r.Get("/overall", handler.Overall)
	r.Get("/users/today", handler.Roster)
	r.Get("/users/today-volumes", handler.TodayVolumes)
}

func (h *StatsHandler) Today(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.statsService.TodayStats(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch today stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

type EfficiencyResponse struct {
	Efficiency float64 `json:"efficiency"`
}

func (h *StatsHandler) Efficiency(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIntParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	efficiency, err := h.statsService.Efficiency(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute efficiency")
		return
	}
	writeJSON(w, http.StatusOK, EfficiencyResponse{Efficiency: efficiency})
}

type SessionItemsResponse struct {
	ItemsProcessedThisSession int `json:"itemsProcessedThisSession"`
}

func (h *StatsHandler) Session(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	count, err := h.statsService.SessionItems(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch session items")
		return
	}
	writeJSON(w, http.StatusOK, SessionItemsResponse{ItemsProcessedThisSession: count})
}

func (h *StatsHandler) Overall(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.statsService.Overall(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch overall stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) Roster(w http.ResponseWriter, r *http.Request) {
	roster, err := h.statsService.Roster(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch roster")
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

func (h *StatsHandler) TodayVolumes(w http.ResponseWriter, r *http.Request) {
	volumes, err := h.statsService.TodayVolumes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch volumes")
		return
	}
	writeJSON(w, http.StatusOK, volumes)
}
