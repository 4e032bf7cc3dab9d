package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pressline/apiserver/internal/services"
	"github.com/pressline/apiserver/internal/store"
	"github.com/pressline/apiserver/types"
)

// TimeclockHandler provides HTTP handlers for the session lifecycle.
type TimeclockHandler struct {
	timeclockService *services.TimeclockService
	jobTypeService   *services.JobTypeService
	notifier         services.PushNotifier
}

// NewTimeclockHandler constructs a handler with the provided dependencies.
func NewTimeclockHandler(timeclockService *services.TimeclockService, jobTypeService *services.JobTypeService, notifier services.PushNotifier) *TimeclockHandler {
	return &TimeclockHandler{
		timeclockService: timeclockService,
		jobTypeService:   jobTypeService,
		notifier:         notifier,
	}
}

// TimeclockRouter registers timeclock routes on the given router.
func TimeclockRouter(r chi.Router, timeclockService *services.TimeclockService, jobTypeService *services.JobTypeService, notifier services.PushNotifier) {
	handler := NewTimeclockHandler(timeclockService, jobTypeService, notifier)

	r.Post("/clockin", handler.ClockIn)
	r.Put("/clockout/{entryID}", handler.ClockOut)
	r.Get("/current", handler.Current)
	r.Get("/session-stats/{userID}", handler.SessionStats)
	r.Put("/update/{userID}", handler.BulkCorrect)
	r.Get("/jobtypes", handler.ListJobTypes)
}

type ClockInRequest struct {
	UserID    int `json:"userId"`
	JobTypeID int `json:"jobTypeId"`
}

type ClockInResponse struct {
	Entry        types.TimeclockEntry `json:"entry"`
	ItemsPressed int                  `json:"itemsPressed"`
}

func (h *TimeclockHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req ClockInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.UserID < 1 || req.JobTypeID < 1 {
		writeError(w, http.StatusBadRequest, "userId and jobTypeId are required")
		return
	}

	entry, itemsPressed, err := h.timeclockService.ClockIn(r.Context(), req.UserID, req.JobTypeID)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "user or job type not found")
		case errors.Is(err, store.ErrSessionOpen):
			writeError(w, http.StatusConflict, "user already has an open session")
		default:
			writeError(w, http.StatusInternalServerError, "failed to clock in")
		}
		return
	}

	h.notifier.BroadcastRefreshUsers()
	writeJSON(w, http.StatusCreated, ClockInResponse{Entry: entry, ItemsPressed: itemsPressed})
}

type ClockOutRequest struct {
	ClockOutReason string `json:"clockOutReason"`
}

func (h *TimeclockHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	entryID, err := parseInt64Param(r, "entryID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req ClockOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	entry, err := h.timeclockService.ClockOut(r.Context(), entryID, strings.TrimSpace(req.ClockOutReason))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidClockOutReason):
			writeError(w, http.StatusBadRequest, "invalid clock-out reason")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "entry not found")
		case errors.Is(err, store.ErrSessionClosed):
			writeError(w, http.StatusConflict, "entry is already clocked out")
		default:
			writeError(w, http.StatusInternalServerError, "failed to clock out")
		}
		return
	}

	h.notifier.BroadcastRefreshUsers()
	writeJSON(w, http.StatusOK, entry)
}

type CurrentEntryResponse struct {
	IsClockedIn  bool                    `json:"isClockedIn"`
	CurrentEntry *types.EntryWithJobType `json:"currentEntry,omitempty"`
}

func (h *TimeclockHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	current, isClockedIn, err := h.timeclockService.Current(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user or job type not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch current entry")
		return
	}

	resp := CurrentEntryResponse{IsClockedIn: isClockedIn}
	if isClockedIn {
		resp.CurrentEntry = &current
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *TimeclockHandler) SessionStats(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIntParam(r, "userID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := h.timeclockService.SessionStats(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no open session")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch session stats")
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

type BulkCorrectionRequest struct {
	Entries []types.EntryWithJobType `json:"entries"`
}

func (h *TimeclockHandler) BulkCorrect(w http.ResponseWriter, r *http.Request) {
	if _, err := parseIntParam(r, "userID"); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req BulkCorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if len(req.Entries) == 0 {
		writeError(w, http.StatusBadRequest, "entries are required")
		return
	}

	corrections := make([]services.Correction, 0, len(req.Entries))
	for _, item := range req.Entries {
		corrections = append(corrections, services.Correction{
			EntryID:   item.Entry.ID,
			JobTypeID: item.JobType.ID,
			StartTime: item.Entry.StartTime,
			EndTime:   item.Entry.EndTime,
		})
	}

	if err := h.timeclockService.BulkCorrect(r.Context(), corrections); err != nil {
		switch {
		case errors.Is(err, services.ErrOverlappingEntries):
			writeError(w, http.StatusBadRequest, "corrected entries overlap")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "entry not found")
		case errors.Is(err, store.ErrSessionOpen):
			writeError(w, http.StatusConflict, "user already has an open session")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update entries")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *TimeclockHandler) ListJobTypes(w http.ResponseWriter, r *http.Request) {
	jobTypes, err := h.jobTypeService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list job types")
		return
	}
	writeJSON(w, http.StatusOK, jobTypes)
}

func parseUserIDQuery(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("userId"))
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid userId")
	}
	return id, nil
}
