package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pressline/apiserver/internal/services"
	"github.com/pressline/apiserver/internal/store"
	"github.com/pressline/apiserver/types"
)

// JobTypeHandler provides HTTP handlers for the job type catalog.
type JobTypeHandler struct {
	jobTypeService *services.JobTypeService
}

// NewJobTypeHandler constructs a handler with the provided dependencies.
func NewJobTypeHandler(jobTypeService *services.JobTypeService) *JobTypeHandler {
	return &JobTypeHandler{jobTypeService: jobTypeService}
}

// JobTypeRouter registers job type routes on the given router.
func JobTypeRouter(r chi.Router, jobTypeService *services.JobTypeService) {
	handler := NewJobTypeHandler(jobTypeService)

	r.Get("/", handler.List)
	r.Post("/", handler.Create)
	r.Get("/with-ppoh-goals", handler.ListWithGoals)
	r.Route("/{jobTypeID}", func(r chi.Router) {
		r.Get("/", handler.Get)
		r.Put("/", handler.Update)
		r.Delete("/", handler.Delete)
	})
}

type JobTypeUpsertRequest struct {
	Name         string  `json:"name"`
	ExpectedPPOH float64 `json:"expectedPPOH"`
	Paid         bool    `json:"paid"`
	Department   string  `json:"department"`
}

func (h *JobTypeHandler) List(w http.ResponseWriter, r *http.Request) {
	jobTypes, err := h.jobTypeService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list job types")
		return
	}
	writeJSON(w, http.StatusOK, jobTypes)
}

func (h *JobTypeHandler) ListWithGoals(w http.ResponseWriter, r *http.Request) {
	jobTypes, err := h.jobTypeService.ListWithGoals(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list job types")
		return
	}
	writeJSON(w, http.StatusOK, jobTypes)
}

func (h *JobTypeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "jobTypeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	jobType, err := h.jobTypeService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job type not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch job type")
		return
	}
	writeJSON(w, http.StatusOK, jobType)
}

func (h *JobTypeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req JobTypeUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	created, err := h.jobTypeService.Create(r.Context(), types.JobType{
		Name:         req.Name,
		ExpectedPPOH: req.ExpectedPPOH,
		Paid:         req.Paid,
		Department:   req.Department,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidDepartment) {
			writeError(w, http.StatusBadRequest, "invalid department")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to create job type")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *JobTypeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "jobTypeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req JobTypeUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	updated, err := h.jobTypeService.Update(r.Context(), types.JobType{
		ID:           id,
		Name:         strings.TrimSpace(req.Name),
		ExpectedPPOH: req.ExpectedPPOH,
		Paid:         req.Paid,
		Department:   req.Department,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDepartment):
			writeError(w, http.StatusBadRequest, "invalid department")
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "job type not found")
		default:
			writeError(w, http.StatusInternalServerError, "failed to update job type")
		}
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *JobTypeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "jobTypeID")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.jobTypeService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job type not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete job type")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
