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

// ProductionHandler provides the barcode scan ingestion endpoint.
type ProductionHandler struct {
	productionService *services.ProductionService
}

// NewProductionHandler constructs a handler with the provided dependencies.
func NewProductionHandler(productionService *services.ProductionService) *ProductionHandler {
	return &ProductionHandler{productionService: productionService}
}

// ProductionRouter registers production routes on the given router.
func ProductionRouter(r chi.Router, productionService *services.ProductionService) {
	handler := NewProductionHandler(productionService)

	r.Post("/", handler.Submit)
}

type SubmitScanRequest struct {
	UserID          int     `json:"userId"`
	JobID           int     `json:"jobId"`
	Barcode         string  `json:"barcode"`
	ProductionValue float64 `json:"productionValue"`
}

type SubmitScanResponse struct {
	SavedEntry   types.ProductionEntry `json:"savedEntry"`
	ItemsPressed int                   `json:"itemsPressed"`
}

func (h *ProductionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	req.Barcode = strings.TrimSpace(req.Barcode)
	if req.UserID < 1 || req.JobID < 1 || req.Barcode == "" {
		writeError(w, http.StatusBadRequest, "userId, jobId, and barcode are required")
		return
	}

	saved, itemsPressed, err := h.productionService.Submit(r.Context(), req.UserID, req.JobID, req.Barcode, req.ProductionValue)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user or job type not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to save production entry")
		return
	}

	writeJSON(w, http.StatusCreated, SubmitScanResponse{SavedEntry: saved, ItemsPressed: itemsPressed})
}
