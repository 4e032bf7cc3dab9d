package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pressline/apiserver/internal/services"
)

// ReportHandler provides HTTP handlers for the manager reports.
type ReportHandler struct {
	reportService *services.ReportService
	exportService *services.ExportService
}

// NewReportHandler constructs a handler with the provided dependencies.
func NewReportHandler(reportService *services.ReportService, exportService *services.ExportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		exportService: exportService,
	}
}

// ReportRouter registers report routes on the given router.
func ReportRouter(r chi.Router, reportService *services.ReportService, exportService *services.ExportService) {
	handler := NewReportHandler(reportService, exportService)

	r.Get("/productivity-by-employee", handler.ProductivityByEmployee)
	r.Get("/weeklyTimecards", handler.WeeklyTimecards)
	r.Get("/weeklyTimecards/export", handler.WeeklyTimecardsExport)
	r.Get("/todaysTimeclocks", handler.TodaysTimeclocks)
	r.Get("/dayEntries", handler.DayEntries)
}

func (h *ReportHandler) ProductivityByEmployee(w http.ResponseWriter, r *http.Request) {
	start, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rows, err := h.reportService.ProductivityByEmployee(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build productivity report")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *ReportHandler) WeeklyTimecards(w http.ResponseWriter, r *http.Request) {
	start, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	cards, err := h.reportService.WeeklyTimecards(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build weekly timecards")
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

func (h *ReportHandler) WeeklyTimecardsExport(w http.ResponseWriter, r *http.Request) {
	start, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, filename, err := h.exportService.WeeklyTimecardsXLSX(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to export weekly timecards")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *ReportHandler) TodaysTimeclocks(w http.ResponseWriter, r *http.Request) {
	date, err := parseDateQuery(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	groups, err := h.reportService.DayTimeclocks(r.Context(), date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch timeclocks")
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

func (h *ReportHandler) DayEntries(w http.ResponseWriter, r *http.Request) {
	userID, err := parseUserIDQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, err := parseDateQuery(r, "date")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.reportService.DayEntries(r.Context(), userID, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch entries")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
