package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prodoffice/crew-timesheet/models"
	"github.com/prodoffice/crew-timesheet/services"
)

// ReportController handles report grid requests
type ReportController struct {
	services *services.Services
}

// NewReportController creates a new report controller
func NewReportController(services *services.Services) *ReportController {
	return &ReportController{
		services: services,
	}
}

// Show handles GET /projects/{projectID}/report?week=YYYY-MM-DD
func (c *ReportController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	weekStart, ok := weekParam(w, r)
	if !ok {
		return
	}

	sheet, err := c.services.Report.GetSheet(id, weekStart)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load report: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sheet)
}

// Recompute handles POST /projects/{projectID}/report/recompute?week=YYYY-MM-DD
func (c *ReportController) Recompute(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	weekStart, ok := weekParam(w, r)
	if !ok {
		return
	}

	sheet, err := c.services.Report.Recompute(id, weekStart)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to recompute report: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sheet)
}

// cellForm is the request body of a cell edit
type cellForm struct {
	PersonKey string `json:"person_key"`
	Concept   string `json:"concept"`
	Date      string `json:"date"`
	Value     string `json:"value"`
}

// SetCell handles PUT /projects/{projectID}/report/cell?week=YYYY-MM-DD
func (c *ReportController) SetCell(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	weekStart, ok := weekParam(w, r)
	if !ok {
		return
	}

	var form cellForm
	if err := decodeBody(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if form.PersonKey == "" {
		respondError(w, http.StatusBadRequest, "person_key is required")
		return
	}

	sheet, err := c.services.Report.SetCell(id, weekStart, form.PersonKey, models.Concept(form.Concept), form.Date, form.Value)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sheet)
}

// Totals handles GET /projects/{projectID}/report/totals?week=YYYY-MM-DD
func (c *ReportController) Totals(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	weekStart, ok := weekParam(w, r)
	if !ok {
		return
	}

	totals, err := c.services.Report.WeeklyTotals(id, weekStart)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute totals: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

// Collapsed handles GET /projects/{projectID}/report/collapsed?week=YYYY-MM-DD
func (c *ReportController) Collapsed(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	weekStart, ok := weekParam(w, r)
	if !ok {
		return
	}

	collapsed, err := c.services.Report.GetCollapsed(id, weekStart)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load collapsed rows: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, collapsed)
}

// toggleForm is the request body of a collapse toggle
type toggleForm struct {
	PersonKey string `json:"person_key"`
}

// ToggleCollapsed handles POST /projects/{projectID}/report/collapsed?week=YYYY-MM-DD
func (c *ReportController) ToggleCollapsed(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	weekStart, ok := weekParam(w, r)
	if !ok {
		return
	}

	var form toggleForm
	if err := decodeBody(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	collapsed, err := c.services.Report.ToggleCollapsed(id, weekStart, form.PersonKey)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, collapsed)
}

// ExportRange handles GET /projects/{projectID}/report/export/{month}
func (c *ReportController) ExportRange(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	month := chi.URLParam(r, "month")
	rng, found, err := c.services.Report.GetExportRange(id, month)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load export range: "+err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, "no export range stored for "+month)
		return
	}
	respondJSON(w, http.StatusOK, rng)
}

// SetExportRange handles PUT /projects/{projectID}/report/export/{month}
func (c *ReportController) SetExportRange(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	month := chi.URLParam(r, "month")

	var rng models.ExportRange
	if err := decodeBody(r, &rng); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := c.services.Report.SetExportRange(id, month, rng); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, rng)
}
