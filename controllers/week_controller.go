package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prodoffice/crew-timesheet/models"
	"github.com/prodoffice/crew-timesheet/services"
)

// WeekController handles week plan requests
type WeekController struct {
	services *services.Services
}

// NewWeekController creates a new week controller
func NewWeekController(services *services.Services) *WeekController {
	return &WeekController{
		services: services,
	}
}

// Timeline handles GET /projects/{projectID}/weeks
func (c *WeekController) Timeline(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	timeline, err := c.services.Week.GetTimeline(id)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load week timeline: "+err.Error())
		return
	}
	if timeline == nil {
		timeline = []models.Week{}
	}
	respondJSON(w, http.StatusOK, timeline)
}

// Show handles GET /projects/{projectID}/weeks/{date}
func (c *WeekController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	week, err := c.services.Week.GetWeek(id, chi.URLParam(r, "date"))
	if err != nil {
		respondError(w, http.StatusNotFound, "week plan not found: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, week)
}

// Save handles PUT /projects/{projectID}/weeks
func (c *WeekController) Save(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	var form models.WeekForm
	if err := decodeBody(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	week, err := c.services.Week.SaveWeek(id, &form)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// A schedule change invalidates the computed report for that week
	if _, err := c.services.Report.Recompute(id, week.StartDate); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to recompute report: "+err.Error())
		return
	}

	respondJSON(w, http.StatusOK, week)
}

// Delete handles DELETE /projects/{projectID}/weeks/{id}
func (c *WeekController) Delete(w http.ResponseWriter, r *http.Request) {
	weekID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid week plan ID")
		return
	}

	if err := c.services.Week.DeleteWeek(weekID); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
