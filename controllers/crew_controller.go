package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prodoffice/crew-timesheet/models"
	"github.com/prodoffice/crew-timesheet/services"
)

// CrewController handles roster-related requests
type CrewController struct {
	services *services.Services
}

// NewCrewController creates a new crew controller
func NewCrewController(services *services.Services) *CrewController {
	return &CrewController{
		services: services,
	}
}

// Index handles GET /projects/{projectID}/crew?week=YYYY-MM-DD
func (c *CrewController) Index(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	weekStart, ok := weekParam(w, r)
	if !ok {
		return
	}

	members, err := c.services.Crew.GetRoster(id, weekStart)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load roster: "+err.Error())
		return
	}
	if members == nil {
		members = []models.CrewMember{}
	}
	respondJSON(w, http.StatusOK, members)
}

// Keys handles GET /projects/{projectID}/crew/keys?week=YYYY-MM-DD
func (c *CrewController) Keys(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	weekStart, ok := weekParam(w, r)
	if !ok {
		return
	}

	keys, err := c.services.Crew.PersonKeys(id, weekStart)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to derive person keys: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, keys)
}

// Create handles POST /projects/{projectID}/crew
func (c *CrewController) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	var form models.CrewMemberForm
	if err := decodeBody(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	member, err := c.services.Crew.CreateMember(id, &form)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, member)
}

// Update handles PUT /projects/{projectID}/crew/{id}
func (c *CrewController) Update(w http.ResponseWriter, r *http.Request) {
	memberID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid crew member ID")
		return
	}

	var form models.CrewMemberForm
	if err := decodeBody(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	member, err := c.services.Crew.UpdateMember(memberID, &form)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, member)
}

// Delete handles DELETE /projects/{projectID}/crew/{id}
func (c *CrewController) Delete(w http.ResponseWriter, r *http.Request) {
	memberID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid crew member ID")
		return
	}

	if err := c.services.Crew.DeleteMember(memberID); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// weekParam reads and validates the required ?week= query parameter
func weekParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	weekStart := r.URL.Query().Get("week")
	if _, err := models.ParseDate(weekStart); err != nil {
		respondError(w, http.StatusBadRequest, "week parameter must be in YYYY-MM-DD format")
		return "", false
	}
	return weekStart, true
}
