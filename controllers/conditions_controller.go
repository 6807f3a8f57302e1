package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/prodoffice/crew-timesheet/models"
	"github.com/prodoffice/crew-timesheet/services"
)

// ConditionsController handles condition parameter requests
type ConditionsController struct {
	services *services.Services
}

// NewConditionsController creates a new conditions controller
func NewConditionsController(services *services.Services) *ConditionsController {
	return &ConditionsController{
		services: services,
	}
}

// Show handles GET /projects/{projectID}/conditions/{mode}
func (c *ConditionsController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	mode := models.BillingMode(chi.URLParam(r, "mode"))
	params, err := c.services.Conditions.Get(id, mode)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, params)
}

// Update handles PUT /projects/{projectID}/conditions/{mode}
func (c *ConditionsController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	mode := models.BillingMode(chi.URLParam(r, "mode"))

	var form models.ConditionParamsForm
	if err := decodeBody(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	params, err := c.services.Conditions.Update(id, mode, &form)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, params)
}
