package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/prodoffice/crew-timesheet/models"
	"github.com/prodoffice/crew-timesheet/services"
)

// ProjectController handles project-related requests
type ProjectController struct {
	services *services.Services
}

// NewProjectController creates a new project controller
func NewProjectController(services *services.Services) *ProjectController {
	return &ProjectController{
		services: services,
	}
}

// Index handles GET /projects
func (c *ProjectController) Index(w http.ResponseWriter, r *http.Request) {
	projects, err := c.services.Project.GetAll()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load projects: "+err.Error())
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	respondJSON(w, http.StatusOK, projects)
}

// Show handles GET /projects/{projectID}
func (c *ProjectController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	project, err := c.services.Project.GetByID(id)
	if err != nil {
		respondError(w, http.StatusNotFound, "project not found: "+err.Error())
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// Create handles POST /projects
func (c *ProjectController) Create(w http.ResponseWriter, r *http.Request) {
	var form models.ProjectForm
	if err := decodeBody(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	project, err := c.services.Project.Create(&form)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, project)
}

// Update handles PUT /projects/{projectID}
func (c *ProjectController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	var form models.ProjectForm
	if err := decodeBody(r, &form); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	project, err := c.services.Project.Update(id, &form)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, project)
}

// Delete handles DELETE /projects/{projectID}
func (c *ProjectController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	if err := c.services.Project.Delete(id); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// projectID parses the {projectID} route parameter, writing the error
// response itself on failure
func projectID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "projectID"))
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid project ID")
		return 0, false
	}
	return id, true
}
