package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/prodoffice/crew-timesheet/services"
)

// respondJSON writes a JSON response with the provided status code
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, map[string]string{"error": message})
}

// decodeBody parses a JSON request body into dst
func decodeBody(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// Controllers holds all controller instances
type Controllers struct {
	Auth       *AuthController
	Project    *ProjectController
	Crew       *CrewController
	Week       *WeekController
	Conditions *ConditionsController
	Report     *ReportController
}

// NewControllers creates and initializes all controller instances
func NewControllers(services *services.Services) *Controllers {
	return &Controllers{
		Auth:       NewAuthController(),
		Project:    NewProjectController(services),
		Crew:       NewCrewController(services),
		Week:       NewWeekController(services),
		Conditions: NewConditionsController(services),
		Report:     NewReportController(services),
	}
}
