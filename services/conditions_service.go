package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/prodoffice/crew-timesheet/models"
	"github.com/prodoffice/crew-timesheet/repositories"
)

// ConditionsService interface defines condition parameter business logic
type ConditionsService interface {
	// Load resolves the thresholds for a project and billing mode. It is a
	// total function: a missing record falls through the fixed mode order and
	// finally to the documented defaults, and stored values are sanitized.
	Load(projectID int, mode models.BillingMode) models.ConditionParams
	Get(projectID int, mode models.BillingMode) (*models.ConditionParams, error)
	Update(projectID int, mode models.BillingMode, form *models.ConditionParamsForm) (*models.ConditionParams, error)
}

// conditionsService implements ConditionsService interface
type conditionsService struct {
	conditionsRepo repositories.ConditionsRepository
}

// NewConditionsService creates a new conditions service
func NewConditionsService(conditionsRepo repositories.ConditionsRepository) ConditionsService {
	return &conditionsService{conditionsRepo: conditionsRepo}
}

// Load resolves condition parameters with the documented fallback chain
func (s *conditionsService) Load(projectID int, mode models.BillingMode) models.ConditionParams {
	tried := []models.BillingMode{mode}
	for _, fallback := range models.BillingModeFallbackOrder {
		if fallback != mode {
			tried = append(tried, fallback)
		}
	}

	for _, candidate := range tried {
		params, err := s.conditionsRepo.Get(projectID, candidate)
		if err == nil {
			sanitized := params.Sanitized()
			sanitized.ProjectID = projectID
			sanitized.BillingMode = candidate
			return sanitized
		}
		if !errors.Is(err, repositories.ErrConditionsNotFound) {
			log.Warn().Err(err).Int("project_id", projectID).Str("mode", string(candidate)).
				Msg("condition parameter lookup failed, continuing fallback chain")
		}
	}

	defaults := models.DefaultConditionParams()
	defaults.ProjectID = projectID
	defaults.BillingMode = mode
	return defaults
}

// Get retrieves the record for editing; a missing record comes back as the
// defaults so the settings screen always has something to show
func (s *conditionsService) Get(projectID int, mode models.BillingMode) (*models.ConditionParams, error) {
	if !models.ValidBillingMode(string(mode)) {
		return nil, fmt.Errorf("unknown billing mode %q", mode)
	}

	params, err := s.conditionsRepo.Get(projectID, mode)
	if errors.Is(err, repositories.ErrConditionsNotFound) {
		defaults := models.DefaultConditionParams()
		defaults.ProjectID = projectID
		defaults.BillingMode = mode
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}

	return params, nil
}

// Update validates and stores condition parameters for a billing mode
func (s *conditionsService) Update(projectID int, mode models.BillingMode, form *models.ConditionParamsForm) (*models.ConditionParams, error) {
	if !models.ValidBillingMode(string(mode)) {
		return nil, fmt.Errorf("unknown billing mode %q", mode)
	}

	if errors := form.Validate(); len(errors) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errors, ", "))
	}

	overtimeMode := models.OvertimeMode(form.OvertimeMode)
	if overtimeMode == "" {
		overtimeMode = models.OvertimeNormal
	}

	params := &models.ConditionParams{
		ProjectID:               projectID,
		BillingMode:             mode,
		WorkdayHours:            form.WorkdayHours,
		MealHours:               form.MealHours,
		CourtesyMinutes:         form.CourtesyMinutes,
		TurnAroundHours:         form.TurnAroundHours,
		ExtendedTurnAroundHours: form.ExtendedTurnAroundHours,
		NightStart:              form.NightStart,
		NightEnd:                form.NightEnd,
		OvertimeMode:            overtimeMode,
	}

	if err := s.conditionsRepo.Upsert(params); err != nil {
		return nil, fmt.Errorf("failed to update condition parameters: %w", err)
	}

	return params, nil
}
