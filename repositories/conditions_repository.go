package repositories

import (
	"database/sql"
	"fmt"

	"github.com/prodoffice/crew-timesheet/models"
)

// ErrConditionsNotFound signals that no condition record exists for the
// requested project/mode pair. The service layer resolves it through the
// fallback chain; it never reaches a user.
var ErrConditionsNotFound = fmt.Errorf("condition parameters not found")

// ConditionsRepository interface defines condition parameter database operations
type ConditionsRepository interface {
	Get(projectID int, mode models.BillingMode) (*models.ConditionParams, error)
	Upsert(params *models.ConditionParams) error
}

// conditionsRepository implements ConditionsRepository interface
type conditionsRepository struct {
	db *sql.DB
}

// NewConditionsRepository creates a new conditions repository
func NewConditionsRepository(db *sql.DB) ConditionsRepository {
	return &conditionsRepository{db: db}
}

// Get retrieves the condition record for a project and billing mode
func (r *conditionsRepository) Get(projectID int, mode models.BillingMode) (*models.ConditionParams, error) {
	query := `
		SELECT id, project_id, billing_mode,
		       workday_hours, meal_hours, courtesy_minutes,
		       turnaround_hours, extended_turnaround_hours,
		       night_start, night_end, overtime_mode
		FROM condition_params
		WHERE project_id = ? AND billing_mode = ?
	`

	var params models.ConditionParams
	err := r.db.QueryRow(query, projectID, mode).Scan(
		&params.ID,
		&params.ProjectID,
		&params.BillingMode,
		&params.WorkdayHours,
		&params.MealHours,
		&params.CourtesyMinutes,
		&params.TurnAroundHours,
		&params.ExtendedTurnAroundHours,
		&params.NightStart,
		&params.NightEnd,
		&params.OvertimeMode,
	)

	if err == sql.ErrNoRows {
		return nil, ErrConditionsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get condition parameters: %w", err)
	}

	return &params, nil
}

// Upsert creates or updates the condition record for a project and billing mode
func (r *conditionsRepository) Upsert(params *models.ConditionParams) error {
	query := `
		INSERT INTO condition_params (
			project_id, billing_mode,
			workday_hours, meal_hours, courtesy_minutes,
			turnaround_hours, extended_turnaround_hours,
			night_start, night_end, overtime_mode
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (project_id, billing_mode) DO UPDATE SET
			workday_hours = excluded.workday_hours,
			meal_hours = excluded.meal_hours,
			courtesy_minutes = excluded.courtesy_minutes,
			turnaround_hours = excluded.turnaround_hours,
			extended_turnaround_hours = excluded.extended_turnaround_hours,
			night_start = excluded.night_start,
			night_end = excluded.night_end,
			overtime_mode = excluded.overtime_mode
	`

	_, err := r.db.Exec(
		query,
		params.ProjectID,
		params.BillingMode,
		params.WorkdayHours,
		params.MealHours,
		params.CourtesyMinutes,
		params.TurnAroundHours,
		params.ExtendedTurnAroundHours,
		params.NightStart,
		params.NightEnd,
		params.OvertimeMode,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert condition parameters: %w", err)
	}

	return nil
}
