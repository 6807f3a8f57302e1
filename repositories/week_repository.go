package repositories

import (
	"database/sql"
	"fmt"

	"github.com/prodoffice/crew-timesheet/models"
)

// WeekRepository interface defines week plan database operations
type WeekRepository interface {
	GetByStartDate(projectID int, startDate string) (*models.Week, error)
	GetTimeline(projectID int) ([]models.Week, error)
	Upsert(week *models.Week) error
	Delete(id int) error
}

// weekRepository implements WeekRepository interface
type weekRepository struct {
	db *sql.DB
}

// NewWeekRepository creates a new week repository
func NewWeekRepository(db *sql.DB) WeekRepository {
	return &weekRepository{db: db}
}

// GetByStartDate retrieves one week plan with its 7 day records
func (r *weekRepository) GetByStartDate(projectID int, startDate string) (*models.Week, error) {
	query := `SELECT id, project_id, phase, start_date FROM week_plans WHERE project_id = ? AND start_date = ?`

	var week models.Week
	err := r.db.QueryRow(query, projectID, startDate).Scan(
		&week.ID,
		&week.ProjectID,
		&week.Phase,
		&week.StartDate,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("week plan starting %s not found", startDate)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get week plan: %w", err)
	}

	if err := r.loadDays(&week); err != nil {
		return nil, err
	}

	return &week, nil
}

// GetTimeline retrieves every week of the project (both phases) sorted by
// start date. This is the timeline the previous-working-day locator walks.
func (r *weekRepository) GetTimeline(projectID int) ([]models.Week, error) {
	query := `SELECT id, project_id, phase, start_date FROM week_plans WHERE project_id = ? ORDER BY start_date ASC`

	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query week plans: %w", err)
	}
	defer rows.Close()

	var weeks []models.Week
	for rows.Next() {
		var week models.Week
		if err := rows.Scan(&week.ID, &week.ProjectID, &week.Phase, &week.StartDate); err != nil {
			return nil, fmt.Errorf("failed to scan week plan: %w", err)
		}
		weeks = append(weeks, week)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating week plans: %w", err)
	}

	for i := range weeks {
		if err := r.loadDays(&weeks[i]); err != nil {
			return nil, err
		}
	}

	return weeks, nil
}

// loadDays fills in the 7 day records of a week, slotted by date offset
func (r *weekRepository) loadDays(week *models.Week) error {
	query := `
		SELECT id, date, day_type,
		       base_start, base_end,
		       prelight_start, prelight_end,
		       pickup_start, pickup_end
		FROM week_days
		WHERE week_id = ?
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, week.ID)
	if err != nil {
		return fmt.Errorf("failed to query week days: %w", err)
	}
	defer rows.Close()

	// Seed all 7 slots so a partially stored week still has dated rest days
	for i := range week.Days {
		week.Days[i] = models.Day{
			Date: models.AddDays(week.StartDate, i),
			Type: models.DayRest,
		}
	}

	for rows.Next() {
		var day models.Day
		err := rows.Scan(
			&day.ID,
			&day.Date,
			&day.Type,
			&day.Base.Start,
			&day.Base.End,
			&day.Prelight.Start,
			&day.Prelight.End,
			&day.Pickup.Start,
			&day.Pickup.End,
		)
		if err != nil {
			return fmt.Errorf("failed to scan week day: %w", err)
		}

		for i := range week.Days {
			if week.Days[i].Date == day.Date {
				week.Days[i] = day
				break
			}
		}
	}

	return rows.Err()
}

// Upsert creates or replaces a week plan and its day records
func (r *weekRepository) Upsert(week *models.Week) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existingID int
	err = tx.QueryRow(
		`SELECT id FROM week_plans WHERE project_id = ? AND start_date = ?`,
		week.ProjectID, week.StartDate,
	).Scan(&existingID)

	switch {
	case err == sql.ErrNoRows:
		result, err := tx.Exec(
			`INSERT INTO week_plans (project_id, phase, start_date) VALUES (?, ?, ?)`,
			week.ProjectID, week.Phase, week.StartDate,
		)
		if err != nil {
			return fmt.Errorf("failed to create week plan: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get inserted week plan ID: %w", err)
		}
		week.ID = int(id)
	case err != nil:
		return fmt.Errorf("failed to look up week plan: %w", err)
	default:
		week.ID = existingID
		if _, err := tx.Exec(`UPDATE week_plans SET phase = ? WHERE id = ?`, week.Phase, week.ID); err != nil {
			return fmt.Errorf("failed to update week plan: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM week_days WHERE week_id = ?`, week.ID); err != nil {
			return fmt.Errorf("failed to clear week days: %w", err)
		}
	}

	for _, day := range week.Days {
		_, err := tx.Exec(
			`INSERT INTO week_days (week_id, date, day_type, base_start, base_end, prelight_start, prelight_end, pickup_start, pickup_end)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			week.ID,
			day.Date,
			day.Type,
			day.Base.Start,
			day.Base.End,
			day.Prelight.Start,
			day.Prelight.End,
			day.Pickup.Start,
			day.Pickup.End,
		)
		if err != nil {
			return fmt.Errorf("failed to insert week day %s: %w", day.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit week plan: %w", err)
	}

	return nil
}

// Delete removes a week plan and its day records
func (r *weekRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM week_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete week plan: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("week plan %d not found", id)
	}

	return nil
}
