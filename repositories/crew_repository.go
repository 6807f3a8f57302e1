package repositories

import (
	"database/sql"
	"fmt"

	"github.com/prodoffice/crew-timesheet/models"
)

// CrewRepository interface defines roster database operations
type CrewRepository interface {
	GetByWeek(projectID int, weekStart string) ([]models.CrewMember, error)
	GetActiveByWeek(projectID int, weekStart string) ([]models.CrewMember, error)
	GetByID(id int) (*models.CrewMember, error)
	Create(member *models.CrewMember) error
	Update(member *models.CrewMember) error
	Delete(id int) error
}

// crewRepository implements CrewRepository interface
type crewRepository struct {
	db *sql.DB
}

// NewCrewRepository creates a new crew repository
func NewCrewRepository(db *sql.DB) CrewRepository {
	return &crewRepository{db: db}
}

const crewColumns = `id, project_id, week_start, role, name, block, active`

func scanCrewMember(scanner interface{ Scan(...any) error }) (models.CrewMember, error) {
	var member models.CrewMember
	err := scanner.Scan(
		&member.ID,
		&member.ProjectID,
		&member.WeekStart,
		&member.Role,
		&member.Name,
		&member.Block,
		&member.Active,
	)
	return member, err
}

// GetByWeek retrieves the full roster for a project week
func (r *crewRepository) GetByWeek(projectID int, weekStart string) ([]models.CrewMember, error) {
	query := `
		SELECT ` + crewColumns + `
		FROM crew_members
		WHERE project_id = ? AND week_start = ?
		ORDER BY role ASC, name ASC
	`
	return r.queryMembers(query, projectID, weekStart)
}

// GetActiveByWeek retrieves only the active roster for a project week
func (r *crewRepository) GetActiveByWeek(projectID int, weekStart string) ([]models.CrewMember, error) {
	query := `
		SELECT ` + crewColumns + `
		FROM crew_members
		WHERE project_id = ? AND week_start = ? AND active = 1
		ORDER BY role ASC, name ASC
	`
	return r.queryMembers(query, projectID, weekStart)
}

func (r *crewRepository) queryMembers(query string, args ...any) ([]models.CrewMember, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query crew members: %w", err)
	}
	defer rows.Close()

	var members []models.CrewMember
	for rows.Next() {
		member, err := scanCrewMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crew member: %w", err)
		}
		members = append(members, member)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating crew members: %w", err)
	}

	return members, nil
}

// GetByID retrieves a crew member by ID
func (r *crewRepository) GetByID(id int) (*models.CrewMember, error) {
	query := `SELECT ` + crewColumns + ` FROM crew_members WHERE id = ?`

	member, err := scanCrewMember(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("crew member %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crew member: %w", err)
	}

	return &member, nil
}

// Create inserts a new crew member
func (r *crewRepository) Create(member *models.CrewMember) error {
	query := `
		INSERT INTO crew_members (project_id, week_start, role, name, block, active)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(
		query,
		member.ProjectID,
		member.WeekStart,
		member.Role,
		member.Name,
		member.Block,
		member.Active,
	)
	if err != nil {
		return fmt.Errorf("failed to create crew member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted crew member ID: %w", err)
	}
	member.ID = int(id)

	return nil
}

// Update updates an existing crew member
func (r *crewRepository) Update(member *models.CrewMember) error {
	query := `
		UPDATE crew_members
		SET role = ?, name = ?, block = ?, active = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query, member.Role, member.Name, member.Block, member.Active, member.ID)
	if err != nil {
		return fmt.Errorf("failed to update crew member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("crew member %d not found", member.ID)
	}

	return nil
}

// Delete removes a crew member
func (r *crewRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM crew_members WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete crew member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("crew member %d not found", id)
	}

	return nil
}
