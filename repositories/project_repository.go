package repositories

import (
	"database/sql"
	"fmt"

	"github.com/prodoffice/crew-timesheet/models"
)

// ProjectRepository interface defines project database operations
type ProjectRepository interface {
	GetAll() ([]models.Project, error)
	GetByID(id int) (*models.Project, error)
	Create(project *models.Project) error
	Update(project *models.Project) error
	Delete(id int) error
}

// projectRepository implements ProjectRepository interface
type projectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &projectRepository{db: db}
}

// GetAll retrieves all projects
func (r *projectRepository) GetAll() ([]models.Project, error) {
	query := `SELECT id, name, billing_mode FROM projects ORDER BY name ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		var project models.Project
		if err := rows.Scan(&project.ID, &project.Name, &project.BillingMode); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, project)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

// GetByID retrieves a project by its ID
func (r *projectRepository) GetByID(id int) (*models.Project, error) {
	query := `SELECT id, name, billing_mode FROM projects WHERE id = ?`

	var project models.Project
	err := r.db.QueryRow(query, id).Scan(&project.ID, &project.Name, &project.BillingMode)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return &project, nil
}

// Create inserts a new project
func (r *projectRepository) Create(project *models.Project) error {
	query := `INSERT INTO projects (name, billing_mode) VALUES (?, ?)`

	result, err := r.db.Exec(query, project.Name, project.BillingMode)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get inserted project ID: %w", err)
	}
	project.ID = int(id)

	return nil
}

// Update updates an existing project
func (r *projectRepository) Update(project *models.Project) error {
	query := `UPDATE projects SET name = ?, billing_mode = ? WHERE id = ?`

	result, err := r.db.Exec(query, project.Name, project.BillingMode, project.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("project %d not found", project.ID)
	}

	return nil
}

// Delete removes a project and its dependent rows
func (r *projectRepository) Delete(id int) error {
	result, err := r.db.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("project %d not found", id)
	}

	return nil
}
