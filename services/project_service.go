package services

import (
	"fmt"
	"strings"

	"github.com/prodoffice/crew-timesheet/models"
	"github.com/prodoffice/crew-timesheet/repositories"
)

// ProjectService interface defines project business logic
type ProjectService interface {
	GetAll() ([]models.Project, error)
	GetByID(id int) (*models.Project, error)
	Create(form *models.ProjectForm) (*models.Project, error)
	Update(id int, form *models.ProjectForm) (*models.Project, error)
	Delete(id int) error
}

// projectService implements ProjectService interface
type projectService struct {
	projectRepo repositories.ProjectRepository
}

// NewProjectService creates a new project service
func NewProjectService(projectRepo repositories.ProjectRepository) ProjectService {
	return &projectService{projectRepo: projectRepo}
}

// GetAll retrieves all projects
func (s *projectService) GetAll() ([]models.Project, error) {
	return s.projectRepo.GetAll()
}

// GetByID retrieves a project by ID
func (s *projectService) GetByID(id int) (*models.Project, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid project ID: %d", id)
	}
	return s.projectRepo.GetByID(id)
}

// Create creates a new project with validation
func (s *projectService) Create(form *models.ProjectForm) (*models.Project, error) {
	if errors := form.Validate(); len(errors) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errors, ", "))
	}

	project := &models.Project{
		Name:        strings.TrimSpace(form.Name),
		BillingMode: models.BillingMode(form.BillingMode),
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// Update updates an existing project
func (s *projectService) Update(id int, form *models.ProjectForm) (*models.Project, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid project ID: %d", id)
	}

	if errors := form.Validate(); len(errors) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errors, ", "))
	}

	project, err := s.projectRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}

	project.Name = strings.TrimSpace(form.Name)
	project.BillingMode = models.BillingMode(form.BillingMode)

	if err := s.projectRepo.Update(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// Delete removes a project
func (s *projectService) Delete(id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid project ID: %d", id)
	}

	if err := s.projectRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	return nil
}
