package services

import (
	"fmt"
	"strings"

	"github.com/prodoffice/crew-timesheet/models"
	"github.com/prodoffice/crew-timesheet/repositories"
)

// CrewService interface defines roster business logic
type CrewService interface {
	GetRoster(projectID int, weekStart string) ([]models.CrewMember, error)
	GetActiveRoster(projectID int, weekStart string) ([]models.CrewMember, error)
	PersonKeys(projectID int, weekStart string) ([]string, error)
	GetMemberByID(id int) (*models.CrewMember, error)
	CreateMember(projectID int, form *models.CrewMemberForm) (*models.CrewMember, error)
	UpdateMember(id int, form *models.CrewMemberForm) (*models.CrewMember, error)
	DeleteMember(id int) error
}

// crewService implements CrewService interface
type crewService struct {
	crewRepo repositories.CrewRepository
}

// NewCrewService creates a new crew service
func NewCrewService(crewRepo repositories.CrewRepository) CrewService {
	return &crewService{crewRepo: crewRepo}
}

// GetRoster retrieves the full roster for a project week
func (s *crewService) GetRoster(projectID int, weekStart string) ([]models.CrewMember, error) {
	return s.crewRepo.GetByWeek(projectID, weekStart)
}

// GetActiveRoster retrieves only active roster members for a project week
func (s *crewService) GetActiveRoster(projectID int, weekStart string) ([]models.CrewMember, error) {
	return s.crewRepo.GetActiveByWeek(projectID, weekStart)
}

// PersonKeys derives the unique canonical person keys of the active roster,
// preserving roster order
func (s *crewService) PersonKeys(projectID int, weekStart string) ([]string, error) {
	members, err := s.crewRepo.GetActiveByWeek(projectID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to get active roster: %w", err)
	}
	return PersonKeysOf(members), nil
}

// PersonKeysOf derives the unique canonical keys of a roster slice.
func PersonKeysOf(members []models.CrewMember) []string {
	seen := make(map[string]bool, len(members))
	keys := make([]string, 0, len(members))
	for i := range members {
		key := members[i].PersonKey()
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	return keys
}

// GetMemberByID retrieves a crew member by ID
func (s *crewService) GetMemberByID(id int) (*models.CrewMember, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid crew member ID: %d", id)
	}
	return s.crewRepo.GetByID(id)
}

// CreateMember creates a new roster entry with validation
func (s *crewService) CreateMember(projectID int, form *models.CrewMemberForm) (*models.CrewMember, error) {
	if errors := form.Validate(); len(errors) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errors, ", "))
	}

	member := &models.CrewMember{
		ProjectID: projectID,
		WeekStart: form.WeekStart,
		Role:      strings.TrimSpace(form.Role),
		Name:      strings.TrimSpace(form.Name),
		Block:     models.ParseBlock(form.Block),
		Active:    form.Active,
	}

	if err := s.crewRepo.Create(member); err != nil {
		return nil, fmt.Errorf("failed to create crew member: %w", err)
	}

	return member, nil
}

// UpdateMember updates an existing roster entry
func (s *crewService) UpdateMember(id int, form *models.CrewMemberForm) (*models.CrewMember, error) {
	if id <= 0 {
		return nil, fmt.Errorf("invalid crew member ID: %d", id)
	}

	if errors := form.Validate(); len(errors) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errors, ", "))
	}

	member, err := s.crewRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("crew member not found: %w", err)
	}

	member.Role = strings.TrimSpace(form.Role)
	member.Name = strings.TrimSpace(form.Name)
	member.Block = models.ParseBlock(form.Block)
	member.Active = form.Active

	if err := s.crewRepo.Update(member); err != nil {
		return nil, fmt.Errorf("failed to update crew member: %w", err)
	}

	return member, nil
}

// DeleteMember removes a roster entry
func (s *crewService) DeleteMember(id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid crew member ID: %d", id)
	}

	if err := s.crewRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete crew member: %w", err)
	}

	return nil
}
