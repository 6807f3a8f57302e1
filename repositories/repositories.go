package repositories

import (
	"database/sql"
)

// Repositories struct holds all repository interfaces
type Repositories struct {
	Project    ProjectRepository
	Crew       CrewRepository
	Week       WeekRepository
	Conditions ConditionsRepository
	KV         KVRepository
	Audit      AuditRepository
}

// NewRepositories creates and initializes all repositories
func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Project:    NewProjectRepository(db),
		Crew:       NewCrewRepository(db),
		Week:       NewWeekRepository(db),
		Conditions: NewConditionsRepository(db),
		KV:         NewKVRepository(db),
		Audit:      NewAuditRepository(db),
	}
}
