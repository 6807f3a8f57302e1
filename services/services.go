package services

import (
	"github.com/prodoffice/crew-timesheet/repositories"
)

// Services struct holds all service interfaces
type Services struct {
	Project    ProjectService
	Crew       CrewService
	Week       WeekService
	Conditions ConditionsService
	Report     ReportService
}

// NewServices creates and initializes all services
func NewServices(repos *repositories.Repositories) *Services {
	conditions := NewConditionsService(repos.Conditions)

	return &Services{
		Project:    NewProjectService(repos.Project),
		Crew:       NewCrewService(repos.Crew),
		Week:       NewWeekService(repos.Week),
		Conditions: conditions,
		Report:     NewReportService(repos.Project, repos.Crew, repos.Week, repos.KV, conditions),
	}
}
