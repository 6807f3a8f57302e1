package services

import (
	"fmt"
	"strings"

	"github.com/prodoffice/crew-timesheet/models"
	"github.com/prodoffice/crew-timesheet/repositories"
)

// Search bounds for the previous-working-day locators. The base schedule is
// dense, so its walk may cross many stored weeks; prelight and pickup
// schedules are sparse and only the recent past matters.
const (
	baseLocatorMaxSteps  = 120
	blockLocatorMaxSteps = 14
)

// WeekService interface defines week plan business logic
type WeekService interface {
	GetWeek(projectID int, startDate string) (*models.Week, error)
	GetTimeline(projectID int) ([]models.Week, error)
	SaveWeek(projectID int, form *models.WeekForm) (*models.Week, error)
	DeleteWeek(id int) error
}

// weekService implements WeekService interface
type weekService struct {
	weekRepo repositories.WeekRepository
}

// NewWeekService creates a new week service
func NewWeekService(weekRepo repositories.WeekRepository) WeekService {
	return &weekService{weekRepo: weekRepo}
}

// GetWeek retrieves one week plan by its start date
func (s *weekService) GetWeek(projectID int, startDate string) (*models.Week, error) {
	if _, err := models.ParseDate(startDate); err != nil {
		return nil, fmt.Errorf("invalid week start date %q", startDate)
	}
	return s.weekRepo.GetByStartDate(projectID, startDate)
}

// GetTimeline retrieves all week plans of a project sorted by start date
func (s *weekService) GetTimeline(projectID int) ([]models.Week, error) {
	return s.weekRepo.GetTimeline(projectID)
}

// SaveWeek validates and stores a week plan
func (s *weekService) SaveWeek(projectID int, form *models.WeekForm) (*models.Week, error) {
	if errors := form.Validate(); len(errors) > 0 {
		return nil, fmt.Errorf("validation failed: %s", strings.Join(errors, ", "))
	}

	week := form.ToWeek(projectID)
	if err := s.weekRepo.Upsert(week); err != nil {
		return nil, fmt.Errorf("failed to save week plan: %w", err)
	}

	return week, nil
}

// DeleteWeek removes a week plan
func (s *weekService) DeleteWeek(id int) error {
	if id <= 0 {
		return fmt.Errorf("invalid week plan ID: %d", id)
	}
	return s.weekRepo.Delete(id)
}

// dayIndex maps every stored date of the timeline to its day record.
func dayIndex(timeline []models.Week) map[string]*models.Day {
	index := make(map[string]*models.Day)
	for w := range timeline {
		for d := range timeline[w].Days {
			day := &timeline[w].Days[d]
			if day.Date != "" {
				index[day.Date] = day
			}
		}
	}
	return index
}

// FindWeek returns the timeline week containing the given start date, nil if
// none is stored.
func FindWeek(timeline []models.Week, startDate string) *models.Week {
	for i := range timeline {
		if timeline[i].StartDate == startDate {
			return &timeline[i]
		}
	}
	return nil
}

// PreviousWorkingDay walks backward from the given date, day by day across
// week boundaries, until it hits a day worked on the base block. It reports
// that day's base window and the consecutive rest days crossed on the way;
// dates with no stored plan count as rest. Not finding anything within the
// search bound is the normal state on the first working day of a production.
func PreviousWorkingDay(timeline []models.Week, date string) PreviousShift {
	index := dayIndex(timeline)

	current := date
	restDays := 0
	for step := 0; step < baseLocatorMaxSteps; step++ {
		current = models.AddDays(current, -1)

		day := index[current]
		if day.IsWorking() {
			return PreviousShift{
				Date:     current,
				Start:    day.Base.Start,
				End:      day.Base.End,
				RestDays: restDays,
				Found:    true,
			}
		}
		restDays++
	}

	return PreviousShift{}
}

// PreviousBlockDay walks backward up to 14 calendar days looking for the most
// recent working day whose target block has a window configured. Prelight and
// pickup schedules are sparse, so this variant is not bound to week structure.
func PreviousBlockDay(timeline []models.Week, date string, block models.Block) PreviousShift {
	if block == models.BlockBase {
		return PreviousWorkingDay(timeline, date)
	}

	index := dayIndex(timeline)

	for step := 1; step <= blockLocatorMaxSteps; step++ {
		current := models.AddDays(date, -step)

		day := index[current]
		if !day.IsWorking() {
			continue
		}

		window := day.BlockWindow(block)
		if window.IsSet() {
			return PreviousShift{
				Date:     current,
				Start:    window.Start,
				End:      window.End,
				RestDays: step - 1,
				Found:    true,
			}
		}
	}

	return PreviousShift{}
}
