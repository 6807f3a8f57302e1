package models

import (
	"fmt"
)

// DayType marks a day as worked or rested.
type DayType string

const (
	DayWork DayType = "work"
	DayRest DayType = "rest"
)

// WeekPhase groups week plans into the two production calendars.
type WeekPhase string

const (
	PhasePreProduction WeekPhase = "preproduction"
	PhaseProduction    WeekPhase = "production"
)

// ShiftWindow is a configured start/end pair for one block of a day. Either
// side may be empty, meaning the production has not planned it yet. That is
// a "needs planning" signal for the UI, not an error.
type ShiftWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IsSet reports whether at least one side of the window is configured.
func (w ShiftWindow) IsSet() bool {
	return w.Start != "" || w.End != ""
}

// Day is one calendar day of a week plan.
type Day struct {
	ID       int         `json:"id" db:"id"`
	Date     string      `json:"date" db:"date"`
	Type     DayType     `json:"type" db:"day_type"`
	Base     ShiftWindow `json:"base"`
	Prelight ShiftWindow `json:"prelight"`
	Pickup   ShiftWindow `json:"pickup"`
}

// BlockWindow resolves the shift window for a block. A nil or rest day
// resolves to an empty window for every block.
func (d *Day) BlockWindow(block Block) ShiftWindow {
	if d == nil || d.Type != DayWork {
		return ShiftWindow{}
	}

	switch block {
	case BlockPrelight:
		return d.Prelight
	case BlockPickup:
		return d.Pickup
	default:
		return d.Base
	}
}

// IsWorking reports whether the day exists and is not a rest day.
func (d *Day) IsWorking() bool {
	return d != nil && d.Type == DayWork
}

// Week is an ordered sequence of exactly 7 day records identified by its
// start-of-week date.
type Week struct {
	ID        int       `json:"id" db:"id"`
	ProjectID int       `json:"project_id" db:"project_id"`
	Phase     WeekPhase `json:"phase" db:"phase"`
	StartDate string    `json:"start_date" db:"start_date"`
	Days      [7]Day    `json:"days"`
}

// DayByDate returns the day record for the given date, nil if outside the week.
func (w *Week) DayByDate(date string) *Day {
	if w == nil {
		return nil
	}
	for i := range w.Days {
		if w.Days[i].Date == date {
			return &w.Days[i]
		}
	}
	return nil
}

// EndDate returns the last date covered by the week.
func (w *Week) EndDate() string {
	return AddDays(w.StartDate, 6)
}

// Contains reports whether the date falls inside the week.
func (w *Week) Contains(date string) bool {
	return w != nil && w.StartDate <= date && date <= w.EndDate()
}

// DayForm represents form data for one day of a week plan
type DayForm struct {
	Type          string `json:"type"`
	BaseStart     string `json:"base_start"`
	BaseEnd       string `json:"base_end"`
	PrelightStart string `json:"prelight_start"`
	PrelightEnd   string `json:"prelight_end"`
	PickupStart   string `json:"pickup_start"`
	PickupEnd     string `json:"pickup_end"`
}

// WeekForm represents form data for creating/updating a week plan
type WeekForm struct {
	Phase     string     `json:"phase"`
	StartDate string     `json:"start_date"`
	Days      [7]DayForm `json:"days"`
}

// Validate validates the week plan form data
func (f *WeekForm) Validate() []string {
	var errors []string

	if f.StartDate == "" {
		errors = append(errors, "Start date is required")
	} else if _, err := ParseDate(f.StartDate); err != nil {
		errors = append(errors, "Start date must be in YYYY-MM-DD format")
	}

	switch WeekPhase(f.Phase) {
	case PhasePreProduction, PhaseProduction, "":
	default:
		errors = append(errors, fmt.Sprintf("Unknown phase %q", f.Phase))
	}

	for i, day := range f.Days {
		switch DayType(day.Type) {
		case DayWork, DayRest, "":
		default:
			errors = append(errors, fmt.Sprintf("Day %d: unknown type %q", i, day.Type))
		}

		// Empty windows are allowed: they mean the block is not planned yet
		for _, tc := range []struct {
			field string
			value string
		}{
			{"base start", day.BaseStart},
			{"base end", day.BaseEnd},
			{"prelight start", day.PrelightStart},
			{"prelight end", day.PrelightEnd},
			{"pickup start", day.PickupStart},
			{"pickup end", day.PickupEnd},
		} {
			if tc.value != "" && !IsValidTimeOfDay(tc.value) {
				errors = append(errors, fmt.Sprintf("Day %d: %s must be in HH:MM format", i, tc.field))
			}
		}
	}

	return errors
}

// ToWeek converts a validated form into a week entity with its 7 dated days.
func (f *WeekForm) ToWeek(projectID int) *Week {
	phase := WeekPhase(f.Phase)
	if phase == "" {
		phase = PhaseProduction
	}

	week := &Week{
		ProjectID: projectID,
		Phase:     phase,
		StartDate: f.StartDate,
	}

	for i, day := range f.Days {
		dayType := DayType(day.Type)
		if dayType == "" {
			dayType = DayRest
		}
		week.Days[i] = Day{
			Date:     AddDays(f.StartDate, i),
			Type:     dayType,
			Base:     ShiftWindow{Start: day.BaseStart, End: day.BaseEnd},
			Prelight: ShiftWindow{Start: day.PrelightStart, End: day.PrelightEnd},
			Pickup:   ShiftWindow{Start: day.PickupStart, End: day.PickupEnd},
		}
	}

	return week
}
