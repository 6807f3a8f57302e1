package models

import (
	"fmt"
	"math"
)

// BillingMode selects which per-project condition record applies.
type BillingMode string

const (
	BillingWeekly      BillingMode = "weekly"
	BillingMonthly     BillingMode = "monthly"
	BillingAdvertising BillingMode = "advertising"
)

// BillingModeFallbackOrder is the fixed order tried when no condition record
// exists for the requested mode.
var BillingModeFallbackOrder = []BillingMode{BillingWeekly, BillingMonthly, BillingAdvertising}

// ValidBillingMode reports whether the string names a known billing mode.
func ValidBillingMode(s string) bool {
	switch BillingMode(s) {
	case BillingWeekly, BillingMonthly, BillingAdvertising:
		return true
	}
	return false
}

// OvertimeMode selects which of the three overtime formulas is in effect.
type OvertimeMode string

const (
	// OvertimeNormal counts coarse whole overtime units with a courtesy grace.
	OvertimeNormal OvertimeMode = "normal"
	// OvertimeMinutageCut formats decimal hours straight from the excess minutes.
	OvertimeMinutageCut OvertimeMode = "minutage_cut"
	// OvertimeMinutageCourtesy subtracts the courtesy grace before converting.
	OvertimeMinutageCourtesy OvertimeMode = "minutage_courtesy"
)

// ValidOvertimeMode reports whether the string names a known overtime formula.
func ValidOvertimeMode(s string) bool {
	switch OvertimeMode(s) {
	case OvertimeNormal, OvertimeMinutageCut, OvertimeMinutageCourtesy:
		return true
	}
	return false
}

// IsMinutage reports whether the mode produces decimal display strings rather
// than whole units.
func (m OvertimeMode) IsMinutage() bool {
	return m == OvertimeMinutageCut || m == OvertimeMinutageCourtesy
}

// Documented fallback defaults, used whenever no configuration is found or a
// stored threshold fails to parse.
const (
	DefaultWorkdayHours       = 9.0
	DefaultMealHours          = 1.0
	DefaultCourtesyMinutes    = 15
	DefaultTurnAroundHours    = 12.0
	DefaultExtendedTurnAround = 48.0
	DefaultNightStart         = "22:00"
	DefaultNightEnd           = "06:00"
)

// ConditionParams holds the configured thresholds the calculators run on.
type ConditionParams struct {
	ID                      int          `json:"id" db:"id"`
	ProjectID               int          `json:"project_id" db:"project_id"`
	BillingMode             BillingMode  `json:"billing_mode" db:"billing_mode"`
	WorkdayHours            float64      `json:"workday_hours" db:"workday_hours"`
	MealHours               float64      `json:"meal_hours" db:"meal_hours"`
	CourtesyMinutes         int          `json:"courtesy_minutes" db:"courtesy_minutes"`
	TurnAroundHours         float64      `json:"turnaround_hours" db:"turnaround_hours"`
	ExtendedTurnAroundHours float64      `json:"extended_turnaround_hours" db:"extended_turnaround_hours"`
	NightStart              string       `json:"night_start" db:"night_start"`
	NightEnd                string       `json:"night_end" db:"night_end"`
	OvertimeMode            OvertimeMode `json:"overtime_mode" db:"overtime_mode"`
}

// DefaultConditionParams returns the documented fallback thresholds.
func DefaultConditionParams() ConditionParams {
	return ConditionParams{
		WorkdayHours:            DefaultWorkdayHours,
		MealHours:               DefaultMealHours,
		CourtesyMinutes:         DefaultCourtesyMinutes,
		TurnAroundHours:         DefaultTurnAroundHours,
		ExtendedTurnAroundHours: DefaultExtendedTurnAround,
		NightStart:              DefaultNightStart,
		NightEnd:                DefaultNightEnd,
		OvertimeMode:            OvertimeNormal,
	}
}

// Sanitized replaces every non-finite, non-positive or malformed threshold
// with its documented default. A bad stored value is never fatal.
func (p ConditionParams) Sanitized() ConditionParams {
	out := p

	if !isPositiveFinite(out.WorkdayHours) {
		out.WorkdayHours = DefaultWorkdayHours
	}
	if !isFinite(out.MealHours) || out.MealHours < 0 {
		out.MealHours = DefaultMealHours
	}
	if out.CourtesyMinutes < 0 {
		out.CourtesyMinutes = DefaultCourtesyMinutes
	}
	if !isPositiveFinite(out.TurnAroundHours) {
		out.TurnAroundHours = DefaultTurnAroundHours
	}
	if !isPositiveFinite(out.ExtendedTurnAroundHours) {
		out.ExtendedTurnAroundHours = DefaultExtendedTurnAround
	}
	if !IsValidTimeOfDay(out.NightStart) {
		out.NightStart = DefaultNightStart
	}
	if !IsValidTimeOfDay(out.NightEnd) {
		out.NightEnd = DefaultNightEnd
	}
	if !ValidOvertimeMode(string(out.OvertimeMode)) {
		out.OvertimeMode = OvertimeNormal
	}

	return out
}

// BaseDayMinutes returns the configured base day length (workday plus meal
// break) in minutes.
func (p ConditionParams) BaseDayMinutes() int {
	return int(math.Round((p.WorkdayHours + p.MealHours) * 60))
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isPositiveFinite(f float64) bool {
	return isFinite(f) && f > 0
}

// ConditionParamsForm represents form data for updating condition parameters
type ConditionParamsForm struct {
	WorkdayHours            float64 `json:"workday_hours"`
	MealHours               float64 `json:"meal_hours"`
	CourtesyMinutes         int     `json:"courtesy_minutes"`
	TurnAroundHours         float64 `json:"turnaround_hours"`
	ExtendedTurnAroundHours float64 `json:"extended_turnaround_hours"`
	NightStart              string  `json:"night_start"`
	NightEnd                string  `json:"night_end"`
	OvertimeMode            string  `json:"overtime_mode"`
}

// Validate validates the condition parameters form data
func (f *ConditionParamsForm) Validate() []string {
	var errors []string

	if !isPositiveFinite(f.WorkdayHours) || f.WorkdayHours > 24 {
		errors = append(errors, "Workday hours must be between 0 and 24")
	}
	if !isFinite(f.MealHours) || f.MealHours < 0 || f.MealHours > 12 {
		errors = append(errors, "Meal hours must be between 0 and 12")
	}
	if f.CourtesyMinutes < 0 || f.CourtesyMinutes > 120 {
		errors = append(errors, "Courtesy minutes must be between 0 and 120")
	}
	if !isPositiveFinite(f.TurnAroundHours) {
		errors = append(errors, "Turn-around hours must be greater than 0")
	}
	if !isPositiveFinite(f.ExtendedTurnAroundHours) {
		errors = append(errors, "Extended turn-around hours must be greater than 0")
	}
	if !IsValidTimeOfDay(f.NightStart) {
		errors = append(errors, "Night window start must be in HH:MM format")
	}
	if !IsValidTimeOfDay(f.NightEnd) {
		errors = append(errors, "Night window end must be in HH:MM format")
	}
	if f.OvertimeMode != "" && !ValidOvertimeMode(f.OvertimeMode) {
		errors = append(errors, fmt.Sprintf("Unknown overtime mode %q", f.OvertimeMode))
	}

	return errors
}

// Project is the owning entity condition records and report sheets hang off.
type Project struct {
	ID          int         `json:"id" db:"id"`
	Name        string      `json:"name" db:"name"`
	BillingMode BillingMode `json:"billing_mode" db:"billing_mode"`
}

// ProjectForm represents form data for creating/updating projects
type ProjectForm struct {
	Name        string `json:"name"`
	BillingMode string `json:"billing_mode"`
}

// Validate validates the project form data
func (f *ProjectForm) Validate() []string {
	var errors []string

	if f.Name == "" {
		errors = append(errors, "Name is required")
	}
	if len(f.Name) > 200 {
		errors = append(errors, "Name must be less than 200 characters")
	}
	if f.BillingMode != "" && !ValidBillingMode(f.BillingMode) {
		errors = append(errors, fmt.Sprintf("Unknown billing mode %q", f.BillingMode))
	}

	return errors
}
