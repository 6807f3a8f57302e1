package models

import (
	"encoding/json"
	"fmt"
)

// ReportSheet is the sparse per-person/per-concept/per-date data grid for one
// project week, together with the parallel manual-flag grid and the overtime
// formula the values were last computed under.
//
// Cell values are strings throughout: numbers, affirmative tokens and encoded
// per-diem sets all share the same storage shape.
type ReportSheet struct {
	Values map[string]map[Concept]map[string]string `json:"values"`
	Manual map[string]map[Concept]map[string]bool   `json:"manual"`
	Mode   OvertimeMode                             `json:"mode"`
}

// NewReportSheet creates an empty sheet for the given overtime mode.
func NewReportSheet(mode OvertimeMode) *ReportSheet {
	return &ReportSheet{
		Values: make(map[string]map[Concept]map[string]string),
		Manual: make(map[string]map[Concept]map[string]bool),
		Mode:   mode,
	}
}

// DecodeReportSheet parses a sheet from its persisted JSON payload.
func DecodeReportSheet(payload string) (*ReportSheet, error) {
	var sheet ReportSheet
	if err := json.Unmarshal([]byte(payload), &sheet); err != nil {
		return nil, fmt.Errorf("failed to decode report sheet: %w", err)
	}
	if sheet.Values == nil {
		sheet.Values = make(map[string]map[Concept]map[string]string)
	}
	if sheet.Manual == nil {
		sheet.Manual = make(map[string]map[Concept]map[string]bool)
	}
	return &sheet, nil
}

// Encode serializes the sheet for the key-value store.
func (s *ReportSheet) Encode() (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode report sheet: %w", err)
	}
	return string(data), nil
}

// Value returns the stored cell value, empty string when absent.
func (s *ReportSheet) Value(personKey string, concept Concept, date string) string {
	return s.Values[personKey][concept][date]
}

// IsManual reports whether the cell's current value came from a user edit.
func (s *ReportSheet) IsManual(personKey string, concept Concept, date string) bool {
	return s.Manual[personKey][concept][date]
}

// Set writes a cell value and its manual flag, allocating the nested maps as
// needed.
func (s *ReportSheet) Set(personKey string, concept Concept, date, value string, manual bool) {
	if s.Values[personKey] == nil {
		s.Values[personKey] = make(map[Concept]map[string]string)
	}
	if s.Values[personKey][concept] == nil {
		s.Values[personKey][concept] = make(map[string]string)
	}
	s.Values[personKey][concept][date] = value

	if s.Manual[personKey] == nil {
		s.Manual[personKey] = make(map[Concept]map[string]bool)
	}
	if s.Manual[personKey][concept] == nil {
		s.Manual[personKey][concept] = make(map[string]bool)
	}
	s.Manual[personKey][concept][date] = manual
}

// Has reports whether the cell exists at all (even as an empty string).
func (s *ReportSheet) Has(personKey string, concept Concept, date string) bool {
	_, ok := s.Values[personKey][concept][date]
	return ok
}

// Seed inserts an empty automatic entry for every missing (person, concept,
// date) combination. Existing entries are never touched: the grid is
// additive-only across roster changes within a session.
func (s *ReportSheet) Seed(personKeys []string, dates []string) {
	for _, key := range personKeys {
		for _, concept := range Concepts {
			for _, date := range dates {
				if !s.Has(key, concept, date) {
					s.Set(key, concept, date, "", false)
				}
			}
		}
	}
}

// Clone returns a deep copy of the sheet. Recomputation mutates only the
// copy, so concurrent readers always observe a complete snapshot.
func (s *ReportSheet) Clone() *ReportSheet {
	out := NewReportSheet(s.Mode)

	for key, concepts := range s.Values {
		out.Values[key] = make(map[Concept]map[string]string, len(concepts))
		for concept, dates := range concepts {
			out.Values[key][concept] = make(map[string]string, len(dates))
			for date, value := range dates {
				out.Values[key][concept][date] = value
			}
		}
	}

	for key, concepts := range s.Manual {
		out.Manual[key] = make(map[Concept]map[string]bool, len(concepts))
		for concept, dates := range concepts {
			out.Manual[key][concept] = make(map[string]bool, len(dates))
			for date, flag := range dates {
				out.Manual[key][concept][date] = flag
			}
		}
	}

	return out
}

// CollapsedMap tracks which report rows the user has collapsed, keyed by
// person key. Persisted independently per (project, week range).
type CollapsedMap map[string]bool

// DecodeCollapsedMap parses a collapsed map from its persisted JSON payload.
func DecodeCollapsedMap(payload string) (CollapsedMap, error) {
	var m CollapsedMap
	if err := json.Unmarshal([]byte(payload), &m); err != nil {
		return nil, fmt.Errorf("failed to decode collapsed map: %w", err)
	}
	if m == nil {
		m = make(CollapsedMap)
	}
	return m, nil
}

// Encode serializes the map for the key-value store.
func (m CollapsedMap) Encode() (string, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode collapsed map: %w", err)
	}
	return string(data), nil
}

// Reconcile builds a fresh map against the current roster keys: legacy keys
// are normalized, kept keys retain their state, new keys start expanded and
// keys for removed persons are dropped.
func (m CollapsedMap) Reconcile(personKeys []string) CollapsedMap {
	current := make(map[string]bool, len(personKeys))
	for _, key := range personKeys {
		current[key] = true
	}

	out := make(CollapsedMap, len(personKeys))
	for key, collapsed := range m {
		normalized := NormalizeCollapsedKey(key)
		if current[normalized] {
			out[normalized] = collapsed
		}
	}

	for _, key := range personKeys {
		if _, ok := out[key]; !ok {
			out[key] = false
		}
	}

	return out
}

// ExportRange is the date span selected for a monthly export, persisted per
// (project, month) through the key-value store.
type ExportRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Validate checks both bounds are well-formed and ordered.
func (r ExportRange) Validate() []string {
	var errors []string
	if _, err := ParseDate(r.From); err != nil {
		errors = append(errors, "From date must be in YYYY-MM-DD format")
	}
	if _, err := ParseDate(r.To); err != nil {
		errors = append(errors, "To date must be in YYYY-MM-DD format")
	}
	if len(errors) == 0 && r.To < r.From {
		errors = append(errors, "To date must not precede from date")
	}
	return errors
}

// WeeklyTotal aggregates one concept over a week for one person.
type WeeklyTotal struct {
	// Amount is the numeric sum for numeric concepts.
	Amount float64 `json:"amount"`
	// Days counts affirmative days for boolean concepts.
	Days int `json:"days"`
	// Items counts selected per-diem items by type.
	Items map[string]int `json:"items,omitempty"`
}
