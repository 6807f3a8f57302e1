package models

import (
	"strings"
)

// Concept is one of the fixed per-day timesheet columns.
type Concept string

const (
	ConceptOvertime     Concept = "overtime"
	ConceptTurnAround   Concept = "turnaround"
	ConceptNightShift   Concept = "night_shift"
	ConceptPenaltyLunch Concept = "penalty_lunch"
	ConceptOwnMaterial  Concept = "own_material"
	ConceptPerDiem      Concept = "per_diem"
	ConceptMileage      Concept = "mileage"
	ConceptFuel         Concept = "fuel"
	ConceptTransport    Concept = "transport"
)

// Concepts lists every column in display order.
var Concepts = []Concept{
	ConceptOvertime,
	ConceptTurnAround,
	ConceptNightShift,
	ConceptPenaltyLunch,
	ConceptOwnMaterial,
	ConceptPerDiem,
	ConceptMileage,
	ConceptFuel,
	ConceptTransport,
}

// ComputedConcepts are the columns the recompute pass derives from the shift
// windows; every other column is entered by hand.
var ComputedConcepts = []Concept{
	ConceptOvertime,
	ConceptTurnAround,
	ConceptNightShift,
}

// AffirmativeToken is the stored value of a boolean concept on a day where it
// applies; the empty string means it does not.
const AffirmativeToken = "Sí"

// IsNumeric reports whether the concept's values aggregate as plain numbers.
func (c Concept) IsNumeric() bool {
	switch c {
	case ConceptOvertime, ConceptTurnAround, ConceptMileage, ConceptFuel:
		return true
	}
	return false
}

// IsBoolean reports whether the concept stores an affirmative token or nothing.
func (c Concept) IsBoolean() bool {
	switch c {
	case ConceptNightShift, ConceptPenaltyLunch, ConceptOwnMaterial, ConceptTransport:
		return true
	}
	return false
}

// IsComputed reports whether the recompute pass owns this concept's automatic
// values.
func (c Concept) IsComputed() bool {
	for _, cc := range ComputedConcepts {
		if c == cc {
			return true
		}
	}
	return false
}

// ValidConcept reports whether the string names a known concept.
func ValidConcept(s string) bool {
	for _, c := range Concepts {
		if Concept(s) == c {
			return true
		}
	}
	return false
}

// DietItems is the fixed per-diem catalog, in display order.
var DietItems = []string{"Desayuno", "Comida", "Cena", "Pernocta"}

// Prefixes of the two person-local free-value fields inside a per-diem cell.
const (
	perDiemTicketPrefix = "Ticket:"
	perDiemOtherPrefix  = "Otros:"
)

// PerDiemValue is the structured content of a per-diem cell: a set of selected
// diet items plus the two person-local amounts that never propagate to peers.
type PerDiemValue struct {
	Items  []string `json:"items"`
	Ticket string   `json:"ticket"`
	Other  string   `json:"other"`
}

// ParsePerDiem decodes a stored per-diem cell. Tokens are comma separated;
// unknown tokens are kept as items so a hand-typed entry is never dropped.
func ParsePerDiem(s string) PerDiemValue {
	var v PerDiemValue

	for _, token := range strings.Split(s, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		switch {
		case strings.HasPrefix(token, perDiemTicketPrefix):
			v.Ticket = strings.TrimSpace(strings.TrimPrefix(token, perDiemTicketPrefix))
		case strings.HasPrefix(token, perDiemOtherPrefix):
			v.Other = strings.TrimSpace(strings.TrimPrefix(token, perDiemOtherPrefix))
		default:
			if !v.HasItem(token) {
				v.Items = append(v.Items, token)
			}
		}
	}

	return v
}

// HasItem reports whether the diet item is selected.
func (v PerDiemValue) HasItem(name string) bool {
	for _, item := range v.Items {
		if item == name {
			return true
		}
	}
	return false
}

// SameItems reports whether both values select exactly the same diet items,
// ignoring ticket and other.
func (v PerDiemValue) SameItems(other PerDiemValue) bool {
	if len(v.Items) != len(other.Items) {
		return false
	}
	for _, item := range v.Items {
		if !other.HasItem(item) {
			return false
		}
	}
	return true
}

// MergeItems adds the diet items of src that this value is missing. Ticket
// and other amounts are left untouched: those stay person-local.
func (v PerDiemValue) MergeItems(src PerDiemValue) PerDiemValue {
	merged := v
	for _, item := range src.Items {
		if !merged.HasItem(item) {
			merged.Items = append(merged.Items, item)
		}
	}
	return merged
}

// Encode serializes the value back to its stored cell form. Catalog items come
// first in catalog order, then any free-form items, then ticket and other.
func (v PerDiemValue) Encode() string {
	var tokens []string

	for _, item := range DietItems {
		if v.HasItem(item) {
			tokens = append(tokens, item)
		}
	}
	for _, item := range v.Items {
		if !isCatalogItem(item) {
			tokens = append(tokens, item)
		}
	}

	if v.Ticket != "" {
		tokens = append(tokens, perDiemTicketPrefix+" "+v.Ticket)
	}
	if v.Other != "" {
		tokens = append(tokens, perDiemOtherPrefix+" "+v.Other)
	}

	return strings.Join(tokens, ", ")
}

// IsEmpty reports whether nothing at all is recorded in the value.
func (v PerDiemValue) IsEmpty() bool {
	return len(v.Items) == 0 && v.Ticket == "" && v.Other == ""
}

func isCatalogItem(name string) bool {
	for _, item := range DietItems {
		if item == name {
			return true
		}
	}
	return false
}
