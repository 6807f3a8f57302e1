package models

import (
	"fmt"
	"strings"
)

// Block identifies one of the three shift categories of a day.
type Block string

const (
	BlockBase     Block = "base"
	BlockPrelight Block = "pre"
	BlockPickup   Block = "pick"
)

// ParseBlock normalizes a block identifier, accepting the legacy long forms
// still present in stored collapse maps.
func ParseBlock(s string) Block {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pre", "prelight":
		return BlockPrelight
	case "pick", "pickup", "recogida":
		return BlockPickup
	default:
		return BlockBase
	}
}

// ReinforcementPrefix marks temporary-staff role codes.
const ReinforcementPrefix = "REF"

// Position suffix characters appended to a role code when the person works a
// non-base block.
const (
	prelightSuffix = 'P'
	pickupSuffix   = 'R'
)

// RoleCategory distinguishes standard crew roles from reinforcements.
type RoleCategory int

const (
	RoleStandard RoleCategory = iota
	RoleReinforcement
)

// RoleDescriptor is the parsed, validated form of a raw role code. It is
// computed once at ingestion so the rest of the engine never inspects role
// strings directly.
type RoleDescriptor struct {
	Code     string       // raw code as entered
	Base     string       // code with position suffixes stripped
	Category RoleCategory
	Block    Block // block implied by the position suffix, BlockBase if none
}

// ParseRole derives a role descriptor from a raw role code. Standard roles
// strip at most one trailing position suffix; reinforcement roles strip
// suffixes repeatedly, since their codes stack the block marker on top of the
// reinforced role's own suffix.
func ParseRole(code string) RoleDescriptor {
	code = strings.TrimSpace(code)
	desc := RoleDescriptor{Code: code, Base: code, Block: BlockBase}

	if strings.HasPrefix(code, ReinforcementPrefix) && len(code) > len(ReinforcementPrefix) {
		desc.Category = RoleReinforcement
	}

	strip := func(s string) (string, Block, bool) {
		if len(s) < 2 {
			return s, BlockBase, false
		}
		switch s[len(s)-1] {
		case prelightSuffix:
			return s[:len(s)-1], BlockPrelight, true
		case pickupSuffix:
			return s[:len(s)-1], BlockPickup, true
		}
		return s, BlockBase, false
	}

	minLen := 2
	if desc.Category == RoleReinforcement {
		minLen = len(ReinforcementPrefix) + 1
	}

	for {
		if len(desc.Base) <= minLen {
			break
		}
		base, block, ok := strip(desc.Base)
		if !ok {
			break
		}
		desc.Base = base
		if desc.Block == BlockBase {
			desc.Block = block
		}
		if desc.Category == RoleStandard {
			break
		}
	}

	return desc
}

// CrewMember represents one roster entry for a project week.
type CrewMember struct {
	ID        int    `json:"id" db:"id"`
	ProjectID int    `json:"project_id" db:"project_id"`
	WeekStart string `json:"week_start" db:"week_start"`
	Role      string `json:"role" db:"role"`
	Name      string `json:"name" db:"name"`
	Block     Block  `json:"block" db:"block"`
	Active    bool   `json:"active" db:"active"`
}

// PersonKey returns the canonical identity of the member within their block:
// base role code concatenated with the name, with a ".pre"/".pick" qualifier
// for non-base assignments. Two members that differ only in position suffix
// collapse to the same key when assigned to the same block.
func (m *CrewMember) PersonKey() string {
	return PersonKey(m.Role, m.Name, m.Block)
}

// EffectiveBlock resolves the block the member actually works: an explicit
// non-base assignment wins, otherwise the block implied by the role's
// position suffix.
func (m *CrewMember) EffectiveBlock() Block {
	if m.Block != "" && m.Block != BlockBase {
		return m.Block
	}
	return ParseRole(m.Role).Block
}

// PersonKey derives the canonical identity string for a role/name pair in the
// given block. An empty block falls back to the block implied by the role's
// position suffix.
func PersonKey(role, name string, block Block) string {
	desc := ParseRole(role)

	if block == "" || block == BlockBase {
		block = desc.Block
	}

	key := desc.Base + strings.TrimSpace(name)
	if block != BlockBase {
		key += "." + string(block)
	}
	return key
}

// NormalizeCollapsedKey rewrites legacy block qualifiers on a stored collapse
// key into their current short forms.
func NormalizeCollapsedKey(key string) string {
	for _, legacy := range []struct{ old, now string }{
		{".prelight", ".pre"},
		{".pickup", ".pick"},
		{".recogida", ".pick"},
	} {
		if strings.HasSuffix(key, legacy.old) {
			return strings.TrimSuffix(key, legacy.old) + legacy.now
		}
	}
	return key
}

// CrewMemberForm represents form data for creating/updating crew members
type CrewMemberForm struct {
	Role      string `json:"role"`
	Name      string `json:"name"`
	Block     string `json:"block"`
	WeekStart string `json:"week_start"`
	Active    bool   `json:"active"`
}

// Validate validates the crew member form data
func (f *CrewMemberForm) Validate() []string {
	var errors []string

	if strings.TrimSpace(f.Role) == "" {
		errors = append(errors, "Role is required")
	}
	if len(f.Role) > 20 {
		errors = append(errors, "Role must be less than 20 characters")
	}

	if strings.TrimSpace(f.Name) == "" {
		errors = append(errors, "Name is required")
	}
	if len(f.Name) > 100 {
		errors = append(errors, "Name must be less than 100 characters")
	}

	if f.WeekStart == "" {
		errors = append(errors, "Week start date is required")
	} else if _, err := ParseDate(f.WeekStart); err != nil {
		errors = append(errors, "Week start must be in YYYY-MM-DD format")
	}

	switch ParseBlock(f.Block) {
	case BlockBase, BlockPrelight, BlockPickup:
	default:
		errors = append(errors, fmt.Sprintf("Unknown block %q", f.Block))
	}

	return errors
}
