package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prodoffice/crew-timesheet/models"
)

func TestOvertimeNormal(t *testing.T) {
	base := 600    // 9h workday plus 1h meal
	courtesy := 15 // minutes of grace before the first unit

	// No overtime on an exact base day
	assert.Equal(t, "", OvertimeValue(models.OvertimeNormal, 600, base, courtesy))

	// Within the courtesy grace: still no unit
	assert.Equal(t, "", OvertimeValue(models.OvertimeNormal, 610, base, courtesy))

	// Past the grace, first started unit
	assert.Equal(t, "1", OvertimeValue(models.OvertimeNormal, 616, base, courtesy))

	// 80 minutes over: one full hour plus a started one
	assert.Equal(t, "2", OvertimeValue(models.OvertimeNormal, 680, base, courtesy))

	// Exactly one hour over stays at one unit
	assert.Equal(t, "1", OvertimeValue(models.OvertimeNormal, 660, base, courtesy))

	// Three started hours
	assert.Equal(t, "3", OvertimeValue(models.OvertimeNormal, 725, base, courtesy))
}

func TestOvertimeNormalZeroCourtesy(t *testing.T) {
	// Without a grace every positive excess produces a unit
	assert.Equal(t, "1", OvertimeValue(models.OvertimeNormal, 601, 600, 0))
}

func TestOvertimeMinutage(t *testing.T) {
	// Cut mode converts the full excess
	assert.Equal(t, "1.33 (80')", OvertimeValue(models.OvertimeMinutageCut, 680, 600, 15))

	// Courtesy mode subtracts the grace first
	assert.Equal(t, "1.08 (65')", OvertimeValue(models.OvertimeMinutageCourtesy, 680, 600, 15))

	// No excess means empty in both modes
	assert.Equal(t, "", OvertimeValue(models.OvertimeMinutageCut, 600, 600, 15))
	assert.Equal(t, "", OvertimeValue(models.OvertimeMinutageCourtesy, 610, 600, 15))
}

func TestExtractNumeric(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"2", 2, true},
		{"1.33 (80')", 1.33, true},
		{"1,5", 1.5, true},
		{"  3 ", 3, true},
		{"-1", -1, true},
		{"", 0, false},
		{"Sí", 0, false},
	}
	for _, tc := range cases {
		got, ok := ExtractNumeric(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if ok {
			assert.InDelta(t, tc.want, got, 0.001, tc.in)
		}
	}
}

func TestReencodeOvertime(t *testing.T) {
	// A plain hour count picks up the minutage display form
	assert.Equal(t, "2.00 (120')", ReencodeOvertime(models.OvertimeMinutageCut, "2"))

	// Already-encoded values re-encode to themselves
	assert.Equal(t, "1.33 (80')", ReencodeOvertime(models.OvertimeMinutageCut, "1.33 (80')"))

	// Non-numeric manual text is left alone rather than destroyed
	assert.Equal(t, "pendiente", ReencodeOvertime(models.OvertimeMinutageCut, "pendiente"))

	// Normal mode never rewrites
	assert.Equal(t, "2", ReencodeOvertime(models.OvertimeNormal, "2"))
}

func TestIsNightShift(t *testing.T) {
	// Shift running into the night window
	assert.True(t, IsNightShift("18:00", "23:00", "22:00", "06:00"))

	// Overnight shift crossing the whole window
	assert.True(t, IsNightShift("23:00", "07:00", "22:00", "06:00"))

	// Day shift, no overlap
	assert.False(t, IsNightShift("09:00", "17:00", "22:00", "06:00"))

	// Touching the window boundary is not an overlap
	assert.False(t, IsNightShift("09:00", "22:00", "22:00", "06:00"))
	assert.False(t, IsNightShift("06:00", "14:00", "22:00", "06:00"))

	// Early-morning shift falls inside the morning part of the window
	assert.True(t, IsNightShift("05:00", "13:00", "22:00", "06:00"))

	// Non-wrapping window
	assert.True(t, IsNightShift("21:00", "23:30", "22:00", "23:00"))
	assert.False(t, IsNightShift("09:00", "12:00", "22:00", "23:00"))

	// Malformed input degrades to false
	assert.False(t, IsNightShift("", "23:00", "22:00", "06:00"))
}

func TestTurnAroundShortfall(t *testing.T) {
	params := models.DefaultConditionParams() // 12h standard, 48h extended

	// Overnight previous shift (22:00 to 02:00) ending the next morning,
	// current shift at 09:00 leaves only a 7h gap against the 12h minimum
	prev := PreviousShift{Date: "2026-03-02", Start: "22:00", End: "02:00", Found: true}
	assert.Equal(t, 5, TurnAroundShortfall(prev, "2026-03-03", "09:00", params))

	// A comfortable gap produces no shortfall
	prev = PreviousShift{Date: "2026-03-02", Start: "09:00", End: "19:00", Found: true}
	assert.Equal(t, 0, TurnAroundShortfall(prev, "2026-03-03", "09:00", params))

	// 11h rest against the 12h minimum
	prev = PreviousShift{Date: "2026-03-02", Start: "09:00", End: "19:00", Found: true}
	assert.Equal(t, 1, TurnAroundShortfall(prev, "2026-03-03", "06:00", params))

	// Nothing found yet means nothing owed
	assert.Equal(t, 0, TurnAroundShortfall(PreviousShift{}, "2026-03-03", "09:00", params))
}

func TestTurnAroundMidnightHeuristics(t *testing.T) {
	params := models.DefaultConditionParams()

	// End equal to start counts as a full day worked into the next morning
	prev := PreviousShift{Date: "2026-03-02", Start: "08:00", End: "08:00", Found: true}
	assert.Equal(t, 12, TurnAroundShortfall(prev, "2026-03-03", "08:00", params))

	// A 00:00 start with a morning end is treated as overnight
	prev = PreviousShift{Date: "2026-03-02", Start: "00:00", End: "10:00", Found: true}
	assert.Equal(t, 3, TurnAroundShortfall(prev, "2026-03-03", "19:00", params))

	// A 00:00 start with an afternoon end is a plain long day, not overnight
	prev = PreviousShift{Date: "2026-03-02", Start: "00:00", End: "14:00", Found: true}
	assert.Equal(t, 0, TurnAroundShortfall(prev, "2026-03-03", "19:00", params))

	// Unknown start with an early-morning end reads as overnight
	prev = PreviousShift{Date: "2026-03-02", Start: "", End: "04:00", Found: true}
	assert.Equal(t, 3, TurnAroundShortfall(prev, "2026-03-03", "13:00", params))

	// Unknown start with a late-morning end does not
	prev = PreviousShift{Date: "2026-03-02", Start: "", End: "07:00", Found: true}
	assert.Equal(t, 0, TurnAroundShortfall(prev, "2026-03-03", "19:00", params))
}

func TestTurnAroundExtendedThreshold(t *testing.T) {
	params := models.DefaultConditionParams()

	// Two or more consecutive rest days demand the extended 48h gap. A rest
	// weekend with a Monday 09:00 call after a Friday 19:00 wrap leaves 62h,
	// which clears it.
	prev := PreviousShift{Date: "2026-03-06", Start: "09:00", End: "19:00", RestDays: 2, Found: true}
	assert.Equal(t, 0, TurnAroundShortfall(prev, "2026-03-09", "09:00", params))

	// An early Monday call inside the 48h window owes the difference
	prev = PreviousShift{Date: "2026-03-07", Start: "09:00", End: "19:00", RestDays: 2, Found: true}
	assert.Equal(t, 10, TurnAroundShortfall(prev, "2026-03-09", "09:00", params))

	// A single rest day keeps the standard threshold
	prev = PreviousShift{Date: "2026-03-07", Start: "09:00", End: "19:00", RestDays: 1, Found: true}
	assert.Equal(t, 0, TurnAroundShortfall(prev, "2026-03-09", "09:00", params))
}
