package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/prodoffice/crew-timesheet/models"
)

// Pure timesheet calculators. All of them are total functions: malformed
// input degrades to zero or the empty string, never to an error.

// OvertimeValue computes the overtime cell value for the worked minutes of a
// shift under the selected formula. Empty string means no overtime.
func OvertimeValue(mode models.OvertimeMode, workedMin, baseMin, courtesyMin int) string {
	switch mode {
	case models.OvertimeMinutageCut:
		return overtimeMinutage(workedMin - baseMin)
	case models.OvertimeMinutageCourtesy:
		return overtimeMinutage(workedMin - baseMin - courtesyMin)
	default:
		return overtimeNormal(workedMin, baseMin, courtesyMin)
	}
}

// overtimeNormal counts coarse whole overtime units. The first unit only
// counts once the excess clears the courtesy grace; past a full hour the
// count grows by one per started hour beyond the first.
func overtimeNormal(workedMin, baseMin, courtesyMin int) string {
	over := workedMin - baseMin
	if over <= 0 {
		return ""
	}

	units := 0
	if over > courtesyMin {
		units = 1
	}
	if over > 60 {
		fromHours := 1 + models.CeilToHours(over-60)
		if fromHours > units {
			units = fromHours
		}
	}

	if units == 0 {
		return ""
	}
	return strconv.Itoa(units)
}

// overtimeMinutage formats excess minutes as decimal hours with the literal
// minute count, e.g. "1.33 (80')".
func overtimeMinutage(excessMin int) string {
	if excessMin <= 0 {
		return ""
	}
	return fmt.Sprintf("%.2f (%d')", float64(excessMin)/60, excessMin)
}

// ExtractNumeric pulls the leading numeric component out of a cell value, so
// minutage display strings still aggregate. Comma decimals are accepted.
func ExtractNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)

	end := 0
	for end < len(s) {
		c := s[end]
		if (c >= '0' && c <= '9') || c == '.' || c == ',' || (end == 0 && c == '-') {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseFloat(strings.ReplaceAll(s[:end], ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ReencodeOvertime rewrites a preserved manual overtime value into the given
// minutage format. When the numeric component cannot be recovered the raw
// string is returned unchanged rather than dropping the user's value.
func ReencodeOvertime(mode models.OvertimeMode, raw string) string {
	if raw == "" || !mode.IsMinutage() {
		return raw
	}

	hours, ok := ExtractNumeric(raw)
	if !ok || hours <= 0 {
		return raw
	}

	minutes := int(hours*60 + 0.5)
	return overtimeMinutage(minutes)
}

// IsNightShift reports whether a shift overlaps the configured nocturnal
// window. The shift is normalized so its end lies past midnight when it wraps;
// a wrapping night window is split into sub-intervals duplicated one day
// forward so the overlap test holds regardless of which day the shift was
// normalized into.
func IsNightShift(shiftStart, shiftEnd, nightStart, nightEnd string) bool {
	s0, ok := models.ParseTimeOfDay(shiftStart)
	if !ok {
		return false
	}
	s1, ok := models.ParseTimeOfDay(shiftEnd)
	if !ok {
		return false
	}
	n0, ok := models.ParseTimeOfDay(nightStart)
	if !ok {
		return false
	}
	n1, ok := models.ParseTimeOfDay(nightEnd)
	if !ok {
		return false
	}

	const day = 24 * 60

	if s1 <= s0 {
		s1 += day
	}

	var windows [][2]int
	if n0 > n1 {
		// Window wraps midnight: evening part plus morning part
		windows = [][2]int{
			{n0, day},
			{0, n1},
			{n0 + day, 2 * day},
			{day, n1 + day},
		}
	} else {
		windows = [][2]int{
			{n0, n1},
			{n0 + day, n1 + day},
		}
	}

	for _, w := range windows {
		if overlaps(s0, s1, w[0], w[1]) {
			return true
		}
	}
	return false
}

// overlaps is the strict interval overlap test: max(a0,b0) < min(a1,b1).
func overlaps(a0, a1, b0, b1 int) bool {
	lo := a0
	if b0 > lo {
		lo = b0
	}
	hi := a1
	if b1 < hi {
		hi = b1
	}
	return lo < hi
}

// PreviousShift is the result of a previous-working-day search: the most
// recent day the target block was worked, plus the consecutive rest days
// crossed on the way back. Found is false on the first working day of a
// production, which is a valid zero state rather than an error.
type PreviousShift struct {
	Date     string
	Start    string
	End      string
	RestDays int
	Found    bool
}

// TurnAroundShortfall computes the rest shortfall, in whole hours, between
// the end of the previous shift of the same block and the start of the
// current one.
//
// Three independent heuristics decide whether the previous shift crossed
// midnight; any one of them pushes its end a full day forward. They overlap
// on purpose: the permissive OR is the established behavior and boundary
// times are pinned by tests.
func TurnAroundShortfall(prev PreviousShift, date, shiftStart string, params models.ConditionParams) int {
	if !prev.Found || prev.End == "" {
		return 0
	}

	prevEnd, ok := models.CombineDateAndTime(prev.Date, prev.End)
	if !ok {
		return 0
	}
	curStart, ok := models.CombineDateAndTime(date, shiftStart)
	if !ok {
		return 0
	}

	endMin, endOK := models.ParseTimeOfDay(prev.End)
	startMin, startOK := models.ParseTimeOfDay(prev.Start)

	crossesMidnight := false
	if endOK && startOK && endMin <= startMin {
		crossesMidnight = true
	}
	if prev.Start == "00:00" && endOK && endMin <= 12*60 {
		crossesMidnight = true
	}
	if !startOK && endOK && endMin/60 <= 6 {
		crossesMidnight = true
	}

	if crossesMidnight {
		prevEnd = prevEnd.Add(24 * time.Hour)
	}

	gapMin := int(curStart.Sub(prevEnd).Minutes())

	requiredHours := params.TurnAroundHours
	if !isPositiveThreshold(requiredHours) {
		requiredHours = models.DefaultTurnAroundHours
	}
	if prev.RestDays >= 2 {
		requiredHours = params.ExtendedTurnAroundHours
		if !isPositiveThreshold(requiredHours) {
			requiredHours = models.DefaultExtendedTurnAround
		}
	}

	shortfall := int(requiredHours*60) - gapMin
	return models.CeilToHours(shortfall)
}

func isPositiveThreshold(f float64) bool {
	return f == f && f > 0 && f < 1e6
}
