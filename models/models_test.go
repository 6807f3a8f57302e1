package models

import (
	"testing"
)

// Test time-of-day parsing
func TestParseTimeOfDay(t *testing.T) {
	valid := map[string]int{
		"00:00": 0,
		"09:00": 540,
		"17:30": 1050,
		"23:59": 1439,
	}
	for s, want := range valid {
		got, ok := ParseTimeOfDay(s)
		if !ok || got != want {
			t.Errorf("ParseTimeOfDay(%q) = (%d, %v), want (%d, true)", s, got, ok, want)
		}
	}

	invalid := []string{"", "9:00", "25:00", "12:60", "ab:cd", "12:3", "12-30", "123:0"}
	for _, s := range invalid {
		if _, ok := ParseTimeOfDay(s); ok {
			t.Errorf("Expected %q to be invalid", s)
		}
	}
}

// Test minute arithmetic
func TestMinutesBetween(t *testing.T) {
	if m, ok := MinutesBetween("09:00", "19:00"); !ok || m != 600 {
		t.Errorf("Expected 600 minutes, got (%d, %v)", m, ok)
	}

	// End before start clamps to zero instead of wrapping
	if m, ok := MinutesBetween("22:00", "02:00"); !ok || m != 0 {
		t.Errorf("Expected clamp to 0, got (%d, %v)", m, ok)
	}

	if _, ok := MinutesBetween("bad", "10:00"); ok {
		t.Error("Expected malformed start to fail")
	}
}

func TestCeilToHours(t *testing.T) {
	cases := map[int]int{-30: 0, 0: 0, 1: 1, 60: 1, 61: 2, 120: 2, 121: 3}
	for minutes, want := range cases {
		if got := CeilToHours(minutes); got != want {
			t.Errorf("CeilToHours(%d) = %d, want %d", minutes, got, want)
		}
	}
}

func TestWeekDates(t *testing.T) {
	dates := WeekDates("2026-03-02")
	if len(dates) != 7 {
		t.Fatalf("Expected 7 dates, got %d", len(dates))
	}
	if dates[0] != "2026-03-02" || dates[6] != "2026-03-08" {
		t.Errorf("Unexpected week range: %v", dates)
	}
}

// Test role parsing and person key derivation
func TestParseRole(t *testing.T) {
	// Plain standard role, no suffix
	desc := ParseRole("G")
	if desc.Base != "G" || desc.Block != BlockBase || desc.Category != RoleStandard {
		t.Errorf("Unexpected descriptor for G: %+v", desc)
	}

	// Standard role with prelight suffix
	desc = ParseRole("GP")
	if desc.Base != "G" || desc.Block != BlockPrelight {
		t.Errorf("Unexpected descriptor for GP: %+v", desc)
	}

	// Standard role with pickup suffix
	desc = ParseRole("ER")
	if desc.Base != "E" || desc.Block != BlockPickup {
		t.Errorf("Unexpected descriptor for ER: %+v", desc)
	}

	// Standard roles strip at most one suffix
	desc = ParseRole("GPP")
	if desc.Base != "GP" || desc.Block != BlockPrelight {
		t.Errorf("Unexpected descriptor for GPP: %+v", desc)
	}

	// Reinforcement roles strip suffixes repeatedly
	desc = ParseRole("REFGP")
	if desc.Category != RoleReinforcement || desc.Base != "REFG" || desc.Block != BlockPrelight {
		t.Errorf("Unexpected descriptor for REFGP: %+v", desc)
	}

	// The bare prefix alone is not a reinforcement
	desc = ParseRole("REF")
	if desc.Category != RoleStandard {
		t.Errorf("Expected bare REF to be standard, got %+v", desc)
	}
}

func TestPersonKey(t *testing.T) {
	// Suffix-qualified role and explicit block assignment produce the same key
	fromSuffix := PersonKey("REFGP", "Ana", BlockBase)
	fromBlock := PersonKey("REFG", "Ana", BlockPrelight)
	if fromSuffix != fromBlock {
		t.Errorf("Expected matching keys, got %q vs %q", fromSuffix, fromBlock)
	}
	if fromSuffix != "REFGAna.pre" {
		t.Errorf("Expected REFGAna.pre, got %q", fromSuffix)
	}

	// Base block keys carry no qualifier
	if key := PersonKey("G", "Luis", BlockBase); key != "GLuis" {
		t.Errorf("Expected GLuis, got %q", key)
	}

	if key := PersonKey("E", "Marta", BlockPickup); key != "EMarta.pick" {
		t.Errorf("Expected EMarta.pick, got %q", key)
	}
}

func TestEffectiveBlock(t *testing.T) {
	// Explicit non-base block wins over the role suffix
	m := CrewMember{Role: "GP", Block: BlockPickup}
	if got := m.EffectiveBlock(); got != BlockPickup {
		t.Errorf("Expected pick, got %q", got)
	}

	// Base assignment defers to the suffix
	m = CrewMember{Role: "GP", Block: BlockBase}
	if got := m.EffectiveBlock(); got != BlockPrelight {
		t.Errorf("Expected pre, got %q", got)
	}
}

func TestNormalizeCollapsedKey(t *testing.T) {
	cases := map[string]string{
		"GAna.prelight": "GAna.pre",
		"GAna.pickup":   "GAna.pick",
		"GAna.recogida": "GAna.pick",
		"GAna.pre":      "GAna.pre",
		"GAna":          "GAna",
	}
	for in, want := range cases {
		if got := NormalizeCollapsedKey(in); got != want {
			t.Errorf("NormalizeCollapsedKey(%q) = %q, want %q", in, got, want)
		}
	}
}

// Test per-diem cell encoding
func TestPerDiemRoundTrip(t *testing.T) {
	v := ParsePerDiem("Comida, Cena, Ticket: 23.50, Otros: parking")
	if len(v.Items) != 2 || !v.HasItem("Comida") || !v.HasItem("Cena") {
		t.Errorf("Unexpected items: %v", v.Items)
	}
	if v.Ticket != "23.50" || v.Other != "parking" {
		t.Errorf("Unexpected ticket/other: %q %q", v.Ticket, v.Other)
	}

	// Encode orders catalog items first and restores the prefixes
	encoded := v.Encode()
	if encoded != "Comida, Cena, Ticket: 23.50, Otros: parking" {
		t.Errorf("Unexpected encoding: %q", encoded)
	}
}

func TestPerDiemMergeItems(t *testing.T) {
	peer := ParsePerDiem("Desayuno, Ticket: 10")
	edited := ParsePerDiem("Comida, Cena, Ticket: 99")

	merged := peer.MergeItems(edited)
	if !merged.HasItem("Desayuno") || !merged.HasItem("Comida") || !merged.HasItem("Cena") {
		t.Errorf("Unexpected merged items: %v", merged.Items)
	}

	// The peer's own ticket amount survives the merge
	if merged.Ticket != "10" {
		t.Errorf("Expected peer ticket preserved, got %q", merged.Ticket)
	}
}

func TestPerDiemSameItems(t *testing.T) {
	a := ParsePerDiem("Comida, Cena")
	b := ParsePerDiem("Cena, Comida, Ticket: 5")
	if !a.SameItems(b) {
		t.Error("Expected item sets to match regardless of order and ticket")
	}

	c := ParsePerDiem("Comida")
	if a.SameItems(c) {
		t.Error("Expected differing item sets to mismatch")
	}
}

// Test the report sheet grid behavior
func TestReportSheetSeedIsAdditive(t *testing.T) {
	sheet := NewReportSheet(OvertimeNormal)
	dates := WeekDates("2026-03-02")

	sheet.Set("GAna", ConceptMileage, "2026-03-03", "40", true)
	sheet.Seed([]string{"GAna", "ELuis"}, dates)

	// Seeding never overwrites an existing cell
	if got := sheet.Value("GAna", ConceptMileage, "2026-03-03"); got != "40" {
		t.Errorf("Expected preserved value 40, got %q", got)
	}
	if !sheet.IsManual("GAna", ConceptMileage, "2026-03-03") {
		t.Error("Expected manual flag preserved")
	}

	// New person gets empty automatic cells across every concept and date
	for _, concept := range Concepts {
		for _, date := range dates {
			if !sheet.Has("ELuis", concept, date) {
				t.Fatalf("Expected seeded cell for ELuis/%s/%s", concept, date)
			}
		}
	}
}

func TestReportSheetClone(t *testing.T) {
	sheet := NewReportSheet(OvertimeMinutageCut)
	sheet.Set("GAna", ConceptOvertime, "2026-03-02", "2", true)

	clone := sheet.Clone()
	clone.Set("GAna", ConceptOvertime, "2026-03-02", "3", false)

	if sheet.Value("GAna", ConceptOvertime, "2026-03-02") != "2" {
		t.Error("Clone mutation leaked into the original")
	}
	if clone.Mode != OvertimeMinutageCut {
		t.Errorf("Expected mode carried over, got %q", clone.Mode)
	}
}

func TestReportSheetEncodeDecode(t *testing.T) {
	sheet := NewReportSheet(OvertimeNormal)
	sheet.Set("GAna", ConceptNightShift, "2026-03-04", AffirmativeToken, false)

	payload, err := sheet.Encode()
	if err != nil {
		t.Fatalf("Failed to encode sheet: %v", err)
	}

	decoded, err := DecodeReportSheet(payload)
	if err != nil {
		t.Fatalf("Failed to decode sheet: %v", err)
	}
	if decoded.Value("GAna", ConceptNightShift, "2026-03-04") != AffirmativeToken {
		t.Error("Round trip lost the cell value")
	}
}

func TestCollapsedMapReconcile(t *testing.T) {
	stored := CollapsedMap{
		"GAna.prelight": true,  // legacy qualifier, person still present
		"EOld":          true,  // person removed from roster
		"ELuis":         false, // unchanged
	}

	out := stored.Reconcile([]string{"GAna.pre", "ELuis", "MNew"})

	if !out["GAna.pre"] {
		t.Error("Expected legacy key normalized with state preserved")
	}
	if _, ok := out["EOld"]; ok {
		t.Error("Expected removed person dropped")
	}
	if out["MNew"] {
		t.Error("Expected new person to start expanded")
	}
	if len(out) != 3 {
		t.Errorf("Expected 3 keys, got %d", len(out))
	}
}

// Test condition parameter sanitizing
func TestConditionParamsSanitized(t *testing.T) {
	p := ConditionParams{
		WorkdayHours:            -1,
		MealHours:               0.5,
		CourtesyMinutes:         -5,
		TurnAroundHours:         0,
		ExtendedTurnAroundHours: 48,
		NightStart:              "25:00",
		NightEnd:                "06:00",
		OvertimeMode:            "bogus",
	}

	out := p.Sanitized()
	if out.WorkdayHours != DefaultWorkdayHours {
		t.Errorf("Expected workday default, got %f", out.WorkdayHours)
	}
	if out.MealHours != 0.5 {
		t.Errorf("Expected valid meal hours kept, got %f", out.MealHours)
	}
	if out.CourtesyMinutes != DefaultCourtesyMinutes {
		t.Errorf("Expected courtesy default, got %d", out.CourtesyMinutes)
	}
	if out.TurnAroundHours != DefaultTurnAroundHours {
		t.Errorf("Expected turn-around default, got %f", out.TurnAroundHours)
	}
	if out.ExtendedTurnAroundHours != 48 {
		t.Errorf("Expected valid extended threshold kept, got %f", out.ExtendedTurnAroundHours)
	}
	if out.NightStart != DefaultNightStart {
		t.Errorf("Expected night start default, got %q", out.NightStart)
	}
	if out.OvertimeMode != OvertimeNormal {
		t.Errorf("Expected overtime mode default, got %q", out.OvertimeMode)
	}
}

func TestBaseDayMinutes(t *testing.T) {
	p := ConditionParams{WorkdayHours: 9, MealHours: 1}
	if got := p.BaseDayMinutes(); got != 600 {
		t.Errorf("Expected 600, got %d", got)
	}
}

// Test form validation
func TestCrewMemberFormValidation(t *testing.T) {
	validForm := CrewMemberForm{
		Role:      "G",
		Name:      "Ana",
		WeekStart: "2026-03-02",
		Active:    true,
	}
	if errors := validForm.Validate(); len(errors) != 0 {
		t.Errorf("Expected no errors for valid form, got: %v", errors)
	}

	invalidForm := CrewMemberForm{
		Role:      "",
		Name:      "",
		WeekStart: "03/02/2026",
	}
	if errors := invalidForm.Validate(); len(errors) != 3 {
		t.Errorf("Expected 3 errors for invalid form, got: %v", errors)
	}
}

func TestWeekFormValidation(t *testing.T) {
	form := WeekForm{StartDate: "2026-03-02"}
	form.Days[0] = DayForm{Type: "work", BaseStart: "09:00", BaseEnd: "19:00"}
	if errors := form.Validate(); len(errors) != 0 {
		t.Errorf("Expected no errors, got: %v", errors)
	}

	form.Days[1] = DayForm{Type: "work", BaseStart: "25:00"}
	if errors := form.Validate(); len(errors) != 1 {
		t.Errorf("Expected 1 error for bad time, got: %v", errors)
	}
}

func TestWeekFormToWeek(t *testing.T) {
	form := WeekForm{StartDate: "2026-03-02", Phase: "production"}
	form.Days[0] = DayForm{Type: "work", BaseStart: "09:00", BaseEnd: "19:00"}

	week := form.ToWeek(7)
	if week.ProjectID != 7 {
		t.Errorf("Expected project 7, got %d", week.ProjectID)
	}
	if week.Days[0].Date != "2026-03-02" || week.Days[6].Date != "2026-03-08" {
		t.Errorf("Unexpected day dates: %q .. %q", week.Days[0].Date, week.Days[6].Date)
	}

	// Unspecified days default to rest
	if week.Days[1].Type != DayRest {
		t.Errorf("Expected rest default, got %q", week.Days[1].Type)
	}
}

func TestExportRangeValidation(t *testing.T) {
	valid := ExportRange{From: "2026-03-01", To: "2026-03-31"}
	if errors := valid.Validate(); len(errors) != 0 {
		t.Errorf("Expected no errors, got: %v", errors)
	}

	inverted := ExportRange{From: "2026-03-31", To: "2026-03-01"}
	if errors := inverted.Validate(); len(errors) != 1 {
		t.Errorf("Expected 1 error for inverted range, got: %v", errors)
	}
}
