package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/prodoffice/crew-timesheet/models"
	"github.com/prodoffice/crew-timesheet/repositories"
)

// ReportService owns the per-week report data grid: automatic recomputation,
// the single mutation entry point for user edits, collapsed-row state and
// weekly totals. Every write path rebuilds a fresh sheet from the previous
// one so readers always see a complete snapshot.
type ReportService interface {
	GetSheet(projectID int, weekStart string) (*models.ReportSheet, error)
	Recompute(projectID int, weekStart string) (*models.ReportSheet, error)
	SetCell(projectID int, weekStart, personKey string, concept models.Concept, date, value string) (*models.ReportSheet, error)

	GetCollapsed(projectID int, weekStart string) (models.CollapsedMap, error)
	ToggleCollapsed(projectID int, weekStart, personKey string) (models.CollapsedMap, error)

	WeeklyTotals(projectID int, weekStart string) (map[string]map[models.Concept]models.WeeklyTotal, error)

	GetExportRange(projectID int, month string) (*models.ExportRange, bool, error)
	SetExportRange(projectID int, month string, rng models.ExportRange) error
}

// reportService implements ReportService interface
type reportService struct {
	projectRepo repositories.ProjectRepository
	crewRepo    repositories.CrewRepository
	weekRepo    repositories.WeekRepository
	kvRepo      repositories.KVRepository
	conditions  ConditionsService
}

// NewReportService creates a new report service
func NewReportService(
	projectRepo repositories.ProjectRepository,
	crewRepo repositories.CrewRepository,
	weekRepo repositories.WeekRepository,
	kvRepo repositories.KVRepository,
	conditions ConditionsService,
) ReportService {
	return &reportService{
		projectRepo: projectRepo,
		crewRepo:    crewRepo,
		weekRepo:    weekRepo,
		kvRepo:      kvRepo,
		conditions:  conditions,
	}
}

// Storage keys are derived from project identity plus the week's date range.
// Stale keys for abandoned weeks are simply never read again.

func reportStorageKey(projectID int, weekStart string) string {
	return fmt.Sprintf("report:%d:%s:%s", projectID, weekStart, models.AddDays(weekStart, 6))
}

func collapsedStorageKey(projectID int, weekStart string) string {
	return fmt.Sprintf("collapsed:%d:%s:%s", projectID, weekStart, models.AddDays(weekStart, 6))
}

func exportStorageKey(projectID int, month string) string {
	return fmt.Sprintf("export:%d:%s", projectID, month)
}

// GetSheet returns the stored sheet for a project week, computing it first if
// nothing has been persisted yet
func (s *reportService) GetSheet(projectID int, weekStart string) (*models.ReportSheet, error) {
	sheet, err := s.loadSheet(projectID, weekStart)
	if err != nil {
		return nil, err
	}
	if sheet != nil {
		return sheet, nil
	}
	return s.Recompute(projectID, weekStart)
}

// loadSheet reads the persisted sheet, nil when absent. A corrupt payload is
// treated as absent: the next recompute rebuilds it.
func (s *reportService) loadSheet(projectID int, weekStart string) (*models.ReportSheet, error) {
	payload, ok, err := s.kvRepo.GetString(reportStorageKey(projectID, weekStart))
	if err != nil {
		return nil, fmt.Errorf("failed to load report sheet: %w", err)
	}
	if !ok {
		return nil, nil
	}

	sheet, err := models.DecodeReportSheet(payload)
	if err != nil {
		log.Warn().Err(err).Int("project_id", projectID).Str("week_start", weekStart).
			Msg("discarding unreadable report sheet")
		return nil, nil
	}
	return sheet, nil
}

func (s *reportService) persistSheet(projectID int, weekStart string, sheet *models.ReportSheet) error {
	payload, err := sheet.Encode()
	if err != nil {
		return err
	}
	return s.kvRepo.SetString(reportStorageKey(projectID, weekStart), payload)
}

// weekContext is everything a recompute or edit pass needs in one place.
type weekContext struct {
	roster   []models.CrewMember
	week     *models.Week
	timeline []models.Week
	params   models.ConditionParams
}

func (s *reportService) loadWeekContext(projectID int, weekStart string) (*weekContext, error) {
	if _, err := models.ParseDate(weekStart); err != nil {
		return nil, fmt.Errorf("invalid week start date %q", weekStart)
	}

	project, err := s.projectRepo.GetByID(projectID)
	if err != nil {
		return nil, err
	}

	roster, err := s.crewRepo.GetActiveByWeek(projectID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}

	timeline, err := s.weekRepo.GetTimeline(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get week timeline: %w", err)
	}

	return &weekContext{
		roster:   roster,
		week:     FindWeek(timeline, weekStart),
		timeline: timeline,
		params:   s.conditions.Load(projectID, project.BillingMode),
	}, nil
}

// Recompute rebuilds the automatic values of the sheet for every person,
// computed concept and date of the week, merging them against stored manual
// edits, and persists the result
func (s *reportService) Recompute(projectID int, weekStart string) (*models.ReportSheet, error) {
	ctx, err := s.loadWeekContext(projectID, weekStart)
	if err != nil {
		return nil, err
	}

	prev, err := s.loadSheet(projectID, weekStart)
	if err != nil {
		return nil, err
	}
	if prev == nil {
		prev = models.NewReportSheet(ctx.params.OvertimeMode)
	}

	next := RecomputeSheet(prev, ctx.roster, ctx.timeline, weekStart, ctx.params)

	if err := s.persistSheet(projectID, weekStart, next); err != nil {
		return nil, err
	}
	return next, nil
}

// RecomputeSheet is the pure reconciliation pass: it builds a fresh sheet
// from the previous one, the roster and the schedule. Running it twice with
// unchanged inputs yields an identical sheet.
func RecomputeSheet(
	prev *models.ReportSheet,
	roster []models.CrewMember,
	timeline []models.Week,
	weekStart string,
	params models.ConditionParams,
) *models.ReportSheet {
	dates := models.WeekDates(weekStart)
	week := FindWeek(timeline, weekStart)

	next := prev.Clone()
	next.Mode = params.OvertimeMode
	modeChanged := prev.Mode != params.OvertimeMode

	keys := PersonKeysOf(roster)
	next.Seed(keys, dates)

	// One block per person key: duplicates collapse to the first occurrence
	blockByKey := make(map[string]models.Block, len(roster))
	for i := range roster {
		key := roster[i].PersonKey()
		if _, ok := blockByKey[key]; !ok {
			blockByKey[key] = roster[i].EffectiveBlock()
		}
	}

	for _, key := range keys {
		block := blockByKey[key]
		for _, date := range dates {
			day := week.DayByDate(date)
			window := day.BlockWindow(block)
			scheduled := day.IsWorking() && (block == models.BlockBase || window.IsSet())

			for _, concept := range models.ComputedConcepts {
				auto := ""
				if scheduled {
					auto = autoValue(concept, date, block, window, timeline, params)
				}
				value, manual := reconcileCell(prev, key, concept, date, auto, scheduled, modeChanged, params.OvertimeMode)
				next.Set(key, concept, date, value, manual)
			}
		}
	}

	return next
}

// autoValue computes the automatic value of one computed concept for a
// scheduled day
func autoValue(
	concept models.Concept,
	date string,
	block models.Block,
	window models.ShiftWindow,
	timeline []models.Week,
	params models.ConditionParams,
) string {
	switch concept {
	case models.ConceptOvertime:
		worked, ok := models.MinutesBetween(window.Start, window.End)
		if !ok {
			return ""
		}
		return OvertimeValue(params.OvertimeMode, worked, params.BaseDayMinutes(), params.CourtesyMinutes)

	case models.ConceptTurnAround:
		if window.Start == "" {
			return ""
		}
		prev := PreviousBlockDay(timeline, date, block)
		hours := TurnAroundShortfall(prev, date, window.Start, params)
		if hours <= 0 {
			return ""
		}
		return strconv.Itoa(hours)

	case models.ConceptNightShift:
		if IsNightShift(window.Start, window.End, params.NightStart, params.NightEnd) {
			return models.AffirmativeToken
		}
		return ""
	}

	return ""
}

// reconcileCell applies the manual/automatic transition rule for one cell of
// the recompute pass:
//
//   - unscheduled days are forced empty and automatic, manual or not;
//   - an overtime-formula switch overwrites everything and clears the flag;
//   - a manual non-empty value is preserved (re-encoded into the current
//     minutage format for overtime);
//   - a manual empty value stays empty: the user cleared it on purpose;
//   - otherwise the fresh automatic value wins.
func reconcileCell(
	prev *models.ReportSheet,
	key string,
	concept models.Concept,
	date, auto string,
	scheduled, modeChanged bool,
	mode models.OvertimeMode,
) (string, bool) {
	if !scheduled {
		return "", false
	}
	if modeChanged {
		return auto, false
	}

	if prev.IsManual(key, concept, date) {
		existing := prev.Value(key, concept, date)
		if existing == "" {
			return "", true
		}
		if concept == models.ConceptOvertime && mode.IsMinutage() {
			return ReencodeOvertime(mode, existing), true
		}
		return existing, true
	}

	return auto, false
}

// SetCell is the single mutation entry point for user edits. It marks the
// cell manual regardless of the new value and, for per-diem additions only,
// fans the diet-item set out to peers scheduled on the same date and block.
func (s *reportService) SetCell(projectID int, weekStart, personKey string, concept models.Concept, date, value string) (*models.ReportSheet, error) {
	if !models.ValidConcept(string(concept)) {
		return nil, fmt.Errorf("unknown concept %q", concept)
	}
	if _, err := models.ParseDate(date); err != nil {
		return nil, fmt.Errorf("invalid date %q", date)
	}

	sheet, err := s.GetSheet(projectID, weekStart)
	if err != nil {
		return nil, err
	}

	ctx, err := s.loadWeekContext(projectID, weekStart)
	if err != nil {
		return nil, err
	}

	next := sheet.Clone()
	previous := next.Value(personKey, concept, date)
	next.Set(personKey, concept, date, value, true)

	if concept == models.ConceptPerDiem && value != "" {
		syncPerDiem(next, ctx, personKey, date, previous, value)
	}

	if err := s.persistSheet(projectID, weekStart, next); err != nil {
		return nil, err
	}
	return next, nil
}

// syncPerDiem propagates a per-diem edit to every other person scheduled on
// the same date and block. Removals and ticket/other-only edits stay local,
// and a peer's own ticket/other amounts are never overwritten.
func syncPerDiem(sheet *models.ReportSheet, ctx *weekContext, editorKey, date, previous, value string) {
	newValue := models.ParsePerDiem(value)
	oldValue := models.ParsePerDiem(previous)

	if len(newValue.Items) < len(oldValue.Items) {
		return
	}
	if newValue.SameItems(oldValue) {
		return
	}

	editorBlock, ok := rosterBlock(ctx.roster, editorKey)
	if !ok {
		return
	}

	day := ctx.week.DayByDate(date)

	seen := map[string]bool{editorKey: true}
	for i := range ctx.roster {
		peerKey := ctx.roster[i].PersonKey()
		if seen[peerKey] {
			continue
		}
		seen[peerKey] = true

		block := ctx.roster[i].EffectiveBlock()
		if block != editorBlock {
			continue
		}

		window := day.BlockWindow(block)
		if !day.IsWorking() || (block != models.BlockBase && !window.IsSet()) {
			continue
		}

		peerValue := models.ParsePerDiem(sheet.Value(peerKey, models.ConceptPerDiem, date))
		merged := peerValue.MergeItems(newValue)
		sheet.Set(peerKey, models.ConceptPerDiem, date, merged.Encode(), true)
	}
}

func rosterBlock(roster []models.CrewMember, personKey string) (models.Block, bool) {
	for i := range roster {
		if roster[i].PersonKey() == personKey {
			return roster[i].EffectiveBlock(), true
		}
	}
	return models.BlockBase, false
}

// GetCollapsed returns the collapsed-row map reconciled against the current
// roster
func (s *reportService) GetCollapsed(projectID int, weekStart string) (models.CollapsedMap, error) {
	keys, err := s.currentPersonKeys(projectID, weekStart)
	if err != nil {
		return nil, err
	}

	stored := make(models.CollapsedMap)
	payload, ok, err := s.kvRepo.GetString(collapsedStorageKey(projectID, weekStart))
	if err != nil {
		return nil, fmt.Errorf("failed to load collapsed map: %w", err)
	}
	if ok {
		decoded, err := models.DecodeCollapsedMap(payload)
		if err != nil {
			log.Warn().Err(err).Int("project_id", projectID).Str("week_start", weekStart).
				Msg("discarding unreadable collapsed map")
		} else {
			stored = decoded
		}
	}

	reconciled := stored.Reconcile(keys)
	if err := s.persistCollapsed(projectID, weekStart, reconciled); err != nil {
		return nil, err
	}
	return reconciled, nil
}

// ToggleCollapsed flips the collapse state of one report row
func (s *reportService) ToggleCollapsed(projectID int, weekStart, personKey string) (models.CollapsedMap, error) {
	collapsed, err := s.GetCollapsed(projectID, weekStart)
	if err != nil {
		return nil, err
	}

	key := models.NormalizeCollapsedKey(personKey)
	if _, ok := collapsed[key]; !ok {
		return nil, fmt.Errorf("unknown person key %q", personKey)
	}
	collapsed[key] = !collapsed[key]

	if err := s.persistCollapsed(projectID, weekStart, collapsed); err != nil {
		return nil, err
	}
	return collapsed, nil
}

func (s *reportService) persistCollapsed(projectID int, weekStart string, m models.CollapsedMap) error {
	payload, err := m.Encode()
	if err != nil {
		return err
	}
	return s.kvRepo.SetString(collapsedStorageKey(projectID, weekStart), payload)
}

func (s *reportService) currentPersonKeys(projectID int, weekStart string) ([]string, error) {
	roster, err := s.crewRepo.GetActiveByWeek(projectID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to get roster: %w", err)
	}
	return PersonKeysOf(roster), nil
}

// WeeklyTotals derives per-person, per-concept totals for the week: numeric
// sums for numeric concepts, affirmative-day counts for boolean ones and
// per-item counts for per-diem
func (s *reportService) WeeklyTotals(projectID int, weekStart string) (map[string]map[models.Concept]models.WeeklyTotal, error) {
	sheet, err := s.GetSheet(projectID, weekStart)
	if err != nil {
		return nil, err
	}

	dates := models.WeekDates(weekStart)
	totals := make(map[string]map[models.Concept]models.WeeklyTotal, len(sheet.Values))

	for key := range sheet.Values {
		totals[key] = make(map[models.Concept]models.WeeklyTotal, len(models.Concepts))
		for _, concept := range models.Concepts {
			totals[key][concept] = totalFor(sheet, key, concept, dates)
		}
	}

	return totals, nil
}

func totalFor(sheet *models.ReportSheet, key string, concept models.Concept, dates []string) models.WeeklyTotal {
	var total models.WeeklyTotal

	for _, date := range dates {
		value := sheet.Value(key, concept, date)
		if value == "" {
			continue
		}

		switch {
		case concept == models.ConceptPerDiem:
			if total.Items == nil {
				total.Items = make(map[string]int)
			}
			parsed := models.ParsePerDiem(value)
			for _, item := range parsed.Items {
				total.Items[item]++
			}
			total.Days++
		case concept.IsBoolean():
			total.Days++
		case concept.IsNumeric():
			if n, ok := ExtractNumeric(value); ok {
				total.Amount += n
			}
		}
	}

	return total
}

// GetExportRange reads the stored export range for a project month
func (s *reportService) GetExportRange(projectID int, month string) (*models.ExportRange, bool, error) {
	payload, ok, err := s.kvRepo.GetString(exportStorageKey(projectID, month))
	if err != nil {
		return nil, false, fmt.Errorf("failed to load export range: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	var rng models.ExportRange
	if err := json.Unmarshal([]byte(payload), &rng); err != nil {
		return nil, false, fmt.Errorf("failed to decode export range: %w", err)
	}
	return &rng, true, nil
}

// SetExportRange stores the export range for a project month
func (s *reportService) SetExportRange(projectID int, month string, rng models.ExportRange) error {
	if errors := rng.Validate(); len(errors) > 0 {
		return fmt.Errorf("validation failed: %s", strings.Join(errors, ", "))
	}

	payload, err := json.Marshal(rng)
	if err != nil {
		return fmt.Errorf("failed to encode export range: %w", err)
	}
	return s.kvRepo.SetString(exportStorageKey(projectID, month), string(payload))
}
