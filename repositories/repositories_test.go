package repositories

import (
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/prodoffice/crew-timesheet/database"
	"github.com/prodoffice/crew-timesheet/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	// Create a temporary database for testing
	dbPath := "test_" + time.Now().Format("20060102150405.000000000") + ".db"

	t.Cleanup(func() {
		database.CloseDB()
		os.Remove(dbPath)
	})

	// Initialize test database using the actual migration system
	if err := database.InitializeDatabase(dbPath); err != nil {
		t.Fatalf("Failed to initialize test database: %v", err)
	}

	return database.GetDB()
}

func createTestProject(t *testing.T, repo ProjectRepository) *models.Project {
	project := &models.Project{Name: "Test Production", BillingMode: models.BillingWeekly}
	if err := repo.Create(project); err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	return project
}

func TestProjectRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewProjectRepository(db)

	project := createTestProject(t, repo)
	if project.ID == 0 {
		t.Error("Expected project ID to be set after creation")
	}

	retrieved, err := repo.GetByID(project.ID)
	if err != nil {
		t.Fatalf("Failed to get project by ID: %v", err)
	}
	if retrieved.Name != "Test Production" {
		t.Errorf("Expected name 'Test Production', got %s", retrieved.Name)
	}

	project.BillingMode = models.BillingMonthly
	if err := repo.Update(project); err != nil {
		t.Fatalf("Failed to update project: %v", err)
	}

	updated, err := repo.GetByID(project.ID)
	if err != nil {
		t.Fatalf("Failed to get updated project: %v", err)
	}
	if updated.BillingMode != models.BillingMonthly {
		t.Errorf("Expected billing mode monthly, got %s", updated.BillingMode)
	}

	projects, err := repo.GetAll()
	if err != nil {
		t.Fatalf("Failed to get all projects: %v", err)
	}
	if len(projects) != 1 {
		t.Errorf("Expected 1 project, got %d", len(projects))
	}

	if err := repo.Delete(project.ID); err != nil {
		t.Fatalf("Failed to delete project: %v", err)
	}
	if _, err := repo.GetByID(project.ID); err == nil {
		t.Error("Expected error getting deleted project")
	}
}

func TestCrewRepository(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, NewProjectRepository(db))
	repo := NewCrewRepository(db)

	member := &models.CrewMember{
		ProjectID: project.ID,
		WeekStart: "2026-03-02",
		Role:      "G",
		Name:      "Ana",
		Block:     models.BlockBase,
		Active:    true,
	}
	if err := repo.Create(member); err != nil {
		t.Fatalf("Failed to create crew member: %v", err)
	}
	if member.ID == 0 {
		t.Error("Expected member ID to be set after creation")
	}

	inactive := &models.CrewMember{
		ProjectID: project.ID,
		WeekStart: "2026-03-02",
		Role:      "E",
		Name:      "Luis",
		Block:     models.BlockBase,
		Active:    false,
	}
	if err := repo.Create(inactive); err != nil {
		t.Fatalf("Failed to create inactive member: %v", err)
	}

	all, err := repo.GetByWeek(project.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("Failed to get roster: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 members, got %d", len(all))
	}

	active, err := repo.GetActiveByWeek(project.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("Failed to get active roster: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Ana" {
		t.Errorf("Expected only Ana active, got %v", active)
	}

	// Other weeks come back empty
	other, err := repo.GetByWeek(project.ID, "2026-03-09")
	if err != nil {
		t.Fatalf("Failed to query other week: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("Expected empty roster for other week, got %d", len(other))
	}

	member.Block = models.BlockPrelight
	if err := repo.Update(member); err != nil {
		t.Fatalf("Failed to update crew member: %v", err)
	}
	updated, err := repo.GetByID(member.ID)
	if err != nil {
		t.Fatalf("Failed to get updated member: %v", err)
	}
	if updated.Block != models.BlockPrelight {
		t.Errorf("Expected block pre, got %s", updated.Block)
	}

	if err := repo.Delete(member.ID); err != nil {
		t.Fatalf("Failed to delete member: %v", err)
	}
	if err := repo.Delete(member.ID); err == nil {
		t.Error("Expected error deleting missing member")
	}
}

func TestWeekRepository(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, NewProjectRepository(db))
	repo := NewWeekRepository(db)

	week := &models.Week{
		ProjectID: project.ID,
		Phase:     models.PhaseProduction,
		StartDate: "2026-03-02",
	}
	for i := range week.Days {
		week.Days[i] = models.Day{
			Date: models.AddDays(week.StartDate, i),
			Type: models.DayRest,
		}
	}
	week.Days[0].Type = models.DayWork
	week.Days[0].Base = models.ShiftWindow{Start: "09:00", End: "19:00"}
	week.Days[0].Prelight = models.ShiftWindow{Start: "07:00", End: "12:00"}

	if err := repo.Upsert(week); err != nil {
		t.Fatalf("Failed to upsert week: %v", err)
	}

	retrieved, err := repo.GetByStartDate(project.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("Failed to get week: %v", err)
	}
	if retrieved.Days[0].Base.Start != "09:00" {
		t.Errorf("Expected base start 09:00, got %s", retrieved.Days[0].Base.Start)
	}
	if retrieved.Days[0].Prelight.End != "12:00" {
		t.Errorf("Expected prelight end 12:00, got %s", retrieved.Days[0].Prelight.End)
	}
	if retrieved.Days[1].Type != models.DayRest {
		t.Errorf("Expected rest day, got %s", retrieved.Days[1].Type)
	}

	// Upsert replaces the day records in place
	week.Days[0].Base.End = "20:00"
	if err := repo.Upsert(week); err != nil {
		t.Fatalf("Failed to re-upsert week: %v", err)
	}
	retrieved, err = repo.GetByStartDate(project.ID, "2026-03-02")
	if err != nil {
		t.Fatalf("Failed to get re-upserted week: %v", err)
	}
	if retrieved.Days[0].Base.End != "20:00" {
		t.Errorf("Expected updated base end 20:00, got %s", retrieved.Days[0].Base.End)
	}

	second := &models.Week{
		ProjectID: project.ID,
		Phase:     models.PhasePreProduction,
		StartDate: "2026-02-23",
	}
	for i := range second.Days {
		second.Days[i] = models.Day{Date: models.AddDays(second.StartDate, i), Type: models.DayRest}
	}
	if err := repo.Upsert(second); err != nil {
		t.Fatalf("Failed to upsert second week: %v", err)
	}

	timeline, err := repo.GetTimeline(project.ID)
	if err != nil {
		t.Fatalf("Failed to get timeline: %v", err)
	}
	if len(timeline) != 2 {
		t.Fatalf("Expected 2 weeks, got %d", len(timeline))
	}
	if timeline[0].StartDate != "2026-02-23" {
		t.Errorf("Expected timeline sorted ascending, got %s first", timeline[0].StartDate)
	}

	if err := repo.Delete(second.ID); err != nil {
		t.Fatalf("Failed to delete week: %v", err)
	}
	timeline, err = repo.GetTimeline(project.ID)
	if err != nil {
		t.Fatalf("Failed to get timeline after delete: %v", err)
	}
	if len(timeline) != 1 {
		t.Errorf("Expected 1 week after delete, got %d", len(timeline))
	}
}

func TestConditionsRepository(t *testing.T) {
	db := setupTestDB(t)
	project := createTestProject(t, NewProjectRepository(db))
	repo := NewConditionsRepository(db)

	_, err := repo.Get(project.ID, models.BillingWeekly)
	if !errors.Is(err, ErrConditionsNotFound) {
		t.Errorf("Expected ErrConditionsNotFound, got %v", err)
	}

	params := models.DefaultConditionParams()
	params.ProjectID = project.ID
	params.BillingMode = models.BillingWeekly
	params.WorkdayHours = 10
	if err := repo.Upsert(&params); err != nil {
		t.Fatalf("Failed to upsert conditions: %v", err)
	}

	stored, err := repo.Get(project.ID, models.BillingWeekly)
	if err != nil {
		t.Fatalf("Failed to get conditions: %v", err)
	}
	if stored.WorkdayHours != 10 {
		t.Errorf("Expected workday hours 10, got %f", stored.WorkdayHours)
	}

	// Upsert on the same (project, mode) replaces instead of duplicating
	params.CourtesyMinutes = 30
	if err := repo.Upsert(&params); err != nil {
		t.Fatalf("Failed to re-upsert conditions: %v", err)
	}
	stored, err = repo.Get(project.ID, models.BillingWeekly)
	if err != nil {
		t.Fatalf("Failed to get re-upserted conditions: %v", err)
	}
	if stored.CourtesyMinutes != 30 {
		t.Errorf("Expected courtesy minutes 30, got %d", stored.CourtesyMinutes)
	}
}

func TestKVRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewKVRepository(db)

	_, found, err := repo.GetString("missing")
	if err != nil {
		t.Fatalf("Failed to get missing key: %v", err)
	}
	if found {
		t.Error("Expected missing key to report not found")
	}

	if err := repo.SetString("report:1:x", `{"values":{}}`); err != nil {
		t.Fatalf("Failed to set key: %v", err)
	}

	value, found, err := repo.GetString("report:1:x")
	if err != nil {
		t.Fatalf("Failed to get key: %v", err)
	}
	if !found || value != `{"values":{}}` {
		t.Errorf("Unexpected stored value: (%q, %v)", value, found)
	}

	// Overwrite
	if err := repo.SetString("report:1:x", "v2"); err != nil {
		t.Fatalf("Failed to overwrite key: %v", err)
	}
	value, _, _ = repo.GetString("report:1:x")
	if value != "v2" {
		t.Errorf("Expected v2, got %q", value)
	}

	if err := repo.Remove("report:1:x"); err != nil {
		t.Fatalf("Failed to remove key: %v", err)
	}
	_, found, _ = repo.GetString("report:1:x")
	if found {
		t.Error("Expected removed key to be gone")
	}

	// Removing a missing key is not an error
	if err := repo.Remove("report:1:x"); err != nil {
		t.Errorf("Expected no error removing missing key, got %v", err)
	}
}

func TestAuditRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAuditRepository(db)

	entry := &models.AuditLogEntry{
		RequestID: "req-1",
		UserEmail: "ana@example.com",
		Method:    "POST",
		Path:      "/projects",
		FormData:  `{"name":"Norte"}`,
		UserAgent: "test",
		IPAddress: "127.0.0.1",
	}
	if err := repo.Create(entry); err != nil {
		t.Fatalf("Failed to create audit entry: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM audit_log`).Scan(&count); err != nil {
		t.Fatalf("Failed to count audit entries: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 audit entry, got %d", count)
	}
}
