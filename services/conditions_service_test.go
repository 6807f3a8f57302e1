package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/prodoffice/crew-timesheet/models"
	"github.com/prodoffice/crew-timesheet/repositories"
)

// fakeConditionsRepo is an in-memory ConditionsRepository keyed by billing mode.
type fakeConditionsRepo struct {
	records map[models.BillingMode]*models.ConditionParams
	err     error
}

func newFakeConditionsRepo() *fakeConditionsRepo {
	return &fakeConditionsRepo{records: make(map[models.BillingMode]*models.ConditionParams)}
}

func (f *fakeConditionsRepo) Get(projectID int, mode models.BillingMode) (*models.ConditionParams, error) {
	if f.err != nil {
		return nil, f.err
	}
	params, ok := f.records[mode]
	if !ok {
		return nil, repositories.ErrConditionsNotFound
	}
	copied := *params
	return &copied, nil
}

func (f *fakeConditionsRepo) Upsert(params *models.ConditionParams) error {
	if f.err != nil {
		return f.err
	}
	copied := *params
	f.records[params.BillingMode] = &copied
	return nil
}

func TestConditionsLoadDirectHit(t *testing.T) {
	repo := newFakeConditionsRepo()
	stored := models.DefaultConditionParams()
	stored.WorkdayHours = 10
	stored.BillingMode = models.BillingMonthly
	repo.records[models.BillingMonthly] = &stored

	svc := NewConditionsService(repo)
	params := svc.Load(1, models.BillingMonthly)

	assert.Equal(t, 10.0, params.WorkdayHours)
	assert.Equal(t, models.BillingMonthly, params.BillingMode)
}

func TestConditionsLoadFallbackChain(t *testing.T) {
	// Only an advertising record exists; a weekly request walks the chain
	repo := newFakeConditionsRepo()
	stored := models.DefaultConditionParams()
	stored.CourtesyMinutes = 30
	stored.BillingMode = models.BillingAdvertising
	repo.records[models.BillingAdvertising] = &stored

	svc := NewConditionsService(repo)
	params := svc.Load(1, models.BillingWeekly)

	assert.Equal(t, 30, params.CourtesyMinutes)
	assert.Equal(t, models.BillingAdvertising, params.BillingMode)
}

func TestConditionsLoadDefaults(t *testing.T) {
	svc := NewConditionsService(newFakeConditionsRepo())
	params := svc.Load(1, models.BillingWeekly)

	assert.Equal(t, models.DefaultWorkdayHours, params.WorkdayHours)
	assert.Equal(t, models.DefaultTurnAroundHours, params.TurnAroundHours)
	assert.Equal(t, models.OvertimeNormal, params.OvertimeMode)
	assert.Equal(t, models.BillingWeekly, params.BillingMode)
}

func TestConditionsLoadSanitizesStoredValues(t *testing.T) {
	repo := newFakeConditionsRepo()
	stored := models.DefaultConditionParams()
	stored.TurnAroundHours = -3
	stored.BillingMode = models.BillingWeekly
	repo.records[models.BillingWeekly] = &stored

	svc := NewConditionsService(repo)
	params := svc.Load(1, models.BillingWeekly)

	assert.Equal(t, models.DefaultTurnAroundHours, params.TurnAroundHours)
}

func TestConditionsLoadSurvivesRepositoryError(t *testing.T) {
	// Load is total: a failing store still yields usable defaults
	repo := newFakeConditionsRepo()
	repo.err = errors.New("database locked")

	svc := NewConditionsService(repo)
	params := svc.Load(1, models.BillingWeekly)

	assert.Equal(t, models.DefaultWorkdayHours, params.WorkdayHours)
}

func TestConditionsGetMissingReturnsDefaults(t *testing.T) {
	svc := NewConditionsService(newFakeConditionsRepo())

	params, err := svc.Get(1, models.BillingMonthly)
	assert.NoError(t, err)
	assert.Equal(t, models.DefaultWorkdayHours, params.WorkdayHours)
	assert.Equal(t, models.BillingMonthly, params.BillingMode)
}

func TestConditionsUpdate(t *testing.T) {
	repo := newFakeConditionsRepo()
	svc := NewConditionsService(repo)

	form := &models.ConditionParamsForm{
		WorkdayHours:            9,
		MealHours:               1,
		CourtesyMinutes:         15,
		TurnAroundHours:         12,
		ExtendedTurnAroundHours: 48,
		NightStart:              "22:00",
		NightEnd:                "06:00",
		OvertimeMode:            "minutage_cut",
	}

	params, err := svc.Update(1, models.BillingWeekly, form)
	assert.NoError(t, err)
	assert.Equal(t, models.OvertimeMinutageCut, params.OvertimeMode)
	assert.NotNil(t, repo.records[models.BillingWeekly])
}

func TestConditionsUpdateRejectsInvalidForm(t *testing.T) {
	svc := NewConditionsService(newFakeConditionsRepo())

	form := &models.ConditionParamsForm{
		WorkdayHours: -1,
		NightStart:   "22:00",
		NightEnd:     "06:00",
	}

	_, err := svc.Update(1, models.BillingWeekly, form)
	assert.Error(t, err)
}
