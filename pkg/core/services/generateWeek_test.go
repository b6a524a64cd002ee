package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matisarralde/paseos-de-blanca/internal/config"
	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
	"github.com/matisarralde/paseos-de-blanca/pkg/core/rotation"
)

// mockStore implements the store interfaces for testing
type mockStore struct {
	schedules map[string]model.Schedule
	family    []model.Person

	getScheduleErr  error
	saveScheduleErr error
	getFamilyErr    error
	saveFamilyErr   error
	getAllWalksErr  error

	savedFamily [][]model.Person
}

func newMockStore() *mockStore {
	return &mockStore{schedules: make(map[string]model.Schedule)}
}

func (m *mockStore) GetSchedule(ctx context.Context, weekID string) (model.Schedule, error) {
	if m.getScheduleErr != nil {
		return nil, m.getScheduleErr
	}
	return m.schedules[weekID], nil
}

func (m *mockStore) SaveSchedule(ctx context.Context, weekID string, schedule model.Schedule) error {
	if m.saveScheduleErr != nil {
		return m.saveScheduleErr
	}
	m.schedules[weekID] = schedule
	return nil
}

func (m *mockStore) GetAllWalks(ctx context.Context) ([]model.Walk, error) {
	if m.getAllWalksErr != nil {
		return nil, m.getAllWalksErr
	}
	var walks []model.Walk
	for _, schedule := range m.schedules {
		walks = append(walks, schedule...)
	}
	return walks, nil
}

func (m *mockStore) GetFamily(ctx context.Context) ([]model.Person, error) {
	if m.getFamilyErr != nil {
		return nil, m.getFamilyErr
	}
	return m.family, nil
}

func (m *mockStore) SaveFamily(ctx context.Context, family []model.Person) error {
	if m.saveFamilyErr != nil {
		return m.saveFamilyErr
	}
	m.family = family
	m.savedFamily = append(m.savedFamily, family)
	return nil
}

func testFamily() []model.Person {
	return []model.Person{
		{ID: "papa", Name: "Papá", Status: model.StatusClaimed, CountsOnLeaderboard: true},
		{ID: "mama", Name: "Mamá", Status: model.StatusClaimed, CountsOnLeaderboard: true},
		{ID: "yo", Name: "Yo", Status: model.StatusClaimed, CountsOnLeaderboard: true},
		{ID: "hermano1", Name: "Hermano 1", Status: model.StatusClaimed, CountsOnLeaderboard: true},
		{ID: "hermano2", Name: "Hermano 2", Status: model.StatusClaimed, CountsOnLeaderboard: true},
		{ID: "hermano3", Name: "Hermano 3", Status: model.StatusClaimed, CountsOnLeaderboard: true},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Storage:   "sqlite",
		GroupAIDs: []string{"papa", "mama", "yo"},
		GroupBIDs: []string{"hermano1", "hermano2", "hermano3"},
	}
}

// Wednesday of ISO week 23, 2025
var testDate = time.Date(2025, time.June, 4, 15, 0, 0, 0, time.Local)

func TestGenerateWeek_GeneratesAndPersists(t *testing.T) {
	store := newMockStore()
	store.family = testFamily()

	result, err := GenerateWeek(context.Background(), store, testConfig(), zap.NewNop(), testDate, "seed-1", false)
	require.NoError(t, err)

	assert.Equal(t, "week-2025-23", result.WeekID)
	assert.Equal(t, "2 - 8 junio 2025", result.WeekRange)
	assert.Len(t, result.Schedule, 21)
	assert.Equal(t, result.Schedule, store.schedules["week-2025-23"])
}

func TestGenerateWeek_SeedReproduces(t *testing.T) {
	storeA := newMockStore()
	storeA.family = testFamily()
	storeB := newMockStore()
	storeB.family = testFamily()

	first, err := GenerateWeek(context.Background(), storeA, testConfig(), zap.NewNop(), testDate, "seed-1", false)
	require.NoError(t, err)
	second, err := GenerateWeek(context.Background(), storeB, testConfig(), zap.NewNop(), testDate, "seed-1", false)
	require.NoError(t, err)

	assert.Equal(t, first.Schedule, second.Schedule)
}

func TestGenerateWeek_ExistingScheduleGuard(t *testing.T) {
	store := newMockStore()
	store.family = testFamily()
	store.schedules["week-2025-23"] = model.Schedule{{ID: "Lunes-Mañana"}}

	_, err := GenerateWeek(context.Background(), store, testConfig(), zap.NewNop(), testDate, "", false)
	assert.ErrorIs(t, err, ErrScheduleExists)

	// The stored schedule is untouched
	assert.Len(t, store.schedules["week-2025-23"], 1)
}

func TestGenerateWeek_ForceRegenerates(t *testing.T) {
	store := newMockStore()
	store.family = testFamily()
	store.schedules["week-2025-23"] = model.Schedule{{ID: "Lunes-Mañana"}}

	result, err := GenerateWeek(context.Background(), store, testConfig(), zap.NewNop(), testDate, "", true)
	require.NoError(t, err)

	assert.Len(t, result.Schedule, 21)
	assert.Len(t, store.schedules["week-2025-23"], 21)
}

func TestGenerateWeek_IncompleteGroupsNothingPersisted(t *testing.T) {
	store := newMockStore()
	store.family = testFamily()
	store.family[3].Status = model.StatusUnclaimed // hermano1

	_, err := GenerateWeek(context.Background(), store, testConfig(), zap.NewNop(), testDate, "", false)

	var incomplete *rotation.IncompleteGroupsError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, "B", incomplete.Group)
	assert.Empty(t, store.schedules)
}

func TestGenerateWeek_StoreErrors(t *testing.T) {
	boom := errors.New("database exploded")

	t.Run("get schedule fails", func(t *testing.T) {
		store := newMockStore()
		store.family = testFamily()
		store.getScheduleErr = boom

		_, err := GenerateWeek(context.Background(), store, testConfig(), zap.NewNop(), testDate, "", false)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("save schedule fails", func(t *testing.T) {
		store := newMockStore()
		store.family = testFamily()
		store.saveScheduleErr = boom

		_, err := GenerateWeek(context.Background(), store, testConfig(), zap.NewNop(), testDate, "", false)
		assert.ErrorIs(t, err, boom)
	})
}

func TestGenerateWeek_SkipOverrideViaRRule(t *testing.T) {
	store := newMockStore()
	store.family = testFamily()

	cfg := testConfig()
	cfg.WalkOverrides = []config.WalkOverride{{
		RRule:     "FREQ=WEEKLY;BYDAY=SU",
		TimeSlots: []string{"Noche"},
		Skip:      true,
	}}

	result, err := GenerateWeek(context.Background(), store, cfg, zap.NewNop(), testDate, "seed-1", false)
	require.NoError(t, err)

	for _, walk := range result.Schedule {
		if walk.Day == "Domingo" && walk.TimeSlot == model.SlotNoche {
			assert.Empty(t, walk.PersonID, "sunday night walk should be skipped")
		} else {
			assert.NotEmpty(t, walk.PersonID, "%s should stay assigned", walk.ID)
		}
	}
}

func TestGenerateWeek_PinOverrideViaRRule(t *testing.T) {
	store := newMockStore()
	store.family = testFamily()

	cfg := testConfig()
	cfg.WalkOverrides = []config.WalkOverride{{
		RRule:    "FREQ=WEEKLY;BYDAY=SA",
		PersonID: "papa",
	}}

	result, err := GenerateWeek(context.Background(), store, cfg, zap.NewNop(), testDate, "seed-1", false)
	require.NoError(t, err)

	for _, walk := range result.Schedule {
		if walk.Day == "Sábado" {
			assert.Equal(t, "papa", walk.PersonID)
		}
	}
}

func TestGenerateWeek_InvalidRRuleInOverride(t *testing.T) {
	store := newMockStore()
	store.family = testFamily()

	cfg := testConfig()
	cfg.WalkOverrides = []config.WalkOverride{{RRule: "not a rule", Skip: true}}

	_, err := GenerateWeek(context.Background(), store, cfg, zap.NewNop(), testDate, "", false)
	assert.Error(t, err)
}
