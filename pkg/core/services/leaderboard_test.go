package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
)

func TestLeaderboard_RanksCurrentMonth(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.Local)
	juneDay := time.Date(2025, time.June, 3, 0, 0, 0, 0, time.Local)
	mayDay := time.Date(2025, time.May, 20, 0, 0, 0, 0, time.Local)

	store := newMockStore()
	store.family = testFamily()
	store.schedules["week-2025-21"] = model.Schedule{
		{ID: "Lunes-Mañana", PersonID: "mama", IsCompleted: true, Date: mayDay},
		{ID: "Lunes-Tarde", PersonID: "mama", IsCompleted: true, Date: mayDay},
	}
	store.schedules["week-2025-23"] = model.Schedule{
		{ID: "Lunes-Mañana", PersonID: "papa", IsCompleted: true, Date: juneDay},
		{ID: "Lunes-Tarde", PersonID: "papa", IsCompleted: true, Date: juneDay},
		{ID: "Lunes-Noche", PersonID: "mama", IsCompleted: true, Date: juneDay},
		{ID: "Martes-Mañana", PersonID: "yo", Date: juneDay.AddDate(0, 0, 1)},
	}

	entries, err := Leaderboard(context.Background(), store, zap.NewNop(), now)
	require.NoError(t, err)

	require.Len(t, entries, 6)
	assert.Equal(t, "papa", entries[0].Person.ID)
	assert.Equal(t, 2, entries[0].Walks)
	assert.Equal(t, "mama", entries[1].Person.ID)
	assert.Equal(t, 1, entries[1].Walks)
	assert.Equal(t, 0, entries[2].Walks)
}

func TestLeaderboard_WalkHistoryFailure(t *testing.T) {
	store := newMockStore()
	store.getAllWalksErr = errors.New("database exploded")

	_, err := Leaderboard(context.Background(), store, zap.NewNop(), time.Now())
	assert.Error(t, err)
}
