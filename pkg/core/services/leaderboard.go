package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/matisarralde/paseos-de-blanca/pkg/core/leaderboard"
	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
)

// LeaderboardStore defines the database operations needed for the ranking
type LeaderboardStore interface {
	GetAllWalks(ctx context.Context) ([]model.Walk, error)
	GetFamily(ctx context.Context) ([]model.Person, error)
}

// Leaderboard ranks the family by completed walks in the calendar month
// containing now
func Leaderboard(ctx context.Context, store LeaderboardStore, logger *zap.Logger, now time.Time) ([]leaderboard.Entry, error) {
	walks, err := store.GetAllWalks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load walk history: %w", err)
	}
	logger.Debug("Loaded walk history", zap.Int("count", len(walks)))

	family, err := store.GetFamily(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load family: %w", err)
	}

	entries := leaderboard.Rank(walks, family, leaderboard.SameMonth(now))

	logger.Debug("Ranked leaderboard", zap.Int("entries", len(entries)))

	return entries, nil
}
