package services

import (
	"context"
	"fmt"
	"time"

	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
)

// Freshness classifies how long ago the dog was last walked
type Freshness int

const (
	// FreshnessNone means no walk has ever been completed
	FreshnessNone Freshness = iota
	// FreshnessOK means the last walk was recent
	FreshnessOK
	// FreshnessDueSoon means the next walk is coming up
	FreshnessDueSoon
	// FreshnessOverdue means too long has passed since the last walk
	FreshnessOverdue
)

const (
	okThreshold      = 5 * time.Hour
	dueSoonThreshold = 8 * time.Hour
)

// WalkStatusResult describes the most recent completed walk
type WalkStatusResult struct {
	Freshness      Freshness
	LastWalk       *model.Walk
	SinceLastWalk  time.Duration
}

// WalkStatusStore defines the database operations needed for the status check
type WalkStatusStore interface {
	GetAllWalks(ctx context.Context) ([]model.Walk, error)
}

// WalkStatus finds the most recently completed walk across all weeks and
// classifies its freshness: under 5 hours is fine, under 8 means the next
// walk is due soon, anything more is overdue.
func WalkStatus(ctx context.Context, store WalkStatusStore, now time.Time) (*WalkStatusResult, error) {
	walks, err := store.GetAllWalks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load walk history: %w", err)
	}

	var last *model.Walk
	for i := range walks {
		if !walks[i].IsCompleted {
			continue
		}
		if last == nil || walks[i].CompletionTime.After(last.CompletionTime) {
			last = &walks[i]
		}
	}

	if last == nil {
		return &WalkStatusResult{Freshness: FreshnessNone}, nil
	}

	since := now.Sub(last.CompletionTime)
	result := &WalkStatusResult{
		LastWalk:      last,
		SinceLastWalk: since,
	}

	switch {
	case since < okThreshold:
		result.Freshness = FreshnessOK
	case since < dueSoonThreshold:
		result.Freshness = FreshnessDueSoon
	default:
		result.Freshness = FreshnessOverdue
	}

	return result, nil
}
