// Package leaderboard reduces walk history into per-person completion
// rankings for a period.
package leaderboard

import (
	"sort"
	"time"

	"github.com/matisarralde/paseos-de-blanca/pkg/core/model"
)

// Entry is one ranked row: a person, their completed walks in the period,
// and the count as a ratio of the period maximum (for proportional display).
type Entry struct {
	Person model.Person
	Walks  int
	Ratio  float64
}

// SameMonth returns a period predicate matching dates in the same calendar
// month and year as now. Each walk's own date is the sole classifier, so a
// week straddling a month boundary splits its walks between the two months.
func SameMonth(now time.Time) func(time.Time) bool {
	return func(d time.Time) bool {
		return d.Year() == now.Year() && d.Month() == now.Month()
	}
}

// Rank counts completed walks inside the period per person and returns the
// ranking in descending order. Every roster member that counts on the
// leaderboard appears, zero-count members included. Ties keep roster order,
// so the result is deterministic for a given roster.
func Rank(walks []model.Walk, family []model.Person, inPeriod func(time.Time) bool) []Entry {
	counts := make(map[string]int)
	eligible := make([]model.Person, 0, len(family))
	for _, p := range family {
		if !p.CountsOnLeaderboard {
			continue
		}
		eligible = append(eligible, p)
		counts[p.ID] = 0
	}

	for _, w := range walks {
		if !w.IsCompleted || w.PersonID == "" || !inPeriod(w.Date) {
			continue
		}
		if _, ok := counts[w.PersonID]; ok {
			counts[w.PersonID]++
		}
	}

	entries := make([]Entry, len(eligible))
	maxWalks := 1
	for i, p := range eligible {
		entries[i] = Entry{Person: p, Walks: counts[p.ID]}
		if counts[p.ID] > maxWalks {
			maxWalks = counts[p.ID]
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Walks > entries[j].Walks
	})

	for i := range entries {
		entries[i].Ratio = float64(entries[i].Walks) / float64(maxWalks)
	}

	return entries
}
