package engine

import (
	"time"

	"casetracker/internal/models"
)

// LoadSeries copies records into a fresh column store. The previous store is
// never merged into; each fetch starts from scratch.
func LoadSeries(scope models.Scope, records []models.DailyRecord) *SeriesStore {
	store := &SeriesStore{
		Scope:  scope,
		Dates:  make([]time.Time, len(records)),
		Counts: make([]int64, len(records)),
	}
	for i, r := range records {
		store.Dates[i] = r.Date
		store.Counts[i] = r.Count
	}
	return store
}
