package engine

import (
	"time"

	"casetracker/internal/models"
)

// SeriesStore holds one fetched daily series in Struct-of-Arrays format.
// Index i of every column refers to the same day, in upstream order.
type SeriesStore struct {
	Scope models.Scope

	Dates  []time.Time
	Counts []int64
}

func (s *SeriesStore) Len() int { return len(s.Counts) }

// Records rebuilds the row-oriented view of the store.
func (s *SeriesStore) Records() []models.DailyRecord {
	out := make([]models.DailyRecord, s.Len())
	for i := range out {
		out[i] = models.DailyRecord{Date: s.Dates[i], Count: s.Counts[i]}
	}
	return out
}
