package engine

import (
	"testing"
	"time"

	"casetracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeries(t *testing.T) {
	records := []models.DailyRecord{
		{Date: time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), Count: 100},
		{Date: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), Count: 90},
	}
	scope := models.RegionScope{Region: models.Region{Name: "California", Code: "CA"}}

	store := LoadSeries(scope, records)

	require.Equal(t, 2, store.Len())
	assert.Equal(t, scope, store.Scope)
	assert.Equal(t, []int64{100, 90}, store.Counts)
	assert.Equal(t, records, store.Records())

	// The store owns its columns
	records[0].Count = 1
	assert.Equal(t, int64(100), store.Counts[0])
}

func TestLoadSeries_Empty(t *testing.T) {
	store := LoadSeries(models.National{}, nil)

	assert.Equal(t, 0, store.Len())
	assert.Empty(t, store.Records())
}
