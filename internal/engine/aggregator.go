package engine

import (
	"casetracker/internal/models"
)

// DefaultChartWindow is how many leading records feed the bar chart.
const DefaultChartWindow = 30

// Aggregate derives the list rows and the chart window from the store.
func (s *SeriesStore) Aggregate(f *Formatter, window int) *models.Dashboard {
	return &models.Dashboard{
		Rows:  s.rows(f),
		Chart: s.chart(window),
	}
}

// One row per record, in store order.
func (s *SeriesStore) rows(f *Formatter) []models.Row {
	rows := make([]models.Row, s.Len())
	for i := range rows {
		rows[i] = models.Row{
			Date:  f.Date(s.Dates[i]),
			Count: f.Count(s.Counts[i]),
		}
	}
	return rows
}

// The first min(window, n) records keyed by position. Records are taken in
// delivery order; upstream is assumed to be most-recent-first.
func (s *SeriesStore) chart(window int) []models.ChartPoint {
	n := s.Len()
	if window >= 0 && window < n {
		n = window
	}
	points := make([]models.ChartPoint, n)
	for i := 0; i < n; i++ {
		points[i] = models.ChartPoint{Index: i, Count: s.Counts[i]}
	}
	return points
}

// DeriveRows formats records for a list surface.
func DeriveRows(records []models.DailyRecord, f *Formatter) []models.Row {
	return LoadSeries(nil, records).rows(f)
}

// DeriveChart returns the leading window of records as chart points.
func DeriveChart(records []models.DailyRecord, window int) []models.ChartPoint {
	return LoadSeries(nil, records).chart(window)
}
