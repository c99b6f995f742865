package upstream

import (
	"fmt"
	"time"

	"casetracker/internal/models"

	"github.com/goccy/go-json"
)

// DayLayout is the fixed calendar-day format used by the upstream API.
const DayLayout = "2006-01-02"

type dailySeriesEnvelope struct {
	Data []json.RawMessage `json:"data"`
}

type dailyEntry struct {
	Cases struct {
		Total struct {
			Value *int64 `json:"value"`
		} `json:"total"`
	} `json:"cases"`
	Date string `json:"date"`
}

type regionListEnvelope struct {
	Data []json.RawMessage `json:"data"`
}

// regionEntry keeps pointers so a missing key can be told apart from "".
type regionEntry struct {
	Name *string `json:"name"`
	Code *string `json:"state_code"`
}

// parseDay parses "2021-07-25" in loc. Anything else is rejected.
func parseDay(s string, loc *time.Location) (time.Time, bool) {
	if len(s) != len(DayLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DayLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// decodeDailySeries decodes a daily-series envelope. Entries that fail to
// decode, carry a null or negative value, or have an unparseable date are
// dropped.
func decodeDailySeries(body []byte, loc *time.Location) ([]models.DailyRecord, error) {
	var env dailySeriesEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, errMissingData
	}

	records := make([]models.DailyRecord, 0, len(env.Data))
	for _, raw := range env.Data {
		var e dailyEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		if e.Cases.Total.Value == nil || *e.Cases.Total.Value < 0 {
			continue
		}
		date, ok := parseDay(e.Date, loc)
		if !ok {
			continue
		}
		records = append(records, models.DailyRecord{Date: date, Count: *e.Cases.Total.Value})
	}
	return records, nil
}

// decodeRegionList decodes the region catalog. A single bad entry fails the
// whole list. Both keys must be present; empty strings are accepted.
func decodeRegionList(body []byte) ([]models.Region, error) {
	var env regionListEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, err
	}
	if env.Data == nil {
		return nil, errMissingData
	}

	regions := make([]models.Region, 0, len(env.Data))
	for i, raw := range env.Data {
		var e regionEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			return nil, fmt.Errorf("region entry %d: %w", i, err)
		}
		if e.Name == nil || e.Code == nil {
			return nil, fmt.Errorf("region entry %d: %w", i, errIncompleteRow)
		}
		regions = append(regions, models.Region{Name: *e.Name, Code: *e.Code})
	}
	return regions, nil
}
