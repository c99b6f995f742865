package models

import (
	"strings"
	"time"
)

// Region is one selectable entry of the region catalog.
type Region struct {
	Name string `json:"name"`
	Code string `json:"state_code"`
}

// DailyRecord is a single day of the case series.
type DailyRecord struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
}

// Scope selects which daily series is queried. The only implementations are
// National and RegionScope.
type Scope interface {
	isScope()
}

type National struct{}

type RegionScope struct {
	Region Region
}

func (National) isScope()    {}
func (RegionScope) isScope() {}

// ScopeCode returns the lower-cased region code, or "" for National.
func ScopeCode(s Scope) string {
	switch v := s.(type) {
	case RegionScope:
		return strings.ToLower(v.Region.Code)
	case National:
		return ""
	default:
		return ""
	}
}

// Row is one pre-formatted line of the list view.
type Row struct {
	Date  string `json:"date"`
	Count string `json:"count"`
}

func (r Row) Text() string {
	return r.Date + ": " + r.Count
}

// ChartPoint is one bar of the chart series, keyed by position.
type ChartPoint struct {
	Index int   `json:"index"`
	Count int64 `json:"count"`
}

type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Dashboard holds the artifacts derived from one loaded series.
type Dashboard struct {
	Rows  []Row        `json:"rows"`
	Chart []ChartPoint `json:"chart"`
}

// View is the snapshot handed to a presentation surface.
type View struct {
	State      State        `json:"state"`
	Label      string       `json:"label"`
	ScopeCode  string       `json:"scope,omitempty"`
	Rows       []Row        `json:"rows"`
	Chart      []ChartPoint `json:"chart"`
	Error      string       `json:"error,omitempty"`
	Generation uint64       `json:"generation"`
	UpdatedAt  time.Time    `json:"updated_at,omitempty"`
}
