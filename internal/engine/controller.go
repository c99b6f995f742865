package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"casetracker/internal/models"
	"casetracker/internal/upstream"

	"github.com/google/uuid"
)

// NationalLabel is the filter label shown for the national scope.
const NationalLabel = "National"

// Label returns the filter-button text for scope.
func Label(scope models.Scope) string {
	switch s := scope.(type) {
	case models.National:
		return NationalLabel
	case models.RegionScope:
		return s.Region.Name
	default:
		panic(fmt.Sprintf("engine: unhandled scope %T", scope))
	}
}

// SeriesFetcher is the part of the data client the controller needs.
type SeriesFetcher interface {
	FetchDailySeries(ctx context.Context, scope models.Scope) ([]models.DailyRecord, error)
}

// StalePolicy decides what happens when a fetch completes after a newer one
// was issued. In-flight requests are never cancelled.
type StalePolicy int

const (
	// LastWriterWins applies every completion in arrival order.
	LastWriterWins StalePolicy = iota
	// LatestOnly ignores completions from superseded fetches.
	LatestOnly
)

func ParseStalePolicy(s string) (StalePolicy, error) {
	switch s {
	case "", "last-writer-wins":
		return LastWriterWins, nil
	case "latest-only":
		return LatestOnly, nil
	}
	return LastWriterWins, fmt.Errorf("invalid stale policy %q: must be last-writer-wins or latest-only", s)
}

type ControllerOption func(*Controller)

func WithChartWindow(n int) ControllerOption {
	return func(c *Controller) { c.window = n }
}

func WithStalePolicy(p StalePolicy) ControllerOption {
	return func(c *Controller) { c.policy = p }
}

func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

// Controller owns the selected scope and the derived presentation state.
// State is only mutated on the dispatcher; readers may call View from any
// goroutine.
type Controller struct {
	fetcher  SeriesFetcher
	dispatch Dispatcher
	format   *Formatter
	logger   *slog.Logger
	window   int
	policy   StalePolicy
	now      func() time.Time

	mu         sync.RWMutex
	scope      models.Scope
	generation uint64
	series     *SeriesStore
	view       models.View
	subs       []chan models.View
}

func NewController(fetcher SeriesFetcher, dispatch Dispatcher, format *Formatter, logger *slog.Logger, opts ...ControllerOption) *Controller {
	c := &Controller{
		fetcher:  fetcher,
		dispatch: dispatch,
		format:   format,
		logger:   logger,
		window:   DefaultChartWindow,
		policy:   LastWriterWins,
		now:      time.Now,
		scope:    models.National{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.view = models.View{
		State: models.StateIdle,
		Label: Label(c.scope),
		Rows:  []models.Row{},
		Chart: []models.ChartPoint{},
	}
	return c
}

// Start issues the first fetch for the current scope.
func (c *Controller) Start(ctx context.Context) {
	c.dispatch.Dispatch(func() { c.begin(ctx, c.Scope()) })
}

// SetScope replaces the scope wholesale and fetches its series.
func (c *Controller) SetScope(ctx context.Context, scope models.Scope) {
	c.dispatch.Dispatch(func() { c.begin(ctx, scope) })
}

// Refresh refetches the current scope.
func (c *Controller) Refresh(ctx context.Context) {
	c.dispatch.Dispatch(func() { c.begin(ctx, c.Scope()) })
}

func (c *Controller) Scope() models.Scope {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scope
}

// View returns a copy of the current snapshot.
func (c *Controller) View() models.View {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Records returns the records of the last successfully loaded series.
func (c *Controller) Records() []models.DailyRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.series == nil {
		return []models.DailyRecord{}
	}
	return c.series.Records()
}

// Subscribe returns a channel that receives the view after every state
// change. Slow subscribers miss updates rather than block the controller.
func (c *Controller) Subscribe() <-chan models.View {
	ch := make(chan models.View, 16)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()
	return ch
}

func (c *Controller) begin(ctx context.Context, scope models.Scope) {
	c.mu.Lock()
	c.scope = scope
	c.generation++
	gen := c.generation
	c.view.State = models.StateLoading
	c.view.Label = Label(scope)
	c.view.ScopeCode = models.ScopeCode(scope)
	c.view.Error = ""
	c.view.Generation = gen
	view := c.snapshotLocked()
	c.mu.Unlock()
	c.publish(view)

	fetchID := uuid.NewString()
	c.logger.InfoContext(ctx, "fetching daily series",
		"fetch_id", fetchID, "scope", view.Label, "generation", gen)

	result := upstream.Go(ctx, func(ctx context.Context) ([]models.DailyRecord, error) {
		return c.fetcher.FetchDailySeries(ctx, scope)
	})
	go func() {
		res := <-result
		c.dispatch.Dispatch(func() { c.complete(ctx, fetchID, gen, scope, res) })
	}()
}

func (c *Controller) complete(ctx context.Context, fetchID string, gen uint64, scope models.Scope, res upstream.Result[[]models.DailyRecord]) {
	c.mu.Lock()
	if c.policy == LatestOnly && gen != c.generation {
		latest := c.generation
		c.mu.Unlock()
		c.logger.DebugContext(ctx, "discarding stale fetch result",
			"fetch_id", fetchID, "generation", gen, "latest", latest)
		return
	}

	c.view.Generation = gen
	if res.Err != nil {
		c.view.State = models.StateFailed
		c.view.Error = res.Err.Error()
		view := c.snapshotLocked()
		c.mu.Unlock()

		c.logger.ErrorContext(ctx, "daily series fetch failed",
			"fetch_id", fetchID, "scope", Label(scope), "generation", gen, "error", res.Err)
		c.publish(view)
		return
	}

	store := LoadSeries(scope, res.Value)
	dash := store.Aggregate(c.format, c.window)
	c.series = store
	c.view.Error = ""
	c.view.State = models.StateLoaded
	c.view.Rows = dash.Rows
	c.view.Chart = dash.Chart
	c.view.UpdatedAt = c.now()
	view := c.snapshotLocked()
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "daily series loaded",
		"fetch_id", fetchID, "scope", Label(scope), "generation", gen,
		"records", store.Len(), "chart_points", len(dash.Chart))
	c.publish(view)
}

func (c *Controller) snapshotLocked() models.View {
	v := c.view
	v.Rows = append([]models.Row(nil), c.view.Rows...)
	v.Chart = append([]models.ChartPoint(nil), c.view.Chart...)
	if v.Rows == nil {
		v.Rows = []models.Row{}
	}
	if v.Chart == nil {
		v.Chart = []models.ChartPoint{}
	}
	return v
}

func (c *Controller) publish(v models.View) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ch := range c.subs {
		select {
		case ch <- v:
		default:
			c.logger.Warn("view subscriber is full, dropping update", "generation", v.Generation)
		}
	}
}
