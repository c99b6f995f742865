package upstream

import (
	"context"

	"casetracker/internal/models"
)

// Result is the single value delivered by a future.
type Result[T any] struct {
	Value T
	Err   error
}

// Go runs fn on its own goroutine and delivers its outcome on the returned
// channel. The channel is buffered so the goroutine never blocks on a
// receiver that went away.
func Go[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		defer close(out)
		v, err := fn(ctx)
		out <- Result[T]{Value: v, Err: err}
	}()
	return out
}

func (c *Client) DailySeriesAsync(ctx context.Context, scope models.Scope) <-chan Result[[]models.DailyRecord] {
	return Go(ctx, func(ctx context.Context) ([]models.DailyRecord, error) {
		return c.FetchDailySeries(ctx, scope)
	})
}

func (c *Client) RegionListAsync(ctx context.Context) <-chan Result[[]models.Region] {
	return Go(ctx, c.FetchRegionList)
}
