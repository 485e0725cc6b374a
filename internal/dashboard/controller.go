// Package dashboard drives the flight insights dashboard: it reads the
// search inputs, fetches insights for them and draws the results into a bar
// chart, a line chart and a table, showing a "no data" message when there is
// nothing to draw.
//
// Render targets are interfaces so they can be swapped in tests; Board is
// the production implementation of all of them.
package dashboard

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkordes/flight-dashboard/internal/domain"
)

// SelectionSource reads the current values of the origin and destination inputs.
type SelectionSource interface {
	Inputs() (origin, destination string)
}

// Targets groups the handles a Controller reads from and draws into.
type Targets struct {
	Inputs SelectionSource
	Notice Notice
	Charts ChartRenderer
	Table  TableTarget
}

// Controller runs the fetch-and-render cycle.
//
// Runs triggered concurrently are not coordinated: each one fetches on its
// own and the last one to finish determines what the board shows, whatever
// order they started in. WithStaleDiscard changes that.
type Controller struct {
	fetcher Fetcher
	targets Targets
	now     func() time.Time
	logger  *slog.Logger

	discardStale bool
	generation   atomic.Uint64

	// renderMu keeps one run's classify-and-render step from interleaving
	// with another's.
	renderMu sync.Mutex
	inflight sync.WaitGroup
	// bound counts Bind goroutines; once they exit no trigger can call Go.
	bound sync.WaitGroup
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides time.Now, which decides "today".
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithStaleDiscard drops a response when a newer run started after it,
// so the board always reflects the most recently triggered run.
func WithStaleDiscard() Option {
	return func(c *Controller) { c.discardStale = true }
}

// NewController returns a controller that fetches through fetcher and draws into targets.
func NewController(fetcher Fetcher, targets Targets, opts ...Option) *Controller {
	c := &Controller{
		fetcher: fetcher,
		targets: targets,
		now:     time.Now,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind starts one goroutine per trigger. Every value received from a trigger
// starts a run in the background; runs are never debounced or cancelled.
// Binding stops when ctx is done or the trigger channel is closed.
func (c *Controller) Bind(ctx context.Context, triggers ...<-chan struct{}) {
	for _, trigger := range triggers {
		c.bound.Add(1)
		go func() {
			defer c.bound.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case _, ok := <-trigger:
					if !ok {
						return
					}
					c.Go(ctx)
				}
			}
		}()
	}
}

// Go starts a fetch-and-render run in the background.
func (c *Controller) Go(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.FetchAndRender(ctx)
	}()
}

// Wait blocks until every run started with Go or via a trigger has finished.
// It must not be called while triggers can still start runs; use Shutdown
// for a bound controller.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Shutdown waits for the Bind goroutines to exit, which they do once the
// ctx given to Bind is done, and then for every run they started. No run is
// in flight when it returns.
func (c *Controller) Shutdown() {
	c.bound.Wait()
	c.inflight.Wait()
}

// Selection reads the inputs and stamps them with today's UTC date.
func (c *Controller) Selection() domain.Selection {
	origin, destination := c.targets.Inputs.Inputs()
	return domain.Selection{
		Origin:      origin,
		Destination: destination,
		Date:        c.now().UTC().Format(domain.DateLayout),
	}
}

// FetchAndRender runs one cycle: read the selection, fetch, toggle the
// notice and redraw all three views.
//
// A failed fetch is handled like an empty result: the notice is shown and
// every view is drawn empty. The error itself goes nowhere but the debug log.
func (c *Controller) FetchAndRender(ctx context.Context) {
	gen := c.generation.Add(1)
	sel := c.Selection()

	data, err := c.fetcher.Fetch(ctx, sel)

	c.renderMu.Lock()
	defer c.renderMu.Unlock()

	if c.discardStale && c.generation.Load() != gen {
		c.logger.DebugContext(ctx, "discarding stale dashboard response",
			"origin", sel.Origin, "destination", sel.Destination)
		return
	}

	if err != nil {
		c.logger.DebugContext(ctx, "dashboard fetch failed", "error", err)
		c.targets.Notice.Show()
		c.render(domain.Insights{})
		return
	}

	if data.IsEmpty() {
		c.targets.Notice.Show()
	} else {
		c.targets.Notice.Hide()
	}
	c.render(data)
}

func (c *Controller) render(data domain.Insights) {
	RenderBarChart(c.targets.Charts, data.TopRoutes)
	RenderLineChart(c.targets.Charts, data.PriceTrends)
	RenderTable(c.targets.Table, data.TableData)
}
