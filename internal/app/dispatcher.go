package app

import (
	"context"
	"sync"

	"github.com/five82/explorer/internal/fetch"
	"github.com/five82/explorer/internal/state"
)

// Runner runs one fetch cycle to completion.
type Runner interface {
	Run(ctx context.Context, c state.Cycle) fetch.Report
}

// Dispatcher starts fetch cycles in the background. Each Dispatch launches a
// new cycle without cancelling earlier ones; the store drops whatever a
// superseded cycle produces.
type Dispatcher struct {
	ctx    context.Context
	runner Runner
	wg     sync.WaitGroup
	done   func(fetch.Report)
}

// NewDispatcher returns a Dispatcher whose cycles run under ctx.
// done, if non-nil, is called with each finished cycle's report.
func NewDispatcher(ctx context.Context, runner Runner, done func(fetch.Report)) *Dispatcher {
	return &Dispatcher{ctx: ctx, runner: runner, done: done}
}

// Dispatch runs c, a cycle already begun by the store, and returns
// immediately.
func (d *Dispatcher) Dispatch(c state.Cycle) {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		report := d.runner.Run(d.ctx, c)
		if d.done != nil {
			d.done(report)
		}
	}()
}

// Wait blocks until every dispatched cycle has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
