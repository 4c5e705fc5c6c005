package fetch

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"
)

// Op is one independent unit of work in a cycle.
type Op struct {
	Label string
	Run   func(ctx context.Context) (any, error)
}

// Outcome is the settled result of an Op.
type Outcome struct {
	Label   string
	Value   any
	Err     error
	Elapsed time.Duration
}

// OK reports whether the op succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// PanicError is the error recorded for an op that panicked.
type PanicError struct {
	Label string
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("%s: panic: %v", e.Label, e.Value)
}

// Settle runs every op concurrently and waits for all of them. It never
// short-circuits: a failing or panicking op is recorded in its Outcome and
// the others keep running. Outcomes are returned in op order.
func Settle(ctx context.Context, ops ...Op) []Outcome {
	outcomes := make([]Outcome, len(ops))
	// A plain Group: ops report failure through their Outcome, so no op
	// cancels the shared context of the others.
	var g errgroup.Group
	for i, op := range ops {
		g.Go(func() error {
			outcomes[i] = run(ctx, op)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func run(ctx context.Context, op Op) (out Outcome) {
	start := time.Now()
	out.Label = op.Label
	defer func() {
		if r := recover(); r != nil {
			out.Value = nil
			out.Err = &PanicError{Label: op.Label, Value: r, Stack: debug.Stack()}
		}
		out.Elapsed = time.Since(start)
	}()
	if op.Run == nil {
		out.Err = fmt.Errorf("%s: no run function", op.Label)
		return out
	}
	out.Value, out.Err = op.Run(ctx)
	return out
}
