package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/explorer/internal/logging"
	"github.com/five82/explorer/internal/metrics"
	"github.com/five82/explorer/internal/nasa"
	"github.com/five82/explorer/internal/state"
)

// Orchestrator runs fetch cycles: four concurrent requests whose results are
// applied to a state.Store.
type Orchestrator struct {
	client nasa.Fetcher
	store  *state.Store
	now    func() time.Time
	logger zerolog.Logger
}

// Option customises an Orchestrator.
type Option func(*Orchestrator)

// WithClock sets the clock used to pick today's date for the asteroid feed.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// New returns an Orchestrator that fetches with client and writes to store.
func New(client nasa.Fetcher, store *state.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client: client,
		store:  store,
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Report summarises one cycle.
type Report struct {
	Cycle    uint64
	TraceID  string
	Params   state.Params
	Outcomes []Outcome
	// Err is the cycle error: the joined decode failures, nil otherwise.
	Err     error
	Elapsed time.Duration
	// Current is false when a newer cycle superseded this one before it
	// finished; none of its results were applied in that case.
	Current bool
}

// Failed returns the labels of outcomes that did not succeed.
func (r Report) Failed() []string {
	var labels []string
	for _, out := range r.Outcomes {
		if !out.OK() {
			labels = append(labels, out.Label)
		}
	}
	return labels
}

// task pairs an op with the section it feeds and the store write for its value.
type task struct {
	section state.Section
	op      Op
	apply   func(value any) bool
}

// Run executes c, a cycle begun by the store, and blocks until every
// request has settled. Loading is always cleared at the end, unless a newer
// cycle has begun in the meantime.
func (o *Orchestrator) Run(ctx context.Context, c state.Cycle) (report Report) {
	started := time.Now()
	today := o.now().Format(nasa.DateLayout)
	cycle, params := c.ID, c.Params
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)

	log := o.logger.With().
		Uint64("cycle_id", cycle).
		Str("trace_id", traceID).
		Str("rover", string(params.Rover)).
		Int("sol", params.Sol).
		Logger()

	report = Report{Cycle: cycle, TraceID: traceID, Params: params}
	var decodeErrs []error
	soft := 0

	defer func() {
		if r := recover(); r != nil {
			decodeErrs = append(decodeErrs, &PanicError{Label: "apply", Value: r})
		}
		report.Err = errors.Join(decodeErrs...)
		report.Elapsed = time.Since(started)
		report.Current = o.store.Finish(cycle, report.Err)
		o.observe(log, report, soft)
	}()

	log.Debug().Str("date", today).Msg("fetch cycle started")

	tasks := o.tasks(cycle, params, today, log)
	ops := make([]Op, len(tasks))
	for i, t := range tasks {
		ops[i] = t.op
	}
	report.Outcomes = Settle(ctx, ops...)

	for i, out := range report.Outcomes {
		t := tasks[i]
		entry := log.With().Str("section", t.section.String()).Dur("elapsed", out.Elapsed).Logger()
		switch {
		case out.Err == nil:
			if t.apply(out.Value) {
				entry.Debug().Msg("section updated")
			}
		case isHard(out.Err):
			decodeErrs = append(decodeErrs, out.Err)
			o.store.MarkSectionFailed(cycle, t.section, out.Err)
			entry.Error().Err(out.Err).Msg("response could not be decoded")
		default:
			soft++
			o.store.MarkSectionFailed(cycle, t.section, out.Err)
			entry.Warn().
				Err(out.Err).
				Str("reason", nasa.Classify(out.Err).String()).
				Msg("request failed; keeping previous data")
		}
	}
	return report
}

func (o *Orchestrator) tasks(cycle uint64, params state.Params, today string, log zerolog.Logger) []task {
	return []task{
		{
			section: state.SectionAPOD,
			op: Op{Label: string(nasa.EndpointAPOD), Run: func(ctx context.Context) (any, error) {
				return o.client.FetchAPOD(ctx)
			}},
			apply: func(v any) bool {
				apod, ok := v.(*nasa.APOD)
				if !ok || apod == nil {
					return false
				}
				return o.store.SetAPOD(cycle, *apod)
			},
		},
		{
			section: state.SectionRoverPhotos,
			op: Op{Label: string(nasa.EndpointRoverPhotos), Run: func(ctx context.Context) (any, error) {
				return o.client.FetchRoverPhotos(ctx, params.Rover, params.Sol)
			}},
			apply: func(v any) bool {
				resp, ok := v.(*nasa.RoverPhotosResponse)
				if !ok || resp == nil || resp.Photos == nil {
					log.Debug().Msg("rover response has no photos field; slot unchanged")
					return false
				}
				return o.store.SetRoverPhotos(cycle, resp.Photos)
			},
		},
		{
			section: state.SectionNearEarthObjects,
			op: Op{Label: string(nasa.EndpointNeoFeed), Run: func(ctx context.Context) (any, error) {
				return o.client.FetchNeoFeed(ctx, today)
			}},
			apply: func(v any) bool {
				feed, ok := v.(*nasa.NeoFeed)
				if !ok || feed == nil || feed.NearEarthObjects == nil {
					log.Debug().Msg("neo feed has no near_earth_objects field; slot unchanged")
					return false
				}
				objects, found := feed.Bucket(today)
				if !found {
					log.Debug().Str("date", today).Msg("neo feed has no entry for today")
				}
				return o.store.SetNearEarthObjects(cycle, objects)
			},
		},
		{
			section: state.SectionEarthImages,
			op: Op{Label: string(nasa.EndpointEPIC), Run: func(ctx context.Context) (any, error) {
				return o.client.FetchEPIC(ctx)
			}},
			apply: func(v any) bool {
				images, ok := v.([]nasa.EPICImage)
				if !ok {
					return false
				}
				return o.store.SetEarthImages(cycle, images)
			},
		},
	}
}

func (o *Orchestrator) observe(log zerolog.Logger, report Report, soft int) {
	result := metrics.CycleOK
	switch {
	case !report.Current:
		result = metrics.CycleStale
	case report.Err != nil:
		result = metrics.CycleError
	case soft > 0:
		result = metrics.CyclePartial
	}
	metrics.ObserveCycle(result, report.Elapsed)

	level := zerolog.InfoLevel
	if report.Err != nil {
		level = zerolog.ErrorLevel
	}
	log.WithLevel(level).
		Err(report.Err).
		Str("result", result).
		Int("failed", len(report.Failed())).
		Dur("elapsed", report.Elapsed).
		Msg("fetch cycle finished")
}

// isHard reports whether err should fail the cycle as a whole.
func isHard(err error) bool {
	if nasa.IsDecodeError(err) {
		return true
	}
	var pe *PanicError
	return errors.As(err, &pe)
}
