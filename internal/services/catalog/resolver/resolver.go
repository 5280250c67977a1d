package resolver

import (
	"context"
	"runtime/debug"
	"strconv"

	"hnagent/internal/adapters/hn"
	perr "hnagent/internal/platform/errors"
	"hnagent/internal/platform/logger"
	"hnagent/internal/platform/metrics"
	"hnagent/internal/services/catalog/domain"

	"golang.org/x/sync/singleflight"
)

// Outcome classifies what happened to one slot of a batch
type Outcome uint8

const (
	// Resolved means the item was fetched and normalized
	Resolved Outcome = iota
	// NotFound means upstream answered 404 or null
	NotFound
	// Exhausted means every attempt failed or the request was canceled
	Exhausted
	// Rejected means the item was fetched but has the wrong shape
	Rejected
)

// String returns the metric and log label for an outcome
func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case NotFound:
		return "not_found"
	case Exhausted:
		return "exhausted"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Result is the typed outcome of one requested id
// Story or Comment is set only when Outcome is Resolved
type Result struct {
	Index   int
	ID      domain.ItemID
	Outcome Outcome
	Story   domain.Story
	Comment domain.Comment
	Err     error
}

// OK reports whether the slot survives compaction
func (r Result) OK() bool { return r.Outcome == Resolved }

// Options configures the resolver
type Options struct {
	MaxWorkers int
}

// Resolver fans item fetches out over a bounded pool per batch
type Resolver struct {
	src     domain.ItemSource
	opts    Options
	log     *logger.Logger
	metrics *metrics.Metrics
}

// Option customizes a Resolver
type Option func(*Resolver)

// WithLogger sets the resolver logger
func WithLogger(l *logger.Logger) Option {
	return func(r *Resolver) { r.log = logger.Named(l, "resolver") }
}

// WithMetrics sets the metrics sink
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// New constructs a Resolver over src
func New(src domain.ItemSource, o Options, opts ...Option) *Resolver {
	if src == nil {
		panic("resolver.New requires a non nil ItemSource")
	}
	if o.MaxWorkers <= 0 {
		o.MaxWorkers = DefaultMaxWorkers
	}
	r := &Resolver{src: src, opts: o, log: logger.Nop()}
	for _, fn := range opts {
		fn(r)
	}
	return r
}

// Pool returns the pool a batch of n ids would run on
func (r *Resolver) Pool(n int) Pool { return NewPool(n, r.opts.MaxWorkers) }

// ResolveAll fetches every id and returns one Result per input position
// Partial failure is not an error; inspect Outcome per slot
func (r *Resolver) ResolveAll(ctx context.Context, ids []domain.ItemID, kind domain.Kind) []Result {
	slots := make([]Result, len(ids))
	if len(ids) == 0 {
		return slots
	}

	// duplicates inside one batch share a single upstream fetch
	var sf singleflight.Group

	pool := r.Pool(len(ids))
	pool.Run(ctx, len(ids), func(ctx context.Context, i int) {
		id := ids[i]
		// a panic past this point still leaves an omitted slot, never a zero Resolved one
		defer func() {
			if rec := recover(); rec != nil {
				slots[i] = r.panicked(i, id, kind, rec)
			}
		}()

		v, err, _ := sf.Do(strconv.FormatInt(id, 10), func() (any, error) {
			return r.fetch(ctx, id, kind)
		})
		res := r.shape(i, id, kind, v, err)
		r.metrics.ObserveItem(kind.String(), res.Outcome.String())
		if !res.OK() {
			r.log.Debug().
				Err(res.Err).
				Int64("id", id).
				Int("index", i).
				Str("kind", kind.String()).
				Str("outcome", res.Outcome.String()).
				Msg("batch item omitted")
		}
		slots[i] = res
	})
	return slots
}

// fetch reads one item; a panicking source becomes an error so singleflight waiters never re-panic
func (r *Resolver) fetch(ctx context.Context, id domain.ItemID, kind domain.Kind) (v any, err error) {
	done := r.metrics.TrackInFlight()
	defer done()
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().
				Int64("id", id).
				Str("kind", kind.String()).
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("batch item panicked")
			v, err = nil, perr.PanicErrf("item %d fetch panicked: %v", id, rec)
		}
	}()
	return r.src.Item(ctx, id)
}

// panicked records a slot whose task panicked outside the fetch
func (r *Resolver) panicked(i int, id domain.ItemID, kind domain.Kind, rec any) Result {
	r.log.Error().
		Int64("id", id).
		Int("index", i).
		Str("kind", kind.String()).
		Interface("panic", rec).
		Bytes("stack", debug.Stack()).
		Msg("batch item panicked")
	r.metrics.ObserveItem(kind.String(), Exhausted.String())
	return Result{Index: i, ID: id, Outcome: Exhausted, Err: perr.PanicErrf("item %d panicked: %v", id, rec)}
}

func (r *Resolver) shape(i int, id domain.ItemID, kind domain.Kind, v any, err error) Result {
	res := Result{Index: i, ID: id}
	if err != nil {
		res.Err = err
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			res.Outcome = NotFound
		} else {
			res.Outcome = Exhausted
		}
		return res
	}

	raw, ok := v.(hn.Item)
	if !ok {
		res.Outcome, res.Err = Exhausted, perr.Internalf("item %d: unexpected payload %T", id, v)
		return res
	}

	switch kind {
	case domain.KindComment:
		c, cerr := domain.NormalizeComment(raw)
		if cerr != nil {
			res.Outcome, res.Err = Rejected, cerr
			return res
		}
		res.Comment = c
	default:
		res.Story = domain.NormalizeStory(raw)
	}
	res.Outcome = Resolved
	return res
}

// Compact keeps resolved slots in input order and projects them with pick
func Compact[T any](results []Result, pick func(Result) T) []T {
	out := make([]T, 0, len(results))
	for _, res := range results {
		if res.OK() {
			out = append(out, pick(res))
		}
	}
	return out
}

// Stories resolves ids as stories and returns the ordered survivors
func (r *Resolver) Stories(ctx context.Context, ids []domain.ItemID) []domain.Story {
	results := r.ResolveAll(ctx, ids, domain.KindStory)
	r.summarize(domain.KindStory, results)
	return Compact(results, func(res Result) domain.Story { return res.Story })
}

// Comments resolves ids as comments and returns the ordered survivors
func (r *Resolver) Comments(ctx context.Context, ids []domain.ItemID) []domain.Comment {
	results := r.ResolveAll(ctx, ids, domain.KindComment)
	r.summarize(domain.KindComment, results)
	return Compact(results, func(res Result) domain.Comment { return res.Comment })
}

// Omitted counts slots that did not resolve, grouped by outcome
func Omitted(results []Result) map[Outcome]int {
	out := map[Outcome]int{}
	for _, res := range results {
		if !res.OK() {
			out[res.Outcome]++
		}
	}
	return out
}

func (r *Resolver) summarize(kind domain.Kind, results []Result) {
	om := Omitted(results)
	if len(om) == 0 {
		return
	}
	ev := r.log.Info().Str("kind", kind.String()).Int("requested", len(results))
	for _, o := range []Outcome{NotFound, Exhausted, Rejected} {
		if n := om[o]; n > 0 {
			ev = ev.Int(o.String(), n)
		}
	}
	ev.Msg("batch resolved with omissions")
}
