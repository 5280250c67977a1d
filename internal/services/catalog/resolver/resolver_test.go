package resolver

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"hnagent/internal/adapters/hn"
	perr "hnagent/internal/platform/errors"
	"hnagent/internal/platform/logger"
	"hnagent/internal/platform/metrics"
	"hnagent/internal/platform/testkit"
	"hnagent/internal/services/catalog/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// memSource is an in-memory ItemSource that tracks concurrency
type memSource struct {
	items map[int64]hn.Item
	errs  map[int64]error
	delay time.Duration

	mu    sync.Mutex
	calls map[int64]int

	inflight atomic.Int32
	peak     atomic.Int32
}

func newMem() *memSource {
	return &memSource{items: map[int64]hn.Item{}, errs: map[int64]error{}, calls: map[int64]int{}}
}

func (m *memSource) story(id int64, title string) {
	m.items[id] = hn.Item{ID: id, Type: hn.TypeStory, Title: &title}
}

func (m *memSource) comment(id int64, text string) {
	m.items[id] = hn.Item{ID: id, Type: hn.TypeComment, Text: &text}
}

func (m *memSource) TopStoryIDs(context.Context) ([]int64, error) { return nil, nil }

func (m *memSource) Item(ctx context.Context, id int64) (hn.Item, error) {
	n := m.inflight.Add(1)
	defer m.inflight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}

	m.mu.Lock()
	m.calls[id]++
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return hn.Item{}, perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "canceled")
		}
	}
	if err := ctx.Err(); err != nil {
		return hn.Item{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "canceled")
	}
	if err, ok := m.errs[id]; ok {
		return hn.Item{}, err
	}
	it, ok := m.items[id]
	if !ok {
		return hn.Item{}, perr.NotFoundf("item %d", id)
	}
	return it, nil
}

func (m *memSource) callsFor(id int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[id]
}

func storyIDs(ss []domain.Story) []int64 {
	out := make([]int64, 0, len(ss))
	for _, s := range ss {
		out = append(out, s.ID)
	}
	return out
}

func TestPoolCap(t *testing.T) {
	cases := []struct {
		n, max, want int
	}{
		{3, 10, 3},
		{10, 10, 10},
		{25, 10, 10},
		{0, 10, 1},
		{5, 0, 5},
		{40, 0, DefaultMaxWorkers},
		{7, 2, 2},
	}
	for _, c := range cases {
		if got := NewPool(c.n, c.max).Cap(); got != c.want {
			t.Fatalf("NewPool(%d,%d).Cap() = %d, want %d", c.n, c.max, got, c.want)
		}
	}
}

func TestPoolRunVisitsEveryIndex(t *testing.T) {
	var seen [50]atomic.Int32
	NewPool(50, 4).Run(context.Background(), 50, func(_ context.Context, i int) {
		seen[i].Add(1)
	})
	for i := range seen {
		if seen[i].Load() != 1 {
			t.Fatalf("index %d ran %d times", i, seen[i].Load())
		}
	}
}

func TestConcurrencyNeverExceedsCap(t *testing.T) {
	cases := []struct {
		name       string
		n          int
		maxWorkers int
	}{
		{"small batch", 4, 10},
		{"exact cap", 10, 10},
		{"over cap", 25, 10},
		{"tight cap", 9, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := newMem()
			src.delay = 20 * time.Millisecond
			ids := make([]int64, tc.n)
			for i := range ids {
				ids[i] = int64(i + 1)
				src.story(ids[i], "s")
			}
			r := New(src, Options{MaxWorkers: tc.maxWorkers})

			out := r.Stories(context.Background(), ids)
			require.Len(t, out, tc.n)
			require.LessOrEqual(t, int(src.peak.Load()), min(tc.n, tc.maxWorkers))
		})
	}
}

func TestNotFoundOmittedOrderPreserved(t *testing.T) {
	up := testkit.NewUpstream(t)
	up.Set("/item/1.json", testkit.Route{Body: `{"id":1,"type":"story","title":"one"}`, Delay: 30 * time.Millisecond})
	up.Set("/item/3.json", testkit.Route{Body: `{"id":3,"type":"story","title":"three"}`})
	client := hn.NewClient(hn.Options{BaseURL: up.URL()})

	r := New(client, Options{})
	results := r.ResolveAll(context.Background(), []int64{1, 2, 3}, domain.KindStory)
	require.Len(t, results, 3)
	require.Equal(t, NotFound, results[1].Outcome)
	require.True(t, perr.IsCode(results[1].Err, perr.ErrorCodeNotFound))

	out := Compact(results, func(res Result) domain.Story { return res.Story })
	require.Equal(t, []int64{1, 3}, storyIDs(out))
	require.Equal(t, "one", out[0].Title)
	require.Equal(t, 1, up.Hits("/item/2.json"))
}

func TestExhaustionBehavesLikeNotFound(t *testing.T) {
	up := testkit.NewUpstream(t)
	up.Set("/item/1.json", testkit.Route{Body: `{"id":1,"type":"story"}`})
	up.Set("/item/2.json", testkit.Route{Status: http.StatusInternalServerError, Body: "{}"})
	up.Set("/item/3.json", testkit.Route{Body: `{"id":3,"type":"story"}`})
	client := hn.NewClient(hn.Options{BaseURL: up.URL()},
		hn.WithSleep(func(ctx context.Context, _ time.Duration) error { return ctx.Err() }))

	r := New(client, Options{})
	results := r.ResolveAll(context.Background(), []int64{1, 2, 3}, domain.KindStory)
	require.Equal(t, Exhausted, results[1].Outcome)
	require.Equal(t, 2, up.Hits("/item/2.json"))

	require.Equal(t, []int64{1, 3}, storyIDs(r.Stories(context.Background(), []int64{1, 2, 3})))
}

func TestCommentsRejectNonComments(t *testing.T) {
	src := newMem()
	src.comment(10, "first")
	src.story(11, "not a comment")
	src.comment(12, "third")

	r := New(src, Options{})
	results := r.ResolveAll(context.Background(), []int64{10, 11, 12}, domain.KindComment)
	require.Equal(t, Rejected, results[1].Outcome)
	require.ErrorIs(t, results[1].Err, domain.ErrRejected)

	out := r.Comments(context.Background(), []int64{10, 11, 12})
	require.Len(t, out, 2)
	require.Equal(t, "first", out[0].Text)
	require.Equal(t, "third", out[1].Text)
}

func TestDuplicateIDsShareOneFetch(t *testing.T) {
	src := newMem()
	src.delay = 100 * time.Millisecond
	src.story(5, "dup")

	r := New(src, Options{})
	out := r.Stories(context.Background(), []int64{5, 5, 5})
	require.Equal(t, []int64{5, 5, 5}, storyIDs(out))
	require.Equal(t, 1, src.callsFor(5))
}

func TestEmptyBatch(t *testing.T) {
	r := New(newMem(), Options{})
	out := r.Stories(context.Background(), nil)
	require.NotNil(t, out)
	require.Empty(t, out)
	require.Empty(t, r.ResolveAll(context.Background(), []int64{}, domain.KindComment))
}

func TestCanceledContextOmitsEverything(t *testing.T) {
	src := newMem()
	src.story(1, "a")
	src.story(2, "b")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(src, Options{})
	results := r.ResolveAll(ctx, []int64{1, 2}, domain.KindStory)
	for _, res := range results {
		require.Equal(t, Exhausted, res.Outcome)
	}
	require.Equal(t, map[Outcome]int{Exhausted: 2}, Omitted(results))
}

func TestLimiterWaitCanceledIsOmitted(t *testing.T) {
	up := testkit.NewUpstream(t)
	up.Set("/item/1.json", testkit.Route{Body: `{"id":1,"type":"story","title":"one"}`})
	up.Set("/item/2.json", testkit.Route{Body: `{"id":2,"type":"story","title":"two"}`})
	// a single token, the next one is minutes away
	client := hn.NewClient(hn.Options{BaseURL: up.URL(), RatePerSec: 0.001, Burst: 1},
		hn.WithSleep(func(ctx context.Context, _ time.Duration) error { return ctx.Err() }))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(50*time.Millisecond, cancel)

	r := New(client, Options{})
	results := r.ResolveAll(ctx, []int64{1, 2}, domain.KindStory)
	require.Len(t, results, 2)
	require.Equal(t, map[Outcome]int{Exhausted: 1}, Omitted(results))
	require.Len(t, Compact(results, func(res Result) domain.Story { return res.Story }), 1)
	require.Equal(t, 1, up.TotalHits())
}

func TestPanickingSourceIsExhausted(t *testing.T) {
	src := &panicSource{memSource: newMem(), bad: 2}
	src.story(1, "a")
	src.story(3, "c")

	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: "debug", Format: "json", Writer: &buf})
	r := New(src, Options{}, WithLogger(log))

	var results []Result
	testkit.MustNotPanic(t, func() {
		results = r.ResolveAll(context.Background(), []int64{1, 2, 2, 3}, domain.KindStory)
	})
	require.Equal(t, Exhausted, results[1].Outcome)
	require.Equal(t, Exhausted, results[2].Outcome)
	require.True(t, perr.IsCode(results[1].Err, perr.ErrorCodePanic), "got %v", results[1].Err)
	require.Equal(t, []int64{1, 3}, storyIDs(r.Stories(context.Background(), []int64{1, 2, 3})))
	testkit.MustContain(t, buf.String(), `"message":"batch item panicked"`)
}

// panicSource panics on one id
type panicSource struct {
	*memSource
	bad int64
}

func (p *panicSource) Item(ctx context.Context, id int64) (hn.Item, error) {
	if id == p.bad {
		panic("source blew up")
	}
	return p.memSource.Item(ctx, id)
}

func TestOmissionsAreLoggedAndCounted(t *testing.T) {
	src := newMem()
	src.comment(1, "ok")
	src.errs[2] = perr.Unavailablef("boom")

	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: "debug", Format: "json", Writer: &buf})
	m := metrics.New(nil)

	r := New(src, Options{}, WithLogger(log), WithMetrics(m))
	out := r.Comments(context.Background(), []int64{1, 2, 3})
	require.Len(t, out, 1)

	logs := buf.String()
	testkit.MustContain(t, logs, `"message":"batch item omitted"`)
	testkit.MustContain(t, logs, `"outcome":"exhausted"`)
	testkit.MustContain(t, logs, `"outcome":"not_found"`)
	testkit.MustContain(t, logs, `"message":"batch resolved with omissions"`)

	n, err := testutil.GatherAndCount(m.Registry(), "hnagent_batch_items_total")
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestOutcomeString(t *testing.T) {
	want := map[Outcome]string{Resolved: "resolved", NotFound: "not_found", Exhausted: "exhausted", Rejected: "rejected", Outcome(99): "unknown"}
	for o, s := range want {
		if o.String() != s {
			t.Fatalf("Outcome(%d).String() = %q, want %q", o, o.String(), s)
		}
	}
}

func TestNewPanicsOnNilSource(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, Options{}) })
}
