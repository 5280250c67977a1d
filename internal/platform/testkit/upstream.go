package testkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Route is a canned response for one path on an Upstream
type Route struct {
	Status int           // defaults to 200
	Body   string        // raw body; "null" is a valid Firebase answer
	Delay  time.Duration // applied before responding
	// FailFirst answers the first N hits with FailStatus (default 503) before serving the route
	FailFirst  int
	FailStatus int
}

// Upstream is a programmable fake JSON API backed by httptest.
// Unknown paths answer 404. It tracks hits per path and peak concurrency
type Upstream struct {
	srv *httptest.Server

	mu     sync.Mutex
	routes map[string]Route
	seqs   map[string][]Route
	hits   map[string]int
	agents []string

	inflight atomic.Int32
	peak     atomic.Int32
}

// NewUpstream starts a fake upstream that is closed when the test ends
func NewUpstream(t *testing.T) *Upstream {
	t.Helper()
	u := &Upstream{routes: map[string]Route{}, seqs: map[string][]Route{}, hits: map[string]int{}}
	u.srv = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.srv.Close)
	return u
}

// URL returns the base URL of the fake
func (u *Upstream) URL() string { return u.srv.URL }

// Set installs a canned route
func (u *Upstream) Set(path string, r Route) {
	u.mu.Lock()
	u.routes[path] = r
	u.mu.Unlock()
}

// Sequence answers the nth hit on path with rs[n-1]; the last route repeats once rs runs out
func (u *Upstream) Sequence(path string, rs ...Route) {
	if len(rs) == 0 {
		panic("testkit.Sequence requires at least one route")
	}
	u.mu.Lock()
	u.seqs[path] = append([]Route(nil), rs...)
	u.mu.Unlock()
}

// JSON installs a 200 route with v marshaled as the body
func (u *Upstream) JSON(path string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	u.Set(path, Route{Body: string(b)})
}

// Hits returns how many requests reached path
func (u *Upstream) Hits(path string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits[path]
}

// TotalHits returns the number of requests across all paths
func (u *Upstream) TotalHits() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	n := 0
	for _, v := range u.hits {
		n += v
	}
	return n
}

// PeakInFlight returns the highest number of concurrent requests observed
func (u *Upstream) PeakInFlight() int { return int(u.peak.Load()) }

// UserAgents returns the User-Agent headers seen so far
func (u *Upstream) UserAgents() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.agents...)
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	n := u.inflight.Add(1)
	defer u.inflight.Add(-1)
	for {
		p := u.peak.Load()
		if n <= p || u.peak.CompareAndSwap(p, n) {
			break
		}
	}

	u.mu.Lock()
	u.hits[r.URL.Path]++
	hit := u.hits[r.URL.Path]
	u.agents = append(u.agents, r.UserAgent())
	route, ok := u.routes[r.URL.Path]
	if seq := u.seqs[r.URL.Path]; len(seq) > 0 {
		route, ok = seq[min(hit, len(seq))-1], true
	}
	u.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	if route.Delay > 0 {
		select {
		case <-time.After(route.Delay):
		case <-r.Context().Done():
			return
		}
	}
	if hit <= route.FailFirst {
		status := route.FailStatus
		if status == 0 {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, http.StatusText(status), status)
		return
	}
	status := route.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(route.Body))
}
