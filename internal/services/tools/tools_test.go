package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	perr "hnagent/internal/platform/errors"
	"hnagent/internal/platform/logger"
	"hnagent/internal/platform/metrics"
	"hnagent/internal/platform/testkit"
	"hnagent/internal/services/catalog/domain"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// fakeCatalog records the bounds it was asked for
type fakeCatalog struct {
	stories  []domain.Story
	comments []domain.Comment

	gotCount int
	gotStory int64
	gotLimit int
	panicMsg string
}

func (f *fakeCatalog) TopStories(_ context.Context, count int) []domain.Story {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	f.gotCount = count
	if len(f.stories) > count {
		return f.stories[:count]
	}
	return f.stories
}

func (f *fakeCatalog) Comments(_ context.Context, storyID int64, limit int) []domain.Comment {
	f.gotStory, f.gotLimit = storyID, limit
	if len(f.comments) > limit {
		return f.comments[:limit]
	}
	return f.comments
}

func newReg(t *testing.T, cat *fakeCatalog, opts ...Option) *Registry {
	t.Helper()
	return MustNew(Descriptors(cat, DefaultOptions()), opts...)
}

func TestRatio(t *testing.T) {
	cases := []struct {
		score, comments int
		want            string
	}{
		{100, 0, "100.0"},
		{100, 1, "100.0"},
		{10, 3, "3.3"},
		{0, 0, "0.0"},
		{5, 2, "2.5"},
	}
	for _, c := range cases {
		if got := Ratio(c.score, c.comments); got != c.want {
			t.Fatalf("Ratio(%d,%d) = %q, want %q", c.score, c.comments, got, c.want)
		}
	}
}

func TestFetchTopStoriesFormatting(t *testing.T) {
	cat := &fakeCatalog{stories: []domain.Story{
		{ID: 42415051, Title: "Hello", URL: "https://x.test", Score: 100, Author: "pg", ChildCount: 0},
		{ID: 2, Score: 7, ChildCount: 2},
	}}
	out := newReg(t, cat).Invoke(context.Background(), FetchTopStories, Args{})

	want := "#1\nStory ID: 42415051\nTitle: Hello\nScore: 100 | Comments: 0 | Score/Comment ratio: 100.0\nURL: https://x.test\nAuthor: pg\n" +
		"\n" +
		"#2\nStory ID: 2\nTitle: N/A\nScore: 7 | Comments: 2 | Score/Comment ratio: 3.5\nURL: N/A\nAuthor: Unknown\n"
	require.Equal(t, want, out)
	require.Equal(t, 5, cat.gotCount)
}

func TestFetchTopStoriesBounds(t *testing.T) {
	cases := []struct {
		name string
		args Args
		want int
	}{
		{"missing", Args{}, 5},
		{"null", Args{"num_stories": nil}, 5},
		{"zero means default", Args{"num_stories": float64(0)}, 5},
		{"negative", Args{"num_stories": float64(-2)}, 1},
		{"above max", Args{"num_stories": float64(50)}, 10},
		{"in range", Args{"num_stories": float64(3)}, 3},
		{"json number", Args{"num_stories": json.Number("7")}, 7},
		{"fraction truncates", Args{"num_stories": 2.9}, 2},
		{"fraction below one clamps", Args{"num_stories": 0.5}, 1},
		{"negative fraction clamps", Args{"num_stories": -0.5}, 1},
		{"json number fraction", Args{"num_stories": json.Number("0.5")}, 1},
		{"not a number", Args{"num_stories": "three"}, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cat := &fakeCatalog{stories: []domain.Story{{ID: 1}}}
			newReg(t, cat).Invoke(context.Background(), FetchTopStories, tc.args)
			require.Equal(t, tc.want, cat.gotCount)
		})
	}
}

func TestFetchTopStoriesEmpty(t *testing.T) {
	out := newReg(t, &fakeCatalog{}).Invoke(context.Background(), FetchTopStories, Args{"num_stories": float64(3)})
	require.Equal(t, "No stories found on Hacker News right now.", out)
}

func TestExtractCommentInsights(t *testing.T) {
	long := strings.Repeat("é", 310)
	cat := &fakeCatalog{comments: []domain.Comment{
		{ID: 10, Author: "alice", Text: "Found a nasty <i>bug</i> here"},
		{ID: 11, Text: "It&#x27;s awesome<p>really"},
		{ID: 12, Author: "bob", Text: long},
	}}
	out := newReg(t, cat).Invoke(context.Background(), ExtractCommentInsights, Args{"story_id": float64(99)})

	want := "Top 3 comments for story 99:\n\n" +
		"Comment 1 (by alice):\nFound a nasty bug here\n" +
		"\n" +
		"Comment 2 (by anonymous):\nIt's awesome\n\nreally\n" +
		"\n" +
		"Comment 3 (by bob):\n" + strings.Repeat("é", 300) + "...\n" +
		"\n\nKey Themes: Technical Issues, Positive Sentiment"
	require.Equal(t, want, out)
	require.Equal(t, int64(99), cat.gotStory)
	require.Equal(t, 5, cat.gotLimit)
}

func TestExtractCommentInsightsBounds(t *testing.T) {
	cases := []struct {
		raw  any
		want int
	}{
		{nil, 5},
		{float64(0), 5},
		{float64(100), 20},
		{float64(-1), 1},
		{float64(12), 12},
		{0.5, 1},
	}
	for _, c := range cases {
		cat := &fakeCatalog{comments: []domain.Comment{{ID: 1, Text: "x"}}}
		newReg(t, cat).Invoke(context.Background(), ExtractCommentInsights, Args{"story_id": float64(1), "max_comments": c.raw})
		if cat.gotLimit != c.want {
			t.Fatalf("max_comments=%v -> %d, want %d", c.raw, cat.gotLimit, c.want)
		}
	}
}

func TestExtractCommentInsightsInvalidID(t *testing.T) {
	cases := []struct {
		args Args
		show string
	}{
		{Args{}, "missing"},
		{Args{"story_id": float64(0)}, "0"},
		{Args{"story_id": float64(-5)}, "-5"},
		{Args{"story_id": 4.5}, "4.5"},
		{Args{"story_id": "https://news.ycombinator.com/item?id=1"}, "https://news.ycombinator.com/item?id=1"},
	}
	for _, c := range cases {
		cat := &fakeCatalog{}
		out := newReg(t, cat).Invoke(context.Background(), ExtractCommentInsights, c.args)
		want := "Invalid story_id: " + c.show + ". Please pass the numeric Story ID from fetch_top_stories output (e.g. 42415051), not a URL or index number."
		if out != want {
			t.Fatalf("args %v:\n got %q\nwant %q", c.args, out, want)
		}
		if cat.gotStory != 0 {
			t.Fatalf("catalog should not be called for %v", c.args)
		}
	}
}

func TestExtractCommentInsightsEmpty(t *testing.T) {
	out := newReg(t, &fakeCatalog{}).Invoke(context.Background(), ExtractCommentInsights, Args{"story_id": json.Number("123")})
	require.Equal(t, "No comments found for story 123.", out)
}

func TestGeneralDiscussionTheme(t *testing.T) {
	cat := &fakeCatalog{comments: []domain.Comment{{ID: 1, Author: "x", Text: "nice weather"}}}
	out := newReg(t, cat).Invoke(context.Background(), ExtractCommentInsights, Args{"story_id": float64(5)})
	require.True(t, strings.HasSuffix(out, "\n\nKey Themes: General Discussion"), out)
}

func TestPreview(t *testing.T) {
	short := strings.Repeat("a", 300)
	require.Equal(t, short, Preview(short))
	require.Equal(t, short+"...", Preview(short+"b"))
	require.Equal(t, "", Preview(""))
}

func TestInvokeUnknownTool(t *testing.T) {
	out := newReg(t, &fakeCatalog{}).Invoke(context.Background(), "summon_dragon", Args{})
	require.Equal(t, "Unknown tool: summon_dragon", out)
}

func TestInvokeRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: "info", Format: "json", Writer: &buf})
	m := metrics.New(nil)

	cat := &fakeCatalog{panicMsg: "kaboom"}
	out := newReg(t, cat, WithLogger(log), WithMetrics(m)).Invoke(context.Background(), FetchTopStories, Args{})
	require.Equal(t, "Error fetching stories: kaboom", out)

	testkit.MustContain(t, buf.String(), `"message":"tool panicked"`)
	testkit.MustContain(t, buf.String(), `"result":"panic"`)
	n, err := testutil.GatherAndCount(m.Registry(), "hnagent_tool_invocations_total")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestInvokeLogsInvocationID(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: "info", Format: "json", Writer: &buf})

	newReg(t, &fakeCatalog{}, WithLogger(log)).Invoke(context.Background(), FetchTopStories, Args{})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	var ids []string
	for _, ln := range lines {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(ln), &rec))
		if id, ok := rec["invocation_id"].(string); ok {
			ids = append(ids, id)
		}
	}
	require.GreaterOrEqual(t, len(ids), 3) // started, handler line, finished
	for _, id := range ids {
		require.Equal(t, ids[0], id)
	}
	require.Len(t, ids[0], 36)
}

func TestValidate(t *testing.T) {
	noop := func(context.Context, Args) string { return "" }
	cases := []struct {
		name  string
		descs []Descriptor
		field string
	}{
		{"empty name", []Descriptor{{Handler: noop}}, "name"},
		{"camel case", []Descriptor{{Name: "fetchStories", Handler: noop}}, "name"},
		{"nil handler", []Descriptor{{Name: "x"}}, "handler"},
		{"duplicate", []Descriptor{{Name: "a", Handler: noop}, {Name: "a", Handler: noop}}, "name"},
		{"param name", []Descriptor{{Name: "a", Handler: noop, Params: []Param{{Name: "Bad", Max: 1}}}}, "a.Bad"},
		{"duplicate param", []Descriptor{{Name: "a", Handler: noop, Params: []Param{{Name: "n", Max: 1}, {Name: "n", Max: 1}}}}, "a.n"},
		{"min above max", []Descriptor{{Name: "a", Handler: noop, Params: []Param{{Name: "n", Min: 5, Max: 1, Required: true}}}}, "a.n"},
		{"default out of range", []Descriptor{{Name: "a", Handler: noop, Params: []Param{{Name: "n", Min: 1, Max: 10, Default: 11}}}}, "a.n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewRegistry(tc.descs).Validate()
			require.Error(t, err)
			require.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
			e, ok := perr.As(err)
			require.True(t, ok)
			require.Equal(t, tc.field, e.Field())
		})
	}
}

func TestValidateBuiltins(t *testing.T) {
	r := NewRegistry(Descriptors(&fakeCatalog{}, DefaultOptions()))
	require.NoError(t, r.Validate())

	names := []string{}
	for _, d := range r.List() {
		names = append(names, d.Name)
	}
	require.Equal(t, []string{FetchTopStories, ExtractCommentInsights}, names)

	d, ok := r.Lookup(ExtractCommentInsights)
	require.True(t, ok)
	require.True(t, d.Params[0].Required)
	require.Equal(t, 20, d.Params[1].Max)
}

func TestMustNewPanicsOnBadSet(t *testing.T) {
	testkit.MustPanic(t, func() { MustNew([]Descriptor{{Name: "Bad"}}) })
	testkit.MustPanic(t, func() { Descriptors(nil, DefaultOptions()) })
}

func TestOptionsNormalized(t *testing.T) {
	o := Options{DefaultStories: 50, MaxStories: 0, DefaultComments: -1, MaxComments: 20}.normalized()
	require.Equal(t, Options{DefaultStories: 1, MaxStories: 1, DefaultComments: 1, MaxComments: 20}, o)
}
