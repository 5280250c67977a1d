package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"hnagent/internal/services/catalog/domain"
	"hnagent/internal/services/tools"

	"github.com/stretchr/testify/require"
)

type stubCatalog struct{}

func (stubCatalog) TopStories(context.Context, int) []domain.Story {
	return []domain.Story{{ID: 7, Title: "Seven", Score: 21, ChildCount: 3, Author: "pg"}}
}

func (stubCatalog) Comments(context.Context, int64, int) []domain.Comment { return nil }

func newRegistry() *tools.Registry {
	return tools.MustNew(tools.Descriptors(stubCatalog{}, tools.DefaultOptions()))
}

func call(t *testing.T, raw string) map[string]any {
	t.Helper()
	s := New(newRegistry(), Options{Name: "hn-test", Version: "v0.0.1"})
	resp := s.HandleMessage(context.Background(), json.RawMessage(raw))
	b, err := json.Marshal(resp)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func TestToolForSchema(t *testing.T) {
	descs := newRegistry().List()
	tool := ToolFor(descs[1])
	require.Equal(t, tools.ExtractCommentInsights, tool.Name)
	require.Contains(t, tool.Description, "numeric Story ID")
	require.Equal(t, []string{"story_id"}, tool.InputSchema.Required)

	maxComments, ok := tool.InputSchema.Properties["max_comments"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "number", maxComments["type"])
	require.Equal(t, float64(20), maxComments["maximum"])
	require.Equal(t, float64(5), maxComments["default"])
}

func TestListTools(t *testing.T) {
	out := call(t, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	result, ok := out["result"].(map[string]any)
	require.True(t, ok, "%v", out)
	list, ok := result["tools"].([]any)
	require.True(t, ok)

	names := map[string]bool{}
	for _, it := range list {
		names[it.(map[string]any)["name"].(string)] = true
	}
	require.True(t, names[tools.FetchTopStories])
	require.True(t, names[tools.ExtractCommentInsights])
}

func TestCallToolReturnsText(t *testing.T) {
	out := call(t, `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"fetch_top_stories","arguments":{"num_stories":1}}}`)
	result, ok := out["result"].(map[string]any)
	require.True(t, ok, "%v", out)
	content := result["content"].([]any)
	require.Len(t, content, 1)
	text := content[0].(map[string]any)["text"].(string)
	require.Contains(t, text, "Story ID: 7")
	require.Contains(t, text, "Score/Comment ratio: 7.0")
}

func TestCallToolInvalidArgumentIsText(t *testing.T) {
	out := call(t, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"extract_comment_insights","arguments":{"story_id":"abc"}}}`)
	result, ok := out["result"].(map[string]any)
	require.True(t, ok, "%v", out)
	text := result["content"].([]any)[0].(map[string]any)["text"].(string)
	require.Contains(t, text, "Invalid story_id: abc.")
}

func TestNewPanicsOnNilRegistry(t *testing.T) {
	require.Panics(t, func() { New(nil, Options{}) })
}
