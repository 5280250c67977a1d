package tools

import (
	"context"

	"hnagent/internal/core/normalize"
	"hnagent/internal/core/themes"
	"hnagent/internal/platform/logger"
	"hnagent/internal/services/catalog/domain"
)

// Tool names
const (
	FetchTopStories        = "fetch_top_stories"
	ExtractCommentInsights = "extract_comment_insights"
)

// Descriptors enumerates every tool backed by the catalog
func Descriptors(cat domain.ServicePort, opts Options) []Descriptor {
	if cat == nil {
		panic("tools.Descriptors requires a non nil catalog")
	}
	h := &handlers{cat: cat, opts: opts.normalized(), themes: themes.New()}
	return []Descriptor{
		{
			Name: FetchTopStories,
			Description: "Fetches the top N trending stories from Hacker News. " +
				"Returns story ID, title, score, comment count, URL, and engagement metrics.",
			Params: []Param{{
				Name:        "num_stories",
				Description: "Number of top stories to fetch (1-10). Default is 5.",
				Default:     h.opts.DefaultStories,
				Min:         1,
				Max:         h.opts.MaxStories,
			}},
			FailMessage: "Error fetching stories",
			Handler:     h.fetchTopStories,
		},
		{
			Name: ExtractCommentInsights,
			Description: "Extracts top comments and discussion themes from a Hacker News story. " +
				"Requires the numeric Story ID (integer) from fetch_top_stories output.",
			Params: []Param{
				{
					Name: "story_id",
					Description: "Numeric Hacker News story ID (e.g. 42415051). " +
						"Get this from the 'Story ID' field in fetch_top_stories output.",
					Required: true,
					Min:      1,
					Max:      maxStoryID,
				},
				{
					Name:        "max_comments",
					Description: "Maximum number of top comments to analyze (default: 5)",
					Default:     h.opts.DefaultComments,
					Min:         1,
					Max:         h.opts.MaxComments,
				},
			},
			FailMessage: "Error extracting insights",
			Handler:     h.extractCommentInsights,
		},
	}
}

// maxStoryID bounds the advertised schema; ids are far below it
const maxStoryID = 1<<31 - 1

type handlers struct {
	cat    domain.ServicePort
	opts   Options
	themes *themes.Extractor
}

func (h *handlers) fetchTopStories(ctx context.Context, args Args) string {
	n := min(max(args.IntOr("num_stories", h.opts.DefaultStories), 1), h.opts.MaxStories)
	logger.C(ctx).Info().Int("num_stories", n).Msg("fetching top stories")

	stories := h.cat.TopStories(ctx, n)
	if len(stories) == 0 {
		return NoStoriesMessage
	}
	return FormatStories(stories)
}

func (h *handlers) extractCommentInsights(ctx context.Context, args Args) string {
	id, ok := args.Int("story_id")
	if !ok || id < 1 {
		return InvalidStoryID(args.Display("story_id"))
	}
	n := min(max(args.IntOr("max_comments", h.opts.DefaultComments), 1), h.opts.MaxComments)
	logger.C(ctx).Info().Int64("story_id", id).Int("max_comments", n).Msg("extracting comment insights")

	comments := h.cat.Comments(ctx, id, n)
	if len(comments) == 0 {
		return NoComments(id)
	}

	texts := make([]string, len(comments))
	for i, c := range comments {
		texts[i] = normalize.TextFromHTML(c.Text)
	}
	return FormatComments(id, comments, texts, h.themes.Extract(texts...))
}
