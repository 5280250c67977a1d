package tools

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"hnagent/internal/services/catalog/domain"
)

// Fixed answers for empty and invalid cases
const (
	NoStoriesMessage = "No stories found on Hacker News right now."
	noCommentsFormat = "No comments found for story %d."
	invalidIDFormat  = "Invalid story_id: %s. Please pass the numeric Story ID from fetch_top_stories output (e.g. 42415051), not a URL or index number."
)

// CommentPreviewRunes is how much comment text is shown before the ellipsis
const CommentPreviewRunes = 300

// Ratio renders score per comment with one decimal; the denominator is floored at 1
func Ratio(score, comments int) string {
	return fmt.Sprintf("%.1f", float64(score)/float64(max(comments, 1)))
}

// FormatStories renders one numbered block per story, blocks joined by a newline
func FormatStories(stories []domain.Story) string {
	blocks := make([]string, 0, len(stories))
	for i, s := range stories {
		var b strings.Builder
		fmt.Fprintf(&b, "#%d\n", i+1)
		fmt.Fprintf(&b, "Story ID: %d\n", s.ID)
		fmt.Fprintf(&b, "Title: %s\n", or(s.Title, "N/A"))
		fmt.Fprintf(&b, "Score: %d | Comments: %d | Score/Comment ratio: %s\n", s.Score, s.ChildCount, Ratio(s.Score, s.ChildCount))
		fmt.Fprintf(&b, "URL: %s\n", or(s.URL, "N/A"))
		fmt.Fprintf(&b, "Author: %s\n", or(s.Author, "Unknown"))
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n")
}

// FormatComments renders the comment listing followed by the theme line
// texts must already be display text, aligned with comments
func FormatComments(storyID domain.ItemID, comments []domain.Comment, texts []string, themes string) string {
	items := make([]string, 0, len(comments))
	for i, c := range comments {
		items = append(items, fmt.Sprintf("Comment %d (by %s):\n%s\n", i+1, or(c.Author, "anonymous"), Preview(texts[i])))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Top %d comments for story %d:\n\n", len(comments), storyID)
	b.WriteString(strings.Join(items, "\n"))
	b.WriteString("\n\nKey Themes: ")
	b.WriteString(themes)
	return b.String()
}

// Preview cuts text to CommentPreviewRunes runes and appends "..." when it was longer
func Preview(text string) string {
	if utf8.RuneCountInString(text) <= CommentPreviewRunes {
		return text
	}
	n := 0
	for i := range text {
		if n == CommentPreviewRunes {
			return text[:i] + "..."
		}
		n++
	}
	return text
}

// NoComments is the answer for a story without readable comments
func NoComments(storyID domain.ItemID) string { return fmt.Sprintf(noCommentsFormat, storyID) }

// InvalidStoryID is the answer for a story_id that is not a positive whole number
func InvalidStoryID(raw string) string { return fmt.Sprintf(invalidIDFormat, raw) }

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
