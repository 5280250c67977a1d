// Package themes tags a set of comments with coarse keyword groups
package themes

import (
	"strings"

	"hnagent/internal/core/normalize"
)

// General is returned when no group matches
const General = "General Discussion"

// Group is a named keyword set; a group matches when any keyword is a substring of the text
type Group struct {
	Name     string
	Keywords []string
}

// groups are checked in this order and reported in this order
var groups = []Group{
	{Name: "Technical Issues", Keywords: []string{"bug", "issue", "problem", "error"}},
	{Name: "Positive Sentiment", Keywords: []string{"love", "great", "amazing", "awesome"}},
	{Name: "Performance", Keywords: []string{"performance", "speed", "fast", "slow"}},
	{Name: "Security & Privacy", Keywords: []string{"security", "privacy", "vulnerability"}},
	{Name: "AI & ML", Keywords: []string{"ai", "llm", "gpt", "model", "machine learning"}},
}

// Groups returns a copy of the fixed vocabulary
func Groups() []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Name: g.Name, Keywords: append([]string(nil), g.Keywords...)}
	}
	return out
}

// Extractor matches folded text against the vocabulary
type Extractor struct {
	norm *normalize.Normalizer
}

// New constructs an Extractor
func New() *Extractor { return &Extractor{norm: normalize.New()} }

// Match returns the names of every matching group in vocabulary order
func (e *Extractor) Match(texts ...string) []string {
	hay := e.norm.Normalize(strings.Join(texts, " "))
	if hay == "" {
		return nil
	}
	var out []string
	for _, g := range groups {
		for _, kw := range g.Keywords {
			if strings.Contains(hay, kw) {
				out = append(out, g.Name)
				break
			}
		}
	}
	return out
}

// Extract returns the matching group names joined by ", ", or General
func (e *Extractor) Extract(texts ...string) string {
	names := e.Match(texts...)
	if len(names) == 0 {
		return General
	}
	return strings.Join(names, ", ")
}
