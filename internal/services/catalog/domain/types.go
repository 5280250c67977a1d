// Package domain holds catalog records and the ports the catalog talks through
package domain

import perr "hnagent/internal/platform/errors"

// ItemID is the upstream issued item identifier
type ItemID = int64

// Story is a normalized front page entry
// Every field except ID defaults instead of being absent
type Story struct {
	ID         ItemID   `json:"id" example:"42415051"`
	Title      string   `json:"title" example:"Show HN: a tiny scheduler"`
	URL        string   `json:"url,omitempty" example:"https://example.com/post"`
	Score      int      `json:"score" example:"312"`
	Author     string   `json:"author" example:"pg"`
	CreatedAt  int64    `json:"created_at" example:"1735689600"`
	ChildCount int      `json:"child_count" example:"88"`
	ChildIDs   []ItemID `json:"child_ids"`
}

// Comment is a normalized reply to a story
type Comment struct {
	ID        ItemID `json:"id" example:"42415099"`
	Text      string `json:"text" example:"Great write up"`
	Author    string `json:"author,omitempty" example:"dang"`
	CreatedAt int64  `json:"created_at" example:"1735689700"`
	Score     int    `json:"score" example:"0"`
}

// Kind selects which record a batch resolves into
type Kind uint8

const (
	// KindStory resolves items as Story
	KindStory Kind = iota + 1
	// KindComment resolves items as Comment
	KindComment
)

// String returns the metric label for a kind
func (k Kind) String() string {
	switch k {
	case KindStory:
		return "story"
	case KindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// ErrRejected marks a fetched item whose shape does not match the requested kind
var ErrRejected = perr.New(perr.ErrorCodeValidation, "item rejected")
