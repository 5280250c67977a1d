package domain

import (
	"hnagent/internal/adapters/hn"
	perr "hnagent/internal/platform/errors"
)

// NormalizeStory copies the story fields off a raw item, defaulting what is missing
func NormalizeStory(raw hn.Item) Story {
	kids := make([]ItemID, len(raw.Kids))
	copy(kids, raw.Kids)
	return Story{
		ID:         raw.ID,
		Title:      deref(raw.Title),
		URL:        deref(raw.URL),
		Score:      derefInt(raw.Score),
		Author:     deref(raw.By),
		CreatedAt:  raw.Time,
		ChildCount: derefInt(raw.Descendants),
		ChildIDs:   kids,
	}
}

// NormalizeComment accepts only items typed "comment"; anything else is ErrRejected
func NormalizeComment(raw hn.Item) (Comment, error) {
	if raw.Type != hn.TypeComment {
		return Comment{}, perr.Wrapf(ErrRejected, perr.ErrorCodeValidation, "item %d has type %q", raw.ID, raw.Type)
	}
	return Comment{
		ID:        raw.ID,
		Text:      deref(raw.Text),
		Author:    deref(raw.By),
		CreatedAt: raw.Time,
		Score:     derefInt(raw.Score),
	}, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil || *p < 0 {
		return 0
	}
	return *p
}
