package domain

import (
	"context"

	"hnagent/internal/adapters/hn"
)

// ItemSource is the retrying upstream the catalog reads from
type ItemSource interface {
	TopStoryIDs(ctx context.Context) ([]ItemID, error)
	Item(ctx context.Context, id ItemID) (hn.Item, error)
}

// ServicePort is consumed by the tool layer and the HTTP handlers
// Both operations return an empty, non nil slice instead of an error
type ServicePort interface {
	TopStories(ctx context.Context, count int) []Story
	Comments(ctx context.Context, storyID ItemID, limit int) []Comment
}
