// Package service contains the catalog workflows: top stories and story comments
package service

import (
	"context"

	"hnagent/internal/platform/logger"
	"hnagent/internal/services/catalog/domain"
	"hnagent/internal/services/catalog/resolver"
)

// Bounds applied to caller supplied counts
const (
	MinStories  = 1
	MaxStories  = 10
	MinComments = 1
	MaxComments = 20
)

// Svc implements the catalog service
type Svc struct {
	src domain.ItemSource
	res *resolver.Resolver
	log *logger.Logger
}

var _ domain.ServicePort = (*Svc)(nil)

// New constructs a catalog service
func New(src domain.ItemSource, res *resolver.Resolver, log *logger.Logger) *Svc {
	if src == nil {
		panic("catalog.Service requires a non nil ItemSource")
	}
	if res == nil {
		panic("catalog.Service requires a non nil Resolver")
	}
	return &Svc{src: src, res: res, log: logger.Named(log, "catalog")}
}

// TopStories fetches the ranked id list once, keeps the first count ids and resolves them
// A failed id list fetch yields an empty slice
func (s *Svc) TopStories(ctx context.Context, count int) []domain.Story {
	count = clamp(count, MinStories, MaxStories)

	ids, err := s.src.TopStoryIDs(ctx)
	if err != nil {
		s.log.Warn().Err(err).Int("count", count).Msg("top stories id list unavailable")
		return []domain.Story{}
	}
	if len(ids) > count {
		ids = ids[:count]
	}
	return s.res.Stories(ctx, ids)
}

// Comments fetches the story once, keeps its first limit child ids and resolves them as comments
// A missing story, a story without children, or a failed fetch yields an empty slice
func (s *Svc) Comments(ctx context.Context, storyID domain.ItemID, limit int) []domain.Comment {
	limit = clamp(limit, MinComments, MaxComments)

	raw, err := s.src.Item(ctx, storyID)
	if err != nil {
		s.log.Warn().Err(err).Int64("story_id", storyID).Msg("story unavailable for comments")
		return []domain.Comment{}
	}
	story := domain.NormalizeStory(raw)
	kids := story.ChildIDs
	if len(kids) == 0 {
		return []domain.Comment{}
	}
	if len(kids) > limit {
		kids = kids[:limit]
	}
	return s.res.Comments(ctx, kids)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
