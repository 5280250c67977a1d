package hn

import (
	"context"
	"fmt"
)

// TopStoryIDs fetches the ranked front page id list
func (c *Client) TopStoryIDs(ctx context.Context) ([]int64, error) {
	ids, err := FetchJSON[[]int64](ctx, c, "/topstories.json")
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Item fetches one item by id, consulting the cache first when enabled
func (c *Client) Item(ctx context.Context, id int64) (Item, error) {
	if it, ok := c.cache.Get(id); ok {
		return it, nil
	}

	out, err := FetchJSON[Item](ctx, c, fmt.Sprintf("/item/%d.json", id))
	if err != nil {
		return Item{}, err
	}
	if out.ID == 0 {
		out.ID = id
	}
	c.cache.Put(out)
	return out, nil
}
