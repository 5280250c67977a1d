package hn

// Item is the raw Firebase item document; every field is optional upstream
// Stories and comments share the shape, Type tells them apart
type Item struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type,omitempty"`
	By          *string `json:"by,omitempty"`
	Time        int64   `json:"time,omitempty"`
	Text        *string `json:"text,omitempty"`
	URL         *string `json:"url,omitempty"`
	Title       *string `json:"title,omitempty"`
	Score       *int    `json:"score,omitempty"`
	Descendants *int    `json:"descendants,omitempty"`
	Kids        []int64 `json:"kids,omitempty"`
	Parent      int64   `json:"parent,omitempty"`
	Dead        bool    `json:"dead,omitempty"`
	Deleted     bool    `json:"deleted,omitempty"`
}

// Item types as reported by the API
const (
	TypeStory   = "story"
	TypeComment = "comment"
	TypeJob     = "job"
	TypePoll    = "poll"
)

// Gone reports whether the item was deleted or killed by moderators
func (it Item) Gone() bool { return it.Deleted || it.Dead }
