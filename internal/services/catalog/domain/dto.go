package domain

// TopStoriesQuery is the query string of GET /stories/top; zero count means the default
type TopStoriesQuery struct {
	Count int `query:"count" validate:"omitempty,min=1,max=10" example:"5"`
}

// CommentsQuery is the query string of GET /stories/{id}/comments; zero max means the default
type CommentsQuery struct {
	Max int `query:"max" validate:"omitempty,min=1,max=20" example:"5"`
}

// Default page sizes when the caller sends none
const (
	DefaultStories  = 5
	DefaultComments = 5
)
