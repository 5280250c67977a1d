package tools

import (
	"hnagent/internal/platform/config"
	catalogsvc "hnagent/internal/services/catalog/service"
)

// Options holds the defaults and ceilings applied to tool arguments
type Options struct {
	DefaultStories  int
	MaxStories      int
	DefaultComments int
	MaxComments     int
}

// DefaultOptions mirrors the catalog bounds
func DefaultOptions() Options {
	return Options{
		DefaultStories:  5,
		MaxStories:      catalogsvc.MaxStories,
		DefaultComments: 5,
		MaxComments:     catalogsvc.MaxComments,
	}
}

// FromConfig reads tool options with the TOOLS_ prefix
// Maxima above the catalog bounds are cut down to them
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("TOOLS_")
	d := DefaultOptions()
	o := Options{
		DefaultStories:  c.MayInt("DEFAULT_STORIES", d.DefaultStories),
		MaxStories:      min(c.MayInt("MAX_STORIES", d.MaxStories), catalogsvc.MaxStories),
		DefaultComments: c.MayInt("DEFAULT_COMMENTS", d.DefaultComments),
		MaxComments:     min(c.MayInt("MAX_COMMENTS", d.MaxComments), catalogsvc.MaxComments),
	}
	return o.normalized()
}

// normalized keeps every bound at least 1 and every default inside its range
func (o Options) normalized() Options {
	o.MaxStories = max(o.MaxStories, catalogsvc.MinStories)
	o.MaxComments = max(o.MaxComments, catalogsvc.MinComments)
	o.DefaultStories = min(max(o.DefaultStories, catalogsvc.MinStories), o.MaxStories)
	o.DefaultComments = min(max(o.DefaultComments, catalogsvc.MinComments), o.MaxComments)
	return o
}
