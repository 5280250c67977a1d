package tools

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Args are the loosely typed arguments a tool receives from a transport
// JSON numbers arrive as float64 from MCP and as json.Number from the HTTP binder
type Args map[string]any

// Raw returns the argument as sent and whether it was present and non null
func (a Args) Raw(name string) (any, bool) {
	v, ok := a[name]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Int returns the argument as an integer when it is a whole number
func (a Args) Int(name string) (int64, bool) {
	v, ok := a.Raw(name)
	if !ok {
		return 0, false
	}
	f, ok := number(v)
	if !ok || f != math.Trunc(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

// IntOr returns the argument truncated toward zero, or def when it is absent, exactly zero or not a number
// A fraction such as 0.5 truncates to 0 rather than falling back, so callers clamping to 1 land on 1
func (a Args) IntOr(name string, def int) int {
	v, ok := a.Raw(name)
	if !ok {
		return def
	}
	f, ok := number(v)
	if !ok || f == 0 || math.IsInf(f, 0) {
		return def
	}
	return int(math.Trunc(max(min(f, math.MaxInt32), math.MinInt32)))
}

// Display renders an argument for user facing messages
func (a Args) Display(name string) string {
	v, ok := a.Raw(name)
	if !ok {
		return "missing"
	}
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), !math.IsNaN(float64(n))
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
