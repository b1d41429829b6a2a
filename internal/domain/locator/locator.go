// Package locator resolves dot-separated field locators against decoded JSON values.
//
// A locator such as "results.0.lightningNumbers" walks maps by key and
// sequences by index. Resolution is total: any step that cannot be taken
// yields the caller-supplied default rather than an error or a panic.
package locator

import (
	"strconv"
	"strings"
)

// Separator splits locator segments.
const Separator = "."

// Split returns the non-empty segments of a locator.
// Leading, trailing and doubled separators produce no segments.
func Split(locator string) []string {
	if locator == "" {
		return nil
	}
	parts := strings.Split(locator, Separator)
	segments := parts[:0]
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// Lookup walks value along locator and reports whether every segment resolved.
// An empty locator returns value unchanged.
func Lookup(value any, locator string) (any, bool) {
	cur := value
	for _, seg := range Split(locator) {
		next, ok := step(cur, seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Resolve walks value along locator, returning def as soon as a segment
// cannot be resolved.
func Resolve(value any, locator string, def any) any {
	v, ok := Lookup(value, locator)
	if !ok {
		return def
	}
	return v
}

// step descends one segment into cur.
func step(cur any, seg string) (any, bool) {
	switch node := cur.(type) {
	case []any:
		idx, ok := index(seg)
		if !ok || idx >= len(node) {
			return nil, false
		}
		return node[idx], true
	case []map[string]any:
		idx, ok := index(seg)
		if !ok || idx >= len(node) {
			return nil, false
		}
		return node[idx], true
	case map[string]any:
		v, ok := node[seg]
		return v, ok
	default:
		return nil, false
	}
}

// index parses an all-digit segment. Signs, spaces and other characters are rejected.
func index(seg string) (int, bool) {
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(seg)
	if err != nil {
		// all digits but overflowing int: out of range for any real slice
		return 0, false
	}
	return n, true
}
