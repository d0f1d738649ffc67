// Package engine holds the search engine's result shape as seen by queries.
package engine

import "sort"

// Doc is one search engine document.
type Doc map[string]any

// Result is a decoded search engine response.
type Result struct {
	Found        int64
	Start        int64
	Docs         []Doc
	Highlighting map[string]map[string][]string
	FacetDates   map[string]any
	FacetFields  map[string]any
}

// Snippet returns the first highlighted fragment for the given document id.
// Fields are visited in name order.
func (r *Result) Snippet(id string) (string, bool) {
	hl, ok := r.Highlighting[id]
	if !ok || len(hl) == 0 {
		return "", false
	}
	names := make([]string, 0, len(hl))
	for name := range hl {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if frags := hl[name]; len(frags) > 0 {
			return frags[0], true
		}
	}
	return "", false
}

// Facets merges date and field facet counts into one map.
func (r *Result) Facets() map[string]any {
	out := make(map[string]any, len(r.FacetDates)+len(r.FacetFields))
	for k, v := range r.FacetDates {
		out[k] = v
	}
	for k, v := range r.FacetFields {
		out[k] = v
	}
	return out
}

// Strings reads a document value that may be a single string or a list.
func (d Doc) Strings(key string) []string {
	switch v := d[key].(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// String reads a single text value.
func (d Doc) String(key string) string {
	if s := d.Strings(key); len(s) > 0 {
		return s[0]
	}
	return ""
}
