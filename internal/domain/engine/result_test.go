package engine

import "testing"

func TestSnippet(t *testing.T) {
	r := &Result{Highlighting: map[string]map[string][]string{
		"a": {"title": {"first <em>hit</em>", "second"}},
		"b": {},
		"c": {"teaser": {}, "body": {"from body"}},
	}}

	if s, ok := r.Snippet("a"); !ok || s != "first <em>hit</em>" {
		t.Errorf("Snippet(a) = %q, %v", s, ok)
	}
	if _, ok := r.Snippet("b"); ok {
		t.Error("Snippet(b) should be absent")
	}
	if _, ok := r.Snippet("missing"); ok {
		t.Error("Snippet(missing) should be absent")
	}
	if s, _ := r.Snippet("c"); s != "from body" {
		t.Errorf("Snippet(c) = %q", s)
	}
}

func TestFacets_Merge(t *testing.T) {
	r := &Result{
		FacetDates:  map[string]any{"release_date": map[string]any{"2013-01-01T00:00:00Z": 3}},
		FacetFields: map[string]any{"author": []any{"Jane Doe", 2}},
	}
	f := r.Facets()
	if len(f) != 2 {
		t.Fatalf("expected 2 facets, got %d", len(f))
	}
	if _, ok := f["release_date"]; !ok {
		t.Error("missing date facet")
	}
	if _, ok := f["author"]; !ok {
		t.Error("missing field facet")
	}
}

func TestDocStrings(t *testing.T) {
	d := Doc{
		"single": "x",
		"empty":  "",
		"list":   []any{"a", 1, "", "b"},
		"typed":  []string{"q"},
		"number": 4,
	}
	tests := []struct {
		key  string
		want int
	}{
		{"single", 1},
		{"empty", 0},
		{"list", 2},
		{"typed", 1},
		{"number", 0},
		{"absent", 0},
	}
	for _, tc := range tests {
		if got := d.Strings(tc.key); len(got) != tc.want {
			t.Errorf("Strings(%q) = %v, want %d items", tc.key, got, tc.want)
		}
	}
	if d.String("list") != "a" {
		t.Errorf("String(list) = %q", d.String("list"))
	}
}
