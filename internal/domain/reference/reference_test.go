package reference

import "testing"

func TestParse(t *testing.T) {
	for _, e := range All() {
		got, ok := Parse(string(e))
		if !ok || got != e {
			t.Errorf("Parse(%q) = %q, %v", e, got, ok)
		}
	}
	for _, bad := range []string{"", "content", "client", "Author"} {
		if _, ok := Parse(bad); ok {
			t.Errorf("Parse(%q) should fail", bad)
		}
	}
}

func TestColumns_ReturnsCopy(t *testing.T) {
	cols := Keyword.Columns()
	cols[0] = "mutated"
	if Keyword.Columns()[0] != "href" {
		t.Error("Columns must not expose internal slice")
	}
}

func TestIndex(t *testing.T) {
	if got := Series.Index("name"); got != 2 {
		t.Errorf("Series.Index(name) = %d, want 2", got)
	}
	if got := Product.Index("name"); got != -1 {
		t.Errorf("Product.Index(name) = %d, want -1", got)
	}
}

func TestNewRow_FieldsAndMap(t *testing.T) {
	r := NewRow(Department, map[string]any{
		"id":     "wirtschaft",
		"value":  "Wirtschaft",
		"parent": "",
	})

	if got := r.String("id"); got != "wirtschaft" {
		t.Errorf("id = %q", got)
	}
	if got := r.String("href"); got != "" {
		t.Errorf("missing column should be empty, got %q", got)
	}
	if _, ok := r.Field("score"); ok {
		t.Error("department has no score column")
	}

	m := r.Map()
	if len(m) != 5 {
		t.Fatalf("expected 5 columns, got %d", len(m))
	}
	if m["value"] != "Wirtschaft" {
		t.Errorf("value = %v", m["value"])
	}
}

func TestRowString_NonText(t *testing.T) {
	r := Row{Entity: Keyword, Values: []any{"h", "k", "l", int64(42), "subject", "u", "v"}}
	if got := r.String("score"); got != "42" {
		t.Errorf("score = %q, want 42", got)
	}
}
