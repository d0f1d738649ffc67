package param

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/zeit-online/contentapi/internal/domain"
)

func TestString_DefaultAndOrigin(t *testing.T) {
	p := NewString("sort", "", "release_date desc")
	if p.Origin() != "sort" {
		t.Errorf("origin should fall back to key, got %q", p.Origin())
	}
	if p.Value() != "release_date desc" {
		t.Errorf("value = %q", p.Value())
	}
	_ = p.Set("title asc")
	if p.Value() != "title asc" {
		t.Errorf("value = %q", p.Value())
	}
	_ = p.Set("")
	if p.Value() != "release_date desc" {
		t.Errorf("empty value should fall back to default, got %q", p.Value())
	}

	internal := NewString("", "fq", "uuid:1")
	if internal.Key() != "" || internal.Origin() != "fq" {
		t.Errorf("internal param key=%q origin=%q", internal.Key(), internal.Origin())
	}
}

func TestPattern(t *testing.T) {
	p := NewPattern()
	if p.Key() != "q" || p.Value() != "%" {
		t.Fatalf("key=%q value=%q", p.Key(), p.Value())
	}
	if err := p.Set("Ber*n*"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Value() != "Ber%n%" {
		t.Errorf("value = %q", p.Value())
	}

	err := p.Set(strings.Repeat("ü", MaxPatternLen))
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
	if p.Value() != "Ber%n%" {
		t.Errorf("failed Set must keep previous value, got %q", p.Value())
	}
	if err := p.Set(strings.Repeat("ü", MaxPatternLen-1)); err != nil {
		t.Errorf("1023 characters should pass: %v", err)
	}
	if err := p.Set(strings.Repeat("ü", 600)); err != nil {
		t.Errorf("600 two-byte characters should pass: %v", err)
	}
}

func TestFacetDate(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"1month", "+1MONTH", false},
		{"999day", "+999DAY", false},
		{"12year", "+12YEAR", false},
		{"1000day", "", true},
		{"month", "", true},
		{"+1month", "", true},
		{"1week", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			p := NewFacetDate()
			err := p.Set(tc.raw)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrBadRequest) {
					t.Fatalf("expected ErrBadRequest, got %v", err)
				}
				if p.Value() != "" {
					t.Errorf("value should stay empty, got %q", p.Value())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Value() != tc.want {
				t.Errorf("value = %q, want %q", p.Value(), tc.want)
			}
		})
	}
	if NewFacetDate().Origin() != "facet.date.gap" {
		t.Error("wrong origin")
	}
}

func TestFacetField(t *testing.T) {
	p := NewFacetField()
	for _, ok := range []string{"department", "product", "sub_department", "keyword", "author", "series"} {
		if err := p.Set(ok); err != nil {
			t.Errorf("Set(%q): %v", ok, err)
		}
	}
	if err := p.Set("title"); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("expected ErrBadRequest, got %v", err)
	}
	if p.Value() != "series" {
		t.Errorf("value = %q", p.Value())
	}
	if p.Origin() != "facet.field" {
		t.Errorf("origin = %q", p.Origin())
	}
}

func TestLimit(t *testing.T) {
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"0", false},
		{"10", false},
		{"1024", false},
		{"1025", true},
		{"-1", true},
		{"ten", true},
		{"1.5", true},
		{"", true},
		{"99999999999999999999999", true},
	}
	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			p := NewLimit()
			err := p.Set(tc.raw)
			if tc.wantErr != (err != nil) {
				t.Fatalf("Set(%q) err = %v, wantErr %v", tc.raw, err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrBadRequest) {
				t.Errorf("expected ErrBadRequest, got %v", err)
			}
		})
	}

	p := NewLimit()
	if p.Int() != 10 || p.Origin() != "rows" {
		t.Errorf("default limit=%d origin=%q", p.Int(), p.Origin())
	}
}

func TestOffset_NoUpperBound(t *testing.T) {
	p := NewOffset()
	if p.Int() != 0 || p.Origin() != "start" {
		t.Fatalf("default offset=%d origin=%q", p.Int(), p.Origin())
	}
	if err := p.Set("500000"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Int() != 500000 {
		t.Errorf("offset = %d", p.Int())
	}
	if err := p.Set("x"); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("expected ErrBadRequest, got %v", err)
	}

	for _, raw := range []string{"99999999999999999999999", "2147483648"} {
		if err := p.Set(raw); err != nil {
			t.Fatalf("Set(%q): %v", raw, err)
		}
		if p.Int() != MaxOffset || p.Value() != "2147483647" {
			t.Errorf("Set(%q) = %q, want clamped to MaxOffset", raw, p.Value())
		}
	}
}

func TestList_ItemsIntersectAllowed(t *testing.T) {
	l := NewList("fields", "", "categories,creators,title,uuid")
	if got := strings.Join(l.Items(), ","); got != "categories,creators,title,uuid" {
		t.Errorf("default items = %q", got)
	}
	if err := l.Set("title,uuid,title"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Join(l.Items(), ","); got != "title,uuid" {
		t.Errorf("items = %q", got)
	}
	if err := l.Set("title,bogus"); !errors.Is(err, domain.ErrBadRequest) {
		t.Errorf("expected ErrBadRequest, got %v", err)
	}
	if !l.Has("uuid") || l.Has("creators") {
		t.Error("Has should reflect previous valid value")
	}
}

func TestFields(t *testing.T) {
	def := "subtitle,uuid,title,href"

	t.Run("default", func(t *testing.T) {
		f := NewFields(def, "uuid")
		if f.Value() != def || f.Explicit() != nil {
			t.Errorf("value=%q explicit=%v", f.Value(), f.Explicit())
		}
		if f.Origin() != "fl" || f.Key() != "fields" {
			t.Errorf("key=%q origin=%q", f.Key(), f.Origin())
		}
	})

	t.Run("enforced field prepended", func(t *testing.T) {
		f := NewFields(def, "uuid")
		if err := f.Set("title"); err != nil {
			t.Fatal(err)
		}
		if f.Value() != "uuid,title" {
			t.Errorf("value = %q", f.Value())
		}
		if strings.Join(f.Explicit(), ",") != "title" {
			t.Errorf("explicit = %v", f.Explicit())
		}
		if !f.Has("uuid") || !f.Has("title") || f.Has("href") {
			t.Errorf("items = %v", f.Items())
		}
	})

	t.Run("enforced field already present", func(t *testing.T) {
		f := NewFields(def, "uuid")
		_ = f.Set("title,uuid")
		if f.Value() != "title,uuid" {
			t.Errorf("value = %q", f.Value())
		}
	})

	t.Run("wildcard selects defaults", func(t *testing.T) {
		f := NewFields(def, "uuid")
		if err := f.Set("*"); err != nil {
			t.Fatal(err)
		}
		if f.Value() != def {
			t.Errorf("value = %q", f.Value())
		}
		if len(f.Explicit()) != 4 {
			t.Errorf("explicit = %v", f.Explicit())
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		f := NewFields(def, "")
		if err := f.Set("title,body"); !errors.Is(err, domain.ErrBadRequest) {
			t.Fatalf("expected ErrBadRequest, got %v", err)
		}
		if f.Value() != def {
			t.Errorf("value should stay default, got %q", f.Value())
		}
	})
}

func TestSet_Bind(t *testing.T) {
	q := NewPattern()
	limit := NewLimit()
	fq := NewString("", "fq", "author:x")
	s := NewSet(q, limit, fq)

	err := s.Bind(url.Values{
		"q":        {"Ber*", "ignored"},
		"limit":    {"5"},
		"callback": {"cb"},
		"api_key":  {"k"},
		"unknown":  {"1"},
		"fq":       {"evil"},
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Value() != "Ber%" {
		t.Errorf("q = %q", q.Value())
	}
	if limit.Value() != "5" {
		t.Errorf("limit = %q", limit.Value())
	}
	if fq.Value() != "author:x" {
		t.Errorf("internal param must not be bindable, got %q", fq.Value())
	}
}

func TestSet_BindError(t *testing.T) {
	s := NewSet(NewLimit())
	err := s.Bind(url.Values{"limit": {"2000"}}, zap.NewNop())
	if !errors.Is(err, domain.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest, got %v", err)
	}
}

func TestSet_OutboundAndDefaults(t *testing.T) {
	facet := NewFacetField()
	s := NewSet(NewString("q", "", "*:*"), NewLimit(), facet, NewString("", "fq", "uuid:1"))

	out := s.Outbound()
	if out.Get("q") != "*:*" || out.Get("rows") != "10" || out.Get("fq") != "uuid:1" {
		t.Errorf("outbound = %v", out)
	}
	if _, ok := out["facet.field"]; ok {
		t.Error("empty values must be omitted")
	}

	d := s.Defaults()
	if len(d) != 3 {
		t.Fatalf("defaults = %v", d)
	}
	if d["limit"] != "10" || d["facet_field"] != "" {
		t.Errorf("defaults = %v", d)
	}
	if _, ok := d[""]; ok {
		t.Error("internal params must not appear in defaults")
	}
}
