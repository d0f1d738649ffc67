package param

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxPatternLen bounds SQL search patterns, in characters.
const MaxPatternLen = 1024

// String accepts any text.
type String struct{ base }

// NewString creates a text parameter. An empty key makes it internal.
func NewString(key, origin, def string) *String {
	return &String{base{key: key, origin: origin, def: def}}
}

// Set stores raw as is.
func (p *String) Set(raw string) error {
	p.value = raw
	return nil
}

// Pattern is a SQL LIKE pattern; "*" is accepted as wildcard.
type Pattern struct{ base }

// NewPattern creates the "q" pattern parameter matching everything by default.
func NewPattern() *Pattern {
	return &Pattern{base{key: "q", def: "%"}}
}

// Set validates the length and rewrites "*" to "%".
func (p *Pattern) Set(raw string) error {
	if utf8.RuneCountInString(raw) >= MaxPatternLen {
		return invalid(&p.base, "pattern longer than %d characters", MaxPatternLen-1)
	}
	p.value = strings.ReplaceAll(raw, "*", "%")
	return nil
}

var facetGap = regexp.MustCompile(`^[0-9]{1,3}(day|month|year)$`)

// FacetDate is a date facet gap such as "1month", forwarded as "+1MONTH".
type FacetDate struct{ base }

// NewFacetDate creates the facet_date parameter.
func NewFacetDate() *FacetDate {
	return &FacetDate{base{key: "facet_date", origin: "facet.date.gap"}}
}

// Set validates the gap syntax and normalizes it.
func (p *FacetDate) Set(raw string) error {
	if !facetGap.MatchString(raw) {
		return invalid(&p.base, "invalid gap %q", raw)
	}
	p.value = "+" + strings.ToUpper(raw)
	return nil
}

var facetFields = map[string]struct{}{
	"department":     {},
	"product":        {},
	"sub_department": {},
	"keyword":        {},
	"author":         {},
	"series":         {},
}

// FacetField selects the field to facet on.
type FacetField struct{ base }

// NewFacetField creates the facet_field parameter.
func NewFacetField() *FacetField {
	return &FacetField{base{key: "facet_field", origin: "facet.field"}}
}

// Set accepts only facetable fields.
func (p *FacetField) Set(raw string) error {
	if _, ok := facetFields[raw]; !ok {
		return invalid(&p.base, "field %q is not facetable", raw)
	}
	p.value = raw
	return nil
}
