package param

import "strings"

// List is a comma-separated selection out of the items named by its default.
type List struct {
	base
	allowed map[string]struct{}
}

// NewList creates a list parameter; def is both the default and the allowed set.
func NewList(key, origin, def string) *List {
	l := &List{base: base{key: key, origin: origin, def: def}}
	l.allowed = make(map[string]struct{})
	for _, item := range split(def) {
		l.allowed[item] = struct{}{}
	}
	return l
}

// Set rejects any item outside the allowed set.
func (l *List) Set(raw string) error {
	if err := l.check(raw); err != nil {
		return err
	}
	l.value = raw
	return nil
}

func (l *List) check(raw string) error {
	for _, item := range split(raw) {
		if _, ok := l.allowed[item]; !ok {
			return invalid(&l.base, "unknown item %q", item)
		}
	}
	return nil
}

// Items yields the allowed items of the effective value, in value order.
func (l *List) Items() []string {
	return l.intersect(l.Value())
}

// Has reports whether name is among Items.
func (l *List) Has(name string) bool {
	for _, item := range l.Items() {
		if item == name {
			return true
		}
	}
	return false
}

func (l *List) intersect(value string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range split(value) {
		if _, ok := l.allowed[item]; !ok {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Fields is a field selection. "*" selects the full default set and an
// enforced field is always part of an explicit selection.
type Fields struct {
	List
	enforce string
}

// NewFields creates the "fields" parameter (search engine name "fl").
func NewFields(def, enforce string) *Fields {
	return &Fields{List: *NewList("fields", "fl", def), enforce: enforce}
}

// Set validates the selection; any "*" expands to the default set.
func (f *Fields) Set(raw string) error {
	if strings.Contains(raw, "*") {
		f.value = f.def
		return nil
	}
	return f.List.Set(raw)
}

// Value returns the selection with the enforced field prepended when missing.
func (f *Fields) Value() string {
	if f.value == "" {
		return f.def
	}
	if f.enforce != "" && !contains(split(f.value), f.enforce) {
		return f.enforce + "," + f.value
	}
	return f.value
}

// Items yields the allowed items of the effective value, in value order.
func (f *Fields) Items() []string {
	return f.intersect(f.Value())
}

// Has reports whether name is among Items.
func (f *Fields) Has(name string) bool {
	return contains(f.Items(), name)
}

// Explicit returns the caller's own selection, or nil when none was bound.
func (f *Fields) Explicit() []string {
	if f.value == "" {
		return nil
	}
	return split(f.value)
}

func split(csv string) []string {
	var out []string
	for _, item := range strings.Split(csv, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func contains(items []string, name string) bool {
	for _, item := range items {
		if item == name {
			return true
		}
	}
	return false
}
