// Package reference describes the locally stored metadata entities
// (authors, departments, keywords, products, series) and their row layout.
package reference

import "fmt"

// Entity names a reference entity table.
type Entity string

// Reference entities.
const (
	Author     Entity = "author"
	Department Entity = "department"
	Keyword    Entity = "keyword"
	Product    Entity = "product"
	Series     Entity = "series"
)

// columns lists each entity's columns in storage order. The order doubles as
// the default field selection for reference searches.
var columns = map[Entity][]string{
	Author:     {"href", "id", "type", "uri", "value"},
	Department: {"href", "id", "parent", "uri", "value"},
	Keyword:    {"href", "id", "lexical", "score", "type", "uri", "value"},
	Product:    {"href", "id", "uri", "value"},
	Series:     {"href", "id", "name", "uri", "value"},
}

// All returns every entity in a stable order.
func All() []Entity {
	return []Entity{Author, Department, Keyword, Product, Series}
}

// Parse resolves an endpoint token to an entity.
func Parse(s string) (Entity, bool) {
	e := Entity(s)
	_, ok := columns[e]
	return e, ok
}

// Columns returns the entity's column names in storage order.
func (e Entity) Columns() []string {
	cols := columns[e]
	out := make([]string, len(cols))
	copy(out, cols)
	return out
}

// Index returns the position of column name, or -1.
func (e Entity) Index(name string) int {
	for i, c := range columns[e] {
		if c == name {
			return i
		}
	}
	return -1
}

// Row is one stored entity, values aligned with Entity.Columns.
type Row struct {
	Entity Entity
	Values []any
}

// NewRow builds a row from a column->value map. Missing columns are empty strings.
func NewRow(e Entity, fields map[string]any) Row {
	cols := columns[e]
	values := make([]any, len(cols))
	for i, c := range cols {
		if v, ok := fields[c]; ok {
			values[i] = v
		} else {
			values[i] = ""
		}
	}
	return Row{Entity: e, Values: values}
}

// Field returns the value of column name.
func (r Row) Field(name string) (any, bool) {
	i := r.Entity.Index(name)
	if i < 0 || i >= len(r.Values) {
		return nil, false
	}
	return r.Values[i], true
}

// String returns column name formatted as text.
func (r Row) String(name string) string {
	v, ok := r.Field(name)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

// Map returns the row as a column->value map.
func (r Row) Map() map[string]any {
	out := make(map[string]any, len(r.Values))
	for i, c := range columns[r.Entity] {
		if i < len(r.Values) {
			out[c] = r.Values[i]
		}
	}
	return out
}
