package query

import (
	"context"
	"fmt"

	"github.com/zeit-online/contentapi/internal/domain/param"
	domref "github.com/zeit-online/contentapi/internal/domain/reference"
)

var referenceDocs = map[domref.Entity]string{
	domref.Author:     "Search query for content authors.",
	domref.Department: "Search query for newspaper departments.",
	domref.Keyword:    "Search query for available keywords.",
	domref.Product:    "Search query for publication products.",
	domref.Series:     "Search query for article series.",
}

// Reference searches one reference entity table by value pattern.
type Reference struct {
	env    *Env
	entity domref.Entity

	q      *param.Pattern
	fields *param.Fields
	limit  *param.Int
	offset *param.Int
	params *param.Set
}

// NewReference creates a reference search for entity e.
func NewReference(env *Env, e domref.Entity) *Reference {
	r := &Reference{
		env:    env,
		entity: e,
		q:      param.NewPattern(),
		fields: param.NewFields(joinCSV(e.Columns()), ""),
		limit:  param.NewLimit(),
		offset: param.NewOffset(),
	}
	r.params = param.NewSet(r.q, r.fields, r.limit, r.offset)
	return r
}

// Doc describes the query.
func (r *Reference) Doc() string { return referenceDocs[r.entity] }

// Params returns the query parameters.
func (r *Reference) Params() *param.Set { return r.params }

// Fetch runs the search and projects the selected fields.
func (r *Reference) Fetch(ctx context.Context) (Body, error) {
	rows, err := r.env.References.Search(ctx, r.entity, r.q.Value(), r.offset.Int(), r.limit.Int())
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", r.entity, err)
	}
	found, err := r.env.References.Count(ctx, r.entity, r.q.Value())
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", r.entity, err)
	}

	selected := r.fields.Items()
	matches := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]any, len(selected))
		for _, f := range selected {
			m[f], _ = row.Field(f)
		}
		matches = append(matches, m)
	}

	return Body{
		"matches": matches,
		"found":   found,
		"limit":   r.limit.Int(),
		"offset":  r.offset.Int(),
	}, nil
}
