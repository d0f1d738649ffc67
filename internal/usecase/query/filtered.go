package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zeit-online/contentapi/internal/db"
	"github.com/zeit-online/contentapi/internal/domain"
	"github.com/zeit-online/contentapi/internal/domain/param"
	domref "github.com/zeit-online/contentapi/internal/domain/reference"
)

// Filtered is a content search restricted to one reference entity, with the
// entity's own row merged into the result.
type Filtered struct {
	*Content

	entity domref.Entity
	id     string
	fq     *param.String
}

// NewFiltered creates a filtered content search. Unknown entities yield
// domain.ErrEndpointNotFound.
func NewFiltered(env *Env, entity, id string) (*Filtered, error) {
	e, ok := domref.Parse(entity)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrEndpointNotFound, entity)
	}
	f := &Filtered{
		Content: NewContent(env),
		entity:  e,
		id:      id,
		fq:      param.NewString("", "fq", entity+":"+id),
	}
	f.params.Add(f.fq)
	return f, nil
}

// Doc describes the query.
func (f *Filtered) Doc() string { return "Pre-filtered search query." }

// Fetch resolves the entity row, narrows the filter and runs the content search.
func (f *Filtered) Fetch(ctx context.Context) (Body, error) {
	row, err := f.env.References.Get(ctx, f.entity, f.id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s/%s", domain.ErrResourceNotFound, f.entity, f.id)
		}
		return nil, fmt.Errorf("load %s: %w", f.entity, err)
	}

	switch {
	case f.entity == domref.Author:
		_ = f.fq.Set(strings.ReplaceAll(f.fq.Value(), "-", "*"))
	case f.entity == domref.Department && row.String("parent") != "":
		_ = f.fq.Set("sub_department:" + f.id)
	}

	body := Body(row.Map())
	content, err := f.Content.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	for k, v := range content {
		body[k] = v
	}
	return body, nil
}
