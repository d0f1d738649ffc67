package query

import (
	"context"

	"github.com/zeit-online/contentapi/internal/domain/param"
	domref "github.com/zeit-online/contentapi/internal/domain/reference"
)

const idPlaceholder = "{id}"

// Definition lists every public endpoint with its URL, parameter defaults and description.
type Definition struct {
	env    *Env
	params *param.Set
}

// NewDefinition creates the endpoint listing query.
func NewDefinition(env *Env) *Definition {
	return &Definition{env: env, params: param.NewSet()}
}

// Doc describes the query.
func (d *Definition) Doc() string { return "Return API meta information for all available queries." }

// Params returns the query parameters.
func (d *Definition) Params() *param.Set { return d.params }

// Fetch describes all endpoints.
func (d *Definition) Fetch(_ context.Context) (Body, error) {
	body := Body{}
	add := func(token string, q Query) {
		body[token] = map[string]any{
			"url":    d.env.APIURL + "/" + token,
			"params": q.Params().Defaults(),
			"doc":    q.Doc(),
		}
	}

	for _, e := range domref.All() {
		add(string(e), NewReference(d.env, e))
		filtered, err := NewFiltered(d.env, string(e), idPlaceholder)
		if err == nil {
			add(string(e)+"/"+idPlaceholder, filtered)
		}
	}
	add("client", NewClientInfo(d.env))
	add("content", NewContent(d.env))
	add("content/"+idPlaceholder, NewContentByID(d.env, idPlaceholder))
	return body, nil
}
