package query

import (
	"fmt"

	"github.com/zeit-online/contentapi/internal/domain"
	domref "github.com/zeit-online/contentapi/internal/domain/reference"
)

// Factory maps endpoint tokens to query objects. Construction never touches
// a store; all I/O happens in Fetch.
type Factory struct {
	env *Env
}

// NewFactory creates a factory bound to one request's environment.
func NewFactory(env *Env) *Factory {
	return &Factory{env: env}
}

// Env returns the request environment shared by the built queries.
func (f *Factory) Env() *Env { return f.env }

// Endpoint resolves a single-segment endpoint token.
func (f *Factory) Endpoint(token string) (Query, error) {
	if e, ok := domref.Parse(token); ok {
		return NewReference(f.env, e), nil
	}
	switch token {
	case "content":
		return NewContent(f.env), nil
	case "client":
		return NewClientInfo(f.env), nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrEndpointNotFound, token)
	}
}

// Filtered builds the content search filtered by a reference entity.
func (f *Factory) Filtered(entity, id string) (Query, error) {
	return NewFiltered(f.env, entity, id)
}

// ContentByID builds a content item lookup.
func (f *Factory) ContentByID(id string) Query {
	return NewContentByID(f.env, id)
}

// Registration builds a client registration for a caller at remoteIP.
func (f *Factory) Registration(remoteIP string) Query {
	return NewRegistration(f.env, remoteIP)
}

// Definition builds the endpoint listing.
func (f *Factory) Definition() Query {
	return NewDefinition(f.env)
}
