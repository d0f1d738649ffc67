// Package param implements typed, self-validating query parameters.
//
// A parameter has an external key (the query-string name clients use), an
// origin (the name forwarded to the search engine) and a default. Value()
// returns the bound value or, when nothing non-empty was bound, the default.
// A failed Set leaves the previous value untouched and returns an error
// wrapping domain.ErrBadRequest.
package param

import (
	"fmt"

	"github.com/zeit-online/contentapi/internal/domain"
)

// Param is a single query parameter.
type Param interface {
	// Key is the external name; empty for internal parameters.
	Key() string
	// Origin is the name used towards the search engine.
	Origin() string
	Default() string
	Value() string
	Set(raw string) error
}

type base struct {
	key    string
	origin string
	def    string
	value  string
}

func (b *base) Key() string { return b.key }

func (b *base) Origin() string {
	if b.origin != "" {
		return b.origin
	}
	return b.key
}

func (b *base) Default() string { return b.def }

func (b *base) Value() string {
	if b.value != "" {
		return b.value
	}
	return b.def
}

func (b *base) name() string {
	if b.key != "" {
		return b.key
	}
	return b.Origin()
}

func invalid(b *base, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", domain.ErrBadRequest, b.name(), fmt.Sprintf(format, args...))
}
