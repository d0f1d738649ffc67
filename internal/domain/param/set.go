package param

import (
	"net/url"
	"sort"

	"go.uber.org/zap"
)

// reserved keys are consumed by the transport and never bound to a query.
var reserved = map[string]struct{}{
	"callback": {},
	"api_key":  {},
}

// Set is the ordered parameter list of one query.
type Set struct {
	params []Param
}

// NewSet creates a Set from params in declaration order.
func NewSet(params ...Param) *Set {
	return &Set{params: params}
}

// Add appends params.
func (s *Set) Add(params ...Param) {
	s.params = append(s.params, params...)
}

// All returns the parameters in declaration order.
func (s *Set) All() []Param {
	return s.params
}

// Lookup finds a bindable parameter by key.
func (s *Set) Lookup(key string) (Param, bool) {
	if key == "" {
		return nil, false
	}
	for _, p := range s.params {
		if p.Key() == key {
			return p, true
		}
	}
	return nil, false
}

// Bind applies incoming values by key. Only the first value of a key is
// used. Reserved keys are skipped, unknown keys are logged and ignored.
// The first validation failure is returned.
func (s *Set) Bind(values url.Values, logger *zap.Logger) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, ok := reserved[k]; ok {
			continue
		}
		p, ok := s.Lookup(k)
		if !ok {
			logger.Warn("unsupported parameter", zap.String("param", k))
			continue
		}
		if len(values[k]) == 0 {
			continue
		}
		if err := p.Set(values[k][0]); err != nil {
			return err
		}
	}
	return nil
}

// Outbound returns origin->value for every parameter with a non-empty value.
func (s *Set) Outbound() url.Values {
	out := url.Values{}
	for _, p := range s.params {
		if v := p.Value(); v != "" {
			out.Set(p.Origin(), v)
		}
	}
	return out
}

// Defaults returns key->default for every bindable parameter.
func (s *Set) Defaults() map[string]string {
	out := make(map[string]string, len(s.params))
	for _, p := range s.params {
		if p.Key() != "" {
			out[p.Key()] = p.Default()
		}
	}
	return out
}
