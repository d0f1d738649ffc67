package param

import (
	"math"
	"strconv"
)

// MaxLimit is the largest page size a client may request.
const MaxLimit = 1024

// MaxOffset is where unbounded values are clamped. Both the row store and the
// search engine accept it and return an empty page.
const MaxOffset = math.MaxInt32

// Int is a non-negative integer given as plain digits.
type Int struct {
	base
	max     int
	bounded bool
}

// NewLimit creates the limit parameter (search engine name "rows").
func NewLimit() *Int {
	return &Int{base: base{key: "limit", origin: "rows", def: "10"}, max: MaxLimit, bounded: true}
}

// NewOffset creates the offset parameter (search engine name "start").
func NewOffset() *Int {
	return &Int{base: base{key: "offset", origin: "start", def: "0"}}
}

// Set accepts digits only. Bounded values must stay within the upper bound;
// unbounded values beyond MaxOffset are clamped to it.
func (p *Int) Set(raw string) error {
	if raw == "" {
		return invalid(&p.base, "empty value")
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return invalid(&p.base, "%q is not a number", raw)
		}
	}
	n, err := strconv.Atoi(raw)
	if p.bounded {
		if err != nil || n > p.max {
			return invalid(&p.base, "%s exceeds %d", raw, p.max)
		}
		p.value = raw
		return nil
	}
	if err != nil || n > MaxOffset {
		n = MaxOffset
	}
	p.value = strconv.Itoa(n)
	return nil
}

// Int returns the effective value as an int.
func (p *Int) Int() int {
	n, _ := strconv.Atoi(p.Value())
	return n
}
