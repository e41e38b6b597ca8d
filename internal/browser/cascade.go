package browser

import (
	"errors"

	"github.com/go-rod/rod"
)

// ErrNotFound is returned when no selector in a cascade matches anything.
var ErrNotFound = errors.New("no matching element")

// Queryable is the single-shot existence check a cascade runs against.
// *rod.Page satisfies it directly; iframe contexts do too, since rod models
// them as pages.
type Queryable interface {
	Has(selector string) (bool, *rod.Element, error)
}

// First tries each selector in order and returns the first element that
// exists in the context. A selector that errors (malformed, unsupported
// pseudo-class, detached context) counts as a miss, not a failure. There is
// no waiting here; callers that need patience loop outside.
func First(q Queryable, selectors []string) (*rod.Element, error) {
	for _, sel := range selectors {
		has, el, err := q.Has(sel)
		if err != nil {
			continue
		}
		if has {
			return el, nil
		}
	}
	return nil, ErrNotFound
}
