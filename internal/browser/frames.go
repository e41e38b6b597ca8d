package browser

import (
	"github.com/go-rod/rod"
)

// ContentFrame resolves the embedded document hosting the configuration page.
// Patterns are tried in order (specific id, partial src match, finally any
// iframe); a frame whose document cannot be probed (cross-origin, still
// detaching) is skipped. Callers that need DOM inside the frame must treat
// ErrNotFound as fatal.
func ContentFrame(page *rod.Page, patterns []string) (*rod.Page, error) {
	for _, sel := range patterns {
		has, el, err := page.Has(sel)
		if err != nil || !has {
			continue
		}
		frame, err := el.Frame()
		if err != nil {
			continue
		}
		if _, err := frame.Eval(`() => document.readyState`); err != nil {
			continue
		}
		return frame, nil
	}
	return nil, ErrNotFound
}
