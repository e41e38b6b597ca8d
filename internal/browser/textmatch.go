package browser

import (
	"fmt"

	"github.com/go-rod/rod"
)

// clickTextJS walks a prioritized tag allow-list (interactive elements first,
// anything as last resort) and clicks the first element whose visible text or
// value contains the needle, case-insensitively. The length bound keeps
// container elements from swallowing matches meant for their children.
const clickTextJS = `(text, visibleOnly) => {
	const needle = text.toLowerCase();
	const tiers = [
		'a', 'button', 'input[type="submit"]', 'input[type="button"]',
		'area', 'span', 'td', 'div', 'li', '*'
	];
	const visible = (el) => {
		if (el.offsetWidth > 0 || el.offsetHeight > 0) return true;
		const cs = window.getComputedStyle(el);
		return cs.position === 'fixed' && cs.visibility !== 'hidden' && cs.display !== 'none';
	};
	for (const sel of tiers) {
		let list;
		try { list = document.querySelectorAll(sel); } catch (e) { continue; }
		for (const el of list) {
			const own = ((el.innerText || el.textContent || '') + ' ' + (el.value || '')).trim();
			if (own.length === 0 || own.length > needle.length + 40) continue;
			if (!own.toLowerCase().includes(needle)) continue;
			if (visibleOnly && !visible(el)) continue;
			el.click();
			return true;
		}
	}
	return false;
}`

// ClickText finds the best element matching the text fragment in the given
// context and clicks it. Find and activate are one step: every caller of the
// matcher immediately clicks what it finds, so the coupling is deliberate.
// Returns false when nothing matched.
func ClickText(ctx *rod.Page, text string, visibleOnly bool) (bool, error) {
	res, err := ctx.Eval(clickTextJS, text, visibleOnly)
	if err != nil {
		return false, fmt.Errorf("text match %q: %w", text, err)
	}
	return res.Value.Bool(), nil
}

// ClickAny tries each text fragment in order until one matches and is
// clicked.
func ClickAny(ctx *rod.Page, texts []string, visibleOnly bool) (bool, error) {
	for _, t := range texts {
		ok, err := ClickText(ctx, t, visibleOnly)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
