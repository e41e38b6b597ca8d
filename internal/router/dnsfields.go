package router

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/router-tools/dnsset/internal/browser"
)

// ErrPrimaryNotFound means every resolution tier came up empty for the
// primary DNS field. The secondary field being missing is never fatal.
var ErrPrimaryNotFound = errors.New("primary DNS field not found")

const (
	primaryMark   = "data-dnsset-primary"
	secondaryMark = "data-dnsset-secondary"
	candMark      = "data-dnsset-cand"
)

// labelTargetJS finds a label containing one of the phrases and tags its
// associated control: explicit for= reference first, then a nested control,
// then the next control among the following siblings. Tagging lets Go
// re-query the element by attribute to obtain a real handle.
const labelTargetJS = `(phrases, mark) => {
	const lower = phrases.map(p => p.toLowerCase());
	for (const lab of document.querySelectorAll('label')) {
		const t = (lab.innerText || lab.textContent || '').toLowerCase();
		if (!lower.some(p => t.includes(p))) continue;
		let target = null;
		if (lab.htmlFor) target = document.getElementById(lab.htmlFor);
		if (!target) target = lab.querySelector('input, select');
		let sib = lab.nextElementSibling;
		while (!target && sib) {
			if (sib.matches && sib.matches('input, select')) target = sib;
			else if (sib.querySelector) target = sib.querySelector('input, select');
			sib = sib.nextElementSibling;
		}
		if (target) {
			target.setAttribute(mark, '1');
			return true;
		}
	}
	return false;
}`

// scanCandidatesJS tags every plausible text-like input whose id, name or
// class mentions dns, and returns the identifier text for ranking in Go.
const scanCandidatesJS = `(mark) => {
	const out = [];
	let i = 0;
	for (const el of document.querySelectorAll('input')) {
		const type = (el.getAttribute('type') || 'text').toLowerCase();
		if (type !== '' && type !== 'text' && type !== 'tel' && type !== 'number') continue;
		const key = ((el.id || '') + ' ' + (el.name || '') + ' ' + (el.className || '')).toLowerCase();
		if (!key.includes('dns')) continue;
		el.setAttribute(mark, String(i));
		out.push(key);
		i++;
	}
	return out;
}`

// Fields holds the resolved DNS inputs. Secondary may be nil.
type Fields struct {
	Primary   *rod.Element
	Secondary *rod.Element
}

// Resolver locates the DNS inputs inside the content frame through a
// three-tier fallback chain.
type Resolver struct {
	prof Profile
	log  *zap.SugaredLogger
}

func NewResolver(prof Profile, log *zap.SugaredLogger) *Resolver {
	return &Resolver{prof: prof, log: log}
}

// EnsureManualMode flips a DNS-mode selector or toggle from automatic to
// manual so the DNS inputs become editable. Some firmwares have no such
// control at all, so nothing here is fatal.
func (r *Resolver) EnsureManualMode(frame *rod.Page) {
	el, err := browser.First(frame, r.prof.ModeSelectors)
	if err != nil {
		ok, err := browser.ClickAny(frame, r.prof.ModeTexts, true)
		if err != nil || !ok {
			r.log.Debugw("no DNS mode control found, assuming manual")
		}
		return
	}

	res, err := el.Eval(`() => this.tagName.toLowerCase()`)
	if err != nil {
		return
	}
	if res.Value.Str() == "select" {
		for _, v := range r.prof.ModeManualValues {
			if browser.SetValue(el, v) == nil {
				r.log.Debugw("DNS mode switched", "value", v)
				return
			}
		}
		r.log.Debugw("no manual-ish option accepted by mode select")
		return
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		r.log.Debugw("mode toggle click failed", "error", err)
	}
}

// Resolve runs the tiers in order until the primary field is found. Each
// tier also gets a chance to fill in a still-missing secondary.
func (r *Resolver) Resolve(frame *rod.Page) (*Fields, error) {
	f := &Fields{}

	// Tier 1: explicit selector cascades.
	if el, err := browser.First(frame, r.prof.DNSPrimarySelectors); err == nil {
		f.Primary = el
	}
	if el, err := browser.First(frame, r.prof.DNSSecondarySelectors); err == nil {
		f.Secondary = el
	}
	if f.Primary != nil {
		r.log.Debugw("DNS fields resolved by selector cascade")
		return f, nil
	}

	// Tier 2: label-text association.
	if f.Primary == nil {
		f.Primary, _ = r.byLabel(frame, r.prof.DNSPrimaryLabelTexts, primaryMark)
	}
	if f.Secondary == nil {
		f.Secondary, _ = r.byLabel(frame, r.prof.DNSSecondaryLabelTexts, secondaryMark)
	}
	if f.Primary != nil {
		r.log.Debugw("DNS fields resolved by label association")
		return f, nil
	}

	// Tier 3: heuristic attribute scan.
	if err := r.byAttributeScan(frame, f); err != nil {
		return nil, err
	}
	if f.Primary == nil {
		return nil, ErrPrimaryNotFound
	}
	r.log.Debugw("DNS fields resolved by attribute scan")
	return f, nil
}

func (r *Resolver) byLabel(frame *rod.Page, phrases []string, mark string) (*rod.Element, error) {
	res, err := frame.Eval(labelTargetJS, phrases, mark)
	if err != nil || !res.Value.Bool() {
		return nil, browser.ErrNotFound
	}
	has, el, err := frame.Has(fmt.Sprintf(`[%s="1"]`, mark))
	if err != nil || !has {
		return nil, browser.ErrNotFound
	}
	return el, nil
}

func (r *Resolver) byAttributeScan(frame *rod.Page, f *Fields) error {
	res, err := frame.Eval(scanCandidatesJS, candMark)
	if err != nil {
		return fmt.Errorf("scan DNS candidates: %w", err)
	}
	var keys []string
	for _, v := range res.Value.Arr() {
		keys = append(keys, v.Str())
	}
	pri, sec := rankDNSCandidates(keys)

	if f.Primary == nil && pri >= 0 {
		if has, el, err := frame.Has(fmt.Sprintf(`[%s="%d"]`, candMark, pri)); err == nil && has {
			f.Primary = el
		}
	}
	if f.Secondary == nil && sec >= 0 {
		if has, el, err := frame.Has(fmt.Sprintf(`[%s="%d"]`, candMark, sec)); err == nil && has {
			f.Secondary = el
		}
	}
	return nil
}

var (
	primaryHints   = []string{"pri", "pref", "main", "1"}
	secondaryHints = []string{"sec", "alt", "2"}
)

// rankDNSCandidates picks the primary and secondary field out of the scanned
// identifier strings. Name hints win; whatever remains is assigned by
// position. Returns -1 for a slot that cannot be filled. The positional
// fallback is a known fragility on unfamiliar markup: with no name hints at
// all, document order is the only signal left.
func rankDNSCandidates(keys []string) (pri, sec int) {
	pri, sec = -1, -1
	for i, k := range keys {
		if pri == -1 && containsAny(k, primaryHints) {
			pri = i
		}
	}
	for i, k := range keys {
		if i == pri {
			continue
		}
		if sec == -1 && containsAny(k, secondaryHints) {
			sec = i
		}
	}
	for i := range keys {
		if pri == -1 && i != sec {
			pri = i
			break
		}
	}
	for i := range keys {
		if sec == -1 && i != pri {
			sec = i
			break
		}
	}
	return pri, sec
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
