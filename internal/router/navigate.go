package router

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/router-tools/dnsset/internal/browser"
)

// ErrPathNotReached means a menu transition failed. Navigation is not
// retried at this layer; the caller decides whether the run is over.
var ErrPathNotReached = errors.New("navigation path not reached")

// titleMatchJS reports whether any heading-ish element in the frame contains
// one of the expected phrases. Confirms the leaf page actually rendered.
const titleMatchJS = `(sels, texts) => {
	for (const sel of sels) {
		let list;
		try { list = document.querySelectorAll(sel); } catch (e) { continue; }
		for (const el of list) {
			const t = (el.innerText || el.textContent || '').toLowerCase();
			for (const w of texts) {
				if (t.includes(w.toLowerCase())) return true;
			}
		}
	}
	return false;
}`

// Navigator drives the fixed TOP_MENU -> SUB_MENU -> LEAF_PAGE click
// sequence and hands back the content frame once the leaf page's title
// confirms arrival.
type Navigator struct {
	prof Profile
	log  *zap.SugaredLogger
}

func NewNavigator(prof Profile, log *zap.SugaredLogger) *Navigator {
	return &Navigator{prof: prof, log: log}
}

// Navigate performs the three transitions and waits for the frame-hosted
// title. Every transition gets a settle delay; router pages re-render
// asynchronously and there is nothing reliable to wait on besides time.
func (n *Navigator) Navigate(page *rod.Page) (*rod.Page, error) {
	for _, step := range n.prof.MenuSteps {
		if err := n.clickStep(page, step); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrPathNotReached, step.Name)
		}
		n.log.Debugw("menu transition done", "step", step.Name)
		time.Sleep(n.prof.SettleDelay)
	}
	return n.waitForLeaf(page)
}

func (n *Navigator) clickStep(page *rod.Page, step MenuStep) error {
	if el, err := browser.First(page, step.Selectors); err == nil {
		return el.Click(proto.InputMouseButtonLeft, 1)
	}
	ok, err := browser.ClickAny(page, step.Texts, true)
	if err != nil {
		return err
	}
	if !ok {
		return browser.ErrNotFound
	}
	return nil
}

// waitForLeaf polls for the content frame until its title matches an
// expected phrase, bounded by the profile's attempt budget.
func (n *Navigator) waitForLeaf(page *rod.Page) (*rod.Page, error) {
	for i := 0; i < n.prof.TitleWaitAttempts; i++ {
		if i > 0 {
			time.Sleep(n.prof.TitleWaitDelay)
		}
		frame, err := browser.ContentFrame(page, n.prof.FramePatterns)
		if err != nil {
			continue
		}
		res, err := frame.Eval(titleMatchJS, n.prof.FrameTitleSelectors, n.prof.FrameTitleTexts)
		if err != nil {
			continue
		}
		if res.Value.Bool() {
			return frame, nil
		}
	}
	return nil, fmt.Errorf("%w: content frame title never appeared", ErrPathNotReached)
}
