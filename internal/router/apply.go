package router

import (
	"errors"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/router-tools/dnsset/internal/browser"
)

// ErrNoSaveControl means every way of triggering a save was exhausted.
var ErrNoSaveControl = errors.New("no save control found")

// callGlobalJS invokes the first known firmware-global apply function the
// page exposes. Some firmwares wire their save button to an inline handler
// and nothing else, so calling the function directly is the last resort.
const callGlobalJS = `(names) => {
	for (const n of names) {
		if (typeof window[n] === 'function') {
			try { window[n](); return true; } catch (e) {}
		}
	}
	return false;
}`

// fieldReader re-reads the current primary/secondary values from the form.
// It is a function because the frame may have been re-rendered since the
// write and the handles must be re-resolved each time.
type fieldReader func() (pri, sec string, err error)

// Applier clicks the save control and then confirms the write by reading the
// form back.
type Applier struct {
	prof  Profile
	log   *zap.SugaredLogger
	sleep func(time.Duration)
}

func NewApplier(prof Profile, log *zap.SugaredLogger) *Applier {
	return &Applier{prof: prof, log: log, sleep: time.Sleep}
}

// Apply triggers the save: selector cascade, then multilingual text match,
// then a known global apply function. Dialog auto-accept was armed at
// session setup, so any confirmation popup resolves on its own.
func (a *Applier) Apply(frame *rod.Page) error {
	if el, err := browser.First(frame, a.prof.ApplySelectors); err == nil {
		a.log.Debugw("apply via selector cascade")
		return el.Click(proto.InputMouseButtonLeft, 1)
	}

	ok, err := browser.ClickAny(frame, a.prof.ApplyTexts, true)
	if err != nil {
		return err
	}
	if ok {
		a.log.Debugw("apply via text match")
		return nil
	}

	res, err := frame.Eval(callGlobalJS, a.prof.ApplyGlobals)
	if err == nil && res.Value.Bool() {
		a.log.Debugw("apply via global function")
		return nil
	}
	return ErrNoSaveControl
}

// Verify polls the form until the values read back equal what was written.
// An empty want2 means no secondary was requested and that check passes
// trivially. When exactly one retry remains, renavigate runs once; some
// firmwares discard in-place edits and only show the applied values after a
// fresh walk to the page. Never returns an error for a plain mismatch:
// verification is advisory.
func (a *Applier) Verify(want1, want2 string, read fieldReader, renavigate func() error) bool {
	for i := 0; i < a.prof.VerifyAttempts; i++ {
		if i > 0 {
			a.sleep(a.prof.VerifyDelay)
		}
		got1, got2, err := read()
		if err == nil && valuesMatch(want1, want2, got1, got2) {
			return true
		}
		if err != nil {
			a.log.Debugw("verification read failed", "attempt", i+1, "error", err)
		} else {
			a.log.Debugw("verification mismatch", "attempt", i+1, "got1", got1, "got2", got2)
		}
		if i == a.prof.VerifyAttempts-2 && renavigate != nil {
			a.log.Debugw("re-navigating before final verification attempt")
			if err := renavigate(); err != nil {
				a.log.Debugw("re-navigation failed", "error", err)
			}
		}
	}
	return false
}

func valuesMatch(want1, want2, got1, got2 string) bool {
	if got1 != want1 {
		return false
	}
	if want2 == "" {
		return true
	}
	return got2 == want2
}
