package router

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/router-tools/dnsset/internal/browser"
)

// ErrNoPasswordField means the login page never presented a password input.
// There is nothing sensible to fall back to, so this aborts the run.
var ErrNoPasswordField = errors.New("password field not found")

// Login opens the admin UI and authenticates. A missing username field is
// tolerated (some firmwares are password-only); a missing password field is
// not.
func Login(s *browser.Session, prof Profile, p Params, log *zap.SugaredLogger) error {
	if err := s.Open(p.loginURL()); err != nil {
		return err
	}
	time.Sleep(prof.SettleDelay)

	page := s.Page()

	passEl, err := browser.First(page, prof.LoginPassSelectors)
	if err != nil {
		return ErrNoPasswordField
	}

	if userEl, err := browser.First(page, prof.LoginUserSelectors); err == nil {
		if err := browser.SetValue(userEl, p.Username); err != nil {
			return fmt.Errorf("fill username: %w", err)
		}
	} else {
		log.Debugw("no username field, assuming password-only login")
	}

	if err := browser.SetValue(passEl, p.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}

	if err := submitLogin(page, prof, passEl, log); err != nil {
		return err
	}
	time.Sleep(prof.SettleDelay)
	return nil
}

// submitLogin clicks the login control: fixed selectors, then multilingual
// text match, then Enter in the password field as a last resort.
func submitLogin(page *rod.Page, prof Profile, passEl *rod.Element, log *zap.SugaredLogger) error {
	if el, err := browser.First(page, prof.LoginButtonSelectors); err == nil {
		return el.Click(proto.InputMouseButtonLeft, 1)
	}
	ok, err := browser.ClickAny(page, prof.LoginButtonTexts, true)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	log.Debugw("no login button, pressing enter in password field")
	return passEl.Type(input.Enter)
}
