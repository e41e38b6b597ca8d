package router

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/router-tools/dnsset/internal/browser"
)

// Result is what a completed run reports. Verified is advisory: a run that
// saved but could not confirm the read-back still counts as a success.
type Result struct {
	Verified bool
}

// Runner executes the whole workflow sequentially: login, menu walk, field
// resolution, write, apply, verify. One browser, one logical thread, no
// overlap between steps.
type Runner struct {
	Session *browser.Session
	Profile Profile
	Params  Params
	Log     *zap.SugaredLogger
}

func (r *Runner) Run() (*Result, error) {
	fmt.Printf("→ Logging in to %s... ", r.Params.BaseURL)
	if err := Login(r.Session, r.Profile, r.Params, r.Log); err != nil {
		fmt.Println("failed")
		return nil, err
	}
	fmt.Println("done")

	nav := NewNavigator(r.Profile, r.Log)
	page := r.Session.Page()

	fmt.Printf("→ Navigating to the DNS page... ")
	frame, err := nav.Navigate(page)
	if err != nil {
		fmt.Println("failed")
		return nil, err
	}
	fmt.Println("done")

	resolver := NewResolver(r.Profile, r.Log)
	resolver.EnsureManualMode(frame)

	fmt.Printf("→ Locating DNS fields... ")
	fields, err := resolver.Resolve(frame)
	if err != nil {
		fmt.Println("failed")
		return nil, err
	}
	fmt.Println("done")

	fmt.Printf("→ Writing DNS servers... ")
	if err := browser.SetValue(fields.Primary, r.Params.DNS1); err != nil {
		fmt.Println("failed")
		return nil, fmt.Errorf("write primary DNS: %w", err)
	}
	if r.Params.DNS2 != "" {
		if fields.Secondary == nil {
			fmt.Print("(no secondary field) ")
		} else if err := browser.SetValue(fields.Secondary, r.Params.DNS2); err != nil {
			fmt.Println("failed")
			return nil, fmt.Errorf("write secondary DNS: %w", err)
		}
	}
	fmt.Println("done")

	applier := NewApplier(r.Profile, r.Log)
	fmt.Printf("→ Applying... ")
	if err := applier.Apply(frame); err != nil {
		fmt.Println("failed")
		return nil, err
	}
	fmt.Println("done")

	fmt.Printf("→ Verifying... ")
	verified := applier.Verify(r.Params.DNS1, r.Params.DNS2, r.readFields(resolver), func() error {
		_, err := nav.Navigate(page)
		return err
	})
	if verified {
		fmt.Println("done")
	} else {
		fmt.Println("not confirmed")
	}

	return &Result{Verified: verified}, nil
}

// readFields builds the verification reader. The frame and the field handles
// are re-resolved on every read since applying usually re-renders the page.
func (r *Runner) readFields(resolver *Resolver) fieldReader {
	page := r.Session.Page()
	return func() (string, string, error) {
		frame, err := browser.ContentFrame(page, r.Profile.FramePatterns)
		if err != nil {
			return "", "", err
		}
		f, err := resolver.Resolve(frame)
		if err != nil {
			return "", "", err
		}
		v1, err := browser.Value(f.Primary)
		if err != nil {
			return "", "", err
		}
		v2 := ""
		if f.Secondary != nil {
			v2, _ = browser.Value(f.Secondary)
		}
		return v1, v2, nil
	}
}
