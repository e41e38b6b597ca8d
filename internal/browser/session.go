package browser

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/nfnt/resize"
	"go.uber.org/zap"
)

// dialogOverride neutralizes the native dialog functions so that firmware
// confirmation popups auto-accept. Installed before any page script runs.
const dialogOverride = `
window.alert = function () {};
window.confirm = function () { return true; };
window.prompt = function (msg, def) { return def === undefined ? "" : def; };
`

// maxShotWidth caps diagnostic screenshots; router pages can be very tall and
// a full-page capture at native width gets large fast.
const maxShotWidth = 1600

// Options configures the browser session.
type Options struct {
	Headful   bool
	Width     int
	Height    int
	OpTimeout time.Duration // budget for individual wait operations
	Logger    *zap.SugaredLogger
}

// Session owns the browser process and the single page the whole run drives.
type Session struct {
	browser   *rod.Browser
	page      *rod.Page
	opTimeout time.Duration
	log       *zap.SugaredLogger
}

// Launch starts a browser, opens a blank page, and arms dialog auto-accept
// before any navigation so that dialogs fired during login or menu clicks are
// already covered.
func Launch(opts Options) (*Session, error) {
	if opts.Width == 0 {
		opts.Width = 1280
	}
	if opts.Height == 0 {
		opts.Height = 800
	}
	if opts.OpTimeout == 0 {
		opts.OpTimeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	path, _ := launcher.LookPath()
	l := launcher.New().Bin(path).Headless(!opts.Headful)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	// Blank page first so the dialog override is injected before the router
	// UI ever loads.
	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.Width,
		Height:            opts.Height,
		DeviceScaleFactor: 1,
	}); err != nil {
		b.Close()
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	s := &Session{
		browser:   b,
		page:      page,
		opTimeout: opts.OpTimeout,
		log:       opts.Logger,
	}
	if err := s.autoAcceptDialogs(); err != nil {
		b.Close()
		return nil, err
	}
	return s, nil
}

// autoAcceptDialogs installs both layers of dialog handling: the JS override
// for pages that read confirm()'s return value synchronously, and the CDP
// event handler for dialogs that still surface natively.
func (s *Session) autoAcceptDialogs() error {
	if _, err := s.page.EvalOnNewDocument(dialogOverride); err != nil {
		return fmt.Errorf("install dialog override: %w", err)
	}
	go s.page.EachEvent(func(e *proto.PageJavascriptDialogOpening) {
		s.log.Debugw("auto-accepting dialog", "type", e.Type, "message", e.Message)
		_ = proto.PageHandleJavaScriptDialog{
			Accept:     true,
			PromptText: e.DefaultPrompt,
		}.Call(s.page)
	})()
	return nil
}

// Open navigates the session page to url and waits for the load event within
// the operation timeout.
func (s *Session) Open(url string) error {
	if err := s.page.Navigate(url); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	if err := s.page.Timeout(s.opTimeout).WaitLoad(); err != nil {
		return fmt.Errorf("wait load %s: %w", url, err)
	}
	return nil
}

// Page returns the session's page. Frame contexts derived from it remain
// valid until the next top-level navigation.
func (s *Session) Page() *rod.Page {
	return s.page
}

// Close releases the page and the browser process. Safe to defer on every
// exit path; errors here are ignored since there is nothing left to do with
// a browser that will not die cleanly.
func (s *Session) Close() {
	if s.page != nil {
		_ = s.page.Close()
	}
	if s.browser != nil {
		_ = s.browser.Close()
	}
}

// DumpScreenshot writes a full-page capture into dir with a timestamped name
// and returns the path. Wide captures are scaled down to keep the file small.
func (s *Session) DumpScreenshot(dir string) (string, error) {
	data, err := s.page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return "", fmt.Errorf("capture screenshot: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("decode screenshot: %w", err)
	}
	if img.Bounds().Dx() > maxShotWidth {
		img = resize.Resize(maxShotWidth, 0, img, resize.Lanczos3)
	}

	name := fmt.Sprintf("dnsset-failure-%s.png", time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	return path, nil
}
