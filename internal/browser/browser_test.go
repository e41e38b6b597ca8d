package browser

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve starts an httptest server mapping paths to HTML documents.
func serve(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for path, html := range pages {
		body := html
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(body))
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newPage launches a headless browser and opens url, skipping the test when
// no local Chrome/Chromium is available.
func newPage(t *testing.T, url string) *rod.Page {
	t.Helper()
	path, ok := launcher.LookPath()
	if !ok {
		t.Skip("no chrome/chromium binary found")
	}
	u, err := launcher.New().Bin(path).Headless(true).Launch()
	require.NoError(t, err)

	b := rod.New().ControlURL(u)
	require.NoError(t, b.Connect())
	t.Cleanup(func() { _ = b.Close() })

	page, err := b.Page(proto.TargetCreateTarget{URL: url})
	require.NoError(t, err)
	require.NoError(t, page.Timeout(10*time.Second).WaitLoad())
	return page
}

func TestSetValueFiresInputAndChange(t *testing.T) {
	srv := serve(t, map[string]string{
		"/": `<html><body>
			<input id="f">
			<script>
				window.counts = { input: 0, change: 0 };
				const f = document.getElementById('f');
				f.addEventListener('input', () => window.counts.input++);
				f.addEventListener('change', () => window.counts.change++);
			</script>
		</body></html>`,
	})
	page := newPage(t, srv.URL)

	el, err := page.Element("#f")
	require.NoError(t, err)
	require.NoError(t, SetValue(el, "1.1.1.1"))

	got, err := Value(el)
	require.NoError(t, err)
	assert.Equal(t, "1.1.1.1", got)

	res, err := page.Eval(`() => window.counts`)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Value.Get("input").Int(), 2,
		"input fires for the cleared state and the new value")
	assert.Equal(t, 1, res.Value.Get("change").Int())
}

func TestSetValueOnSelect(t *testing.T) {
	srv := serve(t, map[string]string{
		"/": `<html><body>
			<select id="mode">
				<option value="auto" selected>Automatic</option>
				<option value="manual">Manual</option>
			</select>
			<script>
				window.changed = 0;
				document.getElementById('mode').addEventListener('change', () => window.changed++);
			</script>
		</body></html>`,
	})
	page := newPage(t, srv.URL)

	el, err := page.Element("#mode")
	require.NoError(t, err)
	require.NoError(t, SetValue(el, "manual"))

	got, err := Value(el)
	require.NoError(t, err)
	assert.Equal(t, "manual", got)

	res, err := page.Eval(`() => window.changed`)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Value.Int())

	// A value that is not an option must be reported, not silently dropped.
	assert.Error(t, SetValue(el, "bogus"))
}

func TestClickTextPrefersVisibleElements(t *testing.T) {
	srv := serve(t, map[string]string{
		"/": `<html><body>
			<div style="display:none"><button onclick="window.which='hidden'">Apply</button></div>
			<button onclick="window.which='visible'">Apply</button>
		</body></html>`,
	})
	page := newPage(t, srv.URL)

	ok, err := ClickText(page, "apply", true)
	require.NoError(t, err)
	require.True(t, ok)

	res, err := page.Eval(`() => window.which`)
	require.NoError(t, err)
	assert.Equal(t, "visible", res.Value.Str())
}

func TestClickTextNoMatch(t *testing.T) {
	srv := serve(t, map[string]string{
		"/": `<html><body><button>Cancel</button></body></html>`,
	})
	page := newPage(t, srv.URL)

	ok, err := ClickText(page, "apply", true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFirstOnLivePage(t *testing.T) {
	srv := serve(t, map[string]string{
		"/": `<html><body><input id="real"></body></html>`,
	})
	page := newPage(t, srv.URL)

	el, err := First(page, []string{"#missing", "[[[", "#real"})
	require.NoError(t, err)

	res, err := el.Eval(`() => this.id`)
	require.NoError(t, err)
	assert.Equal(t, "real", res.Value.Str())
}

func TestContentFrame(t *testing.T) {
	srv := serve(t, map[string]string{
		"/":      `<html><body><iframe id="cf" src="/frame"></iframe></body></html>`,
		"/frame": `<html><body><h1>DHCP Settings</h1><input id="dnsMainPri"></body></html>`,
	})
	page := newPage(t, srv.URL)

	frame, err := ContentFrame(page, []string{"iframe#nope", "iframe[src*='frame']"})
	require.NoError(t, err)

	res, err := frame.Eval(`() => document.querySelector('h1').textContent`)
	require.NoError(t, err)
	assert.Contains(t, res.Value.Str(), "DHCP")
}

func TestContentFrameAbsent(t *testing.T) {
	srv := serve(t, map[string]string{
		"/": `<html><body><p>no frames here</p></body></html>`,
	})
	page := newPage(t, srv.URL)

	_, err := ContentFrame(page, []string{"iframe#cf", "iframe"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionAutoAcceptsDialogs(t *testing.T) {
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("no chrome/chromium binary found")
	}
	srv := serve(t, map[string]string{
		"/": `<html><body>
			<button id="go" onclick="window.ok = confirm('sure?')">Go</button>
		</body></html>`,
	})

	s, err := Launch(Options{OpTimeout: 10 * time.Second})
	require.NoError(t, err)
	t.Cleanup(s.Close)

	require.NoError(t, s.Open(srv.URL))

	el, err := s.Page().Element("#go")
	require.NoError(t, err)
	require.NoError(t, el.Click(proto.InputMouseButtonLeft, 1))

	res, err := s.Page().Eval(`() => window.ok === true`)
	require.NoError(t, err)
	assert.True(t, res.Value.Bool(), "confirm() must auto-accept")
}

func TestDumpScreenshot(t *testing.T) {
	if _, ok := launcher.LookPath(); !ok {
		t.Skip("no chrome/chromium binary found")
	}
	srv := serve(t, map[string]string{
		"/": `<html><body><h1>hello</h1></body></html>`,
	})

	s, err := Launch(Options{OpTimeout: 10 * time.Second})
	require.NoError(t, err)
	t.Cleanup(s.Close)
	require.NoError(t, s.Open(srv.URL))

	dir := t.TempDir()
	path, err := s.DumpScreenshot(dir)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "dnsset-failure-"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
