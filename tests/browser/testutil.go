// Package browser contains end-to-end verification runs against a miniature
// generated report site served over httptest. The fixture mirrors the real
// generator's output contract: headings reachable by accessible role and
// localized name, countries and subdivisions linked with standard hyperlinks,
// an optional #hide-empty filter checkbox, and stable CSS classing on report
// entries.
//
// Tests skip when Playwright or its browsers are not installed.
package browser

import (
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/kuitang/sitecheck/internal/harness"
)

const browserWaitTimeout = 5 * time.Second

var (
	managerMu     sync.Mutex
	sharedManager *harness.Manager
)

// SetupManager returns a shared started browser manager, skipping the test
// when a browser cannot be launched.
func SetupManager(t *testing.T) *harness.Manager {
	t.Helper()

	managerMu.Lock()
	defer managerMu.Unlock()

	if sharedManager != nil {
		return sharedManager
	}

	m := harness.NewManager(harness.ManagerOptions{
		Headless:       true,
		WaitTimeout:    browserWaitTimeout,
		ViewportWidth:  1280,
		ViewportHeight: 800,
	})
	if err := m.Start(); err != nil {
		t.Skip("Playwright not available:", err)
	}
	sharedManager = m
	return m
}

func cleanupSharedManager() {
	managerMu.Lock()
	defer managerMu.Unlock()
	if sharedManager != nil {
		sharedManager.Stop()
		sharedManager = nil
	}
}

func TestMain(m *testing.M) {
	code := m.Run()
	cleanupSharedManager()
	os.Exit(code)
}

// NewSiteServer serves the fixture report site.
func NewSiteServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	servePage := func(pattern, body string) {
		mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(body))
		})
	}
	servePage("/{$}", indexHTML)
	servePage("/index.html", indexHTML)
	servePage("/france.html", franceHTML)
	servePage("/france/cantal.html", cantalHTML)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// NewRunner wires a runner against the fixture server with its own evidence
// directory.
func NewRunner(t *testing.T, server *httptest.Server) *harness.Runner {
	t.Helper()
	return &harness.Runner{
		Sessions:    SetupManager(t),
		Evidence:    harness.NewCapturer(t.TempDir(), false),
		BaseURL:     server.URL,
		WaitTimeout: browserWaitTimeout,
		SettleDelay: 100 * time.Millisecond,
	}
}

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>OSM Phone Number Validation</title>
<style>
.card { border: 1px solid #ccc; padding: 1em; margin: 0.5em; }
.theme-toggle-button { float: right; }
</style></head>
<body class="body-styles">
<button class="theme-toggle-button">Toggle theme</button>
<h1>OSM Phone Number Validation</h1>
<div class="card"><a href="france.html">France</a></div>
<div class="card"><a href="belgique.html">Belgique</a></div>
</body>
</html>`

const franceHTML = `<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>France</title>
<style>
body.hide-empty .list-item.empty { display: none; }
</style></head>
<body class="hide-empty">
<h1>Validation des numéros de téléphone OSM</h1>
<label><input type="checkbox" id="hide-empty" checked> Masquer les listes vides</label>
<div class="list-item"><a href="france/allier.html">Allier</a> <span class="count">12</span></div>
<div class="list-item empty"><a href="france/cantal.html">Cantal</a> <span class="count">0</span></div>
<script>
document.getElementById('hide-empty').addEventListener('change', function () {
  document.body.classList.toggle('hide-empty', this.checked);
});
</script>
</body>
</html>`

const cantalHTML = `<!DOCTYPE html>
<html lang="fr">
<head><meta charset="utf-8"><title>Cantal</title></head>
<body>
<h1>Rapport sur les numéros de téléphone</h1>
<ul class="report-list">
<li class="report-list-item list-item">
<span class="list-item-icon-container"><i class="icon-ok"></i></span>
+33 4 71 00 00 00
</li>
<li class="report-list-item list-item">
<span class="list-item-icon-container"><i class="icon-bad"></i></span>
04 71 99 99 99
</li>
</ul>
</body>
</html>`
