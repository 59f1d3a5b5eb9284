package harness

import (
	"context"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/sitecheck/internal/errs"
	"github.com/kuitang/sitecheck/internal/obs"
)

// Session is one isolated browser context plus one page. It is owned
// exclusively by the scenario currently executing; the Runner is the sole
// writer of its lifecycle transitions.
type Session struct {
	page    playwright.Page
	cleanup func() error

	releaseOnce sync.Once
}

func newSession(page playwright.Page, cleanup func() error) *Session {
	return &Session{page: page, cleanup: cleanup}
}

// Page returns the session's page handle.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Release closes the page and its browser context. It is safe to call on any
// exit path; only the first call does work.
func (s *Session) Release() {
	s.releaseOnce.Do(func() {
		if s.cleanup == nil {
			return
		}
		if err := s.cleanup(); err != nil {
			obs.Pkg("harness").Warn("session release failed", "error", err)
		}
	})
}

// SessionSource produces fresh sessions for scenario runs.
type SessionSource interface {
	Acquire(ctx context.Context) (*Session, error)
}

// ManagerOptions configures the browser process a Manager owns.
type ManagerOptions struct {
	Headless       bool
	WaitTimeout    time.Duration
	ViewportWidth  int
	ViewportHeight int
}

// Manager owns the Playwright driver and browser process. It is the only
// component that touches process lifecycle: Start spawns the browser, Stop
// tears it down, Acquire hands out isolated contexts.
type Manager struct {
	opts ManagerOptions

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewManager creates a Manager; call Start before Acquire.
func NewManager(opts ManagerOptions) *Manager {
	if opts.WaitTimeout <= 0 {
		opts.WaitTimeout = 10 * time.Second
	}
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = 1280
	}
	if opts.ViewportHeight <= 0 {
		opts.ViewportHeight = 800
	}
	return &Manager{opts: opts}
}

// Start launches Playwright and a Chromium browser process.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return errs.Wrap(errs.Session, "starting playwright driver", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return errs.Wrap(errs.Session, "launching chromium", err)
	}
	m.pw = pw
	m.browser = browser
	return nil
}

// Stop closes the browser and stops the driver. Safe to call after a failed
// Start or more than once.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		_ = m.browser.Close()
		m.browser = nil
	}
	if m.pw != nil {
		_ = m.pw.Stop()
		m.pw = nil
	}
}

// Acquire creates a fresh, isolated browser context and page with the
// manager's viewport and default timeouts applied.
func (m *Manager) Acquire(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	browser := m.browser
	m.mu.Unlock()

	if browser == nil {
		return nil, errs.New(errs.Session, "browser manager is not started")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(errs.Session, "acquire canceled", err)
	}

	browserCtx, err := browser.NewContext()
	if err != nil {
		return nil, errs.Wrap(errs.Session, "creating browser context", err)
	}
	browserCtx.SetDefaultTimeout(millis(m.opts.WaitTimeout))
	browserCtx.SetDefaultNavigationTimeout(millis(m.opts.WaitTimeout))

	page, err := browserCtx.NewPage()
	if err != nil {
		_ = browserCtx.Close()
		return nil, errs.Wrap(errs.Session, "creating page", err)
	}
	if err := page.SetViewportSize(m.opts.ViewportWidth, m.opts.ViewportHeight); err != nil {
		_ = browserCtx.Close()
		return nil, errs.Wrap(errs.Session, "setting viewport", err)
	}

	return newSession(page, func() error {
		return browserCtx.Close()
	}), nil
}
