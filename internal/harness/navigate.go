package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/sitecheck/internal/errs"
	"github.com/kuitang/sitecheck/internal/obs"
)

// Readiness names the condition a navigation blocks on before the next step
// may run.
type Readiness string

const (
	ReadyLoad             Readiness = "load"
	ReadyDOMContentLoaded Readiness = "domcontentloaded"
	ReadyNetworkIdle      Readiness = "networkidle"
)

func (r Readiness) waitUntil() (*playwright.WaitUntilState, error) {
	switch r {
	case "", ReadyLoad:
		return playwright.WaitUntilStateLoad, nil
	case ReadyDOMContentLoaded:
		return playwright.WaitUntilStateDomcontentloaded, nil
	case ReadyNetworkIdle:
		return playwright.WaitUntilStateNetworkidle, nil
	default:
		return nil, errs.New(errs.InvalidArgument, fmt.Sprintf("unsupported readiness %q", r))
	}
}

// Goto loads an absolute URL and blocks until the readiness condition holds
// or the timeout elapses.
func Goto(ctx context.Context, page playwright.Page, url string, ready Readiness, timeout time.Duration) error {
	waitUntil, err := ready.waitUntil()
	if err != nil {
		return err
	}

	obs.From(ctx).Debug("navigating", "url", url, "ready", string(ready))
	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: waitUntil,
		Timeout:   playwright.Float(millis(timeout)),
	}); err != nil {
		return errs.Wrap(errs.ReadinessTimeout,
			fmt.Sprintf("page %s did not reach %q", url, readinessName(ready)), err)
	}
	return nil
}

// ClickAndWait resolves the locator to a single visible element, clicks it,
// then blocks until the page URL matches the pattern. The URL wait is what
// confirms client-side navigation actually happened; a click alone proves
// nothing.
func ClickAndWait(ctx context.Context, page playwright.Page, target Locator, urlPattern string, timeout time.Duration) error {
	resolved, err := target.Resolve(page, timeout)
	if err != nil {
		return err
	}

	obs.From(ctx).Debug("clicking", "target", target.Describe(), "wait_url", urlPattern)
	if err := resolved.Click(playwright.LocatorClickOptions{
		Timeout: playwright.Float(millis(timeout)),
	}); err != nil {
		return errs.Wrap(errs.LocatorResolution,
			fmt.Sprintf("clicking %s", target.Describe()), err)
	}

	if err := page.WaitForURL(urlPattern, playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(millis(timeout)),
	}); err != nil {
		return errs.Wrap(errs.ReadinessTimeout,
			fmt.Sprintf("after clicking %s, url did not match %q (at %s)",
				target.Describe(), urlPattern, page.URL()), err)
	}
	return nil
}

func readinessName(r Readiness) string {
	if r == "" {
		return string(ReadyLoad)
	}
	return string(r)
}
