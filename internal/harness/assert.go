package harness

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/sitecheck/internal/errs"
	"github.com/kuitang/sitecheck/internal/obs"
)

// AssertVisible blocks until the locator resolves to a visible element within
// the timeout, and optionally checks its rendered text. Expected text is
// locale-exact and supplied per scenario; the site renders multiple languages,
// so nothing is hardcoded here.
//
// Failures carry the locator description and the last-observed page state
// (URL, title) so the orchestrator can surface a useful reason.
func AssertVisible(ctx context.Context, page playwright.Page, target Locator, expectedText string, timeout time.Duration) error {
	resolved, err := target.on(page)
	if err != nil {
		return err
	}

	if err := resolved.First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(millis(timeout)),
	}); err != nil {
		return errs.Wrap(errs.AssertionTimeout,
			fmt.Sprintf("%s never became visible (%s)", target.Describe(), pageState(page)), err)
	}

	if !target.First {
		count, err := resolved.Count()
		if err != nil {
			return errs.Wrap(errs.LocatorResolution,
				fmt.Sprintf("counting matches for %s", target.Describe()), err)
		}
		if count != 1 {
			return errs.New(errs.LocatorResolution,
				fmt.Sprintf("%s matched %d elements, want exactly 1", target.Describe(), count))
		}
	} else {
		resolved = resolved.First()
	}

	if expectedText == "" {
		obs.From(ctx).Debug("visible", "target", target.Describe())
		return nil
	}

	observed, err := resolved.InnerText(playwright.LocatorInnerTextOptions{
		Timeout: playwright.Float(millis(timeout)),
	})
	if err != nil {
		return errs.Wrap(errs.AssertionTimeout,
			fmt.Sprintf("reading text of %s", target.Describe()), err)
	}
	if strings.TrimSpace(observed) != strings.TrimSpace(expectedText) {
		return errs.New(errs.AssertionTimeout,
			fmt.Sprintf("%s text mismatch: expected %q, observed %q (%s)",
				target.Describe(), expectedText, strings.TrimSpace(observed), pageState(page)))
	}

	obs.From(ctx).Debug("visible with expected text", "target", target.Describe())
	return nil
}

// pageState summarizes where the page was when an assertion failed.
func pageState(page playwright.Page) string {
	title, err := page.Title()
	if err != nil {
		title = "<unavailable>"
	}
	return fmt.Sprintf("url=%s title=%q", page.URL(), title)
}
