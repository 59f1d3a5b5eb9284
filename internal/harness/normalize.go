package harness

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/sitecheck/internal/errs"
	"github.com/kuitang/sitecheck/internal/obs"
)

// NormalizeChecked forces an optional toggle control into a known checked
// state before dependent steps run. An absent control is a no-op: the page
// variant without the filter is valid. The site generator does not guarantee
// the control's default state, so it is normalized here and never asserted.
func NormalizeChecked(ctx context.Context, page playwright.Page, control Locator, want bool, timeout, settle time.Duration) error {
	target, err := control.on(page)
	if err != nil {
		return err
	}

	count, err := target.Count()
	if err != nil {
		return errs.Wrap(errs.LocatorResolution,
			fmt.Sprintf("counting matches for %s", control.Describe()), err)
	}
	if count == 0 {
		obs.From(ctx).Debug("control absent, nothing to normalize", "control", control.Describe())
		return nil
	}
	if count > 1 {
		return errs.New(errs.LocatorResolution,
			fmt.Sprintf("%s matched %d elements, want exactly 1", control.Describe(), count))
	}

	checked, err := target.IsChecked(playwright.LocatorIsCheckedOptions{
		Timeout: playwright.Float(millis(timeout)),
	})
	if err != nil {
		return errs.Wrap(errs.LocatorResolution,
			fmt.Sprintf("reading state of %s", control.Describe()), err)
	}
	if checked == want {
		return nil
	}

	obs.From(ctx).Debug("toggling control", "control", control.Describe(), "checked", want)
	if err := target.SetChecked(want, playwright.LocatorSetCheckedOptions{
		Timeout: playwright.Float(millis(timeout)),
	}); err != nil {
		return errs.Wrap(errs.LocatorResolution,
			fmt.Sprintf("toggling %s", control.Describe()), err)
	}

	// Let the page re-render the filtered content before the next step looks at it.
	if settle > 0 {
		time.Sleep(settle)
	}
	return nil
}
