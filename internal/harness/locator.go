// Package harness drives a real browser against a generated report site and
// verifies structure, text, and navigation, persisting screenshots as evidence.
//
// The package is organized around the step types a verification scenario is
// built from: navigation (Goto, ClickAndWait), state normalization
// (NormalizeChecked), assertions (AssertVisible), and evidence capture
// (Capturer). The Runner sequences them and owns session lifecycle.
package harness

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/sitecheck/internal/errs"
)

// Locator is an abstract reference to a DOM element. Exactly one of Role or
// Selector is set: Role resolves by ARIA role plus exact accessible name,
// Selector by CSS. First relaxes the uniqueness requirement for probes into
// repeated content (report lists, cards), where any one visible match is proof
// enough.
type Locator struct {
	Role     string `yaml:"role,omitempty"`
	Name     string `yaml:"name,omitempty"`
	Selector string `yaml:"selector,omitempty"`
	First    bool   `yaml:"first,omitempty"`
}

// Describe returns a human-readable locator description for logs and errors.
func (l Locator) Describe() string {
	var base string
	switch {
	case l.Role != "":
		base = fmt.Sprintf("%s %q", l.Role, l.Name)
	case l.Selector != "":
		base = fmt.Sprintf("selector %q", l.Selector)
	default:
		base = "empty locator"
	}
	if l.First {
		return base + " (first)"
	}
	return base
}

// Validate checks that the locator is well-formed.
func (l Locator) Validate() error {
	if l.Role != "" && l.Selector != "" {
		return errs.New(errs.InvalidArgument, "locator must not set both role and selector")
	}
	if l.Role == "" && l.Selector == "" {
		return errs.New(errs.InvalidArgument, "locator must set role or selector")
	}
	if l.Role != "" {
		if l.Name == "" {
			return errs.New(errs.InvalidArgument, fmt.Sprintf("role locator %q requires an accessible name", l.Role))
		}
		if _, err := ariaRole(l.Role); err != nil {
			return err
		}
	}
	return nil
}

// on builds the underlying Playwright locator without waiting.
func (l Locator) on(page playwright.Page) (playwright.Locator, error) {
	if l.Role != "" {
		role, err := ariaRole(l.Role)
		if err != nil {
			return nil, err
		}
		return page.GetByRole(role, playwright.PageGetByRoleOptions{
			Name:  l.Name,
			Exact: playwright.Bool(true),
		}), nil
	}
	if l.Selector != "" {
		return page.Locator(l.Selector), nil
	}
	return nil, errs.New(errs.InvalidArgument, "locator must set role or selector")
}

// Resolve waits for a visible match within timeout and enforces uniqueness.
// Zero matches after the wait, or multiple matches without First, are locator
// resolution failures: ambiguous or missing UI is a defect in the generated
// site, not a flake.
func (l Locator) Resolve(page playwright.Page, timeout time.Duration) (playwright.Locator, error) {
	target, err := l.on(page)
	if err != nil {
		return nil, err
	}

	if err := target.First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(millis(timeout)),
	}); err != nil {
		return nil, errs.Wrap(errs.LocatorResolution,
			fmt.Sprintf("no visible element matches %s", l.Describe()), err)
	}

	if l.First {
		return target.First(), nil
	}

	count, err := target.Count()
	if err != nil {
		return nil, errs.Wrap(errs.LocatorResolution,
			fmt.Sprintf("counting matches for %s", l.Describe()), err)
	}
	if count != 1 {
		return nil, errs.New(errs.LocatorResolution,
			fmt.Sprintf("%s matched %d elements, want exactly 1", l.Describe(), count))
	}
	return target, nil
}

func ariaRole(role string) (playwright.AriaRole, error) {
	switch role {
	case "heading":
		return *playwright.AriaRoleHeading, nil
	case "link":
		return *playwright.AriaRoleLink, nil
	case "checkbox":
		return *playwright.AriaRoleCheckbox, nil
	case "button":
		return *playwright.AriaRoleButton, nil
	case "img":
		return *playwright.AriaRoleImg, nil
	case "list":
		return *playwright.AriaRoleList, nil
	case "listitem":
		return *playwright.AriaRoleListitem, nil
	default:
		return "", errs.New(errs.InvalidArgument, fmt.Sprintf("unsupported locator role %q", role))
	}
}

func millis(d time.Duration) float64 {
	return float64(d.Milliseconds())
}
