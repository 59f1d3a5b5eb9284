package harness

import (
	"fmt"
	"strings"

	"github.com/kuitang/sitecheck/internal/errs"
)

// Scenario is one ordered user journey through the generated site.
type Scenario struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Step is one unit of work. Exactly one variant field is set; the variants
// replace the copy-pasted step sequences of per-page verification scripts with
// a single data-driven shape.
type Step struct {
	Goto      *GotoStep      `yaml:"goto,omitempty"`
	Click     *ClickStep     `yaml:"click,omitempty"`
	Normalize *NormalizeStep `yaml:"normalize,omitempty"`
	Assert    *AssertStep    `yaml:"assert,omitempty"`
	Capture   *CaptureStep   `yaml:"capture,omitempty"`
}

// GotoStep loads a page. Path is joined onto the configured base URL unless it
// is already absolute.
type GotoStep struct {
	Path  string    `yaml:"path"`
	Ready Readiness `yaml:"ready,omitempty"`
}

// ClickStep clicks a uniquely resolvable element and waits for the resulting
// URL to match the pattern (Playwright glob, e.g. "**/france.html").
type ClickStep struct {
	Target  Locator `yaml:"target"`
	WaitURL string  `yaml:"wait_url"`
}

// NormalizeStep forces an optional checkable control into a known state.
type NormalizeStep struct {
	Control Locator `yaml:"control"`
	Checked bool    `yaml:"checked"`
}

// AssertStep requires an element to be visible, optionally with exact text.
type AssertStep struct {
	Target Locator `yaml:"target"`
	Text   string  `yaml:"text,omitempty"`
}

// CaptureStep writes an evidence screenshot at a named checkpoint.
type CaptureStep struct {
	Checkpoint string `yaml:"checkpoint"`
	FullPage   bool   `yaml:"full_page,omitempty"`
}

// Describe returns a short step description for logs and failure reasons.
func (s Step) Describe() string {
	switch {
	case s.Goto != nil:
		return fmt.Sprintf("goto %s", s.Goto.Path)
	case s.Click != nil:
		return fmt.Sprintf("click %s", s.Click.Target.Describe())
	case s.Normalize != nil:
		state := "unchecked"
		if s.Normalize.Checked {
			state = "checked"
		}
		return fmt.Sprintf("normalize %s to %s", s.Normalize.Control.Describe(), state)
	case s.Assert != nil:
		return fmt.Sprintf("assert %s visible", s.Assert.Target.Describe())
	case s.Capture != nil:
		return fmt.Sprintf("capture %s", s.Capture.Checkpoint)
	default:
		return "empty step"
	}
}

// Validate checks that the step has exactly one variant and that the variant
// is well-formed.
func (s Step) Validate() error {
	variants := 0
	if s.Goto != nil {
		variants++
	}
	if s.Click != nil {
		variants++
	}
	if s.Normalize != nil {
		variants++
	}
	if s.Assert != nil {
		variants++
	}
	if s.Capture != nil {
		variants++
	}
	if variants != 1 {
		return errs.New(errs.InvalidArgument,
			fmt.Sprintf("step must have exactly one action, found %d", variants))
	}

	switch {
	case s.Goto != nil:
		if strings.TrimSpace(s.Goto.Path) == "" {
			return errs.New(errs.InvalidArgument, "goto step requires a path")
		}
		if _, err := s.Goto.Ready.waitUntil(); err != nil {
			return err
		}
	case s.Click != nil:
		if err := s.Click.Target.Validate(); err != nil {
			return err
		}
		if s.Click.Target.First {
			return errs.New(errs.InvalidArgument,
				fmt.Sprintf("click target %s must resolve uniquely, not take the first match", s.Click.Target.Describe()))
		}
		if strings.TrimSpace(s.Click.WaitURL) == "" {
			return errs.New(errs.InvalidArgument,
				fmt.Sprintf("click step on %s requires wait_url to confirm navigation", s.Click.Target.Describe()))
		}
	case s.Normalize != nil:
		if err := s.Normalize.Control.Validate(); err != nil {
			return err
		}
	case s.Assert != nil:
		if err := s.Assert.Target.Validate(); err != nil {
			return err
		}
	case s.Capture != nil:
		if strings.TrimSpace(s.Capture.Checkpoint) == "" {
			return errs.New(errs.InvalidArgument, "capture step requires a checkpoint name")
		}
	}
	return nil
}

// ValidateScenarios checks names are present and unique and every step is
// well-formed.
func ValidateScenarios(scenarios []Scenario) error {
	if len(scenarios) == 0 {
		return errs.New(errs.InvalidArgument, "at least one scenario is required")
	}
	seen := make(map[string]bool, len(scenarios))
	for _, sc := range scenarios {
		name := strings.TrimSpace(sc.Name)
		if name == "" {
			return errs.New(errs.InvalidArgument, "scenario name must not be empty")
		}
		if seen[name] {
			return errs.New(errs.InvalidArgument, fmt.Sprintf("duplicate scenario name %q", name))
		}
		seen[name] = true
		if len(sc.Steps) == 0 {
			return errs.New(errs.InvalidArgument, fmt.Sprintf("scenario %q has no steps", name))
		}
		for i, step := range sc.Steps {
			if err := step.Validate(); err != nil {
				return errs.Wrap(errs.InvalidArgument,
					fmt.Sprintf("scenario %q step %d (%s)", name, i+1, step.Describe()), err)
			}
		}
	}
	return nil
}

// DefaultScenarios returns the built-in verification scenarios for the OSM
// phone number report site. Headings are locale-exact: the main index is
// English, country and report pages render in the country's language.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			Name: "all-pages",
			Steps: []Step{
				{Goto: &GotoStep{Path: "/", Ready: ReadyNetworkIdle}},
				{Assert: &AssertStep{Target: Locator{Role: "heading", Name: "OSM Phone Number Validation"}}},
				{Capture: &CaptureStep{Checkpoint: "01-main-page"}},

				{Click: &ClickStep{
					Target:  Locator{Role: "link", Name: "France"},
					WaitURL: "**/france.html",
				}},
				{Assert: &AssertStep{Target: Locator{Role: "heading", Name: "Validation des numéros de téléphone OSM"}}},
				{Capture: &CaptureStep{Checkpoint: "02-country-page"}},

				{Normalize: &NormalizeStep{Control: Locator{Selector: "#hide-empty"}, Checked: false}},
				{Click: &ClickStep{
					Target:  Locator{Role: "link", Name: "Cantal"},
					WaitURL: "**/cantal.html",
				}},
				{Assert: &AssertStep{Target: Locator{Role: "heading", Name: "Rapport sur les numéros de téléphone"}}},
				{Capture: &CaptureStep{Checkpoint: "03-report-page"}},
			},
		},
		{
			Name: "report-icons",
			Steps: []Step{
				{Goto: &GotoStep{Path: "/france/cantal.html", Ready: ReadyNetworkIdle}},
				{Assert: &AssertStep{Target: Locator{Selector: ".report-list-item .list-item-icon-container i", First: true}}},
				{Capture: &CaptureStep{Checkpoint: "report-icons"}},
			},
		},
		{
			Name: "page-layouts",
			Steps: []Step{
				{Goto: &GotoStep{Path: "/france.html", Ready: ReadyNetworkIdle}},
				{Assert: &AssertStep{Target: Locator{Selector: ".list-item", First: true}}},
				{Capture: &CaptureStep{Checkpoint: "country-layout"}},

				{Goto: &GotoStep{Path: "/france/cantal.html", Ready: ReadyNetworkIdle}},
				{Assert: &AssertStep{Target: Locator{Selector: ".list-item", First: true}}},
				{Capture: &CaptureStep{Checkpoint: "division-layout"}},
			},
		},
		{
			Name: "main-styles",
			Steps: []Step{
				{Goto: &GotoStep{Path: "/", Ready: ReadyNetworkIdle}},
				{Assert: &AssertStep{Target: Locator{Selector: ".card", First: true}}},
				{Assert: &AssertStep{Target: Locator{Selector: ".theme-toggle-button"}}},
				{Capture: &CaptureStep{Checkpoint: "main-styles", FullPage: true}},
			},
		},
		{
			Name: "report-lists",
			Steps: []Step{
				{Goto: &GotoStep{Path: "/france/cantal.html", Ready: ReadyNetworkIdle}},
				{Assert: &AssertStep{Target: Locator{Selector: ".report-list", First: true}}},
				{Capture: &CaptureStep{Checkpoint: "report-lists", FullPage: true}},
			},
		},
	}
}
