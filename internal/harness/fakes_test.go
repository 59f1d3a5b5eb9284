package harness

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/playwright-community/playwright-go"
)

// The fakes embed the playwright interfaces so only the methods the harness
// actually calls need implementations; anything else panics, which is exactly
// what a test should do if the harness starts calling something new.

// playwright.Locator has a method also named Locator, so embedding it directly
// would shadow that method with the field name; the alias keeps the embed
// while avoiding the collision.
type embeddedLocator = playwright.Locator

type fakeLocator struct {
	embeddedLocator

	count   int
	visible bool
	checked bool
	text    string

	clickErr error
	waitErr  error

	clicks     int
	setChecked []bool
}

func (f *fakeLocator) First() playwright.Locator {
	return f
}

func (f *fakeLocator) Count() (int, error) {
	return f.count, nil
}

func (f *fakeLocator) WaitFor(options ...playwright.LocatorWaitForOptions) error {
	if f.waitErr != nil {
		return f.waitErr
	}
	if f.count > 0 && f.visible {
		return nil
	}
	return errors.New("timeout 10000ms exceeded waiting for element")
}

func (f *fakeLocator) Click(options ...playwright.LocatorClickOptions) error {
	f.clicks++
	return f.clickErr
}

func (f *fakeLocator) IsChecked(options ...playwright.LocatorIsCheckedOptions) (bool, error) {
	return f.checked, nil
}

func (f *fakeLocator) SetChecked(checked bool, options ...playwright.LocatorSetCheckedOptions) error {
	f.setChecked = append(f.setChecked, checked)
	f.checked = checked
	return nil
}

func (f *fakeLocator) InnerText(options ...playwright.LocatorInnerTextOptions) (string, error) {
	return f.text, nil
}

type fakePage struct {
	playwright.Page

	url   string
	title string

	selectors map[string]*fakeLocator
	byRole    map[string]*fakeLocator

	gotoErr    error
	waitURLErr error
	shotErr    error

	gotoCalls    []string
	waitURLCalls []string
	shots        int
}

func newFakePage() *fakePage {
	return &fakePage{
		url:       "http://site.test/index.html",
		title:     "OSM Phone Number Validation",
		selectors: map[string]*fakeLocator{},
		byRole:    map[string]*fakeLocator{},
	}
}

func roleKey(role playwright.AriaRole, name string) string {
	return fmt.Sprintf("%s|%s", role, name)
}

func (p *fakePage) withSelector(selector string, loc *fakeLocator) *fakePage {
	p.selectors[selector] = loc
	return p
}

func (p *fakePage) withRole(role, name string, loc *fakeLocator) *fakePage {
	p.byRole[role+"|"+name] = loc
	return p
}

func (p *fakePage) Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error) {
	p.gotoCalls = append(p.gotoCalls, url)
	if p.gotoErr != nil {
		return nil, p.gotoErr
	}
	p.url = url
	return nil, nil
}

func (p *fakePage) WaitForURL(url interface{}, options ...playwright.PageWaitForURLOptions) error {
	p.waitURLCalls = append(p.waitURLCalls, fmt.Sprintf("%v", url))
	return p.waitURLErr
}

func (p *fakePage) Locator(selector string, options ...playwright.PageLocatorOptions) playwright.Locator {
	if loc, ok := p.selectors[selector]; ok {
		return loc
	}
	return &fakeLocator{}
}

func (p *fakePage) GetByRole(role playwright.AriaRole, options ...playwright.PageGetByRoleOptions) playwright.Locator {
	name := ""
	if len(options) > 0 {
		name = fmt.Sprintf("%v", options[0].Name)
	}
	if loc, ok := p.byRole[roleKey(role, name)]; ok {
		return loc
	}
	return &fakeLocator{}
}

func (p *fakePage) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	p.shots++
	if p.shotErr != nil {
		return nil, p.shotErr
	}
	data := []byte("\x89PNG fake image bytes")
	if len(options) > 0 && options[0].Path != nil {
		if err := os.WriteFile(*options[0].Path, data, 0o644); err != nil {
			return nil, err
		}
	}
	return data, nil
}

func (p *fakePage) URL() string {
	return p.url
}

func (p *fakePage) Title() (string, error) {
	return p.title, nil
}

// fakeSessionSource hands out sessions over fake pages and records how often
// each session's cleanup ran.
type fakeSessionSource struct {
	page       *fakePage
	acquireErr error

	acquired int
	releases int
}

func (s *fakeSessionSource) Acquire(ctx context.Context) (*Session, error) {
	if s.acquireErr != nil {
		return nil, s.acquireErr
	}
	s.acquired++
	return newSession(s.page, func() error {
		s.releases++
		return nil
	}), nil
}
