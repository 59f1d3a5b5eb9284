package harness

import (
	"context"
	"strings"
	"testing"

	"github.com/kuitang/sitecheck/internal/errs"
)

func TestAssertVisible_PassesWithoutExpectedText(t *testing.T) {
	t.Parallel()
	heading := &fakeLocator{count: 1, visible: true, text: "OSM Phone Number Validation"}
	page := newFakePage().withRole("heading", "OSM Phone Number Validation", heading)

	err := AssertVisible(context.Background(), page,
		Locator{Role: "heading", Name: "OSM Phone Number Validation"}, "", testTimeout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAssertVisible_LocaleExactTextMatch(t *testing.T) {
	t.Parallel()
	heading := &fakeLocator{count: 1, visible: true, text: "Validation des numéros de téléphone OSM"}
	page := newFakePage().withSelector("h1", heading)

	err := AssertVisible(context.Background(), page,
		Locator{Selector: "h1"}, "Validation des numéros de téléphone OSM", testTimeout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAssertVisible_TextMismatchCarriesDiagnostics(t *testing.T) {
	t.Parallel()
	heading := &fakeLocator{count: 1, visible: true, text: "Rapport sur les numéros de téléphone"}
	page := newFakePage().withSelector("h1", heading)
	page.url = "http://site.test/france/cantal.html"

	err := AssertVisible(context.Background(), page,
		Locator{Selector: "h1"}, "Validation des numéros de téléphone OSM", testTimeout)
	if err == nil {
		t.Fatal("expected mismatch error")
	}
	if errs.CodeOf(err) != errs.AssertionTimeout {
		t.Fatalf("code = %q, want assertion_timeout", errs.CodeOf(err))
	}
	msg := err.Error()
	for _, want := range []string{
		"Validation des numéros de téléphone OSM",
		"Rapport sur les numéros de téléphone",
		"france/cantal.html",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing diagnostic %q", msg, want)
		}
	}
}

func TestAssertVisible_NeverVisibleIsAssertionTimeout(t *testing.T) {
	t.Parallel()
	page := newFakePage()

	err := AssertVisible(context.Background(), page,
		Locator{Selector: ".report-list", First: true}, "", testTimeout)
	if errs.CodeOf(err) != errs.AssertionTimeout {
		t.Fatalf("code = %q, want assertion_timeout", errs.CodeOf(err))
	}
	if !strings.Contains(err.Error(), ".report-list") {
		t.Errorf("error %q missing locator description", err.Error())
	}
}

func TestAssertVisible_AmbiguousWithoutFirstFails(t *testing.T) {
	t.Parallel()
	items := &fakeLocator{count: 3, visible: true}
	page := newFakePage().withSelector(".list-item", items)

	err := AssertVisible(context.Background(), page, Locator{Selector: ".list-item"}, "", testTimeout)
	if errs.CodeOf(err) != errs.LocatorResolution {
		t.Fatalf("code = %q, want locator_resolution", errs.CodeOf(err))
	}
}

func TestAssertVisible_TrimsSurroundingWhitespace(t *testing.T) {
	t.Parallel()
	heading := &fakeLocator{count: 1, visible: true, text: "\n  OSM Phone Number Validation  "}
	page := newFakePage().withSelector("h1", heading)

	err := AssertVisible(context.Background(), page,
		Locator{Selector: "h1"}, "OSM Phone Number Validation", testTimeout)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
