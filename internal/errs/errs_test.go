package errs

import (
	"errors"
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

func allCodes() []Code {
	return []Code{
		InvalidArgument,
		LocatorResolution,
		ReadinessTimeout,
		AssertionTimeout,
		EvidenceCapture,
		Session,
		Internal,
	}
}

func testCodeOf_RoundtripForTypedErrors(t *rapid.T) {
	code := rapid.SampledFrom(allCodes()).Draw(t, "code")
	message := rapid.StringMatching(`[a-zA-Z0-9 _:\-]{1,80}`).Draw(t, "message")

	err := New(code, message)
	if got := CodeOf(err); got != code {
		t.Fatalf("CodeOf(New) mismatch: got=%q want=%q", got, code)
	}
	if got := MessageOf(err); got != message {
		t.Fatalf("MessageOf(New) mismatch: got=%q want=%q", got, message)
	}
}

func TestCodeOf_RoundtripForTypedErrors(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testCodeOf_RoundtripForTypedErrors)
}

func testCodeOf_WrappedTypedError(t *rapid.T) {
	code := rapid.SampledFrom(allCodes()).Draw(t, "code")
	message := rapid.StringMatching(`[a-zA-Z0-9 _:\-]{1,80}`).Draw(t, "message")
	cause := errors.New(rapid.StringMatching(`[a-z ]{1,40}`).Draw(t, "cause"))

	err := Wrap(code, message, cause)
	wrapped := fmt.Errorf("step 3 failed: %w", err)

	if got := CodeOf(wrapped); got != code {
		t.Fatalf("CodeOf through fmt.Errorf mismatch: got=%q want=%q", got, code)
	}
	if got := MessageOf(wrapped); got != message {
		t.Fatalf("MessageOf through fmt.Errorf mismatch: got=%q want=%q", got, message)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatalf("wrapped error lost its cause")
	}
}

func TestCodeOf_WrappedTypedError(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testCodeOf_WrappedTypedError)
}

func TestCodeOf_UntypedDefaultsToInternal(t *testing.T) {
	t.Parallel()
	if got := CodeOf(errors.New("raw driver error")); got != Internal {
		t.Fatalf("expected internal for untyped error, got %q", got)
	}
	if got := MessageOf(errors.New("raw driver error")); got != "internal error" {
		t.Fatalf("expected generic message for untyped error, got %q", got)
	}
	if got := CodeOf(nil); got != Internal {
		t.Fatalf("expected internal for nil error, got %q", got)
	}
}

func TestError_MessageIncludesCause(t *testing.T) {
	t.Parallel()
	err := Wrap(ReadinessTimeout, "url did not match **/france.html", errors.New("timeout 10000ms exceeded"))
	want := "url did not match **/france.html: timeout 10000ms exceeded"
	if err.Error() != want {
		t.Fatalf("Error() mismatch: got=%q want=%q", err.Error(), want)
	}
}

func TestScenarioEnding_EvidenceCaptureNeverAborts(t *testing.T) {
	t.Parallel()
	for _, code := range allCodes() {
		want := code != EvidenceCapture
		if got := ScenarioEnding(code); got != want {
			t.Fatalf("ScenarioEnding(%q)=%v want %v", code, got, want)
		}
	}
}
