package harness

import (
	"context"
	"strings"
	"time"

	"github.com/kuitang/sitecheck/internal/errs"
	"github.com/kuitang/sitecheck/internal/obs"
)

// Status is a scenario outcome.
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// FailureCheckpoint is the fixed checkpoint name for screenshots taken when a
// step fails.
const FailureCheckpoint = "error"

// ScenarioResult reports one scenario's outcome.
type ScenarioResult struct {
	Scenario      string
	Status        Status
	FailureReason string
	FailureCode   errs.Code
	Artifacts     []string
	Duration      time.Duration
}

// Runner sequences scenario steps over a session. Steps run strictly in
// order: each depends on the DOM state the previous one left behind. On the
// first failing step the runner captures failure evidence, records the
// reason, and stops; the session is released on every exit path.
type Runner struct {
	Sessions    SessionSource
	Evidence    *Capturer
	BaseURL     string
	WaitTimeout time.Duration
	SettleDelay time.Duration
}

// Run executes one scenario on a fresh session.
func (r *Runner) Run(ctx context.Context, sc Scenario) ScenarioResult {
	ctx = obs.WithScenario(ctx, sc.Name)
	log := obs.From(ctx)
	start := time.Now()

	result := ScenarioResult{Scenario: sc.Name, Status: StatusPass}

	session, err := r.Sessions.Acquire(ctx)
	if err != nil {
		log.Error("session acquisition failed", "error", err)
		result.Status = StatusFail
		result.FailureReason = errs.MessageOf(err)
		result.FailureCode = errs.CodeOf(err)
		result.Duration = time.Since(start)
		return result
	}
	defer session.Release()

	log.Info("scenario starting", "steps", len(sc.Steps))
	for i, step := range sc.Steps {
		stepCtx := obs.WithStep(ctx, step.Describe())

		if err := ctx.Err(); err != nil {
			result.Status = StatusFail
			result.FailureReason = "run canceled"
			result.FailureCode = errs.Session
			break
		}

		artifact, err := r.runStep(stepCtx, session, step)
		if artifact != "" {
			result.Artifacts = append(result.Artifacts, artifact)
		}
		if err != nil {
			obs.From(stepCtx).Error("step failed", "error", err, "step_index", i+1)
			if path := r.Evidence.CaptureFailure(stepCtx, session.Page(), FailureCheckpoint); path != "" {
				result.Artifacts = append(result.Artifacts, path)
			}
			result.Status = StatusFail
			result.FailureReason = errs.MessageOf(err)
			result.FailureCode = errs.CodeOf(err)
			break
		}
	}

	result.Duration = time.Since(start)
	if result.Status == StatusPass {
		log.Info("scenario passed", "duration", result.Duration.String())
	} else {
		log.Error("scenario failed", "reason", result.FailureReason, "code", string(result.FailureCode))
	}
	return result
}

func (r *Runner) runStep(ctx context.Context, session *Session, step Step) (string, error) {
	page := session.Page()
	switch {
	case step.Goto != nil:
		return "", Goto(ctx, page, r.resolveURL(step.Goto.Path), step.Goto.Ready, r.WaitTimeout)
	case step.Click != nil:
		return "", ClickAndWait(ctx, page, step.Click.Target, step.Click.WaitURL, r.WaitTimeout)
	case step.Normalize != nil:
		return "", NormalizeChecked(ctx, page, step.Normalize.Control, step.Normalize.Checked, r.WaitTimeout, r.SettleDelay)
	case step.Assert != nil:
		return "", AssertVisible(ctx, page, step.Assert.Target, step.Assert.Text, r.WaitTimeout)
	case step.Capture != nil:
		ctx = obs.WithCheckpoint(ctx, step.Capture.Checkpoint)
		return r.Evidence.Capture(ctx, page, step.Capture.Checkpoint, step.Capture.FullPage)
	default:
		return "", errs.New(errs.InvalidArgument, "step has no action")
	}
}

// RunAll executes scenarios sequentially. One scenario's failure does not
// prevent later scenarios from running; each reports independently.
func (r *Runner) RunAll(ctx context.Context, scenarios []Scenario) []ScenarioResult {
	results := make([]ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		results = append(results, r.Run(ctx, sc))
	}
	return results
}

// AnyFailed reports whether any scenario failed, for process exit gating.
func AnyFailed(results []ScenarioResult) bool {
	for _, res := range results {
		if res.Status != StatusPass {
			return true
		}
	}
	return false
}

// resolveURL joins a scenario path onto the configured base URL. Absolute
// URLs pass through so scenarios may deep-link outside the base when needed.
func (r *Runner) resolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "file://") {
		return path
	}
	base := strings.TrimRight(r.BaseURL, "/")
	if path == "" || path == "/" {
		if strings.HasPrefix(base, "file://") {
			return base + "/index.html"
		}
		return base + "/"
	}
	return base + "/" + strings.TrimLeft(path, "/")
}
