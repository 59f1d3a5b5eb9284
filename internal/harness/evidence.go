package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/kuitang/sitecheck/internal/errs"
	"github.com/kuitang/sitecheck/internal/obs"
)

// Capturer writes evidence screenshots to a fixed output directory. Paths are
// derived from the checkpoint name alone and overwritten on each run, so
// repeated runs produce a comparable file set.
type Capturer struct {
	Dir      string
	FullPage bool // default for checkpoints that do not override it
}

// NewCapturer creates a Capturer writing under dir.
func NewCapturer(dir string, fullPage bool) *Capturer {
	return &Capturer{Dir: dir, FullPage: fullPage}
}

// Path returns the evidence file path for a checkpoint name.
func (c *Capturer) Path(checkpoint string) string {
	return filepath.Join(c.Dir, sanitizeCheckpoint(checkpoint)+".png")
}

// Capture writes a screenshot for the checkpoint and returns its path.
func (c *Capturer) Capture(ctx context.Context, page playwright.Page, checkpoint string, fullPage bool) (string, error) {
	if strings.TrimSpace(checkpoint) == "" {
		return "", errs.New(errs.InvalidArgument, "checkpoint name must not be empty")
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return "", errs.Wrap(errs.EvidenceCapture,
			fmt.Sprintf("creating evidence directory %s", c.Dir), err)
	}

	path := c.Path(checkpoint)
	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(fullPage || c.FullPage),
	}); err != nil {
		return "", errs.Wrap(errs.EvidenceCapture,
			fmt.Sprintf("writing screenshot %s", path), err)
	}

	obs.From(ctx).Info("evidence captured", "path", path)
	return path, nil
}

// CaptureFailure takes a best-effort screenshot from whatever session state
// exists at the moment of failure. It never returns an error: a failed capture
// is logged and must not mask the step failure that triggered it. Returns the
// written path, or "" when nothing could be captured.
func (c *Capturer) CaptureFailure(ctx context.Context, page playwright.Page, checkpoint string) string {
	if page == nil {
		obs.From(ctx).Warn("no page available for failure evidence", "checkpoint", checkpoint)
		return ""
	}
	path, err := c.Capture(ctx, page, checkpoint, false)
	if err != nil {
		obs.From(ctx).Warn("failure evidence capture failed", "checkpoint", checkpoint, "error", err)
		return ""
	}
	return path
}

// sanitizeCheckpoint keeps checkpoint-derived file names deterministic and
// filesystem-safe.
func sanitizeCheckpoint(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	out := b.String()
	if out == "" {
		return "checkpoint"
	}
	return out
}
