// sitecheck drives a real browser against a generated report site and
// verifies that each level of navigation renders its expected structure and
// localized text, writing screenshots as evidence for human review.
//
// Exit code is nonzero when any scenario fails, so the harness composes with
// CI gating. Evidence (including the "error" screenshot on failure) is always
// written before exit.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kuitang/sitecheck/internal/config"
	"github.com/kuitang/sitecheck/internal/harness"
	"github.com/kuitang/sitecheck/internal/obs"
)

func main() {
	os.Exit(run())
}

func run() int {
	obs.Init()
	log := obs.Pkg("main")

	flags := config.ParseFlags()
	cfg, err := config.LoadConfig(flags)
	if err != nil {
		var verr *config.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintln(os.Stderr, verr.Error())
		} else {
			fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		}
		return 2
	}
	cfg.PrintStartupSummary()

	scenarios := harness.DefaultScenarios()
	if cfg.ScenarioFile != "" {
		scenarios, err = harness.LoadScenarioFile(cfg.ScenarioFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid scenario file: %v\n", err)
			return 2
		}
	}
	if cfg.RunOnly != "" {
		scenarios, err = harness.SelectScenario(scenarios, cfg.RunOnly)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return 2
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := harness.NewManager(harness.ManagerOptions{
		Headless:       cfg.Headless,
		WaitTimeout:    cfg.WaitTimeout,
		ViewportWidth:  cfg.ViewportWidth,
		ViewportHeight: cfg.ViewportHeight,
	})
	if err := manager.Start(); err != nil {
		log.Error("browser startup failed", "error", err)
		fmt.Fprintf(os.Stderr, "could not start browser: %v\n", err)
		return 2
	}
	defer manager.Stop()

	runner := &harness.Runner{
		Sessions:    manager,
		Evidence:    harness.NewCapturer(cfg.OutputDir, cfg.FullPage),
		BaseURL:     cfg.BaseURL,
		WaitTimeout: cfg.WaitTimeout,
		SettleDelay: cfg.SettleDelay,
	}

	results := runner.RunAll(ctx, scenarios)
	printSummary(results)

	if harness.AnyFailed(results) {
		return 1
	}
	return 0
}

func printSummary(results []harness.ScenarioResult) {
	fmt.Println()
	for _, res := range results {
		if res.Status == harness.StatusPass {
			fmt.Printf("PASS  %-16s %s  (%d artifacts)\n", res.Scenario, res.Duration.Round(time.Millisecond), len(res.Artifacts))
			continue
		}
		fmt.Printf("FAIL  %-16s %s  %s: %s\n", res.Scenario, res.Duration.Round(time.Millisecond), res.FailureCode, res.FailureReason)
	}
	fmt.Println()
}
