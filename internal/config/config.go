// Package config provides configuration for the sitecheck verification harness.
// It loads configuration from CLI flags and environment variables, validates
// required fields, and provides sensible defaults.
//
// The only required input is the site under test: either an http(s) base URL
// or a local directory containing the generated pages (served as file:// URLs).
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultOutputDir   = "verification"
	defaultWaitTimeout = 10 * time.Second
	defaultSettleDelay = 500 * time.Millisecond
)

// Config holds all harness configuration.
type Config struct {
	// Site under test
	BaseURL string // normalized: http(s)://... or file:///abs/dir

	// Evidence output
	OutputDir string // screenshots land here, one file per checkpoint
	FullPage  bool   // capture full-page screenshots at every checkpoint

	// Scenario selection
	ScenarioFile string // optional YAML file; built-in scenarios when empty
	RunOnly      string // optional single scenario name to run

	// Browser behavior
	Headless       bool
	WaitTimeout    time.Duration // bound on every readiness/assertion wait
	SettleDelay    time.Duration // pause after toggling a control
	ViewportWidth  int
	ViewportHeight int
}

// ValidationError represents a configuration validation error with multiple issues.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("configuration validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Flags holds raw CLI flag values. Call ParseFlags before LoadConfig.
type Flags struct {
	Base      string
	Out       string
	Scenarios string
	Only      string
	FullPage  bool
	Headed    bool
	Timeout   time.Duration
}

// ParseFlags registers and parses the harness CLI flags.
func ParseFlags() Flags {
	var f Flags
	flag.StringVar(&f.Base, "base", "", "Base URL of the generated site, or a local directory of generated pages")
	flag.StringVar(&f.Out, "out", "", "Directory for evidence screenshots (default \"verification\")")
	flag.StringVar(&f.Scenarios, "scenarios", "", "Optional YAML scenario file (built-in scenarios when omitted)")
	flag.StringVar(&f.Only, "only", "", "Run only the named scenario")
	flag.BoolVar(&f.FullPage, "full-page", false, "Capture full-page screenshots")
	flag.BoolVar(&f.Headed, "headed", false, "Run the browser with a visible window")
	flag.DurationVar(&f.Timeout, "timeout", 0, "Bound on every wait (default 10s)")
	flag.Parse()
	return f
}

// LoadConfig loads configuration from environment variables and CLI flag values.
// Flags take precedence over environment variables.
func LoadConfig(f Flags) (*Config, error) {
	cfg := &Config{}

	base := f.Base
	if base == "" {
		base = strings.TrimSpace(os.Getenv("SITECHECK_BASE_URL"))
	}
	normalized, baseErr := normalizeBase(base)
	cfg.BaseURL = normalized

	cfg.OutputDir = f.Out
	if cfg.OutputDir == "" {
		cfg.OutputDir = getEnvOrDefault("SITECHECK_OUT_DIR", defaultOutputDir)
	}

	cfg.ScenarioFile = f.Scenarios
	if cfg.ScenarioFile == "" {
		cfg.ScenarioFile = strings.TrimSpace(os.Getenv("SITECHECK_SCENARIOS"))
	}
	cfg.RunOnly = f.Only

	cfg.FullPage = f.FullPage
	cfg.Headless = !f.Headed

	cfg.WaitTimeout = f.Timeout
	if cfg.WaitTimeout == 0 {
		cfg.WaitTimeout = parseDurationOrDefault("SITECHECK_TIMEOUT", defaultWaitTimeout)
	}
	cfg.SettleDelay = parseDurationOrDefault("SITECHECK_SETTLE", defaultSettleDelay)
	cfg.ViewportWidth = parseIntOrDefault("SITECHECK_VIEWPORT_WIDTH", 1280)
	cfg.ViewportHeight = parseIntOrDefault("SITECHECK_VIEWPORT_HEIGHT", 800)

	if err := cfg.validate(baseErr); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalizeBase turns the raw base input into a URL the browser can load.
// http(s) URLs pass through; anything else must be an existing local directory
// and becomes a file:// URL.
func normalizeBase(base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", errors.New("base site is required (set --base or SITECHECK_BASE_URL)")
	}
	if strings.HasPrefix(base, "http://") || strings.HasPrefix(base, "https://") {
		return strings.TrimRight(base, "/"), nil
	}
	if strings.HasPrefix(base, "file://") {
		return strings.TrimRight(base, "/"), nil
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("cannot resolve base directory %q: %v", base, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("base %q is neither an http(s) URL nor an existing directory", base)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("base %q must be a directory of generated pages", base)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}

func (c *Config) validate(baseErr error) error {
	var errs []string

	if baseErr != nil {
		errs = append(errs, baseErr.Error())
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		errs = append(errs, "output directory must not be empty")
	}
	if c.WaitTimeout <= 0 {
		errs = append(errs, "timeout must be positive")
	}
	if c.SettleDelay < 0 {
		errs = append(errs, "settle delay must not be negative")
	}
	if c.ViewportWidth <= 0 || c.ViewportHeight <= 0 {
		errs = append(errs, "viewport dimensions must be positive")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// PrintStartupSummary prints a human-readable summary of the configuration to stderr.
func (c *Config) PrintStartupSummary() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "sitecheck starting...")
	fmt.Fprintf(os.Stderr, "  Site:      %s\n", c.BaseURL)
	fmt.Fprintf(os.Stderr, "  Evidence:  %s\n", c.OutputDir)
	if c.ScenarioFile != "" {
		fmt.Fprintf(os.Stderr, "  Scenarios: %s\n", c.ScenarioFile)
	} else {
		fmt.Fprintln(os.Stderr, "  Scenarios: built-in")
	}
	if c.RunOnly != "" {
		fmt.Fprintf(os.Stderr, "  Only:      %s\n", c.RunOnly)
	}
	fmt.Fprintf(os.Stderr, "  Timeout:   %s\n", c.WaitTimeout)
	if !c.Headless {
		fmt.Fprintln(os.Stderr, "  Browser:   headed")
	}
	fmt.Fprintln(os.Stderr, "")
}

// Helper functions for parsing environment variables

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func parseIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
