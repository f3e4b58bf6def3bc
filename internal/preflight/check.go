package preflight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/Aman-CERP/rtxswitch/internal/config"
	amerrors "github.com/Aman-CERP/rtxswitch/internal/errors"
	"github.com/Aman-CERP/rtxswitch/internal/lock"
	"github.com/Aman-CERP/rtxswitch/internal/logging"
	"github.com/Aman-CERP/rtxswitch/internal/nvapi"
	"github.com/Aman-CERP/rtxswitch/internal/switcher"
)

// CheckStatus represents the result of a preflight check.
type CheckStatus int

const (
	// StatusPass indicates the check passed successfully.
	StatusPass CheckStatus = iota
	// StatusWarn indicates a non-critical warning.
	StatusWarn
	// StatusFail indicates the check failed.
	StatusFail
	// StatusSkip indicates a prerequisite failed.
	StatusSkip
)

// String returns the string representation of a CheckStatus.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "PASS"
	case StatusWarn:
		return "WARN"
	case StatusFail:
		return "FAIL"
	case StatusSkip:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the status by name in JSON output.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult holds the result of a single preflight check.
type CheckResult struct {
	Name     string      `json:"name"`
	Status   CheckStatus `json:"status"`
	Message  string      `json:"message"`
	Details  string      `json:"details,omitempty"`
	Required bool        `json:"required"`
}

// IsCritical returns true if this is a required check that failed.
func (r CheckResult) IsCritical() bool {
	return r.Required && r.Status == StatusFail
}

// Opener loads the NVAPI library. nvapi.Open satisfies it.
type Opener func(path string, opts ...nvapi.Option) (*nvapi.Driver, error)

// Checker performs preflight validation checks.
type Checker struct {
	open     Opener
	lockPath string
	verbose  bool
	output   io.Writer
	logger   *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithOpener sets how the driver library is loaded.
func WithOpener(open Opener) Option {
	return func(c *Checker) {
		c.open = open
	}
}

// WithLockPath sets the lock file probed by the lock check.
func WithLockPath(path string) Option {
	return func(c *Checker) {
		c.lockPath = path
	}
}

// WithVerbose enables verbose output.
func WithVerbose(verbose bool) Option {
	return func(c *Checker) {
		c.verbose = verbose
	}
}

// WithOutput sets the output writer.
func WithOutput(w io.Writer) Option {
	return func(c *Checker) {
		c.output = w
	}
}

// WithLogger sets the logger handed to the driver.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a new Checker with the given options.
func New(opts ...Option) *Checker {
	c := &Checker{
		open:     nvapi.Open,
		lockPath: logging.DefaultLockPath(),
		output:   os.Stdout,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// run carries state between dependent checks.
type run struct {
	cfg    *config.Config
	driver *nvapi.Driver
	sw     *switcher.Switcher
	ready  bool
	gpuOK  bool
}

// RunAll runs all preflight checks and returns the results.
func (c *Checker) RunAll(ctx context.Context, cfg *config.Config) []CheckResult {
	r := &run{cfg: cfg}

	checks := []func(*run) CheckResult{
		c.checkConfig,
		c.checkPlatform,
		c.checkLibrary,
		c.checkFunctions,
		c.checkInitialize,
		c.checkGPU,
		c.checkProfile,
		c.checkLock,
	}

	results := make([]CheckResult, 0, len(checks))
	for _, check := range checks {
		if ctx.Err() != nil {
			break
		}
		results = append(results, check(r))
	}
	return results
}

func skipped(name, reason string, required bool) CheckResult {
	return CheckResult{Name: name, Status: StatusSkip, Message: reason, Required: required}
}

func (c *Checker) checkConfig(r *run) CheckResult {
	result := CheckResult{Name: "config", Required: true}
	if err := r.cfg.Validate(); err != nil {
		result.Status = StatusFail
		result.Message = err.Error()
		return result
	}
	result.Status = StatusPass
	result.Message = fmt.Sprintf("profile %q, setting %s, marker %q", r.cfg.ProfileName, r.cfg.SettingID, r.cfg.GPUMarker)
	result.Details = "config file: " + config.GetUserConfigPath()
	return result
}

func (c *Checker) checkPlatform(_ *run) CheckResult {
	result := CheckResult{Name: "platform", Required: true}
	platform := runtime.GOOS + "/" + runtime.GOARCH
	switch runtime.GOOS + "/" + runtime.GOARCH {
	case "windows/amd64", "windows/arm64", "linux/amd64", "linux/arm64":
		result.Status = StatusPass
		result.Message = platform
	default:
		result.Status = StatusFail
		result.Message = platform + " is not supported"
	}
	return result
}

func (c *Checker) checkLibrary(r *run) CheckResult {
	const name = "library"
	result := CheckResult{Name: name, Required: true}

	d, err := c.open(r.cfg.LibraryPath, nvapi.WithLogger(c.logger))
	if err != nil {
		result.Status = StatusFail
		result.Message = err.Error()
		if e, ok := amerrors.As(switcher.DriverError(err)); ok {
			result.Details = e.Suggestion
		}
		return result
	}

	r.driver = d
	r.sw = switcher.New(d, nil,
		switcher.WithLogger(c.logger),
		switcher.WithProfile(r.cfg.ProfileName),
		switcher.WithSetting(nvapi.SettingID(r.cfg.SettingID)),
		switcher.WithGPUMarker(r.cfg.GPUMarker),
		switcher.WithMaxGPUs(r.cfg.MaxGPUs))

	result.Status = StatusPass
	result.Message = "loaded " + d.Source()
	result.Details = nvapi.EntryPoint + " found"
	return result
}

func (c *Checker) checkFunctions(r *run) CheckResult {
	const name = "functions"
	if r.driver == nil {
		return skipped(name, "library not loaded", true)
	}

	result := CheckResult{Name: name, Required: true}
	var missing, optional, found []string
	for _, p := range r.driver.Probe() {
		switch {
		case p.Available:
			found = append(found, p.Name)
		case p.Mandatory:
			missing = append(missing, p.Name)
		default:
			optional = append(optional, p.Name)
		}
	}
	result.Details = "available: " + strings.Join(found, ", ")

	switch {
	case len(missing) > 0:
		result.Status = StatusFail
		result.Message = "missing: " + strings.Join(missing, ", ")
	case len(optional) > 0:
		result.Status = StatusWarn
		result.Message = "optional missing: " + strings.Join(optional, ", ") + " (errors will carry status codes only)"
	default:
		result.Status = StatusPass
		result.Message = fmt.Sprintf("all %d functions resolved", len(found))
	}
	return result
}

func (c *Checker) checkInitialize(r *run) CheckResult {
	const name = "initialize"
	if r.driver == nil {
		return skipped(name, "library not loaded", true)
	}

	result := CheckResult{Name: name, Required: true}
	if err := r.driver.Init(); err != nil {
		result.Status = StatusFail
		result.Message = err.Error()
		return result
	}
	r.ready = true
	result.Status = StatusPass
	result.Message = "NvAPI_Initialize OK"
	return result
}

func (c *Checker) checkGPU(r *run) CheckResult {
	const name = "gpu"
	if !r.ready {
		return skipped(name, "driver not initialized", true)
	}

	result := CheckResult{Name: name, Required: true}
	gpus, err := r.sw.ListGPUs()
	if err != nil {
		result.Status = StatusFail
		result.Message = switcher.MsgEnumFailed
		result.Details = err.Error()
		return result
	}

	var names, qualifying []string
	for _, g := range gpus {
		if g.Err != nil {
			names = append(names, fmt.Sprintf("#%d: %v", g.Index, g.Err))
			continue
		}
		names = append(names, fmt.Sprintf("#%d: %s", g.Index, g.Name))
		if g.Qualifies {
			qualifying = append(qualifying, g.Name)
		}
	}
	result.Details = strings.Join(names, "; ")

	if len(qualifying) == 0 {
		result.Status = StatusFail
		result.Message = switcher.MsgNoQualifyingGPU
		return result
	}
	r.gpuOK = true
	result.Status = StatusPass
	result.Message = qualifying[0]
	return result
}

func (c *Checker) checkProfile(r *run) CheckResult {
	const name = "profile"
	if !r.ready {
		return skipped(name, "driver not initialized", true)
	}

	result := CheckResult{Name: name, Required: true}
	value, err := r.sw.Query()
	if err != nil {
		switch {
		case amerrors.GetCode(err) == amerrors.ErrCodeProfileNotFound:
			result.Status = StatusFail
			result.Message = switcher.ProfileMissing(r.cfg.ProfileName)
		case nvapi.IsSettingNotFound(err):
			result.Status = StatusWarn
			result.Message = fmt.Sprintf("%s found, setting %s not set", r.cfg.ProfileName, r.cfg.SettingID)
		default:
			result.Status = StatusFail
			result.Message = fmt.Sprintf("reading setting %s failed", r.cfg.SettingID)
		}
		result.Details = err.Error()
		return result
	}

	state := "disabled"
	if value == 1 {
		state = "enabled"
	}
	result.Status = StatusPass
	result.Message = fmt.Sprintf("%s: %s = %d (%s)", switcher.ProfileFound(r.cfg.ProfileName), r.cfg.SettingID, value, state)
	return result
}

func (c *Checker) checkLock(_ *run) CheckResult {
	result := CheckResult{Name: "lock", Required: false}
	l := lock.New(c.lockPath)
	err := l.TryLock()
	switch {
	case errors.Is(err, lock.ErrHeld):
		result.Status = StatusWarn
		result.Message = "another rtxswitch process is running"
	case err != nil:
		result.Status = StatusWarn
		result.Message = err.Error()
	default:
		_ = l.Unlock()
		result.Status = StatusPass
		result.Message = "free"
	}
	result.Details = c.lockPath
	return result
}

// HasCriticalFailures returns true if any required check failed.
func (c *Checker) HasCriticalFailures(results []CheckResult) bool {
	for _, r := range results {
		if r.IsCritical() {
			return true
		}
	}
	return false
}

// SummaryStatus returns a summary status string for the results.
func (c *Checker) SummaryStatus(results []CheckResult) string {
	hasWarnings := false
	hasCriticalFailure := false

	for _, r := range results {
		if r.IsCritical() {
			hasCriticalFailure = true
		}
		if r.Status == StatusWarn || (r.Status == StatusFail && !r.Required) {
			hasWarnings = true
		}
	}

	if hasCriticalFailure {
		return "failed"
	}
	if hasWarnings {
		return "ready_with_warnings"
	}
	return "ready"
}

// PrintResults prints check results to the configured output.
func (c *Checker) PrintResults(results []CheckResult) {
	_, _ = fmt.Fprintln(c.output, "rtxswitch Driver Check")
	_, _ = fmt.Fprintln(c.output, "======================")
	_, _ = fmt.Fprintln(c.output)

	for _, r := range results {
		_, _ = fmt.Fprintf(c.output, "[%s] %s: %s\n", r.Status, r.Name, r.Message)
		if c.verbose && r.Details != "" {
			_, _ = fmt.Fprintf(c.output, "       %s\n", r.Details)
		}
	}

	_, _ = fmt.Fprintln(c.output)
	_, _ = fmt.Fprintf(c.output, "Status: %s\n", strings.ToUpper(c.SummaryStatus(results)))

	var failures, warnings []string
	for _, r := range results {
		if r.IsCritical() {
			failures = append(failures, r.Name+": "+r.Message)
		} else if r.Status == StatusWarn {
			warnings = append(warnings, r.Name+": "+r.Message)
		}
	}

	if len(failures) > 0 {
		_, _ = fmt.Fprintln(c.output)
		_, _ = fmt.Fprintf(c.output, "%d error(s):\n", len(failures))
		for _, f := range failures {
			_, _ = fmt.Fprintf(c.output, "  - %s\n", f)
		}
	}

	if len(warnings) > 0 {
		_, _ = fmt.Fprintln(c.output)
		_, _ = fmt.Fprintf(c.output, "%d warning(s):\n", len(warnings))
		for _, w := range warnings {
			_, _ = fmt.Fprintf(c.output, "  - %s\n", w)
		}
	}
}
