// Package ui renders the notification stream of a settings change, either as
// an interactive two-button terminal UI or as plain lines for pipes and CI.
package ui

import (
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/Aman-CERP/rtxswitch/internal/switcher"
)

// Tone is the display category of a notification line.
type Tone int

const (
	// ToneInfo is any status line without a result.
	ToneInfo Tone = iota
	// ToneEnabled marks a successful enable.
	ToneEnabled
	// ToneDisabled marks a successful disable.
	ToneDisabled
	// ToneAlready marks a request that changed nothing.
	ToneAlready
	// ToneWarning marks a GPU gate or enumeration problem.
	ToneWarning
	// ToneError marks an "Error: " line.
	ToneError
)

// String returns the tone name.
func (t Tone) String() string {
	switch t {
	case ToneInfo:
		return "info"
	case ToneEnabled:
		return "enabled"
	case ToneDisabled:
		return "disabled"
	case ToneAlready:
		return "already"
	case ToneWarning:
		return "warning"
	case ToneError:
		return "error"
	default:
		return "unknown"
	}
}

// Classify picks the tone of a notification line by substring, which is the
// contract the core keeps its vocabulary stable for.
func Classify(line string) Tone {
	switch {
	case strings.HasPrefix(line, switcher.ErrorPrefix):
		return ToneError
	case strings.Contains(line, "Successfully") && strings.Contains(line, "enabled"):
		return ToneEnabled
	case strings.Contains(line, "Successfully") && strings.Contains(line, "disabled"):
		return ToneDisabled
	case strings.Contains(line, "already"):
		return ToneAlready
	case line == switcher.MsgNoQualifyingGPU,
		line == switcher.MsgEnumFailed,
		strings.HasPrefix(line, "Failed to get GPU #"):
		return ToneWarning
	default:
		return ToneInfo
	}
}

// Config configures the UI renderer.
type Config struct {
	Output     io.Writer
	ErrOutput  io.Writer
	ForcePlain bool
	NoColor    bool
}

// ConfigOption is a function that modifies Config.
type ConfigOption func(*Config)

// WithForcePlain forces plain text output.
func WithForcePlain(force bool) ConfigOption {
	return func(c *Config) {
		c.ForcePlain = force
	}
}

// WithNoColor disables color output.
func WithNoColor(noColor bool) ConfigOption {
	return func(c *Config) {
		c.NoColor = noColor
	}
}

// WithErrOutput sets where plain mode writes errors.
func WithErrOutput(w io.Writer) ConfigOption {
	return func(c *Config) {
		c.ErrOutput = w
	}
}

// NewConfig creates a new Config with the given output and options.
func NewConfig(output io.Writer, opts ...ConfigOption) Config {
	cfg := Config{
		Output:    output,
		ErrOutput: os.Stderr,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	if DetectNoColor() {
		cfg.NoColor = true
	}
	return cfg
}

// Interactive reports whether the TUI can run: output is a terminal, plain
// mode was not requested, and no CI environment is detected.
func (c Config) Interactive() bool {
	return !c.ForcePlain && IsTTY(c.Output) && !DetectCI()
}

// IsTTY checks if output is a terminal.
func IsTTY(w io.Writer) bool {
	if w == nil {
		return false
	}

	// Check if it's a file that's a terminal
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	return false
}

// DetectNoColor checks if NO_COLOR environment variable is set.
func DetectNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// DetectCI checks if running in a CI environment.
func DetectCI() bool {
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "TRAVIS"}
	for _, v := range ciVars {
		if _, exists := os.LookupEnv(v); exists {
			return true
		}
	}
	return false
}
