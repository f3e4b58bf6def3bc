package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/Aman-CERP/rtxswitch/internal/notify"
)

// PlainRenderer prints notification lines one per line (for CI/pipes).
//
// "Error: " lines are not printed: the command returns the same error and it
// is written once to the error output with its hint.
type PlainRenderer struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	styles Styles
}

// NewPlainRenderer creates a plain text renderer.
func NewPlainRenderer(cfg Config) *PlainRenderer {
	errOut := cfg.ErrOutput
	if errOut == nil {
		errOut = cfg.Output
	}
	return &PlainRenderer{
		out:    cfg.Output,
		errOut: errOut,
		styles: GetStyles(cfg.NoColor),
	}
}

// Listen prints one notification line. It satisfies notify.Listener.
func (r *PlainRenderer) Listen(line string) {
	if Classify(line) == ToneError {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.out, r.styles.Render(line))
}

// Attach subscribes the renderer to stream and returns the unsubscribe func.
func (r *PlainRenderer) Attach(stream *notify.Stream) func() {
	return stream.Subscribe(r.Listen)
}

// Error writes a preformatted error report to the error output.
func (r *PlainRenderer) Error(report string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render(report))
}
