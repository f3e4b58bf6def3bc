package ui

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/semaphore"

	amerrors "github.com/Aman-CERP/rtxswitch/internal/errors"
	"github.com/Aman-CERP/rtxswitch/internal/notify"
	"github.com/Aman-CERP/rtxswitch/internal/switcher"
)

const (
	maxLogLines = 500
	lineBuffer  = 64

	// MsgBusy is logged when a button is pressed while a change runs.
	MsgBusy = "A change is already running."
)

// ApplyFunc performs one blocking settings change.
type ApplyFunc func(enable bool) (switcher.Result, error)

type button int

const (
	buttonEnable button = iota
	buttonDisable
)

// Message types for bubbletea
type lineMsg string
type doneMsg struct {
	result switcher.Result
	err    error
}

// Model is the two-button settings window. Lines from the notification
// stream are appended to its log; errors open a dialog that must be
// dismissed.
type Model struct {
	apply  ApplyFunc
	sem    *semaphore.Weighted
	lines  chan string
	done   chan struct{}
	unsub  func()
	closed sync.Once

	styles  Styles
	spinner spinner.Model
	title   string

	focus     button
	running   bool
	quitAfter bool
	quitting  bool
	log       []string
	dialog    string
	last      switcher.Result
	width     int
	height    int
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithStyles sets the styles used for rendering.
func WithStyles(s Styles) ModelOption {
	return func(m *Model) {
		m.styles = s
	}
}

// WithTitle sets the window title.
func WithTitle(title string) ModelOption {
	return func(m *Model) {
		m.title = title
	}
}

// NewModel creates a model that runs apply on button presses and shows the
// lines published on stream. Call Close when the program ends.
func NewModel(apply ApplyFunc, stream *notify.Stream, opts ...ModelOption) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := &Model{
		apply:   apply,
		sem:     semaphore.NewWeighted(1),
		lines:   make(chan string, lineBuffer),
		done:    make(chan struct{}),
		styles:  DefaultStyles(),
		spinner: s,
		title:   "rtxswitch",
		width:   80,
		height:  24,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.spinner.Style = m.styles.Spinner

	m.unsub = stream.Subscribe(func(line string) {
		select {
		case m.lines <- line:
		case <-m.done:
		}
	})
	return m
}

// Close detaches the model from the stream. Listeners blocked on a full
// buffer are released.
func (m *Model) Close() {
	m.closed.Do(func() {
		m.unsub()
		close(m.done)
	})
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForLine()
}

// waitForLine delivers the next stream line as a message.
func (m *Model) waitForLine() tea.Cmd {
	lines, done := m.lines, m.done
	return func() tea.Msg {
		select {
		case line := <-lines:
			return lineMsg(line)
		case <-done:
			return nil
		}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case lineMsg:
		m.appendLine(string(msg))
		return m, m.waitForLine()

	case doneMsg:
		m.running = false
		m.last = msg.result
		if msg.err != nil {
			m.dialog = amerrors.FormatForUser(msg.err)
		}
		if m.quitAfter {
			m.quitting = true
			return m, tea.Quit
		}

	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m.quit()
	}

	if m.dialog != "" {
		switch key {
		case "enter", "esc", " ", "q":
			m.dialog = ""
		}
		return m, nil
	}

	switch key {
	case "q", "esc":
		return m.quit()
	case "left", "right", "h", "l", "tab", "shift+tab":
		if m.focus == buttonEnable {
			m.focus = buttonDisable
		} else {
			m.focus = buttonEnable
		}
	case "e":
		m.focus = buttonEnable
		return m, m.trigger(true)
	case "d":
		m.focus = buttonDisable
		return m, m.trigger(false)
	case "enter", " ":
		return m, m.trigger(m.focus == buttonEnable)
	}
	return m, nil
}

// quit exits now, or once the running change completes. A driver call in
// flight is never abandoned.
func (m *Model) quit() (tea.Model, tea.Cmd) {
	if m.running {
		m.quitAfter = true
		return m, nil
	}
	m.quitting = true
	return m, tea.Quit
}

// trigger starts a change unless one is already running.
func (m *Model) trigger(enable bool) tea.Cmd {
	if !m.sem.TryAcquire(1) {
		m.appendLine(MsgBusy)
		return nil
	}
	m.running = true

	apply, sem := m.apply, m.sem
	run := func() tea.Msg {
		defer sem.Release(1)
		res, err := apply(enable)
		return doneMsg{result: res, err: err}
	}
	return tea.Batch(m.spinner.Tick, run)
}

func (m *Model) appendLine(line string) {
	m.log = append(m.log, line)
	if n := len(m.log) - maxLogLines; n > 0 {
		m.log = append(m.log[:0:0], m.log[n:]...)
	}
}

// Log returns the lines shown so far.
func (m *Model) Log() []string {
	return m.log
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	width := m.width - 4
	if width < 40 {
		width = 40
	}

	sections := []string{
		m.styles.Header.Render(m.title),
		m.renderButtons(),
		m.renderStatus(),
		m.renderLog(width),
	}
	if m.dialog != "" {
		sections = append(sections, m.renderDialog(width))
	}
	sections = append(sections, m.styles.Dim.Render("←/→ select • enter apply • e enable • d disable • q quit"))

	return strings.Join(sections, "\n")
}

func (m *Model) renderButtons() string {
	enable, disable := m.styles.Button, m.styles.Button
	if m.focus == buttonEnable {
		enable = m.styles.ButtonActive
	} else {
		disable = m.styles.ButtonActive
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		enable.Render("Enable RTX"),
		"  ",
		disable.Render("Disable RTX"),
	)
}

func (m *Model) renderStatus() string {
	switch {
	case m.running && m.quitAfter:
		return m.spinner.View() + " Finishing the current change before exit..."
	case m.running:
		return m.spinner.View() + " Applying..."
	default:
		return ""
	}
}

// renderLog shows the newest lines that fit the window.
func (m *Model) renderLog(width int) string {
	rows := m.height - 12
	if rows < 3 {
		rows = 3
	}
	lines := m.log
	if len(lines) > rows {
		lines = lines[len(lines)-rows:]
	}

	rendered := make([]string, len(lines))
	for i, line := range lines {
		rendered[i] = m.styles.Render(line)
	}
	return m.styles.Panel.Width(width).Render(strings.Join(rendered, "\n"))
}

func (m *Model) renderDialog(width int) string {
	body := m.styles.Error.Render("Error") + "\n\n" + m.dialog + "\n\n" + m.styles.Dim.Render("[enter] OK")
	return m.styles.Dialog.Width(width).Render(body)
}

// Run shows the settings window until the user quits or ctx is done.
func Run(ctx context.Context, cfg Config, apply ApplyFunc, stream *notify.Stream, title string) error {
	m := NewModel(apply, stream, WithStyles(GetStyles(cfg.NoColor)), WithTitle(title))
	defer m.Close()

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if f, ok := cfg.Output.(*os.File); ok {
		opts = append(opts, tea.WithOutput(f))
	}

	_, err := tea.NewProgram(m, opts...).Run()
	return err
}
