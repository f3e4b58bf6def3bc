package ui

import "github.com/charmbracelet/lipgloss"

// Color palette. Result lines keep the colors the notification vocabulary
// implies: green for enabled, red for disabled, olive for no-ops.
const (
	ColorGreen    = "34"  // Successfully enabled
	ColorRed      = "160" // Successfully disabled
	ColorOlive    = "100" // Already in the requested state
	ColorWhite    = "255" // Headers, important text
	ColorGray     = "245" // Secondary text, labels
	ColorDarkGray = "238" // Box borders, separators
	ColorError    = "196" // Errors
	ColorYellow   = "220" // Warnings
)

// Styles holds all UI styles for TUI rendering.
type Styles struct {
	// Text styles
	Header   lipgloss.Style
	Enabled  lipgloss.Style
	Disabled lipgloss.Style
	Already  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Dim      lipgloss.Style
	Label    lipgloss.Style
	Spinner  lipgloss.Style

	// Widgets
	Button       lipgloss.Style
	ButtonActive lipgloss.Style
	Panel        lipgloss.Style
	Dialog       lipgloss.Style
}

// DefaultStyles returns styled components for TUI mode.
func DefaultStyles() Styles {
	button := lipgloss.NewStyle().
		Padding(0, 3).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorDarkGray))

	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite)),
		Enabled:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)),
		Disabled: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Already:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorOlive)),
		Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorError)),
		Dim:      lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Label:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Spinner:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGreen)),

		Button:       button,
		ButtonActive: button.Bold(true).BorderForeground(lipgloss.Color(ColorWhite)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorDarkGray)).
			Padding(0, 1),
		Dialog: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color(ColorError)).
			Padding(0, 1),
	}
}

// NoColorStyles returns unstyled components for plain mode. Borders stay so
// buttons and dialogs remain recognizable.
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	button := plain.Padding(0, 3).Border(lipgloss.NormalBorder())
	return Styles{
		Header:       plain,
		Enabled:      plain,
		Disabled:     plain,
		Already:      plain,
		Warning:      plain,
		Error:        plain,
		Dim:          plain,
		Label:        plain,
		Spinner:      plain,
		Button:       button,
		ButtonActive: button.Border(lipgloss.ThickBorder()),
		Panel:        plain.Border(lipgloss.NormalBorder()).Padding(0, 1),
		Dialog:       plain.Border(lipgloss.DoubleBorder()).Padding(0, 1),
	}
}

// GetStyles returns the appropriate styles based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}

// ForTone returns the style for a notification line of the given tone.
func (s Styles) ForTone(t Tone) lipgloss.Style {
	switch t {
	case ToneEnabled:
		return s.Enabled
	case ToneDisabled:
		return s.Disabled
	case ToneAlready:
		return s.Already
	case ToneError:
		return s.Error
	case ToneWarning:
		return s.Warning
	default:
		return lipgloss.NewStyle()
	}
}

// Render styles a notification line by its tone.
func (s Styles) Render(line string) string {
	return s.ForTone(Classify(line)).Render(line)
}
