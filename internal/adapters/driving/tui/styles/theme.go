// Package styles holds the colours and lipgloss styles of the docqa TUI.
package styles

import "github.com/charmbracelet/lipgloss"

// Similarity bands used to colour retrieval scores. Cosine scores from
// current embedding models rarely fall below 0.3 for related text.
const (
	StrongMatch = 0.75
	FairMatch   = 0.5
)

// Theme is the palette. Each colour adapts to light and dark terminals.
type Theme struct {
	Accent     lipgloss.AdaptiveColor // titles, answer border
	Highlight  lipgloss.AdaptiveColor // subtitles, spinner
	Text       lipgloss.AdaptiveColor
	Dim        lipgloss.AdaptiveColor
	Good       lipgloss.AdaptiveColor
	Caution    lipgloss.AdaptiveColor
	Bad        lipgloss.AdaptiveColor
	Frame      lipgloss.AdaptiveColor
	StatusFill lipgloss.AdaptiveColor
}

// DefaultTheme returns the built-in palette.
func DefaultTheme() *Theme {
	return &Theme{
		Accent:     lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#A78BFA"},
		Highlight:  lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#67E8F9"},
		Text:       lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#E5E7EB"},
		Dim:        lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"},
		Good:       lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#86EFAC"},
		Caution:    lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FCD34D"},
		Bad:        lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#FCA5A5"},
		Frame:      lipgloss.AdaptiveColor{Light: "#D1D5DB", Dark: "#4B5563"},
		StatusFill: lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#1F2937"},
	}
}

// Styles are the rendered styles, built once from a Theme.
type Styles struct {
	theme *Theme

	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Normal     lipgloss.Style
	Muted      lipgloss.Style
	Error      lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	InputField lipgloss.Style
	Answer     lipgloss.Style
	Spinner    lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
}

// NewStyles builds styles from theme, or from DefaultTheme when nil.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}
	fg := func(c lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	boxed := func(border lipgloss.AdaptiveColor) lipgloss.Style {
		return lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1)
	}

	return &Styles{
		theme:      theme,
		Title:      fg(theme.Accent).Bold(true),
		Subtitle:   fg(theme.Highlight).Bold(true),
		Normal:     fg(theme.Text),
		Muted:      fg(theme.Dim),
		Error:      fg(theme.Bad),
		Success:    fg(theme.Good),
		Warning:    fg(theme.Caution).Bold(true),
		InputField: boxed(theme.Frame),
		Answer:     boxed(theme.Accent).Foreground(theme.Text),
		Spinner:    fg(theme.Highlight),
		StatusBar:  fg(theme.Dim).Background(theme.StatusFill).Padding(0, 1),
		Help:       fg(theme.Dim),
	}
}

// DefaultStyles returns styles for DefaultTheme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Score picks the style for a retrieval similarity score.
func (s *Styles) Score(score float64) lipgloss.Style {
	switch {
	case score >= StrongMatch:
		return s.Success
	case score >= FairMatch:
		return s.Warning
	default:
		return s.Muted
	}
}
