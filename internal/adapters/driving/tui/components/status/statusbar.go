// Package status renders the one-line bar at the bottom of the ask view.
package status

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
)

// State is what the ask view is doing.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateAnswered State = "answered"
	StateWarning  State = "warning"
	StateError    State = "error"
)

// Bar shows the state on the left and key hints on the right.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	hints  help.Model

	state       State
	message     string
	sourceCount int
	elapsed     time.Duration
	width       int
}

// NewBar creates a bar in StateReady. Nil arguments take the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	hints := help.New()
	hints.ShortSeparator = " | "
	hints.Styles.ShortKey = s.Muted.Bold(true)
	hints.Styles.ShortDesc = s.Muted
	hints.Styles.ShortSeparator = s.Muted

	return &Bar{styles: s, keymap: km, hints: hints, state: StateReady, width: 80}
}

// View renders the bar at its configured width.
func (s *Bar) View() string {
	left, right := s.status(), s.hints.ShortHelpView(s.bindings())
	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) status() string {
	switch s.state {
	case StateThinking:
		return s.styles.Muted.Render("Thinking...")
	case StateWarning:
		return s.styles.Warning.Render(s.message)
	case StateError:
		return s.styles.Error.Render(cmp.Or(s.message, "Error"))
	case StateAnswered:
		text := fmt.Sprintf("Answered from %d passages", s.sourceCount)
		if s.elapsed > 0 {
			text += " in " + s.elapsed.Round(100*time.Millisecond).String()
		}
		return s.styles.Success.Render(text)
	}
	return s.styles.Muted.Render(cmp.Or(s.message, "Ready"))
}

// bindings offers the sources toggle only once there is an answer.
func (s *Bar) bindings() []key.Binding {
	if s.state == StateAnswered {
		return s.keymap.AnswerHelp()
	}
	return s.keymap.ShortHelp()
}

func (s *Bar) SetState(state State)      { s.state = state }
func (s *Bar) State() State              { return s.state }
func (s *Bar) SetMessage(message string) { s.message = message }
func (s *Bar) Message() string           { return s.message }
func (s *Bar) SetWidth(width int)        { s.width = width }
func (s *Bar) Width() int                { return s.width }

// Answered switches to StateAnswered for an answer built from sources
// passages that took elapsed to produce.
func (s *Bar) Answered(sources int, elapsed time.Duration) {
	s.state = StateAnswered
	s.sourceCount = sources
	s.elapsed = elapsed
}

// SourceCount is the number of passages behind the last answer.
func (s *Bar) SourceCount() int { return s.sourceCount }

// Elapsed is how long the last answer took.
func (s *Bar) Elapsed() time.Duration { return s.elapsed }

// Clear returns to StateReady with no message.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.sourceCount = 0
	s.elapsed = 0
}
