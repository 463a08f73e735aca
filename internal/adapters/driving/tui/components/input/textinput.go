// Package input is the single-line question field of the ask view.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
)

// QuestionCharLimit bounds the length of a typed question.
const QuestionCharLimit = 1000

const (
	defaultWidth = 60
	labelWidth   = 16
	minWidth     = 20
)

// QuestionInput is a bubbles textinput that remembers the questions
// asked, shell style: Prev and Next walk the history and the text being
// typed is restored after the newest entry.
type QuestionInput struct {
	field  textinput.Model
	styles *styles.Styles
	width  int

	history []string
	cursor  int // len(history) while editing a new question
	draft   string
}

// NewQuestionInput returns a focused, empty input.
func NewQuestionInput(s *styles.Styles) *QuestionInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	field := textinput.New()
	field.Placeholder = "Ask a question about the document..."
	field.CharLimit = QuestionCharLimit
	field.Width = defaultWidth
	field.Focus()

	return &QuestionInput{field: field, styles: s, width: defaultWidth}
}

// Init starts the cursor blinking.
func (q *QuestionInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update forwards msg to the text field.
func (q *QuestionInput) Update(msg tea.Msg) (*QuestionInput, tea.Cmd) {
	var cmd tea.Cmd
	q.field, cmd = q.field.Update(msg)
	return q, cmd
}

// View renders "Question:" followed by the field.
func (q *QuestionInput) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Center, //nolint:misspell // lipgloss API
		q.styles.Title.Render("Question: "),
		q.styles.InputField.Render(q.field.View()),
	)
}

// Remember appends question to the history unless it repeats the last
// entry, and returns to editing a new question.
func (q *QuestionInput) Remember(question string) {
	if n := len(q.history); question != "" && (n == 0 || q.history[n-1] != question) {
		q.history = append(q.history, question)
	}
	q.cursor = len(q.history)
	q.draft = ""
}

// Prev replaces the text with the previous question in the history.
func (q *QuestionInput) Prev() {
	if q.cursor == 0 {
		return
	}
	if q.cursor == len(q.history) {
		q.draft = q.field.Value()
	}
	q.cursor--
	q.show(q.history[q.cursor])
}

// Next moves towards the newest question, then back to the draft.
func (q *QuestionInput) Next() {
	if q.cursor >= len(q.history) {
		return
	}
	q.cursor++
	if q.cursor == len(q.history) {
		q.show(q.draft)
		return
	}
	q.show(q.history[q.cursor])
}

func (q *QuestionInput) show(text string) {
	q.field.SetValue(text)
	q.field.CursorEnd()
}

// History returns the remembered questions, oldest first.
func (q *QuestionInput) History() []string {
	return append([]string(nil), q.history...)
}

func (q *QuestionInput) Value() string         { return q.field.Value() }
func (q *QuestionInput) SetValue(value string) { q.field.SetValue(value) }
func (q *QuestionInput) Focus() tea.Cmd        { return q.field.Focus() }
func (q *QuestionInput) Blur()                 { q.field.Blur() }
func (q *QuestionInput) Focused() bool         { return q.field.Focused() }
func (q *QuestionInput) Width() int            { return q.width }

// SetWidth sizes the whole component; the field gets what the label leaves.
func (q *QuestionInput) SetWidth(width int) {
	q.width = width
	q.field.Width = max(width-labelWidth, minWidth)
}

// Reset clears the text. The history is kept.
func (q *QuestionInput) Reset() {
	q.field.Reset()
}
