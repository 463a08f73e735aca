// Package ask provides the question and answer view for the TUI.
package ask

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// EmptyQuestionWarning is shown when the user submits a blank question.
const EmptyQuestionWarning = "Please enter a question."

// View asks questions about one document and shows the answers.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	spinner   spinner.Model
	help      help.Model
	answer    viewport.Model
	sources   *list.SourceList
	statusbar *status.Bar

	session driving.QASession
	ctx     context.Context

	width       int
	height      int
	ready       bool
	thinking    bool
	showSources bool
	showHelp    bool
	question    string
	text        string
	err         error
}

// NewView creates a new ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, session driving.QASession) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.Spinner))

	v := &View{
		styles:    s,
		keymap:    km,
		input:     input.NewQuestionInput(s),
		spinner:   sp,
		help:      help.New(),
		answer:    viewport.New(80, 10),
		sources:   list.NewSourceList(s),
		statusbar: status.NewBar(s, km),
		session:   session,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
	v.resetStatus()
	return v
}

// resetStatus shows the document summary in the status bar.
func (v *View) resetStatus() {
	v.statusbar.Clear()
	if v.session != nil {
		v.statusbar.SetMessage(describe(v.session.Document()))
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.QuestionSubmitted:
		v.input.SetValue(msg.Question)
		return v, v.submit()

	case messages.AnswerCompleted:
		v.handleAnswerCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.thinking = false
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil

	case spinner.TickMsg:
		if !v.thinking {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()

	switch {
	case keymap.Matches(key, v.keymap.Ask):
		return v, v.submit()

	case keymap.Matches(key, v.keymap.Clear):
		v.input.Reset()
		if state := v.statusbar.State(); state == status.StateWarning || state == status.StateError {
			v.resetStatus()
		}
		return v, nil

	case keymap.Matches(key, v.keymap.Sources):
		v.showSources = !v.showSources
		v.layout()
		return v, nil

	case keymap.Matches(key, v.keymap.Help):
		v.showHelp = !v.showHelp
		v.help.ShowAll = v.showHelp
		return v, nil

	case keymap.Matches(key, v.keymap.PrevQuestion):
		v.input.Prev()
		return v, nil

	case keymap.Matches(key, v.keymap.NextQuestion):
		v.input.Next()
		return v, nil

	case keymap.Matches(key, v.keymap.ScrollUp):
		v.scroll(-max(v.answer.Height/2, 1))
		return v, nil

	case keymap.Matches(key, v.keymap.ScrollDown):
		v.scroll(max(v.answer.Height/2, 1))
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// scroll moves the answer panel by delta lines.
func (v *View) scroll(delta int) {
	v.answer.SetYOffset(v.answer.YOffset + delta)
}

// submit validates the typed question and starts answering it.
func (v *View) submit() tea.Cmd {
	if v.thinking {
		return nil
	}

	question := strings.TrimSpace(v.input.Value())
	if question == "" {
		v.statusbar.SetState(status.StateWarning)
		v.statusbar.SetMessage(EmptyQuestionWarning)
		return nil
	}

	v.input.Remember(question)
	v.thinking = true
	v.question = question
	v.err = nil
	v.statusbar.SetState(status.StateThinking)
	return tea.Batch(v.spinner.Tick, v.ask(question))
}

// ask answers a question in the background.
func (v *View) ask(question string) tea.Cmd {
	session := v.session
	ctx := v.ctx
	return func() tea.Msg {
		if session == nil {
			return messages.ErrorOccurred{Err: ErrNoSession}
		}
		start := time.Now()
		answer, err := session.Ask(ctx, question)
		return messages.AnswerCompleted{Question: question, Answer: answer, Err: err, Elapsed: time.Since(start)}
	}
}

// handleAnswerCompleted shows an answer or the reason there is none.
func (v *View) handleAnswerCompleted(msg messages.AnswerCompleted) {
	v.thinking = false

	if msg.Failed() {
		v.err = msg.Err
		if v.err == nil {
			v.err = ErrNoSession
		}
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage("Error obtaining answer: " + v.err.Error())
		return
	}

	v.err = nil
	v.text = msg.Answer.Text
	v.sources.SetSources(msg.Answer.Sources)
	v.setAnswerContent()
	v.input.Reset()
	v.statusbar.Answered(len(msg.Answer.Sources), msg.Elapsed)
}

// setAnswerContent wraps the answer text to the panel width.
func (v *View) setAnswerContent() {
	if v.text == "" {
		v.answer.SetContent("")
		return
	}
	wrapped := lipgloss.NewStyle().Width(max(v.answer.Width, 10)).Render(v.text)
	v.answer.SetContent(wrapped)
	v.answer.GotoTop()
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	header := v.styles.Title.Render("docqa")
	if v.session != nil {
		header += v.styles.Muted.Render("  " + title(v.session.Document()))
	}
	sections = append(sections, header, "", v.input.View(), "")

	switch {
	case v.thinking:
		sections = append(sections, v.spinner.View()+v.styles.Muted.Render(" Thinking about: "+v.question))
	case v.text != "":
		sections = append(sections,
			v.styles.Subtitle.Render("Answer"),
			v.styles.Answer.Render(v.answer.View()),
		)
	}

	if v.showSources && v.sources.Count() > 0 {
		sections = append(sections, "", v.sources.View())
	}

	if v.showHelp {
		sections = append(sections, "", v.help.View(v.keymap))
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.layout()
}

// layout allocates space to the components.
func (v *View) layout() {
	v.input.SetWidth(v.width)
	v.statusbar.SetWidth(v.width)
	v.help.Width = v.width

	// Header, input, answer title, borders and status take about 11 lines.
	body := max(v.height-11, 3)
	answerHeight := body
	if v.showSources {
		answerHeight = max(body/2, 3)
		v.sources.SetDimensions(v.width, body-answerHeight)
	}
	v.answer.Width = max(v.width-4, 10)
	v.answer.Height = answerHeight
	v.setAnswerContent()
}

// Thinking returns whether a question is being answered.
func (v *View) Thinking() bool {
	return v.thinking
}

// AnswerText returns the last answer shown.
func (v *View) AnswerText() string {
	return v.text
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// StatusMessage returns the status bar message.
func (v *View) StatusMessage() string {
	return v.statusbar.Message()
}

// StatusState returns the status bar state.
func (v *View) StatusState() status.State {
	return v.statusbar.State()
}

// ShowingHelp returns whether the full keybinding list is visible.
func (v *View) ShowingHelp() bool {
	return v.showHelp
}

// ShowingSources returns whether the sources panel is visible.
func (v *View) ShowingSources() bool {
	return v.showSources
}

// Input returns the question input.
func (v *View) Input() *input.QuestionInput {
	return v.input
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

func title(info driving.SessionInfo) string {
	if info.Index.Title != "" {
		return info.Index.Title
	}
	return filepath.Base(info.Index.DocumentURI)
}

func describe(info driving.SessionInfo) string {
	verb := "Indexed"
	if info.Loaded {
		verb = "Loaded"
	}
	return fmt.Sprintf("%s %s (%d chunks)", verb, title(info), info.Index.ChunkCount)
}
