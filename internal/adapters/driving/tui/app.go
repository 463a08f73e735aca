// Package tui is the interactive terminal front end: one question input,
// an answer pane and the passages the answer was drawn from.
package tui

import (
	"context"
	"errors"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docqa/internal/adapters/driving/tui/views/ask"
	"github.com/custodia-labs/docqa/internal/core/ports/driving"
)

// ErrMissingSession is returned by New without a session.
var ErrMissingSession = errors.New("tui: QA session is required")

// Option configures an App.
type Option func(*App)

// WithContext bounds every question the app asks by ctx.
func WithContext(ctx context.Context) Option {
	return func(a *App) { a.ctx = ctx }
}

// WithQuestion asks question as soon as the program starts.
func WithQuestion(question string) Option {
	return func(a *App) { a.question = question }
}

// WithStyles replaces the default theme.
func WithStyles(s *styles.Styles) Option {
	return func(a *App) { a.styles = s }
}

// App is the root tea.Model. It owns the window and delegates
// everything else to the ask view.
type App struct {
	session  driving.QASession
	ctx      context.Context
	styles   *styles.Styles
	askView  *ask.View
	question string

	width, height int
	ready         bool
}

var _ tea.Model = (*App)(nil)

// New creates the application for an open session.
func New(session driving.QASession, opts ...Option) (*App, error) {
	if session == nil {
		return nil, ErrMissingSession
	}

	a := &App{session: session, ctx: context.Background()}
	for _, opt := range opts {
		opt(a)
	}
	if a.styles == nil {
		a.styles = styles.DefaultStyles()
	}
	a.askView = ask.NewView(a.styles, keymap.DefaultKeyMap(), session)
	a.askView.WithContext(a.ctx)
	return a, nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle(a.Title()),
		a.askView.Init(),
	}
	if q := a.question; q != "" {
		cmds = append(cmds, func() tea.Msg { return messages.QuestionSubmitted{Question: q} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil
	case tea.KeyMsg:
		if k := msg.String(); k == "ctrl+c" || k == "ctrl+d" {
			return a, tea.Quit
		}
	case messages.Quit:
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.askView, cmd = a.askView.Update(msg)
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	return a.askView.View()
}

// Run blocks until the user quits or the context is cancelled.
func (a *App) Run() error {
	_, err := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx)).Run()
	return err
}

// Title is the window title: the document title, else its file name.
func (a *App) Title() string {
	info := a.session.Document().Index
	if info.Title != "" {
		return "docqa - " + info.Title
	}
	return "docqa - " + filepath.Base(info.DocumentURI)
}

// AskView returns the question and answer view.
func (a *App) AskView() *ask.View { return a.askView }

// Err returns the last answer error, if any.
func (a *App) Err() error { return a.askView.Err() }

// Ready reports whether a window size has been received.
func (a *App) Ready() bool { return a.ready }

// SetDimensions resizes the app and its view.
func (a *App) SetDimensions(width, height int) {
	a.width, a.height = width, height
	a.ready = true
	a.askView.SetDimensions(width, height)
}
