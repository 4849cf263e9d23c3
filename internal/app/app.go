// Package app is the root Bubble Tea model of the terminal quiz.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cyberquestjr/cyberquest/internal/catalog"
	"github.com/cyberquestjr/cyberquest/internal/router"
	"github.com/cyberquestjr/cyberquest/internal/screen"
	"github.com/cyberquestjr/cyberquest/internal/screens/quiz"
	"github.com/cyberquestjr/cyberquest/internal/screens/results"
	"github.com/cyberquestjr/cyberquest/internal/screens/welcome"
	"github.com/cyberquestjr/cyberquest/internal/ui/layout"
)

// DefaultQuiz is the quiz the terminal app runs.
const DefaultQuiz = "assessment"

// Options wires the app to its data.
type Options struct {
	Catalog  *catalog.Catalog
	QuizType string
	Deps     quiz.Deps
}

// Model is the root model. It owns the router and the frame.
type Model struct {
	router *router.Router
	player string
	width  int
	height int
}

// New builds the model starting at the welcome screen.
func New(opts Options) (Model, error) {
	if opts.QuizType == "" {
		opts.QuizType = DefaultQuiz
	}
	q, err := opts.Catalog.Quiz(opts.QuizType)
	if err != nil {
		return Model{}, err
	}

	var start func(name string) screen.Screen
	start = func(name string) screen.Screen {
		return quiz.New(q, name, opts.Deps, func(out quiz.Outcome) screen.Screen {
			return results.New(out, func() screen.Screen { return start(name) })
		})
	}
	return Model{router: router.New(welcome.New(start))}, nil
}

func (m Model) Init() tea.Cmd {
	return m.router.Active().Init()
}

// playerNamer is implemented by screens that know who is playing.
type playerNamer interface {
	Player() string
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
		}
	}

	cmd := m.router.Update(msg)
	if p, ok := m.router.Active().(playerNamer); ok {
		m.player = p.Player()
	}
	return m, cmd
}

func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m Model) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.player, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		if h := hp.KeyHints(); len(h) > 0 {
			hints = h
		}
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	return layout.RenderFrame(header, m.router.View(m.width, contentHeight), footer, m.width, m.height)
}

// Run starts the program and blocks until the player quits.
func Run(ctx context.Context, opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("run terminal app: %w", err)
	}
	return nil
}
