// Package welcome asks for the player's name before the assessment.
package welcome

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cyberquestjr/cyberquest/internal/assessment"
	"github.com/cyberquestjr/cyberquest/internal/router"
	"github.com/cyberquestjr/cyberquest/internal/screen"
	"github.com/cyberquestjr/cyberquest/internal/ui/components"
	"github.com/cyberquestjr/cyberquest/internal/ui/layout"
	"github.com/cyberquestjr/cyberquest/internal/ui/theme"
)

const nameLimit = 24

// Screen shows the banner and a name prompt.
type Screen struct {
	next  func(name string) screen.Screen
	input components.TextInput
	done  bool
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New creates the welcome screen. next builds the screen shown once the
// player has entered a name.
func New(next func(name string) screen.Screen) *Screen {
	return &Screen{
		next:  next,
		input: components.NewTextInput(assessment.DefaultDisplayName, nameLimit),
	}
}

func (w *Screen) Init() tea.Cmd { return w.input.Init() }

func (w *Screen) Title() string { return "Welcome" }

func (w *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start the quiz"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Name is the entered name, or the default display name.
func (w *Screen) Name() string {
	if n := w.input.Value(); n != "" {
		return n
	}
	return assessment.DefaultDisplayName
}

func (w *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok && k.String() == "enter" {
		if w.done {
			return w, nil
		}
		w.done = true
		next := w.next(w.Name())
		return w, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	}
	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return w, cmd
}

func (w *Screen) View(width, height int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		RenderBanner(width),
		"",
		theme.Body.Bold(true).Render("Become a cybersecurity hero!"),
		"",
		theme.Dim.Render("Answer a few questions and we'll build a course just for you."),
		"",
		theme.Body.Render("What's your hero name?"),
		theme.Card.Render(w.input.View()),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
