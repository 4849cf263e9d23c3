package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/cyberquestjr/cyberquest/internal/ui/theme"
)

// MultiChoice is a keyboard-driven option picker. After Enter it shows
// the chosen option against the correct one.
type MultiChoice struct {
	Question  string
	Options   []string
	Correct   string
	Selected  int
	Submitted bool
}

// NewMultiChoice creates a picker. correct may be empty to skip grading.
func NewMultiChoice(question string, options []string, correct string) MultiChoice {
	return MultiChoice{Question: question, Options: options, Correct: correct}
}

func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Submitted {
		return m, nil
	}
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch kmsg.String() {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		if len(m.Options) > 0 {
			m.Submitted = true
		}
	}
	return m, nil
}

// Choice returns the selected option text.
func (m MultiChoice) Choice() string {
	if m.Selected < 0 || m.Selected >= len(m.Options) {
		return ""
	}
	return m.Options[m.Selected]
}

// IsCorrect reports whether the submitted choice is the correct option.
func (m MultiChoice) IsCorrect() bool {
	return m.Submitted && m.Correct != "" && m.Choice() == m.Correct
}

func (m MultiChoice) View() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(m.Question))
	b.WriteString("\n\n")

	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Submitted {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%c)  %s", prefix, 'A'+rune(i), opt)

		style := theme.Body
		switch {
		case m.Submitted && m.Correct != "" && opt == m.Correct:
			style = theme.Correct
		case m.Submitted && i == m.Selected:
			style = theme.Incorrect
		case m.Submitted:
			style = theme.Dim
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
