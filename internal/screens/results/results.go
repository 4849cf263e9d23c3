// Package results shows a scored assessment and the course built from it.
package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cyberquestjr/cyberquest/internal/assessment"
	"github.com/cyberquestjr/cyberquest/internal/router"
	"github.com/cyberquestjr/cyberquest/internal/screen"
	"github.com/cyberquestjr/cyberquest/internal/screens/quiz"
	"github.com/cyberquestjr/cyberquest/internal/ui/layout"
	"github.com/cyberquestjr/cyberquest/internal/ui/theme"
)

type tab int

const (
	tabCourse tab = iota
	tabReview
)

// Screen presents an Outcome. Tab switches between the course and the
// answer review.
type Screen struct {
	out   quiz.Outcome
	retry func() screen.Screen
	tab   tab
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New creates the results screen. retry builds a fresh quiz; nil hides
// the option.
func New(out quiz.Outcome, retry func() screen.Screen) *Screen {
	return &Screen{out: out, retry: retry}
}

func (r *Screen) Init() tea.Cmd { return nil }

func (r *Screen) Title() string { return "Your Results" }

func (r *Screen) Player() string { return r.out.Name }

func (r *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "Tab", Description: "Course / Review"}}
	if r.retry != nil {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Retake"})
	}
	return append(hints, layout.KeyHint{Key: "Q", Description: "Quit"})
}

func (r *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	k, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return r, nil
	}
	switch k.String() {
	case "tab":
		r.tab = (r.tab + 1) % 2
	case "r":
		if r.retry != nil {
			next := r.retry()
			return r, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		}
	case "q":
		return r, tea.Quit
	}
	return r, nil
}

func (r *Screen) View(width, height int) string {
	res := r.out.Result
	fb := assessment.FeedbackFor(res.Tier)

	summary := lipgloss.JoinVertical(lipgloss.Left,
		theme.Title.Render(fb.Title),
		theme.Body.Render(fmt.Sprintf("%s scored %.0f%% (%d of %d correct)", r.out.Name, res.Score, res.Correct, res.Total)),
		theme.Highlight.Render("Level: "+res.Tier.Label()),
		"",
		theme.Body.Render(fb.Message),
		theme.Dim.Render(fb.Encouragement),
	)

	var body string
	if r.tab == tabReview {
		body = r.review()
	} else {
		body = r.course()
	}
	cardWidth := min(width-4, 80)
	content := lipgloss.JoinVertical(lipgloss.Left,
		theme.Card.Width(cardWidth).Render(summary),
		theme.Card.Width(cardWidth).Render(body),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

func (r *Screen) course() string {
	c := r.out.Course
	var b strings.Builder
	b.WriteString(theme.Title.Render(c.Title))
	b.WriteString("\n")
	b.WriteString(theme.Dim.Render(c.Description))
	b.WriteString("\n\n")
	for i, m := range c.Modules {
		fmt.Fprintf(&b, "%s %s  %s\n",
			m.Icon,
			theme.Body.Bold(true).Render(fmt.Sprintf("%d. %s", i+1, m.Name)),
			theme.Dim.Render(m.Duration+" · "+m.Difficulty))
		b.WriteString(theme.Dim.Render("   " + m.Description))
		b.WriteString("\n")
	}
	if c.EstimatedDuration != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Estimated time: " + c.EstimatedDuration))
	}
	if len(r.out.Result.WeakAreas) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render("Focus areas: " + assessment.TopicsText(r.out.Result.WeakAreas, "")))
	}
	return b.String()
}

func (r *Screen) review() string {
	var b strings.Builder
	for _, q := range r.out.Result.Results {
		mark := theme.Correct.Render("✓")
		if !q.Correct {
			mark = theme.Incorrect.Render("✗")
		}
		fmt.Fprintf(&b, "%s %s\n", mark, theme.Body.Render(q.Question))
		if !q.Correct {
			b.WriteString(theme.Dim.Render("   Answer: " + q.CorrectAnswer))
			b.WriteString("\n")
		}
		if q.Explanation != "" {
			b.WriteString(theme.Hint.Render("   " + q.Explanation))
			b.WriteString("\n")
		}
	}
	return b.String()
}
