// Package quiz runs the skill assessment in the terminal and hands the
// scored result to the results screen.
package quiz

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/cyberquestjr/cyberquest/internal/assessment"
	"github.com/cyberquestjr/cyberquest/internal/catalog"
	"github.com/cyberquestjr/cyberquest/internal/course"
	"github.com/cyberquestjr/cyberquest/internal/router"
	"github.com/cyberquestjr/cyberquest/internal/screen"
	"github.com/cyberquestjr/cyberquest/internal/store"
	"github.com/cyberquestjr/cyberquest/internal/ui/components"
	"github.com/cyberquestjr/cyberquest/internal/ui/layout"
	"github.com/cyberquestjr/cyberquest/internal/ui/theme"
)

// Deps is what a finished quiz is recorded to.
type Deps struct {
	Attempts    store.AttemptRepo
	Leaderboard store.LeaderboardRepo
	Courses     *course.Synthesizer
}

// Outcome is a scored quiz and the course built from it.
type Outcome struct {
	Name     string
	Result   assessment.ScoreResult
	Course   course.Course
	Strategy course.Strategy
}

// finishedMsg carries the recorded outcome back to the screen.
type finishedMsg struct {
	Outcome Outcome
	Err     error
}

// Screen asks each question of one quiz in order.
type Screen struct {
	quiz    catalog.Quiz
	name    string
	deps    Deps
	results func(Outcome) screen.Screen

	current int
	choice  components.MultiChoice
	answers []assessment.Answer
	scoring bool
	errMsg  string
}

var (
	_ screen.Screen          = (*Screen)(nil)
	_ screen.KeyHintProvider = (*Screen)(nil)
)

// New creates a quiz screen for name. results builds the screen shown
// once the answers are scored.
func New(q catalog.Quiz, name string, deps Deps, results func(Outcome) screen.Screen) *Screen {
	s := &Screen{quiz: q, name: name, deps: deps, results: results}
	s.load()
	return s
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return s.quiz.Title }

// Player is the name the quiz is recorded under.
func (s *Screen) Player() string { return s.name }

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.scoring {
		return nil
	}
	if s.errMsg != "" {
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "N", Description: "Start over"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Answer"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *Screen) load() {
	if s.current >= len(s.quiz.Questions) {
		return
	}
	q := s.quiz.Questions[s.current]
	s.choice = components.NewMultiChoice(q.Question, q.Options, "")
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case finishedMsg:
		s.scoring = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		next := s.results(msg.Outcome)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyPressMsg:
		if s.errMsg != "" {
			return s.updateFailed(msg)
		}
		if s.scoring || s.current >= len(s.quiz.Questions) {
			return s, nil
		}
		s.choice, _ = s.choice.Update(msg)
		if !s.choice.Submitted {
			return s, nil
		}
		s.answers = append(s.answers, assessment.Answer{
			QuestionID: s.quiz.Questions[s.current].ID,
			Answer:     s.choice.Choice(),
		})
		s.current++
		if s.current < len(s.quiz.Questions) {
			s.load()
			return s, nil
		}
		s.scoring = true
		return s, s.finish()
	}
	return s, nil
}

// updateFailed handles keys after recording failed: r submits the same
// answers again, n restarts the quiz from the first question.
func (s *Screen) updateFailed(k tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch k.String() {
	case "r":
		s.errMsg = ""
		s.scoring = true
		return s, s.finish()
	case "n":
		s.errMsg = ""
		s.current = 0
		s.answers = nil
		s.load()
	}
	return s, nil
}

// finish scores the answers, records the attempt and builds the course.
func (s *Screen) finish() tea.Cmd {
	sub := assessment.Submission{QuizType: s.quiz.Type, Answers: s.answers, DisplayName: s.name}
	q, deps := s.quiz, s.deps
	return func() tea.Msg {
		out, err := Finish(context.Background(), q, sub, deps)
		return finishedMsg{Outcome: out, Err: err}
	}
}

// Finish scores sub, records it and synthesizes the learner's course.
func Finish(ctx context.Context, q catalog.Quiz, sub assessment.Submission, deps Deps) (Outcome, error) {
	res, err := assessment.Score(q, sub)
	if err != nil {
		return Outcome{}, err
	}
	name := sub.Name()
	rec := assessment.Recorder{Attempts: deps.Attempts, Leaderboard: deps.Leaderboard}
	if _, err := rec.Record(ctx, name, res); err != nil {
		return Outcome{}, err
	}

	out := Outcome{Name: name, Result: res}
	req := course.Request{Tier: res.Tier, Weak: res.WeakAreas, Strong: res.StrongAreas, Score: res.Score}
	if deps.Courses != nil {
		out.Course, out.Strategy = deps.Courses.Synthesize(ctx, req)
	} else {
		out.Course, out.Strategy = course.Static(res.Tier), course.StrategyStatic
	}
	return out, nil
}

func (s *Screen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.JoinVertical(lipgloss.Center,
				theme.Incorrect.Render("Something went wrong: "+s.errMsg),
				"",
				theme.Dim.Render("Press R to try again or N to start over."),
			))
	}
	if s.scoring || s.current >= len(s.quiz.Questions) {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Highlight.Render("Building your course..."))
	}

	bar := components.ProgressBar{
		Label: fmt.Sprintf("Question %d", s.current+1),
		Done:  s.current,
		Total: len(s.quiz.Questions),
		Width: min(width-8, 60),
	}
	cardWidth := min(width-4, 76)
	content := lipgloss.JoinVertical(lipgloss.Left,
		bar.View(),
		"",
		theme.Card.Width(cardWidth).Render(s.choice.View()),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}
