// Package assessment scores quiz submissions and derives skill tiers and
// topic areas from them.
package assessment

import (
	"strings"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
	"github.com/cyberquestjr/cyberquest/internal/catalog"
)

// DefaultDisplayName is used for submissions without a display name.
const DefaultDisplayName = "CyberHero"

// Answer is one submitted option for a question.
type Answer struct {
	QuestionID int    `json:"question_id"`
	Answer     string `json:"answer"`
}

// Submission is a request-scoped set of answers for one quiz.
type Submission struct {
	QuizType    string   `json:"quiz_type"`
	Answers     []Answer `json:"answers"`
	DisplayName string   `json:"display_name"`
}

// Name returns the display name, defaulting when empty.
func (s Submission) Name() string {
	if n := strings.TrimSpace(s.DisplayName); n != "" {
		return n
	}
	return DefaultDisplayName
}

// QuestionResult is the grading of a single answer.
type QuestionResult struct {
	QuestionID    int    `json:"question_id"`
	Question      string `json:"question"`
	Answer        string `json:"answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
	Explanation   string `json:"explanation"`
}

// ScoreResult is the outcome of scoring a submission.
type ScoreResult struct {
	QuizType    string           `json:"quiz_type"`
	Score       float64          `json:"score"`
	Tier        Tier             `json:"tier"`
	Correct     int              `json:"correct"`
	Total       int              `json:"total"`
	Results     []QuestionResult `json:"results"`
	WeakAreas   []Topic          `json:"weak_areas"`
	StrongAreas []Topic          `json:"strong_areas"`
}

// Score grades sub against quiz. Answers referencing unknown question ids
// are skipped. Comparison is exact. Returns InvalidInput when no answer
// could be graded.
func Score(quiz catalog.Quiz, sub Submission) (ScoreResult, error) {
	if len(sub.Answers) == 0 {
		return ScoreResult{}, apperr.InvalidInput("no answers submitted")
	}

	results := make([]QuestionResult, 0, len(sub.Answers))
	correct := 0
	for _, a := range sub.Answers {
		q, ok := quiz.Question(a.QuestionID)
		if !ok {
			continue
		}
		ok = a.Answer == q.CorrectAnswer
		if ok {
			correct++
		}
		results = append(results, QuestionResult{
			QuestionID:    q.ID,
			Question:      q.Question,
			Answer:        a.Answer,
			CorrectAnswer: q.CorrectAnswer,
			Correct:       ok,
			Explanation:   q.Explanation,
		})
	}
	if len(results) == 0 {
		return ScoreResult{}, apperr.InvalidInput("no answers match questions of quiz %q", quiz.Type)
	}

	pct := 100 * float64(correct) / float64(len(results))
	res := ScoreResult{
		QuizType:    quiz.Type,
		Score:       pct,
		Tier:        Classify(pct),
		Correct:     correct,
		Total:       len(results),
		Results:     results,
		WeakAreas:   []Topic{},
		StrongAreas: []Topic{},
	}
	if quiz.Assessment {
		res.WeakAreas, res.StrongAreas = Areas(results)
	}
	return res, nil
}
