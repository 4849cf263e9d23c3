package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
	"github.com/cyberquestjr/cyberquest/internal/catalog"
)

func assessmentQuiz(t *testing.T) catalog.Quiz {
	t.Helper()
	c, err := catalog.Load()
	require.NoError(t, err)
	q, err := c.Quiz("assessment")
	require.NoError(t, err)
	return q
}

// answersFor answers every question, correctly for the first n.
func answersFor(q catalog.Quiz, n int) []Answer {
	var out []Answer
	for i, qq := range q.Questions {
		ans := qq.CorrectAnswer
		if i >= n {
			for _, opt := range qq.Options {
				if opt != qq.CorrectAnswer {
					ans = opt
					break
				}
			}
		}
		out = append(out, Answer{QuestionID: qq.ID, Answer: ans})
	}
	return out
}

func TestScore_FiveOfSix(t *testing.T) {
	q := assessmentQuiz(t)
	res, err := Score(q, Submission{QuizType: "assessment", Answers: answersFor(q, 5)})
	require.NoError(t, err)

	assert.InDelta(t, 83.33, res.Score, 0.01)
	assert.Equal(t, Advanced, res.Tier)
	assert.Equal(t, 5, res.Correct)
	assert.Equal(t, 6, res.Total)
	assert.Equal(t, []Topic{TopicIncident}, res.WeakAreas)
	assert.Len(t, res.StrongAreas, 5)
}

func TestScore_ThreeOfSix(t *testing.T) {
	q := assessmentQuiz(t)
	res, err := Score(q, Submission{QuizType: "assessment", Answers: answersFor(q, 3)})
	require.NoError(t, err)

	assert.Equal(t, 50.0, res.Score)
	assert.Equal(t, Beginner, res.Tier)
	assert.Equal(t, []Topic{TopicStranger, TopicNetwork, TopicIncident}, res.WeakAreas)
	assert.Equal(t, []Topic{TopicPassword, TopicPhishing, TopicPrivacy}, res.StrongAreas)
}

func TestScore_Idempotent(t *testing.T) {
	q := assessmentQuiz(t)
	sub := Submission{QuizType: "assessment", Answers: answersFor(q, 4)}
	a, err := Score(q, sub)
	require.NoError(t, err)
	b, err := Score(q, sub)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestScore_ExactComparison(t *testing.T) {
	q := assessmentQuiz(t)
	first := q.Questions[0]

	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{"exact", first.CorrectAnswer, true},
		{"trailing space", first.CorrectAnswer + " ", false},
		{"different case", "mydog2024!", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Score(q, Submission{Answers: []Answer{{QuestionID: first.ID, Answer: tt.answer}}})
			require.NoError(t, err)
			require.Len(t, res.Results, 1)
			assert.Equal(t, tt.want, res.Results[0].Correct)
		})
	}
}

func TestScore_SkipsUnknownIDs(t *testing.T) {
	q := assessmentQuiz(t)
	answers := []Answer{
		{QuestionID: 999, Answer: "whatever"},
		{QuestionID: q.Questions[0].ID, Answer: q.Questions[0].CorrectAnswer},
	}
	res, err := Score(q, Submission{Answers: answers})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Equal(t, 100.0, res.Score)
}

func TestScore_InvalidInput(t *testing.T) {
	q := assessmentQuiz(t)

	_, err := Score(q, Submission{})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	_, err = Score(q, Submission{Answers: []Answer{{QuestionID: 42, Answer: "x"}}})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestScore_NonAssessmentHasNoAreas(t *testing.T) {
	c, err := catalog.Load()
	require.NoError(t, err)
	q, err := c.Quiz("password")
	require.NoError(t, err)

	res, err := Score(q, Submission{Answers: []Answer{{QuestionID: 1, Answer: "nope"}}})
	require.NoError(t, err)
	assert.Empty(t, res.WeakAreas)
	assert.Empty(t, res.StrongAreas)
	assert.Equal(t, Beginner, res.Tier)
}

func TestSubmissionName(t *testing.T) {
	assert.Equal(t, DefaultDisplayName, Submission{}.Name())
	assert.Equal(t, DefaultDisplayName, Submission{DisplayName: "   "}.Name())
	assert.Equal(t, "Ada", Submission{DisplayName: " Ada "}.Name())
}
