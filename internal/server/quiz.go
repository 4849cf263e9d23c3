package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
	"github.com/cyberquestjr/cyberquest/internal/assessment"
	"github.com/cyberquestjr/cyberquest/internal/events"
	"github.com/cyberquestjr/cyberquest/internal/metrics"
)

type quizSummary struct {
	Type       string `json:"quiz_type"`
	Title      string `json:"title"`
	Assessment bool   `json:"assessment"`
	Questions  int    `json:"question_count"`
}

func (s *Server) listQuizzes(c *gin.Context) {
	types := s.deps.Catalog.QuizTypes()
	out := make([]quizSummary, 0, len(types))
	for _, t := range types {
		q, err := s.deps.Catalog.Quiz(t)
		if err != nil {
			respondError(c, err)
			return
		}
		out = append(out, quizSummary{Type: q.Type, Title: q.Title, Assessment: q.Assessment, Questions: len(q.Questions)})
	}
	c.JSON(http.StatusOK, gin.H{"quizzes": out})
}

func (s *Server) getQuiz(c *gin.Context) {
	q, err := s.deps.Catalog.Quiz(c.Param("quiz_type"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

type submitResponse struct {
	assessment.ScoreResult
	DisplayName string              `json:"display_name"`
	Level       string              `json:"level"`
	Feedback    assessment.Feedback `json:"feedback"`
	AttemptID   string              `json:"attempt_id"`
}

func (s *Server) submitQuiz(c *gin.Context) {
	var sub assessment.Submission
	if !bind(c, &sub) {
		return
	}
	sub.QuizType = strings.TrimSpace(sub.QuizType)
	if sub.QuizType == "" {
		respondError(c, apperr.InvalidInput("quiz_type is required"))
		return
	}
	quiz, err := s.deps.Catalog.Quiz(sub.QuizType)
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := assessment.Score(quiz, sub)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	name := sub.Name()
	attempt, err := s.recorder().Record(ctx, name, res)
	if err != nil {
		respondError(c, err)
		return
	}

	metrics.QuizSubmissions.WithLabelValues(res.QuizType, string(res.Tier)).Inc()
	events.Emit(ctx, s.deps.Publisher, events.QuizSubmitted, gin.H{
		"attempt_id":   attempt.ID,
		"display_name": name,
		"quiz_type":    res.QuizType,
		"score":        res.Score,
		"tier":         res.Tier,
	})

	c.JSON(http.StatusOK, submitResponse{
		ScoreResult: res,
		DisplayName: name,
		Level:       res.Tier.Label(),
		Feedback:    assessment.FeedbackFor(res.Tier),
		AttemptID:   attempt.ID,
	})
}

func (s *Server) recorder() assessment.Recorder {
	return assessment.Recorder{Attempts: s.deps.Store.Attempts(), Leaderboard: s.deps.Store.Leaderboard()}
}
