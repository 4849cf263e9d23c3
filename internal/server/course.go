package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
	"github.com/cyberquestjr/cyberquest/internal/assessment"
	"github.com/cyberquestjr/cyberquest/internal/course"
	"github.com/cyberquestjr/cyberquest/internal/events"
	"github.com/cyberquestjr/cyberquest/internal/store"
)

const (
	headerCourseID       = "X-Course-Id"
	headerCourseStrategy = "X-Course-Strategy"
)

type assessmentResult struct {
	Score *float64 `json:"score"`
	Tier  string   `json:"tier"`
}

type courseRequest struct {
	QuizType         string              `json:"quiz_type"`
	AssessmentResult *assessmentResult   `json:"assessment_result"`
	Answers          []assessment.Answer `json:"answers"`
}

// courseInput resolves a course request. Submitted answers are rescored;
// otherwise the tier is derived from the reported score, never taken from
// the reported tier.
func (s *Server) courseInput(req courseRequest) (course.Request, error) {
	if len(req.Answers) > 0 {
		quizType := strings.TrimSpace(req.QuizType)
		if quizType == "" {
			quizType = "assessment"
		}
		quiz, err := s.deps.Catalog.Quiz(quizType)
		if err != nil {
			return course.Request{}, err
		}
		res, err := assessment.Score(quiz, assessment.Submission{QuizType: quizType, Answers: req.Answers})
		if err != nil {
			return course.Request{}, err
		}
		return course.Request{Tier: res.Tier, Weak: res.WeakAreas, Strong: res.StrongAreas, Score: res.Score}, nil
	}
	if req.AssessmentResult != nil && req.AssessmentResult.Score != nil {
		score := assessment.ClampPercent(*req.AssessmentResult.Score)
		return course.Request{Tier: assessment.Classify(score), Score: score}, nil
	}
	return course.Request{}, apperr.InvalidInput("answers or assessment_result.score is required")
}

func (s *Server) generateCourse(c *gin.Context) {
	var req courseRequest
	if !bind(c, &req) {
		return
	}
	in, err := s.courseInput(req)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	crs, strategy := s.deps.Courses.Synthesize(ctx, in)

	// The course is served even when the audit row cannot be written.
	if id, err := s.auditCourse(c, in, crs, strategy); err != nil {
		log.Printf("audit course: %v", err)
	} else {
		c.Header(headerCourseID, id)
		events.Emit(ctx, s.deps.Publisher, events.CourseGenerated, gin.H{
			"course_id": id,
			"tier":      in.Tier,
			"strategy":  strategy,
			"score":     in.Score,
		})
	}
	c.Header(headerCourseStrategy, string(strategy))
	c.JSON(http.StatusOK, crs)
}

func (s *Server) auditCourse(c *gin.Context, in course.Request, crs course.Course, strategy course.Strategy) (string, error) {
	body, err := json.Marshal(crs)
	if err != nil {
		return "", err
	}
	rec := &store.CourseRecord{
		Tier:      string(in.Tier),
		Strategy:  string(strategy),
		Title:     crs.Title,
		Score:     in.Score,
		WeakAreas: assessment.TopicStrings(in.Weak),
		Course:    string(body),
	}
	if err := s.deps.Store.Courses().Save(c.Request.Context(), rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

type courseRecordView struct {
	ID        string        `json:"id"`
	Tier      string        `json:"tier"`
	Strategy  string        `json:"strategy"`
	Score     float64       `json:"score"`
	WeakAreas []string      `json:"weak_areas"`
	CreatedAt time.Time     `json:"created_at"`
	Course    course.Course `json:"course"`
}

func (s *Server) getCourse(c *gin.Context) {
	rec, err := s.deps.Store.Courses().Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	var crs course.Course
	if err := json.Unmarshal([]byte(rec.Course), &crs); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, courseRecordView{
		ID:        rec.ID,
		Tier:      rec.Tier,
		Strategy:  rec.Strategy,
		Score:     rec.Score,
		WeakAreas: rec.WeakAreas,
		CreatedAt: rec.CreatedAt,
		Course:    crs,
	})
}
