package game

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
	"github.com/cyberquestjr/cyberquest/internal/events"
	"github.com/cyberquestjr/cyberquest/internal/metrics"
	"github.com/cyberquestjr/cyberquest/internal/store"
)

// AnswerInput is one answer to the pending challenge.
type AnswerInput struct {
	SessionID string  `json:"session_id"`
	Answer    string  `json:"answer"`
	TimeTaken float64 `json:"time_taken"` // seconds
}

// Award is an achievement granted by an answer.
type Award struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	XP          int    `json:"xp"`
}

// Result is the outcome of an answer.
type Result struct {
	Correct       bool    `json:"correct"`
	PointsEarned  int     `json:"points_earned"`
	SpeedBonus    int     `json:"speed_bonus"`
	CorrectAnswer string  `json:"correct_answer"`
	Explanation   string  `json:"explanation"`
	Feedback      string  `json:"feedback"`
	Session       Session `json:"session"`
	GameCompleted bool    `json:"game_completed"`
	GameOver      bool    `json:"game_over"`
	Achievements  []Award `json:"achievements"`
}

// Matches reports whether answer equals the expected one, ignoring
// surrounding space and case.
func Matches(answer, expected string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(expected))
}

// Answer scores in against the pending challenge. The session update and
// its terminal transition happen in one atomic step; achievements are
// awarded after it commits.
func (s *Service) Answer(ctx context.Context, in AnswerInput) (Result, error) {
	if strings.TrimSpace(in.SessionID) == "" {
		return Result{}, apperr.InvalidInput("session_id is required")
	}

	var (
		res   Result
		ch    pending
		speed bool
	)
	gs, err := s.repos.Sessions.Update(ctx, in.SessionID, func(cur *store.GameSession) error {
		if Status(cur.Status).Terminal() {
			return apperr.Conflict("session is %s", cur.Status)
		}
		if cur.Pending == "" {
			return apperr.Conflict("no challenge has been issued")
		}
		p, err := decodePending(cur.Pending)
		if err != nil {
			return err
		}
		ch = p

		res = Result{Correct: Matches(in.Answer, p.CorrectAnswer)}
		if res.Correct {
			res.PointsEarned = p.Points
			speed = in.TimeTaken > 0 && in.TimeTaken < SpeedThreshold
			if speed {
				res.SpeedBonus = SpeedBonus
				res.PointsEarned += SpeedBonus
				cur.SpeedCount++
			}
			cur.Score += res.PointsEarned
			cur.CorrectCount++
		} else {
			cur.Lives--
		}
		cur.ChallengeIndex++
		cur.Pending = ""

		switch {
		case cur.Lives <= 0:
			cur.Lives = 0
			cur.Status = store.SessionFailed
		case cur.ChallengeIndex >= cur.Length:
			cur.Status = store.SessionCompleted
		}
		if Status(cur.Status).Terminal() {
			now := time.Now().UTC()
			cur.CompletedAt = &now
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	res.Session = sessionView(gs)
	res.CorrectAnswer = ch.CorrectAnswer
	res.Explanation = ch.Explanation
	res.GameCompleted = res.Session.Status == Completed
	res.GameOver = res.Session.Status == Failed
	res.Feedback = feedback(res)
	res.Achievements = s.awardFor(ctx, gs, res.Correct, speed)

	switch res.Session.Status {
	case Completed:
		metrics.GameSessions.WithLabelValues("completed").Inc()
		events.Emit(ctx, s.publisher, events.GameCompleted, res.Session)
	case Failed:
		metrics.GameSessions.WithLabelValues("failed").Inc()
		events.Emit(ctx, s.publisher, events.GameFailed, res.Session)
	}
	return res, nil
}

func feedback(r Result) string {
	var b strings.Builder
	if r.Correct {
		b.WriteString("🎉 Correct! ")
	} else {
		b.WriteString("Not quite! The correct answer is: " + r.CorrectAnswer + ". ")
	}
	b.WriteString(r.Explanation)
	if r.SpeedBonus > 0 {
		b.WriteString(" ⚡ Speed bonus!")
	}
	switch {
	case r.GameOver:
		b.WriteString(" Game Over! Don't worry, you learned a lot! 🌟")
	case r.GameCompleted:
		b.WriteString(" 🎉 Module completed! You're a cybersecurity hero!")
	}
	return b.String()
}

// awardFor grants the achievements an answer earns. Failures are logged;
// the answer itself has already been recorded.
func (s *Service) awardFor(ctx context.Context, gs *store.GameSession, correct, speed bool) []Award {
	var kinds []string
	if correct {
		kinds = append(kinds, AchievementFirstChallenge)
	}
	if speed && gs.SpeedCount >= SpeedRunnerGoal {
		kinds = append(kinds, AchievementSpeedRunner)
	}
	if Status(gs.Status) == Completed {
		if gs.Lives == StartingLives {
			kinds = append(kinds, AchievementPerfectModule)
		}
		if mod, err := s.catalog.Game(gs.ModuleName); err == nil && mod.MasterAchievement != "" {
			kinds = append(kinds, mod.MasterAchievement)
		}
	}

	awards := []Award{}
	for _, kind := range kinds {
		a, ok, err := s.award(ctx, gs, kind)
		if err != nil {
			log.Printf("award %s to %s: %v", kind, gs.PlayerName, err)
			continue
		}
		if ok {
			awards = append(awards, a)
		}
	}
	return awards
}

func (s *Service) award(ctx context.Context, gs *store.GameSession, kind string) (Award, bool, error) {
	def, err := s.catalog.Achievement(kind)
	if err != nil {
		return Award{}, false, err
	}
	created, err := s.repos.Achievements.Award(ctx, &store.Achievement{
		PlayerName:  gs.PlayerName,
		Type:        def.Type,
		Title:       def.Title,
		Description: def.Description,
		Icon:        def.Icon,
		XP:          def.XP,
		SessionID:   gs.ID,
	}, func(p *store.Player) error {
		GainXP(p, def.XP)
		return nil
	})
	if err != nil || !created {
		return Award{}, false, err
	}

	a := Award{Type: def.Type, Title: def.Title, Description: def.Description, Icon: def.Icon, XP: def.XP}
	events.Emit(ctx, s.publisher, events.AchievementAwarded, struct {
		PlayerName string `json:"player_name"`
		SessionID  string `json:"session_id"`
		Award
	}{gs.PlayerName, gs.ID, a})
	return a, true, nil
}
