package assessment

import (
	"context"
	"fmt"

	"github.com/cyberquestjr/cyberquest/internal/store"
)

// Recorder persists scored submissions to the attempt log and the
// leaderboard. Either repo may be nil to skip it.
type Recorder struct {
	Attempts    store.AttemptRepo
	Leaderboard store.LeaderboardRepo
}

// Record stores res for name and adds its score to the leaderboard. The
// returned attempt carries its assigned ID, or is nil when Attempts is nil.
func (r Recorder) Record(ctx context.Context, name string, res ScoreResult) (*store.QuizAttempt, error) {
	var attempt *store.QuizAttempt
	if r.Attempts != nil {
		attempt = &store.QuizAttempt{
			DisplayName: name,
			QuizType:    res.QuizType,
			Score:       res.Score,
			Tier:        string(res.Tier),
			Correct:     res.Correct,
			Total:       res.Total,
			WeakAreas:   TopicStrings(res.WeakAreas),
			StrongAreas: TopicStrings(res.StrongAreas),
		}
		if err := r.Attempts.Record(ctx, attempt); err != nil {
			return nil, fmt.Errorf("record attempt: %w", err)
		}
	}
	if r.Leaderboard != nil {
		if err := r.Leaderboard.Record(ctx, name, res.Score); err != nil {
			return attempt, fmt.Errorf("update leaderboard: %w", err)
		}
	}
	return attempt, nil
}

// TopicStrings converts topics to plain strings for storage.
func TopicStrings(topics []Topic) []string {
	out := make([]string, len(topics))
	for i, t := range topics {
		out[i] = string(t)
	}
	return out
}
