package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cyberquestjr/cyberquest/internal/store"
)

type leaderboardEntry struct {
	Rank             int       `json:"rank"`
	DisplayName      string    `json:"display_name"`
	TotalScore       float64   `json:"total_score"`
	QuizzesCompleted int       `json:"quizzes_completed"`
	BestScore        float64   `json:"best_score"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (s *Server) leaderboard(c *gin.Context) {
	limit, err := limitParam(c, 10, 100)
	if err != nil {
		respondError(c, err)
		return
	}
	entries, err := s.deps.Store.Leaderboard().Top(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	out := make([]leaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = leaderboardEntry(e)
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": out})
}

type attemptView struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	QuizType    string    `json:"quiz_type"`
	Score       float64   `json:"score"`
	Tier        string    `json:"tier"`
	Correct     int       `json:"correct"`
	Total       int       `json:"total"`
	WeakAreas   []string  `json:"weak_areas"`
	StrongAreas []string  `json:"strong_areas"`
	CreatedAt   time.Time `json:"created_at"`
}

type statsView struct {
	Attempts     int            `json:"attempts"`
	Players      int            `json:"players"`
	AverageScore float64        `json:"average_score"`
	ByTier       map[string]int `json:"by_tier"`
	GameSessions map[string]int `json:"game_sessions"`
}

func (s *Server) progress(c *gin.Context) {
	limit, err := limitParam(c, 20, 100)
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()
	recent, err := s.deps.Store.Attempts().Recent(ctx, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	stats, err := s.deps.Store.Attempts().Stats(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	sessions, err := s.deps.Store.Sessions().CountByStatus(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]attemptView, len(recent))
	for i, a := range recent {
		out[i] = attemptView(a)
	}
	c.JSON(http.StatusOK, gin.H{
		"recent": out,
		"stats":  statsFrom(stats, sessions),
	})
}

func statsFrom(st store.AttemptStats, sessions map[string]int) statsView {
	v := statsView{
		Attempts:     st.Attempts,
		Players:      st.Players,
		AverageScore: st.AverageScore,
		ByTier:       st.ByTier,
		GameSessions: sessions,
	}
	if v.ByTier == nil {
		v.ByTier = map[string]int{}
	}
	if v.GameSessions == nil {
		v.GameSessions = map[string]int{}
	}
	return v
}
