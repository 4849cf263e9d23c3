// Package game runs challenge sessions: issuing challenges, scoring
// answers, moving sessions to their terminal state and awarding
// achievements.
package game

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
	"github.com/cyberquestjr/cyberquest/internal/catalog"
	"github.com/cyberquestjr/cyberquest/internal/events"
	"github.com/cyberquestjr/cyberquest/internal/metrics"
	"github.com/cyberquestjr/cyberquest/internal/store"
)

// Game rules.
const (
	StartingLives   = 3
	SpeedThreshold  = 30.0 // seconds
	SpeedBonus      = 25
	SpeedRunnerGoal = 3
	XPPerLevel      = 1000
	CoinsPerLevel   = 100
)

// Achievement types awarded outside module completion.
const (
	AchievementFirstChallenge = "first_challenge"
	AchievementSpeedRunner    = "speed_runner"
	AchievementPerfectModule  = "perfect_module"
)

// Status is a session state.
type Status string

const (
	Active    Status = store.SessionActive
	Completed Status = store.SessionCompleted
	Failed    Status = store.SessionFailed
)

// Terminal reports whether no further challenges or answers are accepted.
func (s Status) Terminal() bool {
	return s == Completed || s == Failed
}

// Session is the client view of a game session.
type Session struct {
	ID           string     `json:"session_id"`
	PlayerName   string     `json:"player_name"`
	ModuleName   string     `json:"module_name"`
	Status       Status     `json:"status"`
	Lives        int        `json:"lives"`
	Score        int        `json:"score"`
	Challenge    int        `json:"current_challenge"`
	Total        int        `json:"total_challenges"`
	CorrectCount int        `json:"correct_count"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

func sessionView(gs *store.GameSession) Session {
	return Session{
		ID:           gs.ID,
		PlayerName:   gs.PlayerName,
		ModuleName:   gs.ModuleName,
		Status:       Status(gs.Status),
		Lives:        gs.Lives,
		Score:        gs.Score,
		Challenge:    gs.ChallengeIndex,
		Total:        gs.Length,
		CorrectCount: gs.CorrectCount,
		StartedAt:    gs.StartedAt,
		CompletedAt:  gs.CompletedAt,
	}
}

// Repos groups the persistence the service needs.
type Repos struct {
	Sessions     store.SessionRepo
	Players      store.PlayerRepo
	Achievements store.AchievementRepo
}

// ReposFrom returns the repos backed by st.
func ReposFrom(st *store.Store) Repos {
	return Repos{
		Sessions:     st.Sessions(),
		Players:      st.Players(),
		Achievements: st.Achievements(),
	}
}

// Service runs game sessions.
type Service struct {
	catalog   *catalog.Catalog
	repos     Repos
	gen       *Generator
	publisher events.Publisher
}

// Option configures a Service.
type Option func(*Service)

// WithGenerator draws challenges from gen, falling back to the bank.
func WithGenerator(gen *Generator) Option {
	return func(s *Service) { s.gen = gen }
}

// WithPublisher publishes game events to p.
func WithPublisher(p events.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// NewService creates a Service.
func NewService(cat *catalog.Catalog, repos Repos, opts ...Option) *Service {
	s := &Service{catalog: cat, repos: repos, publisher: events.NopPublisher{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start opens a new session for player on the named module.
func (s *Service) Start(ctx context.Context, playerName, moduleName string) (Session, error) {
	playerName = strings.TrimSpace(playerName)
	moduleName = strings.TrimSpace(moduleName)
	if playerName == "" || moduleName == "" {
		return Session{}, apperr.InvalidInput("player_name and module_name are required")
	}
	mod, err := s.catalog.Game(moduleName)
	if err != nil {
		return Session{}, err
	}
	p, err := s.repos.Players.Ensure(ctx, playerName)
	if err != nil {
		return Session{}, err
	}
	if p.Level < mod.RequiredLevel {
		return Session{}, apperr.Conflict("%s unlocks at level %d", mod.Name, mod.RequiredLevel)
	}

	gs := &store.GameSession{
		PlayerName: p.Name,
		ModuleName: mod.Name,
		Status:     store.SessionActive,
		Lives:      StartingLives,
		Length:     mod.Length,
	}
	if err := s.repos.Sessions.Create(ctx, gs); err != nil {
		return Session{}, err
	}

	metrics.GameSessions.WithLabelValues("started").Inc()
	view := sessionView(gs)
	events.Emit(ctx, s.publisher, events.GameStarted, view)
	return view, nil
}

// Status returns a snapshot of the session.
func (s *Service) Status(ctx context.Context, id string) (Session, error) {
	gs, err := s.repos.Sessions.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	return sessionView(gs), nil
}

// Challenge returns the session's pending challenge, issuing a new one
// when none is pending.
func (s *Service) Challenge(ctx context.Context, id string) (ChallengeView, error) {
	gs, err := s.repos.Sessions.Get(ctx, id)
	if err != nil {
		return ChallengeView{}, err
	}
	if Status(gs.Status).Terminal() {
		return ChallengeView{}, apperr.Conflict("session is %s", gs.Status)
	}
	if gs.Pending != "" {
		return s.challengeView(gs)
	}

	mod, err := s.catalog.Game(gs.ModuleName)
	if err != nil {
		return ChallengeView{}, err
	}
	level := store.StartingLevel
	if p, err := s.repos.Players.Get(ctx, gs.PlayerName); err == nil {
		level = p.Level
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return ChallengeView{}, err
	}

	// Drawing may call the LLM, so it happens outside the session update.
	next, err := s.draw(ctx, mod, gs, level)
	if err != nil {
		return ChallengeView{}, err
	}
	encoded, err := next.encode()
	if err != nil {
		return ChallengeView{}, err
	}

	gs, err = s.repos.Sessions.Update(ctx, id, func(cur *store.GameSession) error {
		if Status(cur.Status).Terminal() {
			return apperr.Conflict("session is %s", cur.Status)
		}
		if cur.Pending == "" {
			cur.Pending = encoded
		}
		return nil
	})
	if err != nil {
		return ChallengeView{}, err
	}
	return s.challengeView(gs)
}

func (s *Service) challengeView(gs *store.GameSession) (ChallengeView, error) {
	p, err := decodePending(gs.Pending)
	if err != nil {
		return ChallengeView{}, err
	}
	v := p.view()
	v.SessionID = gs.ID
	v.Number = gs.ChallengeIndex + 1
	v.Total = gs.Length
	v.Lives = gs.Lives
	v.Score = gs.Score
	return v, nil
}

func (s *Service) draw(ctx context.Context, mod catalog.GameModule, gs *store.GameSession, level int) (pending, error) {
	want := DifficultyFor(level, gs.ChallengeIndex+1)
	if s.gen != nil {
		c, err := s.gen.Generate(ctx, mod, want)
		if err == nil {
			return newPending(c, SourceGenerated), nil
		}
		log.Printf("challenge generation failed for %s, using the bank: %v", mod.Name, err)
		metrics.Fallbacks.WithLabelValues(metrics.ComponentChallenge).Inc()
	}
	c, ok := pick(mod, gs.ID, gs.ChallengeIndex, want)
	if !ok {
		return pending{}, apperr.NotFound("module %q has no challenges", mod.Name)
	}
	return newPending(c, SourceBank), nil
}
