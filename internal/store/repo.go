package store

import (
	"context"
	"time"
)

// QuizAttempt is one scored quiz submission.
type QuizAttempt struct {
	ID          string
	DisplayName string
	QuizType    string
	Score       float64
	Tier        string
	Correct     int
	Total       int
	WeakAreas   []string
	StrongAreas []string
	CreatedAt   time.Time
}

// AttemptStats aggregates the attempt log.
type AttemptStats struct {
	Attempts     int
	Players      int
	AverageScore float64
	ByTier       map[string]int
}

// AttemptRepo records scored quiz submissions.
type AttemptRepo interface {
	// Record stores a, assigning its ID and CreatedAt.
	Record(ctx context.Context, a *QuizAttempt) error

	// Recent returns the newest attempts first.
	Recent(ctx context.Context, limit int) ([]QuizAttempt, error)

	// ByPlayer returns a player's attempts, newest first.
	ByPlayer(ctx context.Context, displayName string, limit int) ([]QuizAttempt, error)

	// Stats aggregates all attempts.
	Stats(ctx context.Context) (AttemptStats, error)
}

// LeaderboardEntry is a player's cumulative quiz standing.
type LeaderboardEntry struct {
	Rank             int
	DisplayName      string
	TotalScore       float64
	QuizzesCompleted int
	BestScore        float64
	UpdatedAt        time.Time
}

// LeaderboardRepo maintains cumulative quiz scores.
type LeaderboardRepo interface {
	// Record adds score to the player's total in a single upsert.
	Record(ctx context.Context, displayName string, score float64) error

	// Top returns the highest totals, ranked from 1.
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// CourseRecord is the audit row of a synthesized course.
type CourseRecord struct {
	ID        string
	Tier      string
	Strategy  string
	Title     string
	Score     float64
	WeakAreas []string
	Course    string // JSON
	CreatedAt time.Time
}

// CourseRepo audits synthesized courses.
type CourseRepo interface {
	Save(ctx context.Context, c *CourseRecord) error
	Get(ctx context.Context, id string) (*CourseRecord, error)
}

// Game session statuses.
const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionFailed    = "failed"
)

// GameSession is the persisted state of one game play-through.
type GameSession struct {
	ID             string
	PlayerName     string
	ModuleName     string
	Status         string
	Lives          int
	Score          int
	ChallengeIndex int
	Length         int
	CorrectCount   int
	SpeedCount     int
	Pending        string // JSON of the issued, unanswered challenge
	StartedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
}

// SessionRepo persists game sessions.
type SessionRepo interface {
	// Create inserts s. StartedAt and UpdatedAt are set when zero.
	Create(ctx context.Context, s *GameSession) error

	Get(ctx context.Context, id string) (*GameSession, error)

	// Update loads the session, applies fn and writes the result back in
	// one transaction. If fn returns an error nothing is written.
	Update(ctx context.Context, id string, fn func(*GameSession) error) (*GameSession, error)

	// CountByStatus returns the number of sessions per status.
	CountByStatus(ctx context.Context) (map[string]int, error)
}

// Player is a game player profile.
type Player struct {
	ID        int
	Name      string
	XP        int
	Level     int
	Coins     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PlayerRepo persists player profiles.
type PlayerRepo interface {
	// Ensure returns the player, creating it with starting values if missing.
	Ensure(ctx context.Context, name string) (*Player, error)

	Get(ctx context.Context, name string) (*Player, error)

	// Update applies fn to the player inside one transaction.
	Update(ctx context.Context, name string, fn func(*Player) error) (*Player, error)
}

// Achievement is a badge awarded to a player.
type Achievement struct {
	ID          int
	PlayerName  string
	Type        string
	Title       string
	Description string
	Icon        string
	XP          int
	SessionID   string
	AwardedAt   time.Time
}

// AchievementRepo persists awarded achievements.
type AchievementRepo interface {
	// Award stores a unless the player already holds that type. It
	// reports whether a new row was written. When a row is written and
	// apply is non-nil, apply runs against the locked player row in the
	// same transaction; if it or the player write fails, nothing is kept.
	Award(ctx context.Context, a *Achievement, apply func(*Player) error) (bool, error)

	// List returns a player's achievements, oldest first.
	List(ctx context.Context, playerName string) ([]Achievement, error)
}

// LLMEvent is one logged LLM API call.
type LLMEvent struct {
	ID           int
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
	CreatedAt    time.Time
}

// LLMUsageStats aggregates token usage for one purpose.
type LLMUsageStats struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// LLMModelUsage aggregates token usage for one model.
type LLMModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// LLMEventRepo is the LLM request log.
type LLMEventRepo interface {
	// AppendLLMRequest records an LLM API call.
	AppendLLMRequest(ctx context.Context, e LLMEvent) error

	// List returns the newest events first.
	List(ctx context.Context, limit int) ([]LLMEvent, error)

	Get(ctx context.Context, id int) (*LLMEvent, error)

	UsageByPurpose(ctx context.Context) ([]LLMUsageStats, error)
	UsageByModel(ctx context.Context) ([]LLMModelUsage, error)
}
