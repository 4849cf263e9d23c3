package game

import (
	"context"
	"strings"
	"time"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
	"github.com/cyberquestjr/cyberquest/internal/catalog"
	"github.com/cyberquestjr/cyberquest/internal/store"
)

// LevelFor returns the level reached with xp.
func LevelFor(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return xp/XPPerLevel + 1
}

// GainXP adds xp to p and applies any level-ups, each worth
// CoinsPerLevel coins. It returns the number of levels gained.
func GainXP(p *store.Player, xp int) int {
	p.XP += xp
	next := LevelFor(p.XP)
	if next <= p.Level {
		return 0
	}
	gained := next - p.Level
	p.Level = next
	p.Coins += gained * CoinsPerLevel
	return gained
}

// Earned is an achievement a player holds.
type Earned struct {
	Award
	SessionID string    `json:"session_id,omitempty"`
	AwardedAt time.Time `json:"awarded_at"`
}

// Profile is a player with their achievements and unlocked games.
type Profile struct {
	Name         string               `json:"name"`
	XP           int                  `json:"xp"`
	Level        int                  `json:"level"`
	Coins        int                  `json:"coins"`
	NextLevelXP  int                  `json:"next_level_xp"`
	Achievements []Earned             `json:"achievements"`
	Unlocked     []catalog.GameModule `json:"unlocked_games"`
}

// Profile returns the named player's profile.
func (s *Service) Profile(ctx context.Context, name string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Profile{}, apperr.InvalidInput("player name is required")
	}
	p, err := s.repos.Players.Get(ctx, name)
	if err != nil {
		return Profile{}, err
	}
	held, err := s.repos.Achievements.List(ctx, name)
	if err != nil {
		return Profile{}, err
	}
	achievements := make([]Earned, 0, len(held))
	for _, a := range held {
		achievements = append(achievements, Earned{
			Award:     Award{Type: a.Type, Title: a.Title, Description: a.Description, Icon: a.Icon, XP: a.XP},
			SessionID: a.SessionID,
			AwardedAt: a.AwardedAt,
		})
	}
	return Profile{
		Name:         p.Name,
		XP:           p.XP,
		Level:        p.Level,
		Coins:        p.Coins,
		NextLevelXP:  p.Level * XPPerLevel,
		Achievements: achievements,
		Unlocked:     s.catalog.Games(p.Level),
	}, nil
}
