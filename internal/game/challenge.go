package game

import (
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/cyberquestjr/cyberquest/internal/catalog"
	"github.com/cyberquestjr/cyberquest/internal/linkcheck"
)

// Challenge sources.
const (
	SourceBank      = "bank"
	SourceGenerated = "generated"
)

// pending is the issued challenge as stored on the session. Unlike
// catalog.Challenge it keeps the answer.
type pending struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Question      string             `json:"question"`
	URL           string             `json:"url,omitempty"`
	Options       []string           `json:"options"`
	CorrectAnswer string             `json:"correct_answer"`
	Explanation   string             `json:"explanation"`
	Difficulty    catalog.Difficulty `json:"difficulty"`
	Points        int                `json:"points"`
	Hints         []string           `json:"hints,omitempty"`
	Source        string             `json:"source"`
}

func newPending(c catalog.Challenge, source string) pending {
	return pending{
		ID:            c.ID,
		Title:         c.Title,
		Question:      c.Question,
		URL:           c.URL,
		Options:       append([]string(nil), c.Options...),
		CorrectAnswer: c.CorrectAnswer,
		Explanation:   c.Explanation,
		Difficulty:    c.Difficulty,
		Points:        c.Award(),
		Hints:         append([]string(nil), c.Hints...),
		Source:        source,
	}
}

func (p pending) encode() (string, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode challenge: %w", err)
	}
	return string(b), nil
}

func decodePending(s string) (pending, error) {
	var p pending
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return pending{}, fmt.Errorf("decode challenge: %w", err)
	}
	return p, nil
}

// ChallengeView is the client view of an issued challenge. It never
// carries the answer.
type ChallengeView struct {
	SessionID  string             `json:"session_id"`
	Number     int                `json:"challenge_number"`
	Total      int                `json:"total_challenges"`
	Lives      int                `json:"lives"`
	Score      int                `json:"score"`
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	Question   string             `json:"question"`
	URL        string             `json:"url,omitempty"`
	Options    []string           `json:"options"`
	Difficulty catalog.Difficulty `json:"difficulty"`
	Points     int                `json:"points"`
	Hints      []string           `json:"hints,omitempty"`
	Source     string             `json:"source"`
	Analysis   *linkcheck.Report  `json:"url_analysis,omitempty"`
}

func (p pending) view() ChallengeView {
	v := ChallengeView{
		ID:         p.ID,
		Title:      p.Title,
		Question:   p.Question,
		URL:        p.URL,
		Options:    p.Options,
		Difficulty: p.Difficulty,
		Points:     p.Points,
		Hints:      p.Hints,
		Source:     p.Source,
	}
	if p.URL != "" {
		r := linkcheck.Analyze(p.URL)
		v.Analysis = &r
	}
	return v
}

// DifficultyFor picks the difficulty of the challenge at the 1-based
// position number for a player at level. Low-level players stay on
// beginner challenges regardless of position.
func DifficultyFor(level, number int) catalog.Difficulty {
	switch {
	case level <= 2 || number <= 2:
		return catalog.Beginner
	case level <= 5 || number <= 4:
		return catalog.Intermediate
	default:
		return catalog.Advanced
	}
}

// pick rotates through the module's challenges of the wanted difficulty,
// offset by the session so different sessions start at different
// challenges. It falls back to the whole bank when no challenge has that
// difficulty.
func pick(mod catalog.GameModule, sessionID string, index int, want catalog.Difficulty) (catalog.Challenge, bool) {
	var pool []catalog.Challenge
	for _, c := range mod.Challenges {
		if c.Difficulty == want {
			pool = append(pool, c)
		}
	}
	if len(pool) == 0 {
		pool = mod.Challenges
	}
	if len(pool) == 0 {
		return catalog.Challenge{}, false
	}
	h := fnv.New32a()
	h.Write([]byte(sessionID))
	offset := int(h.Sum32() % uint32(len(pool)))
	return pool[(offset+index)%len(pool)], true
}
