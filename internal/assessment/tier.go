package assessment

import (
	"fmt"
	"math"
	"strings"
)

// Tier is a coarse skill bucket derived from an assessment percentage.
type Tier string

const (
	Beginner     Tier = "beginner"
	Intermediate Tier = "intermediate"
	Advanced     Tier = "advanced"
)

// Tier thresholds, inclusive.
const (
	AdvancedThreshold     = 80.0
	IntermediateThreshold = 60.0
)

// ClampPercent limits pct to [0,100]. NaN becomes 0.
func ClampPercent(pct float64) float64 {
	if math.IsNaN(pct) {
		return 0
	}
	return min(max(pct, 0), 100)
}

// AllTiers lists the tiers in ascending order.
var AllTiers = []Tier{Beginner, Intermediate, Advanced}

// Classify maps a percentage to a tier. Input outside [0,100] is clamped
// and NaN counts as 0.
func Classify(pct float64) Tier {
	pct = ClampPercent(pct)
	switch {
	case pct >= AdvancedThreshold:
		return Advanced
	case pct >= IntermediateThreshold:
		return Intermediate
	default:
		return Beginner
	}
}

// ParseTier reads a tier name, case-insensitively.
func ParseTier(s string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case Beginner:
		return Beginner, nil
	case Intermediate:
		return Intermediate, nil
	case Advanced:
		return Advanced, nil
	}
	return "", fmt.Errorf("unknown tier %q", s)
}

// Rank orders tiers: 0 for beginner up to 2 for advanced. Unknown tiers
// rank as beginner.
func (t Tier) Rank() int {
	switch t {
	case Intermediate:
		return 1
	case Advanced:
		return 2
	default:
		return 0
	}
}

// Label returns the display name of the tier.
func (t Tier) Label() string {
	switch t {
	case Intermediate:
		return "Intermediate"
	case Advanced:
		return "Advanced"
	default:
		return "Beginner"
	}
}

// Feedback is the per-tier message shown after an assessment.
type Feedback struct {
	Title              string   `json:"title"`
	Message            string   `json:"message"`
	Encouragement      string   `json:"encouragement"`
	RecommendedModules []string `json:"recommended_modules"`
}

// FeedbackFor returns the feedback copy for a tier.
func FeedbackFor(t Tier) Feedback {
	switch t {
	case Advanced:
		return Feedback{
			Title:              "Advanced Explorer! 🌟",
			Message:            "Wow! You already know a lot about cybersecurity. You're ready for intermediate and advanced courses!",
			Encouragement:      "Keep sharing what you know and help your friends stay safe online!",
			RecommendedModules: []string{"social-media-safety", "phishing-links"},
		}
	case Intermediate:
		return Feedback{
			Title:              "Cyber Cadet! 🚀",
			Message:            "Great job! You have some good knowledge. Let's build on that with some beginner and intermediate courses!",
			Encouragement:      "A little more practice and you'll be a cyber hero!",
			RecommendedModules: []string{"password-basics", "phishing-awareness", "phishing-links"},
		}
	default:
		return Feedback{
			Title:              "Future Cyber Hero! 💪",
			Message:            "Perfect! You're just starting your cybersecurity journey. Let's begin with the basics and work our way up!",
			Encouragement:      "Every expert was once a beginner. You've got this!",
			RecommendedModules: []string{"password-basics", "phishing-awareness", "social-media-safety"},
		}
	}
}
