package course

import (
	"fmt"
	"strings"

	"github.com/cyberquestjr/cyberquest/internal/assessment"
)

const systemPrompt = `You design cybersecurity courses for children aged 8-18.

Rules:
- Make it fun and engaging for kids, with encouraging, positive language.
- Focus heavily on the areas that need improvement.
- Include 4-6 modules that build logically on each other.
- Give each module an exciting name (like "Password Superhero Training"), a single emoji icon and a time estimate like "15 mins".
- Cover specific cybersecurity topics the learner needs.
- Respond with JSON only.`

// buildPrompt renders the user message for a course request.
func buildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a personalized cybersecurity course for a child who scored %.0f%% on an assessment.\n\n", req.Score)
	fmt.Fprintf(&b, "Skill level: %s\n", req.Tier)
	fmt.Fprintf(&b, "Areas that need improvement: %s\n", assessment.TopicsText(req.Weak, "general cybersecurity concepts"))
	fmt.Fprintf(&b, "Areas they're already good at: %s\n", assessment.TopicsText(req.Strong, "none identified yet"))
	fmt.Fprintf(&b, "\nSet skill_level and every module difficulty to %q.", req.Tier)

	return b.String()
}
