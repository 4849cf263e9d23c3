// Package ayora drives the companion character: what she says in each
// situation, how the avatar animates while saying it, and optionally the
// spoken audio.
package ayora

import (
	"fmt"
	"strings"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
)

// CompanionName is the character's display name.
const CompanionName = "Ayora"

// Context is the situation the companion is speaking in.
type Context string

const (
	LandingIntroduction    Context = "landing_introduction"
	ModuleExplanation      Context = "module_explanation"
	QuizEncouragement      Context = "quiz_encouragement"
	AchievementCelebration Context = "achievement_celebration"
	HelpGuidance           Context = "help_guidance"
)

// Contexts lists every supported context.
var Contexts = []Context{
	LandingIntroduction,
	ModuleExplanation,
	QuizEncouragement,
	AchievementCelebration,
	HelpGuidance,
}

// ParseContext validates a context name.
func ParseContext(s string) (Context, error) {
	c := Context(strings.TrimSpace(s))
	for _, known := range Contexts {
		if c == known {
			return c, nil
		}
	}
	return "", apperr.InvalidInput("invalid context: %q", s)
}

const systemPrompt = "You are Ayora, an AI cybersecurity education companion for kids."

// prompt returns the generation instruction for c.
func prompt(c Context, data map[string]string) string {
	switch c {
	case LandingIntroduction:
		return `You are Ayora, a friendly and enthusiastic AI companion for CyberQuestJR, a cybersecurity education platform for kids aged 8-18.

Generate a warm, welcoming introduction for when a user first lands on the website:
- Introduce yourself as Ayora, their personal cybersecurity guide.
- Welcome them to CyberQuestJR in an exciting, kid-friendly way.
- Explain that they'll learn to protect themselves online through fun games and challenges.
- Encourage them to start their adventure.
- Maximum 120 words. Use emojis sparingly.

Return only the speech text, nothing else.`
	case ModuleExplanation:
		return fmt.Sprintf(`You are Ayora explaining a cybersecurity module to a student.
Module: %s

Provide a brief, encouraging explanation of what they'll learn in this module.
Keep it under 80 words and make it exciting for kids aged 8-18.

Return only the speech text, nothing else.`, valueOr(data, "module_name", "Cybersecurity Basics"))
	case QuizEncouragement:
		return `You are Ayora providing encouragement before a cybersecurity quiz.
Give a short, motivating message about doing their best and learning from the experience.
Keep it under 60 words and upbeat for kids aged 8-18.

Return only the speech text, nothing else.`
	case AchievementCelebration:
		return fmt.Sprintf(`You are Ayora celebrating a student's achievement.
Achievement: %s

Provide enthusiastic congratulations and encourage them to keep learning.
Keep it under 70 words and very celebratory for kids aged 8-18.

Return only the speech text, nothing else.`, valueOr(data, "achievement", "completing a challenge"))
	default:
		return `You are Ayora providing helpful guidance to a student who might be confused.
Give reassuring, helpful advice about learning cybersecurity step by step.
Keep it under 80 words and supportive for kids aged 8-18.

Return only the speech text, nothing else.`
	}
}

var fallbacks = map[Context]string{
	LandingIntroduction:    "Hi there! I'm Ayora, your friendly cybersecurity guide! 🌟 Welcome to CyberQuestJR, where learning about online safety is super fun! I'll be with you every step of the way as we explore amazing cybersecurity adventures together. Ready to become a cyber hero? Let's start your exciting journey! 🚀",
	ModuleExplanation:      "Great choice! This module will teach you awesome skills to stay safe online. Let's dive in and discover something amazing together! 🎯",
	QuizEncouragement:      "You've got this! Take your time, think through each question, and remember - every answer helps you learn something new! 💪",
	AchievementCelebration: "Fantastic work! You're becoming an amazing cyber hero! Keep up the incredible learning! 🏆⭐",
	HelpGuidance:           "No worries at all! Learning is a journey, and I'm here to help. Take it one step at a time, and you'll do great! 🤗",
}

// Fallback returns the static line for c.
func Fallback(c Context) string {
	if s, ok := fallbacks[c]; ok {
		return s
	}
	return "Hi! I'm Ayora, and I'm excited to learn with you!"
}

func valueOr(data map[string]string, key, def string) string {
	if v := strings.TrimSpace(data[key]); v != "" {
		return v
	}
	return def
}
