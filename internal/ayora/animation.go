package ayora

import "strings"

// Avatar animation clip names.
const (
	AnimWaving        = "Waving (1)"
	AnimTalking       = "Talking (1)"
	AnimBreathingIdle = "Breathing Idle"
)

// Timing constants for the animation sequence.
const (
	WavingDuration = 3.0
	WordsPerMinute = 150.0

	// untilNext marks a clip that loops until the next action.
	untilNext = -1.0
)

// Animation is one clip in the avatar timeline. Times are in seconds.
type Animation struct {
	Animation string  `json:"animation"`
	Duration  float64 `json:"duration"`
	StartTime float64 `json:"start_time"`
}

// SpeechDuration estimates how long text takes to say.
func SpeechDuration(text string) float64 {
	return float64(len(strings.Fields(text))) / WordsPerMinute * 60
}

// Sequence builds the wave, talk, idle timeline for text.
func Sequence(text string) []Animation {
	talk := SpeechDuration(text)
	return []Animation{
		{Animation: AnimWaving, Duration: WavingDuration, StartTime: 0},
		{Animation: AnimTalking, Duration: talk, StartTime: WavingDuration},
		{Animation: AnimBreathingIdle, Duration: untilNext, StartTime: WavingDuration + talk},
	}
}
