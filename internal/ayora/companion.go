package ayora

import (
	"context"
	"encoding/base64"
	"errors"
	"log"
	"time"

	"github.com/cyberquestjr/cyberquest/internal/llm"
	"github.com/cyberquestjr/cyberquest/internal/metrics"
)

// Speech is a complete companion response.
type Speech struct {
	Success           bool        `json:"success"`
	SpeechText        string      `json:"speech_text"`
	AnimationSequence []Animation `json:"animation_sequence"`
	CompanionName     string      `json:"companion_name"`
	Context           Context     `json:"context"`
	EstimatedDuration float64     `json:"estimated_duration"`
	AudioBase64       string      `json:"audio_base64,omitempty"`
	AudioFormat       string      `json:"audio_format,omitempty"`
	Generated         bool        `json:"generated"`
}

// Status reports which optional backends are enabled.
type Status struct {
	CompanionName string   `json:"companion_name"`
	Generative    bool     `json:"generative"`
	TTS           bool     `json:"tts"`
	Contexts      []string `json:"contexts"`
}

// Companion produces speech. Both the provider and speaker are optional.
type Companion struct {
	provider llm.Provider
	speaker  Speaker
	timeout  time.Duration
}

// New creates a Companion. provider and speaker may be nil.
func New(provider llm.Provider, speaker Speaker, timeout time.Duration) *Companion {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Companion{provider: provider, speaker: speaker, timeout: timeout}
}

// Status describes the configured backends.
func (c *Companion) Status() Status {
	names := make([]string, len(Contexts))
	for i, ctx := range Contexts {
		names[i] = string(ctx)
	}
	return Status{
		CompanionName: CompanionName,
		Generative:    c.provider != nil,
		TTS:           c.speaker != nil,
		Contexts:      names,
	}
}

// Introduce is Respond for the landing introduction.
func (c *Companion) Introduce(ctx context.Context) Speech {
	return c.Respond(ctx, LandingIntroduction, nil)
}

// Respond builds the speech for a context. Generation and TTS failures
// fall back to the static line and no audio.
func (c *Companion) Respond(ctx context.Context, kind Context, data map[string]string) Speech {
	text, generated := c.text(ctx, kind, data)
	s := Speech{
		Success:           true,
		SpeechText:        text,
		AnimationSequence: Sequence(text),
		CompanionName:     CompanionName,
		Context:           kind,
		EstimatedDuration: WavingDuration + SpeechDuration(text),
		Generated:         generated,
	}

	if c.speaker != nil {
		audio, err := c.speak(ctx, text)
		if err != nil {
			log.Printf("ayora tts failed, responding without audio: %v", err)
			metrics.Fallbacks.WithLabelValues(metrics.ComponentTTS).Inc()
		} else {
			s.AudioBase64 = base64.StdEncoding.EncodeToString(audio)
			s.AudioFormat = DefaultOutputFormat
		}
	}
	return s
}

func (c *Companion) text(ctx context.Context, kind Context, data map[string]string) (string, bool) {
	if c.provider == nil {
		return Fallback(kind), false
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeSpeech)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(prompt(kind, data)),
		MaxTokens:   200,
		Temperature: 0.7,
	})
	if err == nil {
		if text := resp.Text(); text != "" {
			return text, true
		}
		err = &llm.ErrInvalidResponse{Err: errors.New("empty speech")}
	}
	log.Printf("ayora speech generation failed (%s), using fallback: %v", llm.Reason(err), err)
	metrics.Fallbacks.WithLabelValues(metrics.ComponentSpeech).Inc()
	return Fallback(kind), false
}

func (c *Companion) speak(ctx context.Context, text string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.speaker.Speak(ctx, text)
}
