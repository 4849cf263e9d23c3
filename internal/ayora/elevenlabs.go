package ayora

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ElevenLabs defaults.
const (
	DefaultVoiceID      = "Xb7hH8MSUJpSbSDYk0k2"
	DefaultTTSModel     = "eleven_multilingual_v2"
	DefaultOutputFormat = "mp3_22050_32"
	defaultTTSBaseURL   = "https://api.elevenlabs.io"
)

// Speaker turns text into audio.
type Speaker interface {
	Speak(ctx context.Context, text string) ([]byte, error)
}

// ElevenLabsConfig configures the ElevenLabs text-to-speech client.
type ElevenLabsConfig struct {
	APIKey  string
	VoiceID string
	Model   string
	Format  string
	BaseURL string
}

// ElevenLabs is a Speaker backed by the ElevenLabs streaming TTS API.
type ElevenLabs struct {
	cfg    ElevenLabsConfig
	client *http.Client
}

// NewElevenLabs creates a client. Empty fields take the defaults.
func NewElevenLabs(cfg ElevenLabsConfig) *ElevenLabs {
	if cfg.VoiceID == "" {
		cfg.VoiceID = DefaultVoiceID
	}
	if cfg.Model == "" {
		cfg.Model = DefaultTTSModel
	}
	if cfg.Format == "" {
		cfg.Format = DefaultOutputFormat
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultTTSBaseURL
	}
	return &ElevenLabs{cfg: cfg, client: &http.Client{Timeout: 30 * time.Second}}
}

type voiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
	Style           float64 `json:"style"`
	Speed           float64 `json:"speed"`
}

type ttsRequest struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings voiceSettings `json:"voice_settings"`
}

// Speak returns the synthesized audio bytes.
func (e *ElevenLabs) Speak(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(ttsRequest{
		Text:    text,
		ModelID: e.cfg.Model,
		VoiceSettings: voiceSettings{
			Stability:       0.3,
			SimilarityBoost: 0.75,
			Style:           1.0,
			Speed:           1.2,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("encode tts request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1/text-to-speech/%s/stream?output_format=%s",
		e.cfg.BaseURL, url.PathEscape(e.cfg.VoiceID), url.QueryEscape(e.cfg.Format))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build tts request: %w", err)
	}
	req.Header.Set("xi-api-key", e.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tts status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("tts returned no audio")
	}
	return audio, nil
}
