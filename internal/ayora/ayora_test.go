package ayora

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
	"github.com/cyberquestjr/cyberquest/internal/llm"
)

func TestParseContext(t *testing.T) {
	for _, c := range Contexts {
		got, err := ParseContext(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err := ParseContext("bedtime_story")
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestSequence(t *testing.T) {
	text := strings.Repeat("word ", 30) // 30 words = 12s at 150 wpm
	seq := Sequence(text)

	require.Len(t, seq, 3)
	assert.Equal(t, Animation{Animation: AnimWaving, Duration: 3, StartTime: 0}, seq[0])
	assert.Equal(t, AnimTalking, seq[1].Animation)
	assert.InDelta(t, 12.0, seq[1].Duration, 1e-9)
	assert.Equal(t, 3.0, seq[1].StartTime)
	assert.Equal(t, AnimBreathingIdle, seq[2].Animation)
	assert.Equal(t, -1.0, seq[2].Duration)
	assert.InDelta(t, 15.0, seq[2].StartTime, 1e-9)
}

func TestRespond_StaticOnly(t *testing.T) {
	c := New(nil, nil, 0)

	s := c.Introduce(context.Background())
	assert.True(t, s.Success)
	assert.False(t, s.Generated)
	assert.Equal(t, Fallback(LandingIntroduction), s.SpeechText)
	assert.Equal(t, CompanionName, s.CompanionName)
	assert.Equal(t, LandingIntroduction, s.Context)
	assert.InDelta(t, WavingDuration+SpeechDuration(s.SpeechText), s.EstimatedDuration, 1e-9)
	assert.Empty(t, s.AudioBase64)

	st := c.Status()
	assert.False(t, st.Generative)
	assert.False(t, st.TTS)
	assert.Len(t, st.Contexts, 5)
}

func TestRespond_Generated(t *testing.T) {
	mock := llm.NewMockProvider(llm.TextResponse(`"Way to go, cyber hero! 🏆"`))
	c := New(mock, nil, time.Second)

	s := c.Respond(context.Background(), AchievementCelebration, map[string]string{"achievement": "Phishing Master"})
	assert.True(t, s.Generated)
	assert.Equal(t, "Way to go, cyber hero! 🏆", s.SpeechText)

	call, ok := mock.LastCall()
	require.True(t, ok)
	assert.Nil(t, call.Schema)
	assert.Equal(t, 200, call.MaxTokens)
	assert.Contains(t, call.Messages[0].Content, "Achievement: Phishing Master")
}

func TestRespond_GenerationFallbacks(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"error", llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}}},
		{"empty", llm.TextResponse("   ")},
		{"timeout", llm.MockResponse{Content: json.RawMessage(`"late"`), Delay: time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(llm.NewMockProvider(tt.resp), nil, 20*time.Millisecond)
			s := c.Respond(context.Background(), HelpGuidance, nil)
			assert.False(t, s.Generated)
			assert.Equal(t, Fallback(HelpGuidance), s.SpeechText)
		})
	}
}

func TestPromptUsesContextData(t *testing.T) {
	assert.Contains(t, prompt(ModuleExplanation, map[string]string{"module_name": "Password Heroes"}), "Module: Password Heroes")
	assert.Contains(t, prompt(ModuleExplanation, nil), "Module: Cybersecurity Basics")
	assert.Contains(t, prompt(AchievementCelebration, nil), "completing a challenge")
}

type stubSpeaker struct {
	audio []byte
	err   error
}

func (s stubSpeaker) Speak(context.Context, string) ([]byte, error) { return s.audio, s.err }

func TestRespond_Audio(t *testing.T) {
	c := New(nil, stubSpeaker{audio: []byte("ID3")}, time.Second)
	s := c.Respond(context.Background(), QuizEncouragement, nil)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("ID3")), s.AudioBase64)
	assert.Equal(t, DefaultOutputFormat, s.AudioFormat)
	assert.True(t, c.Status().TTS)

	c = New(nil, stubSpeaker{err: errors.New("quota")}, time.Second)
	s = c.Respond(context.Background(), QuizEncouragement, nil)
	assert.True(t, s.Success)
	assert.Empty(t, s.AudioBase64)
}

func TestElevenLabsSpeak(t *testing.T) {
	var gotPath, gotKey string
	var gotBody ttsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path + "?" + r.URL.RawQuery
		gotKey = r.Header.Get("xi-api-key")
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("mp3-bytes"))
	}))
	defer srv.Close()

	tts := NewElevenLabs(ElevenLabsConfig{APIKey: "k", BaseURL: srv.URL})
	audio, err := tts.Speak(context.Background(), "Hello!")
	require.NoError(t, err)
	assert.Equal(t, "mp3-bytes", string(audio))
	assert.Equal(t, "/v1/text-to-speech/"+DefaultVoiceID+"/stream?output_format=mp3_22050_32", gotPath)
	assert.Equal(t, "k", gotKey)
	assert.Equal(t, "Hello!", gotBody.Text)
	assert.Equal(t, DefaultTTSModel, gotBody.ModelID)
	assert.Equal(t, 1.2, gotBody.VoiceSettings.Speed)
}

func TestElevenLabsSpeak_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "empty") {
			return
		}
		http.Error(w, `{"detail":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewElevenLabs(ElevenLabsConfig{BaseURL: srv.URL}).Speak(context.Background(), "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")

	_, err = NewElevenLabs(ElevenLabsConfig{BaseURL: srv.URL, VoiceID: "empty"}).Speak(context.Background(), "hi")
	assert.Error(t, err)
}
