// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fallback components.
const (
	ComponentCourse    = "course"
	ComponentChallenge = "challenge"
	ComponentSpeech    = "speech"
	ComponentTTS       = "tts"
)

var (
	// HTTPDuration observes request latency per route.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cyberquest_http_request_duration_seconds",
			Help:    "Time spent serving HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// QuizSubmissions counts scored submissions.
	QuizSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyberquest_quiz_submissions_total",
			Help: "Total number of scored quiz submissions",
		},
		[]string{"quiz_type", "tier"},
	)

	// Courses counts synthesized courses by the strategy that produced them.
	Courses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyberquest_courses_total",
			Help: "Total number of synthesized courses",
		},
		[]string{"strategy"}, // generated, static, cached
	)

	// Fallbacks counts generative calls resolved by static content.
	Fallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyberquest_fallbacks_total",
			Help: "Total number of generative failures resolved by static content",
		},
		[]string{"component"},
	)

	// GameSessions counts session starts and terminal outcomes.
	GameSessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyberquest_game_sessions_total",
			Help: "Total number of game sessions by outcome",
		},
		[]string{"outcome"}, // started, completed, failed
	)
)

// Handler serves the default registry in the exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
