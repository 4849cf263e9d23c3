package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesCollectors(t *testing.T) {
	QuizSubmissions.WithLabelValues("assessment", "advanced").Inc()
	Fallbacks.WithLabelValues(ComponentCourse).Inc()
	GameSessions.WithLabelValues("started").Add(2)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `cyberquest_quiz_submissions_total{quiz_type="assessment",tier="advanced"} 1`)
	assert.Contains(t, body, `cyberquest_fallbacks_total{component="course"} 1`)
	assert.Contains(t, body, `cyberquest_game_sessions_total{outcome="started"} 2`)
}
