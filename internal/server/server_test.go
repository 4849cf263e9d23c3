package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberquestjr/cyberquest/internal/ayora"
	"github.com/cyberquestjr/cyberquest/internal/catalog"
	"github.com/cyberquestjr/cyberquest/internal/course"
	"github.com/cyberquestjr/cyberquest/internal/events"
	"github.com/cyberquestjr/cyberquest/internal/game"
	"github.com/cyberquestjr/cyberquest/internal/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testEnv struct {
	handler  http.Handler
	store    *store.Store
	recorder *events.Recorder
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "server.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cat, err := catalog.Load()
	require.NoError(t, err)

	rec := &events.Recorder{}
	srv := New(Deps{
		Catalog:   cat,
		Store:     st,
		Courses:   course.NewSynthesizer(nil),
		Game:      game.NewService(cat, game.ReposFrom(st), game.WithPublisher(rec)),
		Ayora:     ayora.New(nil, nil, 0),
		Publisher: rec,
	}, Options{})
	return testEnv{handler: srv.Handler(), store: st, recorder: rec}
}

// do sends body as JSON. A string body is sent verbatim.
func (e testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if r != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

var assessmentAnswers = []map[string]any{
	{"question_id": 1, "answer": "MyDog2024!"},
	{"question_id": 2, "answer": "Delete the email and report it as phishing"},
	{"question_id": 3, "answer": "Your favorite movie"},
	{"question_id": 4, "answer": "Tell a trusted adult and never meet alone"},
	{"question_id": 5, "answer": "Ask an adult if it's safe"},
	{"question_id": 6, "answer": "Tell an adult immediately"},
}

// answersWithWrong returns the assessment answers with the given question
// ids answered wrongly.
func answersWithWrong(ids ...int) []map[string]any {
	out := make([]map[string]any, len(assessmentAnswers))
	for i, a := range assessmentAnswers {
		out[i] = map[string]any{"question_id": a["question_id"], "answer": a["answer"]}
		for _, id := range ids {
			if a["question_id"] == id {
				out[i]["answer"] = "wrong"
			}
		}
	}
	return out
}

func TestRunLogsAddressOnce(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	srv := New(Deps{Courses: course.NewSynthesizer(nil)}, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, srv.Run(ctx, "127.0.0.1:0"))

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "cyberquest listening on"), out)
	assert.Contains(t, out, "generative: false")
}

func TestHealthAndMetrics(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["generative"])

	w = env.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cyberquest_http_request_duration_seconds")
}

func TestGetQuiz(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/quiz/assessment", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "correct_answer")
	body := decode(t, w)
	assert.Len(t, body["questions"], 6)

	w = env.do(t, http.MethodGet, "/api/quiz/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode(t, w)["error"], "nope")

	w = env.do(t, http.MethodGet, "/api/quizzes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["quizzes"], 4)
}

func TestSubmitQuiz_Advanced(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/quiz/submit", map[string]any{
		"quiz_type":    "assessment",
		"answers":      answersWithWrong(3),
		"display_name": "Ada",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.InDelta(t, 83.33, body["score"], 0.01)
	assert.Equal(t, "advanced", body["tier"])
	assert.Equal(t, "Advanced", body["level"])
	assert.EqualValues(t, 5, body["correct"])
	assert.EqualValues(t, 6, body["total"])
	assert.Len(t, body["results"], 6)
	assert.NotEmpty(t, body["attempt_id"])

	top, err := env.store.Leaderboard().Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "Ada", top[0].DisplayName)
	assert.Equal(t, []string{events.QuizSubmitted}, env.recorder.Types())
}

func TestSubmitQuiz_BeginnerDefaultsName(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/quiz/submit", map[string]any{
		"quiz_type": "assessment",
		"answers":   answersWithWrong(1, 2, 3),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.InDelta(t, 50.0, body["score"], 0.001)
	assert.Equal(t, "beginner", body["tier"])
	assert.Equal(t, "CyberHero", body["display_name"])
	assert.NotEmpty(t, body["weak_areas"])
}

func TestSubmitQuiz_Errors(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name string
		body any
		want int
	}{
		{"empty body", "", http.StatusBadRequest},
		{"malformed", "{not json", http.StatusBadRequest},
		{"missing quiz type", map[string]any{"answers": assessmentAnswers}, http.StatusBadRequest},
		{"no answers", map[string]any{"quiz_type": "assessment"}, http.StatusBadRequest},
		{"unknown quiz", map[string]any{"quiz_type": "nope", "answers": assessmentAnswers}, http.StatusNotFound},
		{"unknown questions", map[string]any{
			"quiz_type": "assessment",
			"answers":   []map[string]any{{"question_id": 99, "answer": "x"}},
		}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/quiz/submit", tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.NotEmpty(t, decode(t, w)["error"])
		})
	}
}

func TestGenerateCourse_FromAnswers(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/course/generate", map[string]any{
		"quiz_type": "assessment",
		"answers":   answersWithWrong(3),
		// A reported tier never overrides the rescored one.
		"assessment_result": map[string]any{"score": 10, "tier": "beginner"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, course.Static("advanced").Title, body["title"])
	assert.Equal(t, "advanced", body["skill_level"])
	assert.Equal(t, "static", w.Header().Get(headerCourseStrategy))

	id := w.Header().Get(headerCourseID)
	require.NotEmpty(t, id)
	assert.Contains(t, env.recorder.Types(), events.CourseGenerated)

	w = env.do(t, http.MethodGet, "/api/course/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rec := decode(t, w)
	assert.Equal(t, "advanced", rec["tier"])
	assert.Equal(t, "static", rec["strategy"])
	assert.Equal(t, body["title"], rec["course"].(map[string]any)["title"])
}

func TestGenerateCourse_FromScore(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/course/generate", map[string]any{
		"assessment_result": map[string]any{"score": 65, "tier": "advanced"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "intermediate", decode(t, w)["skill_level"])
}

func TestGenerateCourse_ScoreClamped(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		score     float64
		wantScore float64
		wantTier  string
	}{
		{250, 100, "advanced"},
		{-40, 0, "beginner"},
	}
	for _, tt := range tests {
		w := env.do(t, http.MethodPost, "/api/course/generate", map[string]any{
			"assessment_result": map[string]any{"score": tt.score},
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		rec, err := env.store.Courses().Get(context.Background(), w.Header().Get(headerCourseID))
		require.NoError(t, err)
		assert.Equal(t, tt.wantScore, rec.Score, "score %v", tt.score)
		assert.Equal(t, tt.wantTier, rec.Tier, "score %v", tt.score)
	}
}

func TestGenerateCourse_Errors(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/course/generate", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/course/generate", map[string]any{"assessment_result": map[string]any{"tier": "advanced"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/course/generate", map[string]any{"quiz_type": "nope", "answers": assessmentAnswers})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/course/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestModulesAndGames(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/modules", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["modules"])

	w = env.do(t, http.MethodGet, "/api/modules/password-basics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "password-basics", decode(t, w)["name"])

	w = env.do(t, http.MethodGet, "/api/modules/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/games", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["games"], 1)

	w = env.do(t, http.MethodGet, "/api/games?level=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["games"], 2)

	w = env.do(t, http.MethodGet, "/api/games?level=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// pendingAnswer reads the expected answer of the session's pending
// challenge straight from the store.
func pendingAnswer(t *testing.T, st *store.Store, id string) string {
	t.Helper()
	gs, err := st.Sessions().Get(context.Background(), id)
	require.NoError(t, err)
	var p struct {
		CorrectAnswer string `json:"correct_answer"`
	}
	require.NoError(t, json.Unmarshal([]byte(gs.Pending), &p))
	return p.CorrectAnswer
}

func TestGameFlow(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/game/start", map[string]any{"player_name": "Ada", "module_name": "phishing-links"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sess := decode(t, w)
	id := sess["session_id"].(string)
	assert.EqualValues(t, 3, sess["lives"])
	assert.Equal(t, "active", sess["status"])

	for i := 0; i < 3; i++ {
		w = env.do(t, http.MethodGet, "/api/game/"+id+"/challenge", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.NotContains(t, w.Body.String(), "correct_answer")

		w = env.do(t, http.MethodPost, "/api/game/answer", map[string]any{
			"session_id": id,
			"answer":     "surely wrong",
			"time_taken": 5,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	res := decode(t, w)
	assert.Equal(t, true, res["game_over"])
	assert.Equal(t, "failed", res["session"].(map[string]any)["status"])

	w = env.do(t, http.MethodGet, "/api/game/"+id+"/challenge", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = env.do(t, http.MethodPost, "/api/game/answer", map[string]any{"session_id": id, "answer": "x"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodGet, "/api/game/"+id+"/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode(t, w)["lives"])
}

func TestGameAnswerCorrect(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/game/start", map[string]any{"player_name": "Bo", "module_name": "phishing-links"})
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["session_id"].(string)

	w = env.do(t, http.MethodGet, "/api/game/"+id+"/challenge", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/game/answer", map[string]any{
		"session_id": id,
		"answer":     pendingAnswer(t, env.store, id),
		"time_taken": 8,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode(t, w)
	assert.Equal(t, true, res["correct"])
	assert.EqualValues(t, 125, res["points_earned"])
	assert.Len(t, res["achievements"], 1)

	w = env.do(t, http.MethodGet, "/api/players/Bo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode(t, w)
	assert.EqualValues(t, 50, profile["xp"])
	assert.Len(t, profile["achievements"], 1)
}

func TestGameErrors(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"start missing fields", http.MethodPost, "/api/game/start", map[string]any{"player_name": "Ada"}, http.StatusBadRequest},
		{"start unknown module", http.MethodPost, "/api/game/start", map[string]any{"player_name": "Ada", "module_name": "nope"}, http.StatusNotFound},
		{"start locked module", http.MethodPost, "/api/game/start", map[string]any{"player_name": "Ada", "module_name": "password-heroes"}, http.StatusConflict},
		{"start malformed", http.MethodPost, "/api/game/start", "{", http.StatusBadRequest},
		{"challenge unknown session", http.MethodGet, "/api/game/nope/challenge", nil, http.StatusNotFound},
		{"status unknown session", http.MethodGet, "/api/game/nope/status", nil, http.StatusNotFound},
		{"answer unknown session", http.MethodPost, "/api/game/answer", map[string]any{"session_id": "nope", "answer": "x"}, http.StatusNotFound},
		{"answer missing session", http.MethodPost, "/api/game/answer", map[string]any{"answer": "x"}, http.StatusBadRequest},
		{"unknown player", http.MethodGet, "/api/players/nobody", nil, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
			assert.NotEmpty(t, decode(t, w)["error"])
		})
	}
}

func TestLeaderboardAndProgress(t *testing.T) {
	env := newTestEnv(t)
	for _, sub := range []struct {
		name  string
		wrong []int
	}{
		{"Ada", nil},
		{"Bo", []int{1, 2, 3}},
		{"Ada", []int{3}},
	} {
		w := env.do(t, http.MethodPost, "/api/quiz/submit", map[string]any{
			"quiz_type":    "assessment",
			"answers":      answersWithWrong(sub.wrong...),
			"display_name": sub.name,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := env.do(t, http.MethodGet, "/api/leaderboard?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	board := decode(t, w)["leaderboard"].([]any)
	require.Len(t, board, 1)
	first := board[0].(map[string]any)
	assert.EqualValues(t, 1, first["rank"])
	assert.Equal(t, "Ada", first["display_name"])
	assert.EqualValues(t, 2, first["quizzes_completed"])
	assert.InDelta(t, 183.33, first["total_score"], 0.01)

	w = env.do(t, http.MethodGet, "/api/leaderboard?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/progress?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	progress := decode(t, w)
	assert.Len(t, progress["recent"], 2)
	stats := progress["stats"].(map[string]any)
	assert.EqualValues(t, 3, stats["attempts"])
	assert.EqualValues(t, 2, stats["players"])
}

func TestCheckURL(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/tools/check-url", map[string]any{"url": "http://g00gle.com/verify"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["safe"])
	assert.Equal(t, "g00gle.com", body["domain"])

	w = env.do(t, http.MethodPost, "/api/tools/check-url", map[string]any{"url": "https://github.com/security"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["safe"])

	w = env.do(t, http.MethodPost, "/api/tools/check-url", map[string]any{"url": " "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAyora(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/ayora/introduction", nil)
	require.Equal(t, http.StatusOK, w.Code)
	intro := decode(t, w)
	assert.Equal(t, "Ayora", intro["companion_name"])
	assert.Equal(t, "landing_introduction", intro["context"])
	assert.Len(t, intro["animation_sequence"], 3)

	w = env.do(t, http.MethodPost, "/api/ayora/speech", map[string]any{
		"context":      "achievement_celebration",
		"context_data": map[string]string{"achievement": "Phishing Master"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "achievement_celebration", decode(t, w)["context"])

	w = env.do(t, http.MethodPost, "/api/ayora/speech", map[string]any{"context": "story_mode"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/ayora/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["tts"])
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/quizzes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSConfig(t *testing.T) {
	assert.True(t, corsConfig(nil).AllowAllOrigins)
	assert.True(t, corsConfig([]string{"*"}).AllowAllOrigins)

	cfg := corsConfig([]string{"https://cyberquest.example"})
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"https://cyberquest.example"}, cfg.AllowOrigins)
}
