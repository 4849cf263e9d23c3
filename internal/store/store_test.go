package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
	if s.Dialect() != "sqlite3" {
		t.Fatalf("dialect = %q, want sqlite3", s.Dialect())
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Leaderboard().Record(ctx, "Ada", 80); err != nil {
		t.Fatalf("record: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	top, err := s.Leaderboard().Top(ctx, 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 1 || top[0].DisplayName != "Ada" {
		t.Fatalf("expected Ada to survive reopen, got %+v", top)
	}
}

func TestTablesFromSchema(t *testing.T) {
	tables, err := Tables()
	if err != nil {
		t.Fatalf("tables: %v", err)
	}
	if len(tables) != len(entities) {
		t.Fatalf("expected %d tables, got %d", len(entities), len(tables))
	}
	for _, tbl := range tables {
		if len(tbl.PrimaryKey) != 1 || tbl.PrimaryKey[0].Name != "id" {
			t.Errorf("%s: expected id primary key", tbl.Name)
		}
	}
}

func TestAttemptRecordAndStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.Attempts()
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	attempts := []QuizAttempt{
		{DisplayName: "Ada", QuizType: "assessment", Score: 83.33, Tier: "advanced", Correct: 5, Total: 6,
			WeakAreas: []string{"incident_response"}, StrongAreas: []string{"password_security"}, CreatedAt: base},
		{DisplayName: "Bob", QuizType: "assessment", Score: 50, Tier: "beginner", Correct: 3, Total: 6,
			CreatedAt: base.Add(time.Second)},
		{DisplayName: "Ada", QuizType: "password", Score: 100, Tier: "advanced", Correct: 3, Total: 3,
			CreatedAt: base.Add(2 * time.Second)},
	}
	for i := range attempts {
		if err := repo.Record(ctx, &attempts[i]); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if attempts[i].ID == "" {
			t.Fatalf("record %d: expected ID to be assigned", i)
		}
	}

	recent, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent attempts, got %d", len(recent))
	}
	if recent[0].QuizType != "password" {
		t.Errorf("expected newest first, got %s", recent[0].QuizType)
	}

	ada, err := repo.ByPlayer(ctx, "Ada", 0)
	if err != nil {
		t.Fatalf("by player: %v", err)
	}
	if len(ada) != 2 {
		t.Fatalf("expected 2 attempts for Ada, got %d", len(ada))
	}
	first := ada[1]
	if len(first.WeakAreas) != 1 || first.WeakAreas[0] != "incident_response" {
		t.Errorf("weak areas = %v", first.WeakAreas)
	}

	bob, _ := repo.ByPlayer(ctx, "Bob", 0)
	if bob[0].WeakAreas == nil || len(bob[0].WeakAreas) != 0 {
		t.Errorf("expected empty, non-nil weak areas for NULL column, got %#v", bob[0].WeakAreas)
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Attempts != 3 || stats.Players != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByTier["advanced"] != 2 || stats.ByTier["beginner"] != 1 {
		t.Errorf("by tier = %v", stats.ByTier)
	}
	if stats.AverageScore < 77.7 || stats.AverageScore > 77.8 {
		t.Errorf("average = %f", stats.AverageScore)
	}
}

func TestAttemptStatsEmpty(t *testing.T) {
	s := openTestStore(t)
	stats, err := s.Attempts().Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Attempts != 0 || stats.AverageScore != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestLeaderboardUpsert(t *testing.T) {
	s := openTestStore(t)
	repo := s.Leaderboard()
	ctx := context.Background()

	for _, rec := range []struct {
		name  string
		score float64
	}{
		{"Ada", 50}, {"Bob", 90}, {"Ada", 83.5}, {"Cy", 10},
	} {
		if err := repo.Record(ctx, rec.name, rec.score); err != nil {
			t.Fatalf("record %s: %v", rec.name, err)
		}
	}

	top, err := repo.Top(ctx, 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}

	ada := top[0]
	if ada.DisplayName != "Ada" || ada.Rank != 1 {
		t.Fatalf("expected Ada ranked first, got %+v", ada)
	}
	if ada.TotalScore != 133.5 || ada.QuizzesCompleted != 2 || ada.BestScore != 83.5 {
		t.Errorf("Ada entry = %+v", ada)
	}
	if top[1].DisplayName != "Bob" || top[1].Rank != 2 || top[2].Rank != 3 {
		t.Errorf("ranking = %+v", top)
	}

	limited, _ := repo.Top(ctx, 1)
	if len(limited) != 1 {
		t.Errorf("expected limit 1, got %d", len(limited))
	}
}

func TestCourseSaveAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.Courses()
	ctx := context.Background()

	rec := &CourseRecord{
		Tier:      "advanced",
		Strategy:  "static",
		Title:     "Cyber Expert Training",
		Score:     83.33,
		WeakAreas: []string{"incident_response"},
		Course:    `{"title":"Cyber Expert Training"}`,
	}
	if err := repo.Save(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != rec.Title || got.Strategy != "static" || got.Course != rec.Course {
		t.Errorf("got %+v", got)
	}

	_, err = repo.Get(ctx, "missing")
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s := openTestStore(t)
	repo := s.Sessions()
	ctx := context.Background()

	gs := &GameSession{PlayerName: "Ada", ModuleName: "phishing-links", Lives: 3, Length: 5}
	if err := repo.Create(ctx, gs); err != nil {
		t.Fatalf("create: %v", err)
	}
	if gs.ID == "" || gs.Status != SessionActive {
		t.Fatalf("unexpected created session: %+v", gs)
	}

	updated, err := repo.Update(ctx, gs.ID, func(g *GameSession) error {
		g.Score += 100
		g.ChallengeIndex++
		g.Pending = `{"id":"x"}`
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Score != 100 || updated.ChallengeIndex != 1 {
		t.Errorf("updated = %+v", updated)
	}

	now := time.Now().UTC()
	_, err = repo.Update(ctx, gs.ID, func(g *GameSession) error {
		g.Status = SessionCompleted
		g.CompletedAt = &now
		g.Pending = ""
		return nil
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	got, err := repo.Get(ctx, gs.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != SessionCompleted || got.CompletedAt == nil || got.Pending != "" {
		t.Errorf("got %+v", got)
	}

	counts, err := repo.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[SessionCompleted] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestSessionUpdateAbortsOnError(t *testing.T) {
	s := openTestStore(t)
	repo := s.Sessions()
	ctx := context.Background()

	gs := &GameSession{PlayerName: "Ada", ModuleName: "phishing-links", Lives: 3, Length: 5}
	if err := repo.Create(ctx, gs); err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("boom")
	_, err := repo.Update(ctx, gs.ID, func(g *GameSession) error {
		g.Lives = 0
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, _ := repo.Get(ctx, gs.ID)
	if got.Lives != 3 {
		t.Errorf("expected lives unchanged, got %d", got.Lives)
	}

	_, err = repo.Update(ctx, "missing", func(*GameSession) error { return nil })
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestSessionConcurrentUpdates(t *testing.T) {
	s := openTestStore(t)
	repo := s.Sessions()
	ctx := context.Background()

	gs := &GameSession{PlayerName: "Ada", ModuleName: "phishing-links", Lives: 3, Length: 50}
	if err := repo.Create(ctx, gs); err != nil {
		t.Fatalf("create: %v", err)
	}

	const n = 20
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Update(ctx, gs.ID, func(g *GameSession) error {
				g.Score += 10
				return nil
			})
			if err != nil {
				t.Errorf("update: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := repo.Get(ctx, gs.ID)
	if got.Score != n*10 {
		t.Fatalf("expected score %d, got %d (lost update)", n*10, got.Score)
	}
}

func TestPlayerEnsureAndUpdate(t *testing.T) {
	s := openTestStore(t)
	repo := s.Players()
	ctx := context.Background()

	if _, err := repo.Get(ctx, "Ada"); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound before ensure, got %v", err)
	}

	p, err := repo.Ensure(ctx, "Ada")
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if p.Level != StartingLevel || p.Coins != StartingCoins || p.XP != 0 {
		t.Fatalf("unexpected new player: %+v", p)
	}

	_, err = repo.Update(ctx, "Ada", func(p *Player) error {
		p.XP += 1200
		p.Level = 2
		p.Coins += 100
		return nil
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	// Ensure must not reset an existing player.
	p, err = repo.Ensure(ctx, "Ada")
	if err != nil {
		t.Fatalf("ensure again: %v", err)
	}
	if p.XP != 1200 || p.Level != 2 || p.Coins != 200 {
		t.Errorf("player = %+v", p)
	}
}

func TestAchievementAwardOnce(t *testing.T) {
	s := openTestStore(t)
	repo := s.Achievements()
	ctx := context.Background()

	a := &Achievement{PlayerName: "Ada", Type: "first_challenge", Title: "First Steps", Icon: "👶", XP: 50}
	created, err := repo.Award(ctx, a, nil)
	if err != nil {
		t.Fatalf("award: %v", err)
	}
	if !created {
		t.Fatal("expected first award to be created")
	}

	dup := *a
	created, err = repo.Award(ctx, &dup, nil)
	if err != nil {
		t.Fatalf("award again: %v", err)
	}
	if created {
		t.Fatal("expected duplicate award to be ignored")
	}

	if _, err := repo.Award(ctx, &Achievement{PlayerName: "Bob", Type: "first_challenge", XP: 50}, nil); err != nil {
		t.Fatalf("award bob: %v", err)
	}

	list, err := repo.List(ctx, "Ada")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Title != "First Steps" {
		t.Errorf("list = %+v", list)
	}
}

func TestAchievementAwardRollsBackWithPlayer(t *testing.T) {
	s := openTestStore(t)
	repo := s.Achievements()
	ctx := context.Background()

	if _, err := s.Players().Ensure(ctx, "Ada"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	boom := errors.New("transient db error")
	a := &Achievement{PlayerName: "Ada", Type: "first_challenge", XP: 50}
	created, err := repo.Award(ctx, a, func(*Player) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if created {
		t.Fatal("failed award reported as created")
	}
	list, _ := repo.List(ctx, "Ada")
	if len(list) != 0 {
		t.Fatalf("achievement kept after failed player update: %+v", list)
	}

	created, err = repo.Award(ctx, a, func(p *Player) error {
		p.XP += a.XP
		return nil
	})
	if err != nil || !created {
		t.Fatalf("retry: created=%v err=%v", created, err)
	}
	p, _ := s.Players().Get(ctx, "Ada")
	if p.XP != 50 {
		t.Errorf("xp = %d, want 50", p.XP)
	}

	// Unknown players cannot hold achievements that grant XP.
	_, err = repo.Award(ctx, &Achievement{PlayerName: "Ghost", Type: "first_challenge", XP: 50},
		func(*Player) error { return nil })
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if list, _ := repo.List(ctx, "Ghost"); len(list) != 0 {
		t.Errorf("ghost achievements = %+v", list)
	}
}

func TestLLMEventLog(t *testing.T) {
	s := openTestStore(t)
	repo := s.LLMEvents()
	ctx := context.Background()

	events := []LLMEvent{
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "course", InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true, RequestBody: "{}", ResponseBody: "{}"},
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "course", InputTokens: 120, OutputTokens: 0, LatencyMs: 10000, ErrorMessage: "timeout"},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "ayora-speech", InputTokens: 50, OutputTokens: 60, LatencyMs: 300, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	list, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Purpose != "ayora-speech" {
		t.Fatalf("expected newest first, got %+v", list)
	}

	got, err := repo.Get(ctx, list[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Success || got.RequestBody != "{}" {
		t.Errorf("got %+v", got)
	}
	if _, err := repo.Get(ctx, 9999); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}

	usage, err := repo.UsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("expected 2 purposes, got %d", len(usage))
	}
	course := usage[1]
	if course.Purpose != "course" || course.Calls != 2 || course.InputTokens != 220 || course.OutputTokens != 400 {
		t.Errorf("course usage = %+v", course)
	}

	models, err := repo.UsageByModel(ctx)
	if err != nil {
		t.Fatalf("model usage: %v", err)
	}
	if len(models) != 2 || models[0].Model != "gemini-2.0-flash" || models[0].Calls != 2 {
		t.Errorf("model usage = %+v", models)
	}
}

func TestEnsureDirSkipsNonPaths(t *testing.T) {
	for _, dsn := range []string{"postgres://u@h/db", "file::memory:?cache=shared", ":memory:"} {
		if err := EnsureDir(dsn); err != nil {
			t.Errorf("EnsureDir(%q): %v", dsn, err)
		}
	}
	if err := EnsureDir(filepath.Join(t.TempDir(), "a", "b", "c.db")); err != nil {
		t.Errorf("EnsureDir nested: %v", err)
	}
}
