// Package server exposes the game over HTTP with gin.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/cyberquestjr/cyberquest/internal/ayora"
	"github.com/cyberquestjr/cyberquest/internal/catalog"
	"github.com/cyberquestjr/cyberquest/internal/course"
	"github.com/cyberquestjr/cyberquest/internal/events"
	"github.com/cyberquestjr/cyberquest/internal/game"
	"github.com/cyberquestjr/cyberquest/internal/metrics"
	"github.com/cyberquestjr/cyberquest/internal/store"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 10 * time.Second

// Deps are the services behind the handlers.
type Deps struct {
	Catalog   *catalog.Catalog
	Store     *store.Store
	Courses   *course.Synthesizer
	Game      *game.Service
	Ayora     *ayora.Companion
	Publisher events.Publisher
}

// Options tune the HTTP engine.
type Options struct {
	// CORSOrigins lists allowed origins. Empty or "*" allows any origin.
	CORSOrigins []string

	// GinMode is passed to gin.SetMode when set.
	GinMode string

	// AccessLog enables gin's request logger.
	AccessLog bool
}

// Server is the HTTP API.
type Server struct {
	deps   Deps
	engine *gin.Engine
}

// New builds the engine and registers all routes.
func New(deps Deps, opts Options) *Server {
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}

	r := gin.New()
	if opts.AccessLog {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery(), observe(), cors.New(corsConfig(opts.CORSOrigins)))

	s := &Server{deps: deps, engine: r}
	s.routes()
	return s
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept", "Cache-Control", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length", headerCourseID, headerCourseStrategy},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		api.GET("/quizzes", s.listQuizzes)
		api.GET("/quiz/:quiz_type", s.getQuiz)
		api.POST("/quiz/submit", s.submitQuiz)

		api.POST("/course/generate", s.generateCourse)
		api.GET("/course/:id", s.getCourse)

		api.GET("/modules", s.listModules)
		api.GET("/modules/:module_name", s.getModule)
		api.GET("/games", s.listGames)

		api.POST("/game/start", s.startGame)
		api.GET("/game/:id/challenge", s.gameChallenge)
		api.GET("/game/:id/status", s.gameStatus)
		api.POST("/game/answer", s.answerGame)

		api.GET("/players/:name", s.getPlayer)
		api.GET("/leaderboard", s.leaderboard)
		api.GET("/progress", s.progress)

		api.POST("/tools/check-url", s.checkURL)

		api.GET("/ayora/status", s.ayoraStatus)
		api.POST("/ayora/introduction", s.ayoraIntroduction)
		api.POST("/ayora/speech", s.ayoraSpeech)
	}
}

// Handler returns the engine as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	if s.deps.Courses != nil {
		log.Printf("cyberquest listening on %s (generative: %v)", addr, s.deps.Courses.Generative())
	} else {
		log.Printf("cyberquest listening on %s", addr)
	}

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	if err := s.deps.Store.Ping(c.Request.Context()); err != nil {
		log.Printf("health check: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	resp := gin.H{"status": "ok"}
	if s.deps.Courses != nil {
		resp["generative"] = s.deps.Courses.Generative()
	}
	c.JSON(http.StatusOK, resp)
}
