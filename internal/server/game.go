package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
	"github.com/cyberquestjr/cyberquest/internal/game"
)

func (s *Server) listModules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"modules": s.deps.Catalog.Modules()})
}

func (s *Server) getModule(c *gin.Context) {
	m, err := s.deps.Catalog.Module(c.Param("module_name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (s *Server) listGames(c *gin.Context) {
	level := 1
	if raw := c.Query("level"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondError(c, apperr.InvalidInput("level must be a positive integer"))
			return
		}
		level = n
	}
	c.JSON(http.StatusOK, gin.H{"level": level, "games": s.deps.Catalog.Games(level)})
}

type startRequest struct {
	PlayerName string `json:"player_name"`
	ModuleName string `json:"module_name"`
}

func (s *Server) startGame(c *gin.Context) {
	var req startRequest
	if !bind(c, &req) {
		return
	}
	sess, err := s.deps.Game.Start(c.Request.Context(), req.PlayerName, req.ModuleName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sess)
}

func (s *Server) gameChallenge(c *gin.Context) {
	ch, err := s.deps.Game.Challenge(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (s *Server) gameStatus(c *gin.Context) {
	sess, err := s.deps.Game.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) answerGame(c *gin.Context) {
	var in game.AnswerInput
	if !bind(c, &in) {
		return
	}
	res, err := s.deps.Game.Answer(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) getPlayer(c *gin.Context) {
	p, err := s.deps.Game.Profile(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
