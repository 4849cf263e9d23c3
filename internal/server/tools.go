package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cyberquestjr/cyberquest/internal/apperr"
	"github.com/cyberquestjr/cyberquest/internal/ayora"
	"github.com/cyberquestjr/cyberquest/internal/linkcheck"
)

type checkURLRequest struct {
	URL string `json:"url"`
}

func (s *Server) checkURL(c *gin.Context) {
	var req checkURLRequest
	if !bind(c, &req) {
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		respondError(c, apperr.InvalidInput("url is required"))
		return
	}
	c.JSON(http.StatusOK, linkcheck.Analyze(req.URL))
}

type speechRequest struct {
	Context     string            `json:"context"`
	ContextData map[string]string `json:"context_data"`
}

func (s *Server) ayoraStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Ayora.Status())
}

func (s *Server) ayoraIntroduction(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Ayora.Introduce(c.Request.Context()))
}

func (s *Server) ayoraSpeech(c *gin.Context) {
	var req speechRequest
	if !bind(c, &req) {
		return
	}
	kind, err := ayora.ParseContext(req.Context)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.deps.Ayora.Respond(c.Request.Context(), kind, req.ContextData))
}
