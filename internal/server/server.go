package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"medichat/internal/chain"
)

//go:embed templates/chat.html
var templatesFS embed.FS

// Server exposes the retrieval-augmented chain over HTTP and owns its lazy
// singleton lifecycle through the chain provider.
type Server struct {
	provider *chain.Provider
	logger   *logrus.Logger
	timeout  time.Duration
}

func New(provider *chain.Provider, logger *logrus.Logger, timeout time.Duration) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	if timeout == 0 {
		timeout = 90 * time.Second
	}
	return &Server{provider: provider, logger: logger, timeout: timeout}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/chat.html")))

	r.GET("/health", s.handleHealth)
	r.GET("/", s.handleIndex)
	r.GET("/get", s.handleChat)
	r.POST("/get", s.handleChat)
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, "chat.html", nil)
}

// handleChat validates the message, lazily initializes the chain, and runs
// one answer round trip under the request timeout. Initialization failures
// are retried on the next request; execution failures fail only this one.
func (s *Server) handleChat(c *gin.Context) {
	msg := c.PostForm("msg")
	if msg == "" {
		msg = c.Query("msg")
	}
	if msg == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No message provided"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), s.timeout)
	defer cancel()

	ragChain, err := s.provider.Get(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Chain initialization failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Initialization failed",
			"details": err.Error(),
		})
		return
	}

	answer, err := ragChain.Answer(ctx, msg)
	if err != nil {
		s.logger.WithError(err).Error("Chain execution failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Chain execution failed",
			"details": err.Error(),
		})
		return
	}
	c.String(http.StatusOK, answer)
}
