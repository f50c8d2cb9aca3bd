// Package server exposes one studio session as a JSON API.
package server

import (
	"errors"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"substack_studio/generator"
)

// Server serves a single generator.Session.
type Server struct {
	session *generator.Session
	router  *gin.Engine
	verbose bool
	logger  *log.Logger
}

// New builds the router. logger may be nil.
func New(session *generator.Session, verbose bool, logger *log.Logger) (*Server, error) {
	if session == nil {
		return nil, errors.New("session required")
	}
	if logger == nil {
		logger = log.Default()
	}

	router := gin.New()
	s := &Server{
		session: session,
		router:  router,
		verbose: verbose,
		logger:  logger,
	}
	router.Use(gin.Recovery(), s.logMiddleware())

	api := router.Group("/api")
	{
		api.GET("/session", s.handleSession)
		api.PUT("/session/topic", s.handleSetTopic)
		api.PUT("/session/options", s.handleSetOptions)
		api.POST("/session/sample", s.handleLoadSample)
		api.POST("/session/reset", s.handleReset)

		api.POST("/draft", s.handleGenerate(s.session.GenerateDraft))
		api.POST("/ideas", s.handleGenerate(s.session.GenerateIdeas))
		api.POST("/notes", s.handleGenerate(s.session.GenerateNotes))

		api.PATCH("/overlay", s.handleEditOverlay)
		api.PATCH("/overlay/sections/:index", s.handleEditSection)
		api.GET("/overlay/render", s.handleRenderOverlay)

		api.POST("/copy", s.handleCopyDocument)
		api.POST("/copy/notes/:index", s.handleCopyNote)
		api.GET("/copied/:id", s.handleCopied)

		api.GET("/history", s.handleHistory)
		api.POST("/history/:id/select", s.handleSelectHistory)
		api.DELETE("/history/:id", s.handleDeleteHistory)

		api.GET("/agents", s.handleAgents)
	}

	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() *gin.Engine {
	return s.router
}

// Run starts the web server
func (s *Server) Run(addr string) error {
	s.logger.Printf("Starting web server on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) infof(format string, args ...interface{}) {
	if !s.verbose {
		return
	}
	s.logger.Printf("[INFO] "+format, args...)
}

func (s *Server) logMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.infof("%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}

// BrowserClipboard is the session clipboard in serve mode. The copy handlers
// return the text and the browser writes it to its own clipboard, so Copy
// only has to accept it.
type BrowserClipboard struct{}

func (BrowserClipboard) Copy(string) error { return nil }
