package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"substack_studio/generator"
	"substack_studio/history"
	"substack_studio/markdown"
	"substack_studio/model"
)

// Agent calls can be slow; the browser is expected to wait.
const generateTimeout = 120 * time.Second

type sessionResp struct {
	generator.State
	CopiedID string `json:"copied_id,omitempty"`
}

func (s *Server) writeSession(c *gin.Context, status int) {
	c.JSON(status, sessionResp{State: s.session.Snapshot(), CopiedID: s.session.CopiedID()})
}

// writeError maps session errors onto status codes. Precondition rejections
// are client errors; operation failures carry the agent's message.
func (s *Server) writeError(c *gin.Context, err error) {
	var opErr *generator.OpError
	switch {
	case errors.As(err, &opErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"op":      opErr.Op,
			"error":   opErr.Message,
			"session": s.session.Snapshot(),
		})
	case errors.Is(err, generator.ErrRunning):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, generator.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	}
}

func (s *Server) handleSession(c *gin.Context) {
	s.writeSession(c, http.StatusOK)
}

type topicReq struct {
	Topic string `json:"topic"`
}

func (s *Server) handleSetTopic(c *gin.Context) {
	var req topicReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, err)
		return
	}
	s.session.SetTopic(req.Topic)
	s.writeSession(c, http.StatusOK)
}

func (s *Server) handleSetOptions(c *gin.Context) {
	var req model.Options
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, err)
		return
	}
	s.session.SetOptions(req)
	s.writeSession(c, http.StatusOK)
}

func (s *Server) handleLoadSample(c *gin.Context) {
	s.session.LoadSample()
	s.writeSession(c, http.StatusOK)
}

func (s *Server) handleReset(c *gin.Context) {
	s.session.Reset()
	s.writeSession(c, http.StatusOK)
}

func (s *Server) handleGenerate(run func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		// A dropped connection must not abort the agent call: its result still
		// lands in the session and in history.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), generateTimeout)
		defer cancel()
		if err := run(ctx); err != nil {
			s.writeError(c, err)
			return
		}
		s.writeSession(c, http.StatusOK)
	}
}

// overlayReq carries optional fields; nil leaves a field unchanged.
type overlayReq struct {
	Title    *string `json:"title"`
	Subtitle *string `json:"subtitle"`
}

func (s *Server) handleEditOverlay(c *gin.Context) {
	var req overlayReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, err)
		return
	}
	if req.Title != nil {
		s.session.EditTitle(*req.Title)
	}
	if req.Subtitle != nil {
		s.session.EditSubtitle(*req.Subtitle)
	}
	s.writeSession(c, http.StatusOK)
}

type sectionReq struct {
	Field generator.SectionField `json:"field" binding:"required"`
	Value string                 `json:"value"`
}

func (s *Server) handleEditSection(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	var req sectionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, err)
		return
	}
	if err := s.session.EditSection(index, req.Field, req.Value); err != nil {
		s.writeError(c, err)
		return
	}
	s.writeSession(c, http.StatusOK)
}

type renderedSection struct {
	Heading string           `json:"heading"`
	Blocks  []markdown.Block `json:"blocks"`
}

func (s *Server) handleRenderOverlay(c *gin.Context) {
	o := s.session.Snapshot().Overlay
	sections := make([]renderedSection, 0, len(o.Sections))
	for _, sec := range o.Sections {
		sections = append(sections, renderedSection{Heading: sec.Heading, Blocks: markdown.Render(sec.Content)})
	}
	c.JSON(http.StatusOK, gin.H{
		"title":    o.Title,
		"subtitle": o.Subtitle,
		"sections": sections,
	})
}

func (s *Server) handleCopyDocument(c *gin.Context) {
	text, err := s.session.CopyDocument()
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"copied_id": generator.FullDocumentCopyID, "text": text})
}

func (s *Server) handleCopyNote(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	text, err := s.session.CopyNote(index)
	if err != nil {
		if errors.Is(err, generator.ErrNoNote) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"copied_id": generator.NoteCopyID(index), "text": text})
}

func (s *Server) handleCopied(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"copied": s.session.IsCopied(c.Param("id"))})
}

type historyItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Date     string `json:"date"`
	Notes    int    `json:"notes"`
	Current  bool   `json:"current"`
}

func (s *Server) handleHistory(c *gin.Context) {
	st := s.session.Snapshot()
	entries := history.Search(c.Query("q"), st.History)
	items := make([]historyItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, historyItem{
			ID:       e.ID,
			Title:    e.Title,
			Subtitle: e.Subtitle,
			Date:     e.Date,
			Notes:    len(e.Notes),
			Current:  e.ID == st.CurrentHistoryID,
		})
	}
	c.JSON(http.StatusOK, gin.H{"entries": items, "count": len(items)})
}

func (s *Server) handleSelectHistory(c *gin.Context) {
	if err := s.session.SelectHistory(c.Param("id")); err != nil {
		s.writeError(c, err)
		return
	}
	s.writeSession(c, http.StatusOK)
}

func (s *Server) handleDeleteHistory(c *gin.Context) {
	s.session.DeleteHistory(c.Request.Context(), c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAgents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"agents": s.session.Agents().Roster(),
		"active": s.session.Snapshot().ActiveAgentID,
	})
}
