package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "success"})
}

func (s *Server) handleExampleTest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": s.deps.Example.Ping(c.Request.Context())})
}

func (s *Server) handleExampleDB(c *gin.Context) {
	doc, err := s.deps.Example.RoundTripDocument(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": doc})
}

func (s *Server) handleExampleHTTP(c *gin.Context) {
	status, err := s.deps.Example.ProbeLocalstack(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": status})
}
