package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// handleArtifact streams a stored upload for backends without a local directory.
func (s *Server) handleArtifact(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	a, err := s.deps.Artifacts.Open(c.Request.Context(), key)
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	defer a.Body.Close()

	ct := a.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, a.Size, ct, a.Body, map[string]string{
		"Cache-Control":          "public, max-age=86400",
		"X-Content-Type-Options": "nosniff",
	})
}
