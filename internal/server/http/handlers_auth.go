package httpserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/and161185/portfolio-api/internal/errs"
)

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil || req.Username == "" || req.Password == "" {
		WriteError(c, s.log, fmt.Errorf("%w: username and password are required", errs.ErrValidation))
		return
	}
	tok, _, err := s.deps.Auth.Login(c.Request.Context(), req.Username, req.Password, c.ClientIP())
	if err != nil {
		WriteError(c, s.log, err)
		return
	}
	c.JSON(http.StatusOK, tokenResponse{AccessToken: tok.AccessToken, TokenType: "bearer", ExpiresAt: tok.ExpiresAt})
}

func (s *Server) handleMe(c *gin.Context) {
	u, ok := UserFromContext(c.Request.Context())
	if !ok {
		WriteError(c, s.log, errs.ErrInvalidToken)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(u))
}
