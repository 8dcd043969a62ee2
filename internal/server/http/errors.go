package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/and161185/portfolio-api/internal/errs"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteError maps service errors to status codes. Authentication failures
// carry fixed messages; validation failures carry their cause.
func WriteError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		writeErrorCode(c, http.StatusBadRequest, "INVALID_ARGUMENT", validationMessage(err))
	case errors.Is(err, errs.ErrUnauthorized):
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "incorrect username or password")
	case errors.Is(err, errs.ErrInvalidToken):
		c.Header("WWW-Authenticate", "Bearer")
		writeErrorCode(c, http.StatusUnauthorized, "UNAUTHORIZED", "could not validate credentials")
	case errors.Is(err, errs.ErrRateLimited):
		writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "too many failed attempts, try again later")
	case errors.Is(err, errs.ErrNotFound):
		writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "not found")
	case errors.Is(err, errs.ErrAlreadyExists):
		writeErrorCode(c, http.StatusConflict, "CONFLICT", "already exists")
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		writeErrorCode(c, http.StatusInternalServerError, "INTERNAL", "internal error")
	}
}

func writeErrorCode(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Code: code, Message: message})
}

func validationMessage(err error) string {
	msg := err.Error()
	prefix := errs.ErrValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return "invalid argument"
}
