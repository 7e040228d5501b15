package handler

import (
	"net/http"

	"ourlog/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// SessionCookie is the cookie carrying the opaque session token.
const SessionCookie = "sessionId"

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// sessionToken pulls the session cookie. On a missing cookie it writes the
// 400 itself and reports false.
func sessionToken(c *gin.Context) (string, bool) {
	token, err := c.Cookie(SessionCookie)
	if err != nil || token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session required"})
		return "", false
	}
	return token, true
}

// setSessionCookie installs the session cookie the way the frontend
// expects it: http-only, strict same-site, session-scoped.
func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(SessionCookie, token, 0, "/", "", true, true)
}

// abortWithError maps a service error onto the response: domain errors
// become a 400 with the error message, everything else a generic 500.
func abortWithError(c *gin.Context, err error) {
	if service.IsDomainError(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
