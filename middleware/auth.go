package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/design-orders-panel/models"
	"github.com/kendall-kelly/design-orders-panel/services"
)

// SessionAuthenticator resolves a bearer token to the stored session
type SessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

// RequireSession is a middleware that only lets requests through when their
// bearer token matches the stored admin session.
func RequireSession(auth SessionAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header with a bearer token is required")
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if errors.Is(err, services.ErrNotLoggedIn) {
			abortWithError(c, http.StatusUnauthorized, "INVALID_SESSION", "Session is missing or has expired")
			return
		}
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "SESSION_LOOKUP_FAILED", "Failed to read the current session")
			return
		}

		c.Set("session", session)
		if session.User != nil {
			c.Set("user_id", session.User.ID)
		}
		c.Next()
	}
}

// GetSession extracts the authenticated session from the Gin context
func GetSession(c *gin.Context) (*models.Session, error) {
	value, exists := c.Get("session")
	if !exists {
		return nil, &AuthError{Code: "MISSING_SESSION", Message: "Session not found in context"}
	}

	session, ok := value.(*models.Session)
	if !ok {
		return nil, &AuthError{Code: "INVALID_SESSION", Message: "Session is not in the expected format"}
	}

	return session, nil
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
