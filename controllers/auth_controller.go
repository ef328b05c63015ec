package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kendall-kelly/design-orders-panel/models"
	"github.com/kendall-kelly/design-orders-panel/services"
)

// LoginRequest represents the request body for signing in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthController serves the login, logout and session endpoints
type AuthController struct {
	auth   *services.AuthService
	logger *zap.Logger
}

// NewAuthController creates an auth controller
func NewAuthController(auth *services.AuthService, logger *zap.Logger) *AuthController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthController{auth: auth, logger: logger}
}

// Login handles POST /api/v1/auth/login
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, http.StatusBadRequest, err.Error())
		return
	}

	session, err := ac.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password")
			return
		}
		ac.logger.Error("Login failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "LOGIN_FAILED", "Failed to sign in")
		return
	}

	respondData(c, http.StatusOK, session)
}

// Logout handles POST /api/v1/auth/logout
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.auth.Logout(c.Request.Context()); err != nil {
		ac.logger.Error("Logout failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "LOGOUT_FAILED", "Failed to sign out")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Signed out",
	})
}

// Session handles GET /api/v1/auth/session. The token is never echoed back.
func (ac *AuthController) Session(c *gin.Context) {
	session, err := ac.auth.Session(c.Request.Context())
	if err != nil {
		ac.logger.Error("Session lookup failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, "SESSION_LOOKUP_FAILED", "Could not read session")
		return
	}

	view := models.Session{
		LoggedIn: session.LoggedIn,
		User:     session.User,
		Source:   session.Source,
	}
	respondData(c, http.StatusOK, view)
}
