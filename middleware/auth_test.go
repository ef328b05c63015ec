package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kendall-kelly/design-orders-panel/models"
	"github.com/kendall-kelly/design-orders-panel/services"
)

// stubAuthenticator accepts exactly one token
type stubAuthenticator struct {
	token string
	err   error
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*models.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	if token != s.token {
		return nil, services.ErrNotLoggedIn
	}
	return &models.Session{
		LoggedIn: true,
		Token:    token,
		User:     &models.User{ID: "local-admin", Username: "admin"},
		Source:   models.AuthSourceLocal,
	}, nil
}

func TestRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		auth       stubAuthenticator
		header     string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "valid bearer token",
			auth:       stubAuthenticator{token: "tok-1"},
			header:     "Bearer tok-1",
			wantStatus: http.StatusOK,
		},
		{
			name:       "scheme is case insensitive",
			auth:       stubAuthenticator{token: "tok-1"},
			header:     "bearer tok-1",
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing header",
			auth:       stubAuthenticator{token: "tok-1"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "MISSING_TOKEN",
		},
		{
			name:       "wrong scheme",
			auth:       stubAuthenticator{token: "tok-1"},
			header:     "Basic tok-1",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "MISSING_TOKEN",
		},
		{
			name:       "empty token",
			auth:       stubAuthenticator{token: "tok-1"},
			header:     "Bearer   ",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "MISSING_TOKEN",
		},
		{
			name:       "unknown token",
			auth:       stubAuthenticator{token: "tok-1"},
			header:     "Bearer tok-2",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "INVALID_SESSION",
		},
		{
			name:       "store failure",
			auth:       stubAuthenticator{err: errors.New("disk gone")},
			header:     "Bearer tok-1",
			wantStatus: http.StatusInternalServerError,
			wantCode:   "SESSION_LOOKUP_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/protected", RequireSession(tt.auth), func(c *gin.Context) {
				session, err := GetSession(c)
				require.NoError(t, err)
				userID, err := GetUserID(c)
				require.NoError(t, err)
				c.JSON(http.StatusOK, gin.H{"user_id": userID, "token": session.Token})
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode == "" {
				assert.Contains(t, w.Body.String(), "local-admin")
				return
			}

			var body struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestGetSessionAndUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		setupFunc  func(*gin.Context)
		wantErr    bool
		wantUserID bool
	}{
		{
			name: "both present",
			setupFunc: func(c *gin.Context) {
				c.Set("session", &models.Session{LoggedIn: true})
				c.Set("user_id", "local-admin")
			},
			wantUserID: true,
		},
		{
			name:      "nothing set",
			setupFunc: func(c *gin.Context) {},
			wantErr:   true,
		},
		{
			name: "wrong types",
			setupFunc: func(c *gin.Context) {
				c.Set("session", "invalid")
				c.Set("user_id", 12345)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.setupFunc(c)

			session, sessionErr := GetSession(c)
			userID, userErr := GetUserID(c)

			if tt.wantErr {
				assert.Error(t, sessionErr)
				assert.Nil(t, session)
				assert.Error(t, userErr)
				assert.Empty(t, userID)

				var authErr *AuthError
				assert.True(t, errors.As(sessionErr, &authErr))
				return
			}
			assert.NoError(t, sessionErr)
			assert.NotNil(t, session)
			assert.NoError(t, userErr)
			assert.Equal(t, "local-admin", userID)
		})
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok?x=1", "/missing", "/broken"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "x=1", entries[0].ContextMap()["query"])
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}
