package controllers

import (
	"bytes"
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
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kendall-kelly/design-orders-panel/models"
	"github.com/kendall-kelly/design-orders-panel/services"
	"github.com/kendall-kelly/design-orders-panel/storage"
)

// brokenStore fails every operation
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, errors.New("down") }
func (brokenStore) Set(context.Context, string, []byte) error  { return errors.New("down") }
func (brokenStore) Delete(context.Context, string) error       { return errors.New("down") }
func (brokenStore) Close() error                               { return nil }

func setupRouter(t *testing.T, store storage.Store, orders ...models.Record) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)

	local := storage.NewLocal(store, logger)
	if len(orders) > 0 {
		require.NoError(t, local.SetRecords(context.Background(), storage.KeyOrders, orders))
	}
	orderService := services.NewOrderService(services.OrderServiceOptions{Local: local, Logger: logger})
	authService := services.NewAuthService(nil, local, logger)

	oc := NewOrderController(orderService, logger)
	ac := NewAuthController(authService, logger)
	dc := NewDashboardController(orderService)

	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.POST("/auth/login", ac.Login)
		v1.POST("/auth/logout", ac.Logout)
		v1.GET("/auth/session", ac.Session)
		v1.POST("/orders", oc.CreateOrder)
		v1.GET("/orders", oc.ListOrders)
		v1.PATCH("/orders/:id/status", oc.UpdateStatus)
		v1.PATCH("/orders/:id/priority", oc.UpdatePriority)
		v1.DELETE("/orders/:id", oc.DeleteOrder)
		v1.GET("/clients", dc.ListClients)
		v1.GET("/dashboard", dc.Dashboard)
		v1.POST("/dashboard/refresh", dc.Refresh)
	}
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		encoded, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return w, response
}

func errorCode(response map[string]interface{}) string {
	errBody, _ := response["error"].(map[string]interface{})
	code, _ := errBody["code"].(string)
	return code
}

func sampleOrders() []models.Record {
	return []models.Record{
		{"id": "ORD-1", "clientName": "Ann", "email": "ann@example.com", "budget": "500-1000", "status": "pending", "createdAt": "2024-01-10T10:00:00.000Z"},
		{"id": "ORD-2", "clientName": "Ann", "email": "ann@example.com", "budget": "under-500", "status": "completed", "createdAt": "2024-02-10T10:00:00.000Z"},
		{"id": "ORD-3", "clientName": "Bo", "email": "bo@example.com", "budget": "over-5000", "status": "on-hold", "createdAt": "2024-03-10T10:00:00.000Z"},
	}
}

func validIntake() map[string]interface{} {
	return map[string]interface{}{
		"clientName":   "Dana Designer",
		"email":        "dana@example.com",
		"projectType":  "logo",
		"projectTitle": "Bakery rebrand",
		"description":  "A warm, hand-drawn logo",
		"budget":       "1000-2500",
		"services":     []string{"logo", "branding"},
	}
}

func TestCreateOrder(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name:           "Successfully create order",
			body:           validIntake(),
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "skipped", data["remote"])
				order := data["order"].(map[string]interface{})
				assert.Contains(t, order["id"], "ORD-")
				assert.Equal(t, "pending", order["status"])
				assert.Equal(t, "normal", order["priority"])
				assert.Equal(t, []interface{}{"logo", "branding"}, order["services"])
			},
		},
		{
			name: "Client supplied status and id are ignored",
			body: func() map[string]interface{} {
				b := validIntake()
				b["id"] = "ORD-CHOSEN"
				b["status"] = "completed"
				return b
			}(),
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				order := response["data"].(map[string]interface{})["order"].(map[string]interface{})
				assert.NotEqual(t, "ORD-CHOSEN", order["id"])
				assert.Equal(t, "pending", order["status"])
			},
		},
		{
			name: "Fail with missing required fields",
			body: map[string]interface{}{
				"clientName": "Dana Designer",
				"email":      "   ",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				details := response["error"].(map[string]interface{})["details"].(string)
				assert.Contains(t, details, "email")
				assert.Contains(t, details, "projectTitle")
				assert.NotContains(t, details, "clientName")
			},
		},
		{
			name:           "Fail with malformed JSON",
			body:           `{"clientName":`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Fail with array body",
			body:           `[1,2]`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(t, storage.NewMemoryStore())
			w, response := doRequest(t, router, http.MethodPost, "/api/v1/orders", tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				assert.Equal(t, tt.expectedError, errorCode(response))
			} else {
				assert.True(t, response["success"].(bool))
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestCreateOrderStorageFailure(t *testing.T) {
	router := setupRouter(t, brokenStore{})
	w, response := doRequest(t, router, http.MethodPost, "/api/v1/orders", validIntake())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "STORAGE_ERROR", errorCode(response))
}

func TestListOrders(t *testing.T) {
	router := setupRouter(t, storage.NewMemoryStore(), sampleOrders()...)

	tests := []struct {
		name           string
		query          string
		expectedStatus int
		expectedCount  float64
		expectedError  string
	}{
		{name: "All orders", query: "", expectedStatus: http.StatusOK, expectedCount: 3},
		{name: "Explicit all", query: "?status=all", expectedStatus: http.StatusOK, expectedCount: 3},
		{name: "Completed only", query: "?status=completed", expectedStatus: http.StatusOK, expectedCount: 1},
		{name: "No cancelled orders", query: "?status=cancelled", expectedStatus: http.StatusOK, expectedCount: 0},
		{name: "Unknown status", query: "?status=shipped", expectedStatus: http.StatusBadRequest, expectedError: "INVALID_STATUS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := doRequest(t, router, http.MethodGet, "/api/v1/orders"+tt.query, nil)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(response))
				return
			}
			assert.Equal(t, tt.expectedCount, response["count"])
			assert.Equal(t, "local", response["source"])
			assert.Len(t, response["data"], int(tt.expectedCount))
		})
	}
}

func TestUpdateOrder(t *testing.T) {
	tests := []struct {
		name           string
		path           string
		body           any
		expectedStatus int
		expectedError  string
		field          string
		expectedValue  string
	}{
		{
			name:           "Update status",
			path:           "/api/v1/orders/ORD-1/status",
			body:           map[string]string{"status": "in-progress"},
			expectedStatus: http.StatusOK,
			field:          "status",
			expectedValue:  "in-progress",
		},
		{
			name:           "Update priority",
			path:           "/api/v1/orders/ORD-1/priority",
			body:           map[string]string{"priority": "urgent"},
			expectedStatus: http.StatusOK,
			field:          "priority",
			expectedValue:  "urgent",
		},
		{
			name:           "Invalid status",
			path:           "/api/v1/orders/ORD-1/status",
			body:           map[string]string{"status": "shipped"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_STATUS",
		},
		{
			name:           "Invalid priority",
			path:           "/api/v1/orders/ORD-1/priority",
			body:           map[string]string{"priority": "whenever"},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "INVALID_PRIORITY",
		},
		{
			name:           "Missing status field",
			path:           "/api/v1/orders/ORD-1/status",
			body:           map[string]string{},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name:           "Unknown order",
			path:           "/api/v1/orders/ORD-404/status",
			body:           map[string]string{"status": "completed"},
			expectedStatus: http.StatusNotFound,
			expectedError:  "ORDER_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRouter(t, storage.NewMemoryStore(), sampleOrders()...)
			w, response := doRequest(t, router, http.MethodPatch, tt.path, tt.body)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(response))
				return
			}
			data := response["data"].(map[string]interface{})
			assert.Equal(t, "skipped", data["remote"])
			order := data["order"].(map[string]interface{})
			assert.Equal(t, tt.expectedValue, order[tt.field])
			assert.Equal(t, "ORD-1", order["id"])
		})
	}
}

func TestDeleteOrder(t *testing.T) {
	router := setupRouter(t, storage.NewMemoryStore(), sampleOrders()...)

	w, response := doRequest(t, router, http.MethodDelete, "/api/v1/orders/ORD-2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	order := response["data"].(map[string]interface{})["order"].(map[string]interface{})
	assert.Equal(t, "ORD-2", order["id"])

	w, response = doRequest(t, router, http.MethodDelete, "/api/v1/orders/ORD-2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", errorCode(response))

	_, response = doRequest(t, router, http.MethodGet, "/api/v1/orders", nil)
	assert.Equal(t, float64(2), response["count"])
}

func TestDashboardAndClients(t *testing.T) {
	router := setupRouter(t, storage.NewMemoryStore(), sampleOrders()...)

	w, response := doRequest(t, router, http.MethodGet, "/api/v1/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "local", data["source"])
	assert.True(t, data["clientsDerived"].(bool))

	stats := data["stats"].(map[string]interface{})
	assert.Equal(t, float64(3), stats["total"])
	assert.Equal(t, float64(1), stats["pending"])
	assert.Equal(t, float64(1), stats["completed"])
	assert.Equal(t, float64(1), stats["onHold"])

	status := data["status"].(map[string]interface{})
	assert.Equal(t, "Showing local data (3 records)", status["message"])

	w, response = doRequest(t, router, http.MethodGet, "/api/v1/clients", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), response["count"])
	clients := response["data"].([]interface{})
	ann := clients[0].(map[string]interface{})
	assert.Equal(t, "ann@example.com", ann["email"])
	assert.Equal(t, float64(2), ann["totalOrders"])
	assert.Equal(t, float64(1000), ann["totalSpent"])

	w, response = doRequest(t, router, http.MethodPost, "/api/v1/dashboard/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "local", response["data"].(map[string]interface{})["source"])
}

func TestAuthFlow(t *testing.T) {
	router := setupRouter(t, storage.NewMemoryStore())

	t.Run("Rejects wrong password", func(t *testing.T) {
		w, response := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", LoginRequest{Username: "admin", Password: "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(response))
		assert.Equal(t, "Invalid username or password", response["error"].(map[string]interface{})["message"])
	})

	t.Run("Rejects missing password", func(t *testing.T) {
		w, response := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "admin"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(response))
	})

	t.Run("Logged out session", func(t *testing.T) {
		_, response := doRequest(t, router, http.MethodGet, "/api/v1/auth/session", nil)
		assert.False(t, response["data"].(map[string]interface{})["loggedIn"].(bool))
	})

	t.Run("Local admin login", func(t *testing.T) {
		w, response := doRequest(t, router, http.MethodPost, "/api/v1/auth/login", LoginRequest{Username: "admin", Password: "admin123"})
		require.Equal(t, http.StatusOK, w.Code)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, "local", data["source"])
		assert.NotEmpty(t, data["token"])

		_, response = doRequest(t, router, http.MethodGet, "/api/v1/auth/session", nil)
		session := response["data"].(map[string]interface{})
		assert.True(t, session["loggedIn"].(bool))
		assert.NotContains(t, session, "token")
	})

	t.Run("Logout clears session", func(t *testing.T) {
		w, _ := doRequest(t, router, http.MethodPost, "/api/v1/auth/logout", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		_, response := doRequest(t, router, http.MethodGet, "/api/v1/auth/session", nil)
		assert.False(t, response["data"].(map[string]interface{})["loggedIn"].(bool))
	})
}

func TestOrderWritesAreAttributed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	local := storage.NewLocal(storage.NewMemoryStore(), logger)
	require.NoError(t, local.SetRecords(context.Background(), storage.KeyOrders, sampleOrders()))
	oc := NewOrderController(services.NewOrderService(services.OrderServiceOptions{Local: local}), logger)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("session", &models.Session{LoggedIn: true, Source: models.AuthSourceLocal})
		c.Set("user_id", "local-admin")
		c.Next()
	})
	router.PATCH("/orders/:id/status", oc.UpdateStatus)
	router.DELETE("/orders/:id", oc.DeleteOrder)

	w, _ := doRequest(t, router, http.MethodPatch, "/orders/ORD-1/status", map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = doRequest(t, router, http.MethodDelete, "/orders/ORD-2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	entries := logs.FilterMessage("Order changed").All()
	require.Len(t, entries, 2)
	first := entries[0].ContextMap()
	assert.Equal(t, "update status", first["op"])
	assert.Equal(t, "ORD-1", first["order_id"])
	assert.Equal(t, "local-admin", first["admin_id"])
	assert.Equal(t, "local", first["auth_source"])
	assert.Equal(t, "ORD-2", entries[1].ContextMap()["order_id"])
}
