package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/design-orders-panel/models"
)

// Credentials and token accepted by the fake remote login endpoint
const (
	FakeRemoteUsername = "designer"
	FakeRemotePassword = "remote-pass"
	FakeRemoteToken    = "remote-token-123"
)

// RecordedRequest is one request seen by the fake remote
type RecordedRequest struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   map[string]any
}

// FakeRemote is an in-process stand-in for the remote order service
type FakeRemote struct {
	mu         sync.RWMutex
	orders     []models.Record
	clients    []models.Record
	failStatus int
	reject     bool
	pageSize   int
	nextID     int
	requests   []RecordedRequest

	Server *httptest.Server
	// URL is the API base URL, the server address plus "/api"
	URL string
}

// NewFakeRemote starts a fake remote that is shut down when the test ends
func NewFakeRemote(t *testing.T) *FakeRemote {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &FakeRemote{orders: []models.Record{}, clients: []models.Record{}}

	r := gin.New()
	r.Use(f.recordRequest)
	api := r.Group("/api")
	api.Use(f.injectFaults)
	{
		api.GET("/orders", f.listOrders)
		api.POST("/orders", f.createOrder)
		api.PATCH("/orders/:id", f.updateOrder)
		api.DELETE("/orders/:id", f.deleteOrder)
		api.GET("/clients", f.listClients)
		api.POST("/auth/login", f.login)
	}

	f.Server = httptest.NewServer(r)
	f.URL = f.Server.URL + "/api"
	t.Cleanup(f.Server.Close)
	return f
}

// SetOrders replaces the remote order collection
func (f *FakeRemote) SetOrders(orders ...models.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = cloneAll(orders)
}

// SetClients replaces the remote client collection
func (f *FakeRemote) SetClients(clients ...models.Record) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clients = cloneAll(clients)
}

// Orders returns a copy of the remote order collection
func (f *FakeRemote) Orders() []models.Record {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return cloneAll(f.orders)
}

// FailWith makes every API request answer with status; 0 restores normal service
func (f *FakeRemote) FailWith(status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failStatus = status
}

// Reject makes every API request answer 200 with success:false
func (f *FakeRemote) Reject(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reject = on
}

// SetPageSize caps the page size of GET /orders
func (f *FakeRemote) SetPageSize(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pageSize = n
}

// Requests returns every request seen so far
func (f *FakeRemote) Requests() []RecordedRequest {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// CountRequests counts requests with method whose path starts with prefix
func (f *FakeRemote) CountRequests(method, prefix string) int {
	n := 0
	for _, req := range f.Requests() {
		if req.Method == method && strings.HasPrefix(req.Path, prefix) {
			n++
		}
	}
	return n
}

// Close stops the server so later calls fail at the transport
func (f *FakeRemote) Close() {
	f.Server.Close()
}

func (f *FakeRemote) recordRequest(c *gin.Context) {
	body, _ := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	var decoded map[string]any
	_ = json.Unmarshal(body, &decoded)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.RawQuery,
		Header: c.Request.Header.Clone(),
		Body:   decoded,
	})
	f.mu.Unlock()
	c.Next()
}

func (f *FakeRemote) injectFaults(c *gin.Context) {
	f.mu.RLock()
	status, reject := f.failStatus, f.reject
	f.mu.RUnlock()

	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"success": false, "message": "injected failure"})
		return
	}
	if reject {
		c.AbortWithStatusJSON(http.StatusOK, gin.H{"success": false, "message": "request rejected"})
		return
	}
	c.Next()
}

func (f *FakeRemote) listOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.pageSize > 0 && (limit <= 0 || limit > f.pageSize) {
		limit = f.pageSize
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	total := len(f.orders)
	start := (page - 1) * limit
	end := start + limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    cloneAll(f.orders[start:end]),
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": (total + limit - 1) / limit,
		},
	})
}

func (f *FakeRemote) listClients(c *gin.Context) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	c.JSON(http.StatusOK, gin.H{"success": true, "data": cloneAll(f.clients)})
}

func (f *FakeRemote) createOrder(c *gin.Context) {
	var body models.Record
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("ORD-REMOTE-%d", f.nextID)
	body["id"] = id
	if _, ok := body["status"]; !ok {
		body["status"] = "pending"
	}
	f.orders = append(f.orders, body)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order created successfully",
		"data":    gin.H{"id": id},
	})
}

func (f *FakeRemote) updateOrder(c *gin.Context) {
	var patch models.Record
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexOf(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}
	for k, v := range patch {
		f.orders[i][k] = v
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order updated successfully",
		"data":    f.orders[i].Clone(),
	})
}

func (f *FakeRemote) deleteOrder(c *gin.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexOf(c.Param("id"))
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found"})
		return
	}
	f.orders = append(f.orders[:i], f.orders[i+1:]...)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order deleted successfully"})
}

func (f *FakeRemote) login(c *gin.Context) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if creds.Username != FakeRemoteUsername || creds.Password != FakeRemotePassword {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token": FakeRemoteToken,
			"user": gin.H{
				"id":       "remote-1",
				"username": creds.Username,
				"name":     "Remote Designer",
				"role":     "admin",
			},
		},
	})
}

func (f *FakeRemote) indexOf(id string) int {
	for i, o := range f.orders {
		if o["id"] == id {
			return i
		}
	}
	return -1
}

func cloneAll(records []models.Record) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		out = append(out, r.Clone())
	}
	return out
}
