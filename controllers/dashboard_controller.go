package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kendall-kelly/design-orders-panel/services"
)

// DashboardController serves the clients list and the dashboard snapshot
type DashboardController struct {
	orders *services.OrderService
}

// NewDashboardController creates a dashboard controller
func NewDashboardController(orders *services.OrderService) *DashboardController {
	return &DashboardController{orders: orders}
}

// ListClients handles GET /api/v1/clients
func (dc *DashboardController) ListClients(c *gin.Context) {
	clients := dc.orders.Clients(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    clients,
		"count":   len(clients),
	})
}

// Dashboard handles GET /api/v1/dashboard. The first call triggers a load.
func (dc *DashboardController) Dashboard(c *gin.Context) {
	respondData(c, http.StatusOK, dc.orders.Snapshot(c.Request.Context()))
}

// Refresh handles POST /api/v1/dashboard/refresh - a full reload from both sources
func (dc *DashboardController) Refresh(c *gin.Context) {
	respondData(c, http.StatusOK, dc.orders.Load(c.Request.Context()))
}
