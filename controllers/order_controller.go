package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kendall-kelly/design-orders-panel/middleware"
	"github.com/kendall-kelly/design-orders-panel/models"
	"github.com/kendall-kelly/design-orders-panel/services"
)

// intakeRequired lists the order form fields a customer must fill in
var intakeRequired = []string{"clientName", "email", "projectType", "projectTitle", "description", "budget"}

// UpdateStatusRequest represents the request body for changing an order status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePriorityRequest represents the request body for changing an order priority
type UpdatePriorityRequest struct {
	Priority string `json:"priority" binding:"required"`
}

// OrderController serves the order endpoints of the panel
type OrderController struct {
	orders *services.OrderService
	logger *zap.Logger
}

// NewOrderController creates an order controller
func NewOrderController(orders *services.OrderService, logger *zap.Logger) *OrderController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderController{orders: orders, logger: logger}
}

// CreateOrder handles POST /api/v1/orders - public order intake
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var raw models.Record
	if err := c.ShouldBindJSON(&raw); err != nil {
		respondValidation(c, http.StatusBadRequest, err.Error())
		return
	}
	if raw == nil {
		respondValidation(c, http.StatusBadRequest, "request body must be a JSON object")
		return
	}

	var missing []string
	for _, field := range intakeRequired {
		value, _ := raw[field].(string)
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		respondValidation(c, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
		return
	}

	outcome, err := oc.orders.Create(c.Request.Context(), raw)
	if err != nil {
		oc.storageFailed(c, "create", err)
		return
	}

	respondData(c, http.StatusCreated, outcome)
}

// ListOrders handles GET /api/v1/orders - optional ?status= filter
func (oc *OrderController) ListOrders(c *gin.Context) {
	orders, err := oc.orders.Orders(c.Request.Context(), c.DefaultQuery("status", services.FilterAll))
	if err != nil {
		oc.writeError(c, "list", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"count":   len(orders),
		"source":  oc.orders.Tracker().State(),
	})
}

// UpdateStatus handles PATCH /api/v1/orders/:id/status
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := oc.orders.UpdateStatus(c.Request.Context(), c.Param("id"), models.OrderStatus(req.Status))
	if err != nil {
		oc.writeError(c, "update status", err)
		return
	}
	oc.audit(c, "update status", outcome)

	respondData(c, http.StatusOK, outcome)
}

// UpdatePriority handles PATCH /api/v1/orders/:id/priority
func (oc *OrderController) UpdatePriority(c *gin.Context) {
	var req UpdatePriorityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := oc.orders.UpdatePriority(c.Request.Context(), c.Param("id"), models.Priority(req.Priority))
	if err != nil {
		oc.writeError(c, "update priority", err)
		return
	}
	oc.audit(c, "update priority", outcome)

	respondData(c, http.StatusOK, outcome)
}

// DeleteOrder handles DELETE /api/v1/orders/:id
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	outcome, err := oc.orders.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		oc.writeError(c, "delete", err)
		return
	}
	oc.audit(c, "delete", outcome)

	respondData(c, http.StatusOK, outcome)
}

// audit records which administrator changed an order
func (oc *OrderController) audit(c *gin.Context, op string, outcome *services.WriteOutcome) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.String("remote", string(outcome.Remote)),
	}
	if outcome.Order != nil {
		fields = append(fields, zap.String("order_id", outcome.Order.ID))
	}
	if userID, err := middleware.GetUserID(c); err == nil {
		fields = append(fields, zap.String("admin_id", userID))
	}
	if session, err := middleware.GetSession(c); err == nil {
		fields = append(fields, zap.String("auth_source", string(session.Source)))
	}
	oc.logger.Info("Order changed", fields...)
}

func (oc *OrderController) writeError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
	case errors.Is(err, services.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, "INVALID_STATUS", err.Error())
	case errors.Is(err, services.ErrInvalidPriority):
		respondError(c, http.StatusBadRequest, "INVALID_PRIORITY", err.Error())
	default:
		oc.storageFailed(c, op, err)
	}
}

func (oc *OrderController) storageFailed(c *gin.Context, op string, err error) {
	oc.logger.Error("Order write failed", zap.String("op", op), zap.Error(err))
	respondError(c, http.StatusInternalServerError, "STORAGE_ERROR", "Failed to save order")
}
