package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/record-store/internal/queue"
	"github.com/iliyamo/record-store/internal/repository"
	queue_publisher "github.com/iliyamo/record-store/internal/service"
)

// OrderHandler bundles dependencies for order endpoints.
type OrderHandler struct {
	Orders   *repository.OrderRepo
	Products *repository.ProductRepo
}

func NewOrderHandler(o *repository.OrderRepo, p *repository.ProductRepo) *OrderHandler {
	return &OrderHandler{Orders: o, Products: p}
}

// CreateOrder handles POST /v1/orders for the authenticated user.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	var body struct {
		ProductID uint64 `json:"product_id"`
		Quantity  uint32 `json:"quantity"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if body.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "product_id is required"})
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	ctx := c.Request().Context()
	p, err := h.Products.GetByID(ctx, body.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if p.Quantity < body.Quantity {
		return c.JSON(http.StatusConflict, map[string]string{"error": "not enough stock"})
	}

	o := &repository.Order{UserID: uid, ProductID: body.ProductID, Quantity: body.Quantity}
	if err := h.Orders.Create(ctx, o); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create order"})
	}
	o.ProductName = p.Name
	return c.JSON(http.StatusCreated, o)
}

// ListMyOrders handles GET /v1/orders for the authenticated user.
func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	items, err := h.Orders.ListByUser(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// ListAllOrders handles GET /v1/admin/orders (admin).
func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	items, err := h.Orders.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// UpdateOrderStatus handles PATCH /v1/admin/orders/:id/status (admin). On
// success an OrderStatusChangedEvent is published for the notification
// mail; publish failures are logged inside the publisher and ignored here,
// the status change itself is already committed.
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	status := strings.ToUpper(strings.TrimSpace(body.Status))
	if !repository.ValidOrderStatus(status) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unknown status"})
	}

	ctx := c.Request().Context()
	o, err := h.Orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	if err := h.Orders.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "order not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
	}

	pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queue_publisher.PublishOrderStatusChanged(pubCtx, queue.OrderStatusChangedEvent{
		OrderID:     o.ID,
		UserID:      o.UserID,
		UserName:    o.UserName,
		UserEmail:   o.UserEmail,
		ProductName: o.ProductName,
		Quantity:    o.Quantity,
		OldStatus:   o.Status,
		NewStatus:   status,
		ChangedAt:   time.Now().UTC().Format(time.RFC3339),
	})

	o.Status = status
	return c.JSON(http.StatusOK, o)
}
