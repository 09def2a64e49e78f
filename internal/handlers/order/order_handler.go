// internal/handlers/order/order_handler.go
package order

import (
	"errors"
	"io"
	"net/http"

	"streambox-service/internal/domain/order"
	xerrors "streambox-service/internal/pkg/errors"
	"streambox-service/internal/pkg/response"
	service "streambox-service/internal/service/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

func NewOrderHandler(orderService *service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// CreateOrder creates an order together with its subscription.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req order.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	result, err := h.orderService.CreateOrder(c.Request.Context(), &req)
	if err != nil {
		h.respondServiceError(c, err, "failed to create order")
		return
	}

	response.Success(c, http.StatusCreated, "order created successfully", result)
}

// GetOrder retrieves an order by ID.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	orderID := c.Param("id")

	result, err := h.orderService.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		h.respondServiceError(c, err, "failed to retrieve order")
		return
	}

	response.Success(c, http.StatusOK, "order retrieved", result)
}

// GetUserOrders retrieves all orders for a user, most recent first.
func (h *OrderHandler) GetUserOrders(c *gin.Context) {
	userID := c.Param("user_id")

	result, err := h.orderService.GetUserOrders(c.Request.Context(), userID)
	if err != nil {
		h.respondServiceError(c, err, "failed to list orders")
		return
	}

	response.Success(c, http.StatusOK, "orders retrieved", result)
}

// CancelOrder cancels an order. The JSON body is optional; an absent body
// means a user-requested, immediately effective cancellation.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	orderID := c.Param("id")

	var req order.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "invalid request", err)
		return
	}

	if err := h.orderService.CancelOrder(c.Request.Context(), orderID, &req); err != nil {
		h.respondServiceError(c, err, "failed to cancel order")
		return
	}

	response.Success(c, http.StatusOK, "order cancelled successfully", nil)
}

// GetOrderCancellation retrieves the cancellation record for an order.
func (h *OrderHandler) GetOrderCancellation(c *gin.Context) {
	orderID := c.Param("id")

	result, err := h.orderService.GetOrderCancellation(c.Request.Context(), orderID)
	if err != nil {
		if xerrors.Is(err, xerrors.ErrNotFound) {
			response.NotFound(c, "order has not been cancelled")
			return
		}
		h.respondServiceError(c, err, "failed to retrieve cancellation")
		return
	}

	response.Success(c, http.StatusOK, "cancellation retrieved", result)
}

// respondServiceError maps the service error taxonomy onto status codes.
// Storage failures are logged with their cause and surfaced sanitized.
func (h *OrderHandler) respondServiceError(c *gin.Context, err error, message string) {
	switch {
	case xerrors.Is(err, xerrors.ErrInvalidProduct), xerrors.Is(err, xerrors.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, message, err)
	case xerrors.Is(err, xerrors.ErrOrderNotFound), xerrors.Is(err, xerrors.ErrNotFound):
		response.Error(c, http.StatusNotFound, message, err)
	case xerrors.Is(err, xerrors.ErrOrderAlreadyCancelled):
		response.Error(c, http.StatusConflict, message, err)
	default:
		h.logger.Error(message,
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		response.Internal(c, message)
	}
}
