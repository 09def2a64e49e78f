// internal/handlers/subscription/subscription_handler.go
package subscription

import (
	"net/http"

	"streambox-service/internal/pkg/response"
	service "streambox-service/internal/service/order"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SubscriptionHandler struct {
	orderService *service.OrderService
	logger       *zap.Logger
}

func NewSubscriptionHandler(orderService *service.OrderService, logger *zap.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// GetUserSubscriptions retrieves all subscriptions for a user, most recent first.
func (h *SubscriptionHandler) GetUserSubscriptions(c *gin.Context) {
	userID := c.Param("user_id")

	result, err := h.orderService.GetUserSubscriptions(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to list subscriptions",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		response.Internal(c, "failed to list subscriptions")
		return
	}

	response.Success(c, http.StatusOK, "subscriptions retrieved", result)
}

// GetUserSubscriptionStatus reports whether the user holds an active
// subscription right now.
func (h *SubscriptionHandler) GetUserSubscriptionStatus(c *gin.Context) {
	userID := c.Param("user_id")

	result, err := h.orderService.GetUserSubscriptionStatus(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("failed to check subscription status",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		response.Internal(c, "failed to check subscription status")
		return
	}

	response.Success(c, http.StatusOK, "subscription status retrieved", result)
}
