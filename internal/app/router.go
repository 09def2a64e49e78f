// internal/app/router.go
package app

import (
	"net/http"

	orderHandler "streambox-service/internal/handlers/order"
	subscriptionHandler "streambox-service/internal/handlers/subscription"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handlers struct {
	OrderHandler        *orderHandler.OrderHandler
	SubscriptionHandler *subscriptionHandler.SubscriptionHandler
}

func SetupRouter(r *gin.Engine, pool *pgxpool.Pool, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== Orders ====================
	orders := api.Group("/orders")
	{
		orders.POST("", h.OrderHandler.CreateOrder)
		orders.GET("/:id", h.OrderHandler.GetOrder)
		orders.PUT("/:id/cancel", h.OrderHandler.CancelOrder)
		orders.GET("/:id/cancellation", h.OrderHandler.GetOrderCancellation)
	}

	// ==================== Users ====================
	users := api.Group("/users")
	{
		users.GET("/:user_id/orders", h.OrderHandler.GetUserOrders)
		users.GET("/:user_id/subscriptions", h.SubscriptionHandler.GetUserSubscriptions)
		users.GET("/:user_id/subscription-status", h.SubscriptionHandler.GetUserSubscriptionStatus)
	}
}
