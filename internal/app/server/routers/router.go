package routers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"paysvc/internal/app/pkg/logger"
	"paysvc/internal/app/server/handlers/order"
	"paysvc/internal/app/server/handlers/payment"
	"paysvc/internal/app/server/middlewares"
)

// Pinger 依赖连通性检查（由 redis.PubSubClient 实现）
type Pinger interface {
	Ping(ctx context.Context) error
}

// SetupRoutes 配置所有路由，使用 Route Group 分类；redisPinger 为 nil 时不探测 Redis
func SetupRoutes(
	orderHandler *order.OrderHandler,
	paymentHandler *payment.PaymentHandler,
	redisPinger Pinger,
	log logger.Logger,
) *gin.Engine {
	r := gin.New()

	r.Use(middlewares.CORS())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.Logger(log))
	r.Use(middlewares.ErrorHandler(log))

	r.GET("/health", func(c *gin.Context) {
		if redisPinger != nil {
			if err := redisPinger.Ping(c.Request.Context()); err != nil {
				log.WarnContext(c.Request.Context(), "Health check failed", "dependency", "redis", "error", err)
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unavailable",
					"service": "paysvc",
					"message": "redis unreachable",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "paysvc",
			"message": "Service is running",
		})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/checkout", paymentHandler.Checkout)

		orders := v1.Group("/orders")
		{
			orders.GET("/:tracking_number", orderHandler.Get)
			orders.POST("/:tracking_number/payment", orderHandler.RetryPayment)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("/euplatesc/callback", paymentHandler.Callback)
			payments.GET("/euplatesc/callback", paymentHandler.Callback)
			payments.GET("/:invoice_id/result", paymentHandler.Result)
		}
	}

	return r
}
