package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/MerchantKhalid/foodhub/controllers"
	"github.com/MerchantKhalid/foodhub/middlewares"
	"github.com/MerchantKhalid/foodhub/models"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.PrometheusMiddleware())

	// Inisialisasi controller
	userCtrl := controllers.NewUserController(db)
	orderCtrl := controllers.NewOrderController(db)
	providerCtrl := controllers.NewProviderOrderController(db)
	adminCtrl := controllers.NewAdminOrderController(db)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rate limiter ketat untuk login/register
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      CUSTOMER ROUTES
	// ----------------------------------------------------------------
	customer := r.Group("/orders")
	customer.Use(middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleCustomer))
	{
		customer.POST("", orderCtrl.CreateOrder)
		customer.GET("", orderCtrl.GetMyOrders)
		customer.GET("/:order_id", orderCtrl.GetOrderByID)
		customer.PATCH("/:order_id/cancel", orderCtrl.CancelOrder)
	}

	// ----------------------------------------------------------------
	//                      PROVIDER ROUTES
	// ----------------------------------------------------------------
	provider := r.Group("/provider/orders")
	provider.Use(middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleProvider))
	{
		provider.GET("", providerCtrl.GetProviderOrders)
		provider.GET("/:order_id", providerCtrl.GetProviderOrderByID)
		provider.PATCH("/:order_id/status", providerCtrl.UpdateOrderStatus)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES (read-only)
	// ----------------------------------------------------------------
	admin := r.Group("/admin/orders")
	admin.Use(middlewares.AuthMiddleware(), middlewares.RequireRole(models.RoleAdmin))
	{
		admin.GET("", adminCtrl.GetAllOrders)
		admin.GET("/:order_id", adminCtrl.GetOrderByID)
	}

	return r
}
