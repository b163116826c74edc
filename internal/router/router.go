package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"grocery-admin/internal/controller"
	"grocery-admin/internal/middleware"
	"grocery-admin/internal/model"
	"grocery-admin/internal/service"
)

type Handlers struct {
	Auth    *controller.AuthController
	Orders  *controller.OrderController
	Users   *controller.UserController
	Reports *controller.ReportController
	Catalog *controller.CatalogController
}

// NewRouter mounts the admin API under /admin.
func NewRouter(h Handlers, authService *service.AuthService) *gin.Engine {
	controller.RegisterValidation()

	r := gin.Default()
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	admin := r.Group("/admin")

	// Public
	admin.POST("/login", h.Auth.Login)

	// Admins only
	auth := admin.Group("")
	auth.Use(middleware.AuthMiddleware(authService), middleware.AdminOnly())
	auth.GET("/me", h.Auth.Me)

	pending := middleware.PendingMutation()

	orders := auth.Group("/orders")
	{
		view := middleware.RequirePermission(model.PermOrdersView)
		manage := middleware.RequirePermission(model.PermOrdersManage)

		orders.GET("", view, h.Orders.Index)
		orders.GET("/completed", view, h.Orders.Completed)
		orders.GET("/shipped", view, h.Orders.Shipped)
		orders.GET("/status/:status", view, h.Orders.ByStatus)
		orders.GET("/transitions", view, h.Orders.Transitions)
		orders.GET("/export", view, h.Orders.Export)
		orders.GET("/:id", view, h.Orders.Show)
		orders.GET("/:id/history", view, h.Orders.History)

		orders.POST("", manage, h.Orders.Store)
		orders.POST("/bulk-action", manage, pending, h.Orders.BulkAction)
		orders.POST("/:id/actions/:action", manage, h.Orders.Action)
		orders.PATCH("/:id/status", manage, h.Orders.UpdateStatus)
		orders.PATCH("/:id/tracking", manage, h.Orders.UpdateTracking)
		orders.DELETE("/:id", manage, h.Orders.Destroy)
	}

	usersView := middleware.RequirePermission(model.PermUsersView)
	usersManage := middleware.RequirePermission(model.PermUsersManage)
	auth.GET("/customers", usersView, h.Users.Customers)
	users := auth.Group("/users")
	{
		users.GET("", usersView, h.Users.Index)
		users.GET("/export", usersView, h.Users.Export)
		users.GET("/:id", usersView, h.Users.Show)
		users.POST("", usersManage, h.Users.Store)
		users.POST("/bulk-action", usersManage, pending, h.Users.BulkAction)
		users.PUT("/:id", usersManage, h.Users.Update)
		users.DELETE("/:id", usersManage, h.Users.Destroy)
	}

	catalogView := middleware.RequirePermission(model.PermCatalogView)
	auth.GET("/products", catalogView, h.Catalog.Products)
	auth.GET("/categories", catalogView, h.Catalog.Categories)

	reports := auth.Group("/reports")
	{
		reports.GET("/export/:resource", middleware.RequirePermission(model.PermReportsExport), h.Reports.Export)
		reports.GET("/:report", middleware.RequirePermission(model.PermReportsView), h.Reports.Show)
	}

	return r
}
