package handlers

import (
	"net/http"

	"cityfood/src/security"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "The requested resource could not be found on this server!"})
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	adminOnly := []gin.HandlerFunc{security.AuthMiddleware(h.keys), security.AdminMiddleware}
	upload := security.FileSizeLimitMiddleware(h.cfg.Limits.ImageSizeLimit)

	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.RefreshToken)
		auth.POST("/logout", h.LogOut)
	}

	categories := r.Group("/categories")
	{
		categories.GET("", h.ListCategories)

		admin := categories.Use(adminOnly...)
		admin.POST("", upload, h.CreateCategory)
		admin.PUT("", upload, h.UpdateCategory)
		admin.DELETE("", h.DeleteCategory)
	}

	businesses := r.Group("/businesses")
	{
		businesses.GET("", h.ListBusinesses)
		businesses.GET("/:idOrSlug", h.GetBusiness)

		admin := businesses.Use(adminOnly...)
		admin.POST("", upload, h.CreateBusiness)
		admin.PUT("", upload, h.UpdateBusiness)
		admin.DELETE("", h.DeleteBusiness)
	}

	sections := r.Group("/menu-sections")
	{
		sections.GET("", h.ListMenuSections)

		admin := sections.Use(adminOnly...)
		admin.POST("", h.CreateMenuSection)
		admin.PUT("", h.UpdateMenuSection)
		admin.DELETE("", h.DeleteMenuSection)
	}

	items := r.Group("/menu-items")
	{
		items.GET("", h.ListMenuItems)

		admin := items.Use(adminOnly...)
		admin.POST("", upload, h.CreateMenuItem)
		admin.PUT("", upload, h.UpdateMenuItem)
		admin.DELETE("", h.DeleteMenuItem)
	}

	cart := r.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.POST("", h.AddToCart)
		cart.PUT("", h.SetCartItemQuantity)
		cart.DELETE("", h.RemoveCartItem)
	}

	admins := r.Group("/admins").Use(adminOnly...)
	{
		admins.GET("", h.ListAdmins)
		admins.POST("", h.CreateAdmin)
		admins.PUT("", h.UpdateAdmin)
		admins.DELETE("", h.DeleteAdmin)
	}

	orders := r.Group("/orders").Use(adminOnly...)
	{
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.POST("", h.CreateOrder)
		orders.PUT("", h.UpdateOrderStatus)
	}

	r.GET("/dashboard/stats", append(adminOnly, h.DashboardStats)...)
	r.POST("/uploads", append(adminOnly, upload, h.UploadImage)...)
}
