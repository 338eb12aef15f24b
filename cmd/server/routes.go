package main

import (
	"github.com/gin-gonic/gin"

	"github.com/Scorpioninfotechsolutions/lend-master/internal/interfaces/http/handlers"
	"github.com/Scorpioninfotechsolutions/lend-master/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler        *handlers.AuthHandler
	cardDetailHandler  *handlers.CardDetailHandler
	adminHandler       *handlers.AdminHandler
	borrowerHandler    *handlers.BorrowerHandler
	activityLogHandler *handlers.ActivityLogHandler
	authMiddleware     gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
		}

		// Authenticated account routes
		account := v1.Group("/auth")
		account.Use(d.authMiddleware)
		{
			account.GET("/logout", d.authHandler.Logout)
			account.GET("/me", d.authHandler.GetMe)
			account.PUT("/profile/update", d.authHandler.UpdateProfile)

			// Re-auth gate: a successful password check issues the
			// single-use reveal ticket consumed by the reveal endpoint
			account.POST("/verify-password", d.authHandler.VerifyPassword)
			account.GET("/borrower-card-details/:id", d.cardDetailHandler.GetBorrowerCardDetails)
			account.POST("/verify-card-details", d.cardDetailHandler.VerifyCardDetails)

			account.GET("/lenders", middleware.RequireAdmin(), d.adminHandler.ListLenders)
			account.PUT("/users/:id", middleware.RequireAdmin(), d.adminHandler.UpdateUser)
			account.DELETE("/users/:id", middleware.RequireAdmin(), d.adminHandler.DeleteUser)
		}

		// Borrower routes (lender or admin)
		borrowers := v1.Group("/borrowers")
		borrowers.Use(d.authMiddleware, middleware.RequireLenderOrAdmin())
		{
			borrowers.POST("", d.borrowerHandler.Create)
			borrowers.GET("", d.borrowerHandler.List)
			borrowers.GET("/:id", d.borrowerHandler.Get)
			borrowers.PUT("/:id", d.borrowerHandler.Update)
			borrowers.DELETE("/:id", d.borrowerHandler.Delete)
		}

		// Admin maintenance routes
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.POST("/migrate-card-details", middleware.IdempotencyMiddleware(), d.adminHandler.MigrateCardDetails)
			admin.POST("/import-card-details", middleware.IdempotencyMiddleware(), d.adminHandler.ImportCardDetails)
		}

		// Audit trail (admin only)
		v1.GET("/activity-logs", d.authMiddleware, middleware.RequireAdmin(), d.activityLogHandler.List)
	}
}
