package router

import (
	"time"

	"github.com/bizlink-dev/bizlink/internal/handlers"
	"github.com/bizlink-dev/bizlink/internal/middleware"
	"github.com/bizlink-dev/bizlink/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", middleware.AuthMiddleware(), handlers.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/logout", handlers.Logout)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
			auth.PATCH("/me", middleware.AuthMiddleware(), handlers.UpdateUser)
			auth.DELETE("/me", middleware.AuthMiddleware(), handlers.DeleteUser)
		}

		api.GET("/invitations", middleware.AuthMiddleware(), handlers.ListMyInvitations)

		profiles := api.Group("/profiles", middleware.AuthMiddleware())
		{
			profiles.POST("", handlers.CreateBusinessProfile)
			profiles.GET("", handlers.ListMyBusinessProfiles)
			profiles.GET("/:profile_id", handlers.GetBusinessProfile)
			profiles.PATCH("/:profile_id", handlers.UpdateBusinessProfile)
			profiles.DELETE("/:profile_id", handlers.DeleteBusinessProfile)
			profiles.POST("/:profile_id/deactivate", handlers.DeactivateBusinessProfile)
			profiles.POST("/:profile_id/reactivate", handlers.ReactivateBusinessProfile)

			// Invitation lifecycle
			profiles.POST("/:profile_id/invitations", handlers.SendInvitation)
			profiles.GET("/:profile_id/invitations", handlers.ListProfileInvitations)
			profiles.POST("/:profile_id/invitations/:invitation_id/accept", handlers.AcceptInvitation)
			profiles.POST("/:profile_id/invitations/:invitation_id/decline", handlers.DeclineInvitation)
			profiles.DELETE("/:profile_id/invitations/:invitation_id", handlers.CancelInvitation)

			// Member management
			profiles.GET("/:profile_id/members", handlers.ListMembers)
			profiles.PATCH("/:profile_id/members/:member_id/promote", handlers.PromoteMember)
			profiles.PATCH("/:profile_id/members/:member_id/demote", handlers.DemoteMember)
			profiles.DELETE("/:profile_id/members/:member_id", handlers.RemoveMember)
		}
	}

	return r
}
