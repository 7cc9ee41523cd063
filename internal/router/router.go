package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/parliament-dev/parliament/internal/handlers"
	"github.com/parliament-dev/parliament/internal/middleware"
	"github.com/parliament-dev/parliament/internal/types"
)

func NewRouter() *gin.Engine {
	r := gin.Default()

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
		api.GET("/statistics", handlers.GetStatistics)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register)
			auth.POST("/login", handlers.Login)
			auth.POST("/logout", middleware.RequireAuth(), handlers.Logout)
			auth.GET("/me", middleware.RequireAuth(), handlers.Me)
		}

		parties := api.Group("/parties")
		{
			parties.GET("", handlers.ListParties)
			parties.GET("/:id", handlers.GetParty)
			parties.GET("/:id/members", handlers.PartyMembers)
			parties.POST("", middleware.RequireAuth(), handlers.CreateParty)
			parties.PUT("/:id", middleware.RequireAuth(), handlers.UpdateParty)
			parties.PATCH("/:id", middleware.RequireAuth(), handlers.UpdateParty)
			parties.DELETE("/:id", middleware.RequireAuth(), handlers.DeleteParty)
		}

		deputies := api.Group("/deputies")
		{
			deputies.GET("", handlers.ListDeputies)
			deputies.GET("/:id", handlers.GetDeputy)
			deputies.GET("/:id/attendance", handlers.DeputyAttendance)
			deputies.GET("/:id/votes", handlers.DeputyVotes)
			deputies.POST("", middleware.RequireAuth(), handlers.CreateDeputy)
			deputies.PUT("/:id", middleware.RequireAuth(), handlers.UpdateDeputy)
			deputies.PATCH("/:id", middleware.RequireAuth(), handlers.UpdateDeputy)
			deputies.DELETE("/:id", middleware.RequireAuth(), handlers.DeleteDeputy)
		}

		// Closed sessions are scoped by the requester's role, so the read
		// endpoints resolve the token when one is present.
		sessions := api.Group("/sessions")
		{
			sessions.GET("", middleware.OptionalAuth(), handlers.ListSessions)
			sessions.GET("/:id", middleware.OptionalAuth(), handlers.GetSession)
			sessions.POST("", middleware.RequireAuth(), handlers.CreateSession)
			sessions.PUT("/:id", middleware.RequireAuth(), handlers.UpdateSession)
			sessions.PATCH("/:id", middleware.RequireAuth(), handlers.UpdateSession)
			sessions.DELETE("/:id", middleware.RequireAuth(), handlers.DeleteSession)
			sessions.POST("/:id/mark_attendance", middleware.RequireAuth(), handlers.MarkAttendance)
		}

		votes := api.Group("/votes")
		{
			votes.GET("", handlers.ListVotes)
			votes.GET("/:id", handlers.GetVote)
			votes.POST("", middleware.RequireAuth(), handlers.CreateVote)
			votes.PUT("/:id", middleware.RequireAuth(), handlers.UpdateVote)
			votes.PATCH("/:id", middleware.RequireAuth(), handlers.UpdateVote)
			votes.DELETE("/:id", middleware.RequireAuth(), handlers.DeleteVote)
			votes.POST("/:id/cast_vote", middleware.RequireAuth(), handlers.CastVote)
		}
	}

	return r
}
