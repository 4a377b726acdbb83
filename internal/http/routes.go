package http

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/confessfeed/confess/internal/config"
	"github.com/confessfeed/confess/internal/confession"
	"github.com/confessfeed/confess/internal/ws"
)

// SetupRoutes configures all application routes and middleware.
func SetupRoutes(router *gin.Engine, repo *confession.Repository, hub *ws.Hub, cfg *config.Config) {
	env := &Env{Repo: repo, Hub: hub, Cfg: cfg}

	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(SecurityHeadersMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-User-Fid", "X-Screen", "X-Timezone", "X-Admin-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	limiter := NewIPRateLimiter(rate.Limit(rateLimitRPS), rateLimitBurst)

	api := router.Group("/api")
	api.Use(IdentityMiddleware())
	{
		api.GET("/confessions", env.GetConfessions)
		api.POST("/confessions", RateLimitMiddleware(limiter), env.CreateConfession)
		api.POST("/confessions/:id/like", env.LikeConfession)
		api.DELETE("/confessions/:id/like", env.UnlikeConfession)
		api.GET("/confessions/:id/like", env.GetLikeStatus)
		api.POST("/likes/recalculate", AdminAuthMiddleware(cfg.AdminToken), env.RecalculateLikes)
	}

	router.GET("/.well-known/farcaster.json", env.GetManifest)

	router.GET("/ws", func(c *gin.Context) {
		ws.ServeWs(hub, c.Writer, c.Request)
	})
}
