package main

import (
	"vod-platform/internal/auth"
	"vod-platform/internal/catalog"
	"vod-platform/internal/config"
	"vod-platform/internal/users"

	"github.com/gin-gonic/gin"
)

type routeDeps struct {
	cfg     config.Config
	tokens  *auth.Manager
	revoker auth.Revoker
	users   users.Handlers
	catalog catalog.Handlers
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to
// internal modules.
func registerRoutes(r *gin.Engine, d routeDeps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		// public browsing + login
		v1.POST("/auth/login", d.users.Login)
		v1.GET("/movies", d.catalog.ListMovies)
		v1.GET("/movies/count", d.catalog.GetCounts)
		v1.GET("/movies/:id", d.catalog.GetMovie)
		v1.GET("/episodes", d.catalog.ListEpisodes)
		v1.GET("/episodes/:id", d.catalog.GetEpisode)

		// authenticated, self-or-admin enforced in the handler
		authed := v1.Group("")
		authed.Use(auth.RequireAuth(d.tokens, d.revoker))
		{
			authed.GET("/users/:id", d.users.GetUser)
			authed.POST("/auth/logout", d.users.Logout)
			authed.POST("/users/me/password", d.users.ChangePassword)
		}

		// catalog mutations require the admin role
		manage := v1.Group("")
		manage.Use(auth.RequireAuth(d.tokens, d.revoker))
		manage.Use(auth.RequireAdmin())
		{
			manage.POST("/movies", d.catalog.CreateMovie)
			manage.PUT("/movies/:id", d.catalog.UpdateMovie)
			manage.DELETE("/movies/:id", d.catalog.DeleteMovie)
			manage.POST("/episodes", d.catalog.CreateEpisode)
			manage.PUT("/episodes/:id", d.catalog.UpdateEpisode)
			manage.DELETE("/episodes/:id", d.catalog.DeleteEpisode)
		}
	}

	// Browser-facing admin panel data. Failing requests are redirected to
	// the login page instead of receiving a JSON error.
	admin := r.Group("/admin")
	admin.Use(auth.RequireAdminUI(d.tokens, d.revoker, d.cfg.App.LoginPath))
	{
		admin.GET("/dashboard", d.catalog.GetCounts)
	}
}
