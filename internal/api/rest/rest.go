package rest

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler) {
	// Health check endpoint (no version prefix)
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Artwork endpoints (public read access)
		v1.GET("/artworks/:id", handler.GetArtwork)
		v1.GET("/artworks", handler.ListArtworks)
	}
}
