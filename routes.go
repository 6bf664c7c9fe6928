package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventplanner-collab/internal/metrics"
)

func SetupRoutes(r *gin.Engine, h *Handlers, secret string, m *metrics.Metrics) {

	// Public Routes
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	// Protected Routes
	authorized := r.Group("/api")
	authorized.Use(AuthMiddleware(secret))
	{
		// COLLABORATORS
		authorized.GET("/events/:id/collaborators", h.ListCollaborators)
		authorized.POST("/events/:id/collaborators", h.AddCollaborator)
		authorized.DELETE("/events/:id/collaborators", h.DeleteCollaborator)
		authorized.POST("/events/:id/collaborators/accept", h.AcceptInvitation)

		// VENDORS
		authorized.GET("/events/:id/vendors", h.ListVendors)
		authorized.POST("/events/:id/vendors/registered", h.AddRegisteredVendor)
		authorized.POST("/events/:id/vendors/custom", h.AddCustomVendor)
		authorized.PUT("/events/:id/vendors/registered/:vendorId", h.UpdateRegisteredVendor)
		authorized.PATCH("/events/:id/vendors/custom", h.UpdateCustomVendor)
		authorized.DELETE("/events/:id/vendors", h.DeleteVendor)

		// VENDOR SIDE
		authorized.GET("/vendors/me/upcoming-events", h.GetUpcomingEvents)
		authorized.DELETE("/vendors/me/upcoming-events/:id", h.DeleteUpcomingEvent)

		// SUGGESTIONS
		authorized.GET("/suggestions", h.GetSuggestions)
	}
}
