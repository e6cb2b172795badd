package api

import (
	"net/http"

	"studybuddy-functions/internal/study/delivery"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(r *gin.Engine, studyHandler *delivery.StudyEventHandler) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Firestore trigger deliveries (Eventarc, Pub/Sub push or a relay)
		events := api.Group("/events")
		{
			events.POST("/user-updated", studyHandler.UserUpdated)
		}
	}
}
