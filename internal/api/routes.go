package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.POST("/badges", h.badgesHandler)
		api.POST("/badges/preview", h.previewHandler)
		api.GET("/qr", qrHandler)
	}
}
