package http

import "github.com/gin-gonic/gin"

// Register wires the project routes onto the /projects group.
func Register(rg gin.IRouter, h *Handler) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:public_id", h.get)
	rg.GET("/:public_id/milestones", h.milestones)
	rg.POST("/:public_id/activities", h.commitActivity)
	rg.POST("/:public_id/activities/validate", h.validateActivity)
}
