package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pmhealth/pm-health-backend/internal/dashboard/service"
)

type Handler struct {
	svc *service.DashboardService
}

func New(svc *service.DashboardService) *Handler {
	return &Handler{svc: svc}
}

func Register(rg gin.IRouter, h *Handler) {
	rg.GET("/dashboard", h.portfolio)
}

func (h *Handler) portfolio(c *gin.Context) {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	summary, err := h.svc.Portfolio(c.Request.Context(), today)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "summary": summary})
}
