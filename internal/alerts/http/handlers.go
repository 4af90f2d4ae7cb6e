package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pmhealth/pm-health-backend/internal/alerts/dispatcher"
	"github.com/pmhealth/pm-health-backend/internal/alerts/service"
	projrepo "github.com/pmhealth/pm-health-backend/internal/projects/repository"
)

type Handler struct {
	svc  *service.AlertService
	disp *dispatcher.Dispatcher
}

func New(svc *service.AlertService, disp *dispatcher.Dispatcher) *Handler {
	return &Handler{svc: svc, disp: disp}
}

// RegisterProjectSubroutes wires the per-project alert routes under the
// /projects group.
func RegisterProjectSubroutes(rg gin.IRouter, h *Handler) {
	rg.GET("/:public_id/notifications", h.listNotifications)
	rg.POST("/:public_id/review", h.review)
}

// Register wires the portfolio-wide alert routes onto the API group.
func Register(rg gin.IRouter, h *Handler) {
	rg.POST("/notifications/dispatch", h.dispatchPending)
}

func (h *Handler) listNotifications(c *gin.Context) {
	items, err := h.svc.Notifications(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "notifications": items})
}

func (h *Handler) review(c *gin.Context) {
	publicID := c.Param("public_id")
	today := time.Now().UTC().Truncate(24 * time.Hour)

	raised, err := h.svc.ReviewProject(c.Request.Context(), publicID, today)
	if errors.Is(err, projrepo.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "raised": raised})
}

func (h *Handler) dispatchPending(c *gin.Context) {
	delivered, err := h.disp.DispatchPending(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error(), "delivered": delivered})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "delivered": delivered})
}
