package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	projrepo "github.com/pmhealth/pm-health-backend/internal/projects/repository"
	"github.com/pmhealth/pm-health-backend/internal/tracking/service"
)

const dateLayout = "2006-01-02"

type Handler struct {
	svc *service.TrackingService
}

func New(svc *service.TrackingService) *Handler {
	return &Handler{svc: svc}
}

// RegisterProjectSubroutes wires the tracking routes under the /projects
// group.
func RegisterProjectSubroutes(rg gin.IRouter, h *Handler) {
	rg.POST("/:public_id/snapshots", h.record)
	rg.GET("/:public_id/snapshots", h.history)
	rg.GET("/:public_id/evm", h.computeEVM)
	rg.GET("/:public_id/health", h.health)
}

type recordReq struct {
	AsOf        string `json:"as_of"`
	Observation string `json:"observation"`
}

func (h *Handler) record(c *gin.Context) {
	publicID := c.Param("public_id")

	var req recordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	asOf, err := time.ParseInLocation(dateLayout, req.AsOf, time.UTC)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid as_of date"})
		return
	}

	snapshot, err := h.svc.Record(c.Request.Context(), publicID, asOf, req.Observation)
	if errors.Is(err, projrepo.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "snapshot": snapshot})
}

func (h *Handler) history(c *gin.Context) {
	items, err := h.svc.History(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "snapshots": items})
}

func (h *Handler) computeEVM(c *gin.Context) {
	publicID := c.Param("public_id")

	asOf := time.Now().UTC().Truncate(24 * time.Hour)
	if q := c.Query("as_of"); q != "" {
		parsed, err := time.ParseInLocation(dateLayout, q, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid as_of date"})
			return
		}
		asOf = parsed
	}

	metrics, err := h.svc.ComputeEVM(c.Request.Context(), publicID, asOf)
	if errors.Is(err, projrepo.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "as_of": asOf.Format(dateLayout), "metrics": metrics})
}

func (h *Handler) health(c *gin.Context) {
	summary, err := h.svc.Health(c.Request.Context(), c.Param("public_id"))
	if errors.Is(err, projrepo.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "health": summary})
}
