package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pmhealth/pm-health-backend/internal/projects/repository"
	"github.com/pmhealth/pm-health-backend/internal/projects/schedule"
	"github.com/pmhealth/pm-health-backend/internal/projects/service"
)

type Handler struct {
	repo       *repository.Repo
	activities *service.ActivityService
}

func New(repo *repository.Repo, activities *service.ActivityService) *Handler {
	return &Handler{repo: repo, activities: activities}
}

func (h *Handler) create(c *gin.Context) {
	var req createProjectReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := req.toDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	p.Name = strings.TrimSpace(p.Name)

	created, err := h.repo.CreateProject(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": created})
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.repo.ListProjects(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "projects": items})
}

func (h *Handler) get(c *gin.Context) {
	publicID := c.Param("public_id")

	snap, err := h.repo.LoadSnapshot(c.Request.Context(), publicID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	g := schedule.FromSnapshot(*snap)
	variance := make(map[string]int, len(snap.Activities))
	for _, a := range snap.Activities {
		if a.ActualEnd != nil {
			variance[a.PublicID] = g.TimeVariance(a)
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "snapshot": snap, "time_variance": variance})
}

func (h *Handler) milestones(c *gin.Context) {
	publicID := c.Param("public_id")
	ctx := c.Request.Context()

	snap, err := h.repo.LoadSnapshot(ctx, publicID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	milestones, err := h.repo.ListMilestones(ctx, publicID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	type milestoneView struct {
		Milestone     any     `json:"milestone"`
		CompletionMet bool    `json:"completion_met"`
		ProgressPct   float64 `json:"progress_pct"`
	}
	out := make([]milestoneView, 0, len(milestones))
	for _, m := range milestones {
		out = append(out, milestoneView{
			Milestone:     m,
			CompletionMet: m.CompletionMet(*snap),
			ProgressPct:   m.ProgressPct(*snap),
		})
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "milestones": out})
}

func (h *Handler) commitActivity(c *gin.Context) {
	publicID := c.Param("public_id")

	var req activityReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	candidate, err := req.toDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	committed, violations, err := h.activities.Commit(c.Request.Context(), publicID, candidate)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if !violations.OK() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "violations": violations})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "activity": committed})
}

func (h *Handler) validateActivity(c *gin.Context) {
	publicID := c.Param("public_id")

	var req activityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	candidate, err := req.toDomain()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}

	violations, err := h.activities.Validate(c.Request.Context(), publicID, candidate)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "project not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "valid": violations.OK(), "violations": violations})
}
