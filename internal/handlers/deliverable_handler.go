package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/moesamiii/production/internal/middleware"
	"github.com/moesamiii/production/internal/report"
	"github.com/moesamiii/production/internal/repositories"
	"github.com/moesamiii/production/internal/services"
	"github.com/moesamiii/production/internal/services/dto"
	"github.com/moesamiii/production/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type DeliverableHandler struct {
	*BaseHandler
	deliverableService services.DeliverableService
	authService        services.AuthService
}

func NewDeliverableHandler(base *BaseHandler, deliverableService services.DeliverableService, authService services.AuthService) *DeliverableHandler {
	return &DeliverableHandler{
		BaseHandler:        base,
		deliverableService: deliverableService,
		authService:        authService,
	}
}

func (h *DeliverableHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public routes: any visitor can view, approve and comment.
	public := r.Group("/deliverables")
	{
		public.GET("", h.GetBuckets)
		public.GET("/progress", h.GetProgress)
		public.GET("/report", h.GetReport)
		public.GET("/:deliverableId", h.GetDeliverable)
		public.PATCH("/:deliverableId/approval", h.SetApproval)
		public.PATCH("/:deliverableId/comment", h.SetComment)
	}

	// Admin routes: deliverable management.
	admin := r.Group("/deliverables")
	admin.Use(middleware.AdminAuthMiddleware(h.authService))
	{
		admin.POST("", h.CreateDeliverable)
		admin.PUT("/:deliverableId", h.UpdateDeliverable)
		admin.DELETE("/:deliverableId", h.DeleteDeliverable)
	}
}

// --- Public handlers ---

func (h *DeliverableHandler) GetBuckets(c *gin.Context) {
	buckets, err := h.deliverableService.GetBuckets(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, buckets)
}

func (h *DeliverableHandler) GetDeliverable(c *gin.Context) {
	deliverableID := c.Param("deliverableId")

	deliverable, err := h.deliverableService.Get(h.GetDB(c), deliverableID)
	if err != nil {
		h.HandleServiceError(c, mapDeliverableError(err))
		return
	}

	c.JSON(http.StatusOK, deliverable)
}

func (h *DeliverableHandler) GetProgress(c *gin.Context) {
	progress, err := h.deliverableService.Progress(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"approved": progress.Approved,
		"total":    progress.Total,
		"label":    fmt.Sprintf("%d/%d Approved", progress.Approved, progress.Total),
	})
}

// GetReport streams the plain-text client delivery report as a download.
func (h *DeliverableHandler) GetReport(c *gin.Context) {
	notes := c.Query("notes")

	text, err := h.deliverableService.Report(h.GetDB(c), notes)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename(time.Now())))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

func (h *DeliverableHandler) SetApproval(c *gin.Context) {
	deliverableID := c.Param("deliverableId")

	var req dto.SetApprovalRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	deliverable, err := h.deliverableService.SetApproval(h.GetDB(c), deliverableID, *req.Approved)
	if err != nil {
		h.HandleServiceError(c, mapDeliverableError(err))
		return
	}

	c.JSON(http.StatusOK, deliverable)
}

func (h *DeliverableHandler) SetComment(c *gin.Context) {
	deliverableID := c.Param("deliverableId")

	var req dto.SetCommentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	deliverable, err := h.deliverableService.SetComment(h.GetDB(c), deliverableID, req.Comment)
	if err != nil {
		h.HandleServiceError(c, mapDeliverableError(err))
		return
	}

	c.JSON(http.StatusOK, deliverable)
}

// --- Admin handlers ---

func (h *DeliverableHandler) CreateDeliverable(c *gin.Context) {
	var req dto.CreateDeliverableRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	deliverable, err := h.deliverableService.Create(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, mapDeliverableError(err))
		return
	}

	c.JSON(http.StatusCreated, deliverable)
}

func (h *DeliverableHandler) UpdateDeliverable(c *gin.Context) {
	deliverableID := c.Param("deliverableId")

	var req dto.UpdateDeliverableRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	deliverable, err := h.deliverableService.Update(h.GetDB(c), deliverableID, &req)
	if err != nil {
		h.HandleServiceError(c, mapDeliverableError(err))
		return
	}

	c.JSON(http.StatusOK, deliverable)
}

func (h *DeliverableHandler) DeleteDeliverable(c *gin.Context) {
	deliverableID := c.Param("deliverableId")

	if err := h.deliverableService.Delete(h.GetDB(c), deliverableID); err != nil {
		h.HandleServiceError(c, mapDeliverableError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deliverable deleted successfully"})
}

// mapDeliverableError converts service sentinels into typed API errors.
func mapDeliverableError(err error) error {
	switch {
	case apperrors.Is(err, repositories.ErrDeliverableNotFound):
		return apperrors.ErrNotFound(err)
	case apperrors.Is(err, services.ErrInvalidCategory),
		apperrors.Is(err, services.ErrInvalidProgress):
		return apperrors.NewBadRequestError(err.Error())
	}
	return err
}
