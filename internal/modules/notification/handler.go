package notification

import (
	"net/http"

	"imogest/internal/domain"
	"imogest/internal/pkg/response"
	"imogest/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/declarations/:id/notifications", h.GetHistory)
	g := admin.Group("/notification-preferences")
	{
		g.GET("", h.GetPreferences)
		g.PUT("", h.UpdatePreferences)
	}
}

func (h *Handler) GetHistory(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Missing declaration ID")
		return
	}

	list, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get notification history")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"notifications": list,
		"count":         len(list),
	})
}

func (h *Handler) GetPreferences(c *gin.Context) {
	p, err := h.service.GetPreferences(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get preferences")
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	p := &domain.NotificationPreference{
		EmailEnabled:  req.EmailEnabled,
		SMSEnabled:    req.SMSEnabled,
		PushEnabled:   req.PushEnabled,
		OverrideEmail: req.OverrideEmail,
		OverridePhone: req.OverridePhone,
	}
	degraded, err := h.service.UpdatePreferences(c.Request.Context(), p)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update preferences")
		return
	}

	if degraded {
		response.Warning(c, http.StatusOK, p, "Saved to the local store only; the remote store is unavailable")
		return
	}
	response.Success(c, http.StatusOK, p)
}
