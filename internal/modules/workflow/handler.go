package workflow

import (
	"errors"
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
	g := admin.Group("/declarations/:id")
	{
		g.PATCH("/status", h.UpdateStatus)
		g.POST("/assign", h.AssignProvider)
		g.POST("/meeting", h.ScheduleMeeting)
		g.POST("/quote", h.MarkQuoteReceived)
		g.POST("/quote-decision", h.RecordQuoteDecision)
		g.POST("/cancel", h.Cancel)
	}
}

func (h *Handler) respond(c *gin.Context, d *domain.Declaration, degraded bool, err error) {
	if err == nil {
		if degraded {
			response.Warning(c, http.StatusOK, d, "Saved to the local store only; the remote store is unavailable")
			return
		}
		response.Success(c, http.StatusOK, d)
		return
	}

	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Declaration not found")
	case errors.Is(err, ErrProviderNotFound):
		response.Error(c, http.StatusNotFound, "PROVIDER_NOT_FOUND", "Provider not found")
	case errors.Is(err, ErrProviderRequired):
		response.Error(c, http.StatusUnprocessableEntity, "PROVIDER_REQUIRED", "A provider must be assigned for this transition")
	case errors.Is(err, ErrMeetingDateRequired):
		response.Error(c, http.StatusUnprocessableEntity, "MEETING_DATE_REQUIRED", "A meeting date is required for this transition")
	case errors.Is(err, ErrReasonRequired):
		response.Error(c, http.StatusUnprocessableEntity, "REASON_REQUIRED", "A rejection reason is required")
	case errors.Is(err, ErrTerminalStatus):
		response.Error(c, http.StatusConflict, "TERMINAL_STATUS", "Declaration is resolved or cancelled")
	case errors.Is(err, ErrInvalidTransition):
		response.Error(c, http.StatusConflict, "INVALID_TRANSITION", "Status transition is not allowed")
	case errors.Is(err, ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown status value")
	default:
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update declaration")
	}
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	d, degraded, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), domain.Status(req.Status))
	h.respond(c, d, degraded, err)
}

func (h *Handler) AssignProvider(c *gin.Context) {
	var req AssignProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	d, degraded, err := h.service.AssignProvider(c.Request.Context(), c.Param("id"), req.ProviderID)
	h.respond(c, d, degraded, err)
}

func (h *Handler) ScheduleMeeting(c *gin.Context) {
	var req ScheduleMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	d, degraded, err := h.service.ScheduleMeeting(c.Request.Context(), c.Param("id"), req.MeetingDate, req.Notes)
	h.respond(c, d, degraded, err)
}

func (h *Handler) MarkQuoteReceived(c *gin.Context) {
	var req QuoteReceivedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	d, degraded, err := h.service.MarkQuoteReceived(c.Request.Context(), c.Param("id"), req.Amount)
	h.respond(c, d, degraded, err)
}

func (h *Handler) RecordQuoteDecision(c *gin.Context) {
	var req QuoteDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	d, degraded, err := h.service.RecordQuoteDecision(c.Request.Context(), c.Param("id"), *req.Approved, req.Reason, req.Amount)
	h.respond(c, d, degraded, err)
}

func (h *Handler) Cancel(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}

	d, degraded, err := h.service.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	h.respond(c, d, degraded, err)
}
