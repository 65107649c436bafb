package monday

import (
	"errors"
	"net/http"

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
	g := admin.Group("/board")
	{
		g.POST("/sync", h.PullSync)
		g.POST("/tech-reports", h.CreateTechReport)
		g.GET("/webhooks", h.ListWebhooks)
		g.POST("/webhooks", h.RegisterWebhook)
		g.DELETE("/webhooks/:id", h.DeleteWebhook)
	}
}

// PullSync reconciles board statuses back into the store on demand.
func (h *Handler) PullSync(c *gin.Context) {
	updated, err := h.service.PullSync(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrDisabled) {
			response.Error(c, http.StatusServiceUnavailable, "BOARD_DISABLED", "Board sync is not configured")
			return
		}
		response.Error(c, http.StatusBadGateway, "BOARD_SYNC_FAILED", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}

func (h *Handler) CreateTechReport(c *gin.Context) {
	var req TechReport
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	itemID, err := h.service.SendTechReport(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrDisabled) {
			response.Error(c, http.StatusServiceUnavailable, "BOARD_DISABLED", "Technician board is not configured")
			return
		}
		response.Error(c, http.StatusBadGateway, "BOARD_CREATE_FAILED", err.Error())
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"item_id": itemID})
}

func (h *Handler) ListWebhooks(c *gin.Context) {
	regs, err := h.service.ListWebhooks(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "WEBHOOK_LIST_FAILED", err.Error())
		return
	}
	response.Success(c, http.StatusOK, regs)
}

type registerWebhookRequest struct {
	URL   string `json:"url" validate:"required,url"`
	Event string `json:"event" validate:"required"`
}

func (h *Handler) RegisterWebhook(c *gin.Context) {
	var req registerWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	id, err := h.service.RegisterWebhook(c.Request.Context(), req.URL, req.Event)
	if err != nil {
		if errors.Is(err, ErrDisabled) {
			response.Error(c, http.StatusServiceUnavailable, "BOARD_DISABLED", "Board sync is not configured")
			return
		}
		response.Error(c, http.StatusBadGateway, "WEBHOOK_CREATE_FAILED", err.Error())
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"webhook_id": id})
}

func (h *Handler) DeleteWebhook(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Missing webhook ID")
		return
	}

	if err := h.service.DeleteWebhook(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrDisabled) {
			response.Error(c, http.StatusServiceUnavailable, "BOARD_DISABLED", "Board sync is not configured")
			return
		}
		response.Error(c, http.StatusBadGateway, "WEBHOOK_DELETE_FAILED", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": id})
}
