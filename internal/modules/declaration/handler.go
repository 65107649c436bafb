package declaration

import (
	"errors"
	"mime/multipart"
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

// RegisterPublicRoutes exposes the tenant submission form.
func (h *Handler) RegisterPublicRoutes(public *gin.RouterGroup) {
	public.POST("/declarations", h.Submit)
}

// RegisterAdminRoutes exposes back-office reads.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/declarations", h.List)
	admin.GET("/declarations/:id", h.Get)
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_BODY", "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", errs)
		return
	}

	// Optional media files from the multipart body.
	var fileHeaders []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		fileHeaders = form.File["media"]
	}

	d, degraded, err := h.service.Submit(c.Request.Context(), req, fileHeaders)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid urgency value")
		case errors.Is(err, ErrUploadFailed):
			response.Error(c, http.StatusInternalServerError, "UPLOAD_FAILED", "Failed to store uploaded media")
		default:
			response.Error(c, http.StatusInternalServerError, "CREATE_FAILED", "Failed to create declaration")
		}
		return
	}

	if degraded {
		response.Warning(c, http.StatusCreated, d, "Saved to the local store only; the remote store is unavailable")
		return
	}
	response.Success(c, http.StatusCreated, d)
}

func (h *Handler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "INVALID_STATUS", "Unknown status filter")
			return
		}
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to list declarations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"declarations": list,
		"count":        len(list),
	})
}

func (h *Handler) Get(c *gin.Context) {
	d, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Declaration not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get declaration")
		return
	}
	response.Success(c, http.StatusOK, d)
}
