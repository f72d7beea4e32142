package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
	"github.com/fahimunoffice-stack/her-well-being/pkg/response"
)

type presetService interface {
	List(ctx context.Context, userID string) ([]models.OrderFilterPreset, error)
	Create(ctx context.Context, userID string, req dto.CreateOrderPresetRequest) (*models.OrderFilterPreset, error)
	Delete(ctx context.Context, userID, id string) error
}

// PresetHandler manages saved order filters of the signed-in admin.
type PresetHandler struct {
	service presetService
}

// NewPresetHandler constructs the handler.
func NewPresetHandler(svc presetService) *PresetHandler {
	return &PresetHandler{service: svc}
}

// List godoc
// @Summary List saved order filters
// @Tags Orders
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/order-presets [get]
func (h *PresetHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	presets, err := h.service.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, presets)
}

// Create godoc
// @Summary Save the current order filters
// @Tags Orders
// @Accept json
// @Produce json
// @Param payload body dto.CreateOrderPresetRequest true "Preset"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/order-presets [post]
func (h *PresetHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateOrderPresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preset payload"))
		return
	}
	preset, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, preset)
}

// Delete godoc
// @Summary Delete a saved order filter
// @Tags Orders
// @Param id path string true "Preset ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /admin/order-presets/{id} [delete]
func (h *PresetHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
