package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
	"github.com/fahimunoffice-stack/her-well-being/pkg/response"
)

type contentService interface {
	All(ctx context.Context) (*models.SiteContent, error)
	Get(ctx context.Context, key string) (interface{}, error)
	Save(ctx context.Context, key string, raw json.RawMessage, actor models.Actor) (interface{}, error)
	SaveSettings(ctx context.Context, req dto.UpdateSettingsRequest, actor models.Actor) (*models.SiteContent, error)
}

// ContentHandler edits the storefront key/value content.
type ContentHandler struct {
	service contentService
}

// NewContentHandler constructs the handler.
func NewContentHandler(svc contentService) *ContentHandler {
	return &ContentHandler{service: svc}
}

// All godoc
// @Summary Get every content key
// @Tags Content
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/content [get]
func (h *ContentHandler) All(c *gin.Context) {
	content, err := h.service.All(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, content)
}

// Get godoc
// @Summary Get one content key
// @Tags Content
// @Produce json
// @Param key path string true "Content key"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/content/{key} [get]
func (h *ContentHandler) Get(c *gin.Context) {
	value, err := h.service.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, value)
}

// Save godoc
// @Summary Replace one content key
// @Description The request body is the new JSON value of the key.
// @Tags Content
// @Accept json
// @Produce json
// @Param key path string true "Content key"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/content/{key} [put]
func (h *ContentHandler) Save(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 || !json.Valid(body) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "body must be a JSON value"))
		return
	}
	value, err := h.service.Save(c.Request.Context(), c.Param("key"), json.RawMessage(body), actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, value)
}

// SaveSettings godoc
// @Summary Save the scalar storefront settings
// @Tags Content
// @Accept json
// @Produce json
// @Param payload body dto.UpdateSettingsRequest true "Settings"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/settings [put]
func (h *ContentHandler) SaveSettings(c *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid settings payload"))
		return
	}
	content, err := h.service.SaveSettings(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, content)
}
