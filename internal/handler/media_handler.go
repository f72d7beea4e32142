package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
	"github.com/fahimunoffice-stack/her-well-being/pkg/mediatype"
	"github.com/fahimunoffice-stack/her-well-being/pkg/response"
)

type mediaService interface {
	Upload(ctx context.Context, upload dto.MediaUpload, actor models.Actor) (*dto.MediaItem, error)
	List(ctx context.Context, kind string) ([]dto.MediaItem, error)
	Remove(ctx context.Context, path string, actor models.Actor) error
}

// MediaHandler manages the image and video library.
type MediaHandler struct {
	service mediaService
}

// NewMediaHandler constructs the handler.
func NewMediaHandler(svc mediaService) *MediaHandler {
	return &MediaHandler{service: svc}
}

// Upload godoc
// @Summary Upload an image or video
// @Tags Media
// @Accept multipart/form-data
// @Produce json
// @Param accept query string false "image|video|any (comma separated)"
// @Param file formData file true "Media file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	accept, err := parseAcceptedKinds(c.Query("accept"))
	if err != nil {
		response.Error(c, err)
		return
	}
	header, src, err := openUpload(c, "file")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer src.Close()

	item, err := h.service.Upload(c.Request.Context(), dto.MediaUpload{
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Content:  src,
		Accept:   accept,
	}, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// List godoc
// @Summary List media objects
// @Tags Media
// @Produce json
// @Param kind query string false "image|video|all"
// @Success 200 {object} response.Envelope
// @Router /admin/media [get]
func (h *MediaHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.DefaultQuery("kind", "all"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, map[string]interface{}{"count": len(items)})
}

// Remove godoc
// @Summary Delete a media object
// @Tags Media
// @Param path query string true "Object path under media/"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /admin/media [delete]
func (h *MediaHandler) Remove(c *gin.Context) {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "path is required"))
		return
	}
	if err := h.service.Remove(c.Request.Context(), path, actorFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func parseAcceptedKinds(raw string) ([]mediatype.Kind, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	kinds := make([]mediatype.Kind, 0, 3)
	for _, part := range strings.Split(raw, ",") {
		switch kind := mediatype.Kind(strings.ToLower(strings.TrimSpace(part))); kind {
		case mediatype.KindImage, mediatype.KindVideo, mediatype.KindAny:
			kinds = append(kinds, kind)
		case "":
		default:
			return nil, appErrors.Clone(appErrors.ErrValidation, "accept must be image, video or any")
		}
	}
	return kinds, nil
}
