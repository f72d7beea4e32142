package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/middleware"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
	"github.com/fahimunoffice-stack/her-well-being/pkg/response"
	"github.com/fahimunoffice-stack/her-well-being/pkg/storage"
)

type ebookService interface {
	Upload(ctx context.Context, upload dto.EbookUpload, actor models.Actor) (*models.EbookFile, error)
	List(ctx context.Context) (*dto.EbookList, error)
	CreateDownloadLink(ctx context.Context, req dto.EbookDownloadLinkRequest, actor models.Actor) (*storage.SignedURL, error)
}

// EbookHandler manages uploaded e-book versions.
type EbookHandler struct {
	service ebookService
}

// NewEbookHandler constructs the handler.
func NewEbookHandler(svc ebookService) *EbookHandler {
	return &EbookHandler{service: svc}
}

// Upload godoc
// @Summary Upload a new e-book version
// @Tags Ebooks
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param file formData file true "E-book file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Router /admin/ebooks [post]
func (h *EbookHandler) Upload(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "title is required"))
		return
	}
	header, src, err := openUpload(c, "file")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer src.Close()

	ebook, err := h.service.Upload(c.Request.Context(), dto.EbookUpload{
		Title:    title,
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Content:  src,
	}, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, ebook)
}

// List godoc
// @Summary List e-book versions
// @Tags Ebooks
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/ebooks [get]
func (h *EbookHandler) List(c *gin.Context) {
	res, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "total_bytes", res.TotalBytes)
	middleware.SetMeta(c, "count", len(res.Items))
	response.JSON(c, http.StatusOK, res.Items, middleware.ExtractMeta(c))
}

// DownloadLink godoc
// @Summary Create a short lived link to a stored e-book
// @Tags Ebooks
// @Accept json
// @Produce json
// @Param payload body dto.EbookDownloadLinkRequest true "Stored path"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /admin/ebooks/download-link [post]
func (h *EbookHandler) DownloadLink(c *gin.Context) {
	var req dto.EbookDownloadLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "path is required"))
		return
	}
	link, err := h.service.CreateDownloadLink(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, link)
}
