package handler

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
	"github.com/fahimunoffice-stack/her-well-being/pkg/response"
	"github.com/fahimunoffice-stack/her-well-being/pkg/storage"
)

type localObjects interface {
	Open(bucket, key string) (*os.File, storage.Object, error)
	OpenSigned(bucket, key, token string) (*os.File, storage.Object, error)
}

// StorageHandler serves objects kept by the local storage driver.
type StorageHandler struct {
	store         localObjects
	publicBuckets map[string]bool
}

// NewStorageHandler constructs the handler. Only publicBuckets are readable
// without a signed token.
func NewStorageHandler(store localObjects, publicBuckets ...string) *StorageHandler {
	public := make(map[string]bool, len(publicBuckets))
	for _, b := range publicBuckets {
		public[b] = true
	}
	return &StorageHandler{store: store, publicBuckets: public}
}

// Public godoc
// @Summary Serve a public object
// @Tags Storage
// @Param bucket path string true "Bucket"
// @Param path path string true "Object path"
// @Success 200 {file} file
// @Failure 404 {object} response.Envelope
// @Router /storage/v1/object/public/{bucket}/{path} [get]
func (h *StorageHandler) Public(c *gin.Context) {
	bucket := c.Param("bucket")
	if !h.publicBuckets[bucket] {
		response.Error(c, appErrors.ErrNotFound)
		return
	}
	file, obj, err := h.store.Open(bucket, objectPath(c))
	h.serve(c, file, obj, err, "public, max-age=3600")
}

// Signed godoc
// @Summary Serve an object through a signed link
// @Tags Storage
// @Param bucket path string true "Bucket"
// @Param path path string true "Object path"
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /storage/v1/object/sign/{bucket}/{path} [get]
func (h *StorageHandler) Signed(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "token is required"))
		return
	}
	file, obj, err := h.store.OpenSigned(c.Param("bucket"), objectPath(c), token)
	h.serve(c, file, obj, err, "no-store")
}

func (h *StorageHandler) serve(c *gin.Context, file *os.File, obj storage.Object, err error, cacheControl string) {
	if err != nil {
		response.Error(c, storageError(err))
		return
	}
	defer file.Close() //nolint:errcheck

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", cacheControl)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"%s\"", path.Base(obj.Key)))
	c.DataFromReader(http.StatusOK, obj.Size, contentType, file, nil)
}

func objectPath(c *gin.Context) string {
	return strings.TrimPrefix(c.Param("path"), "/")
}

func storageError(err error) error {
	switch {
	case errors.Is(err, storage.ErrTokenExpired):
		return appErrors.Clone(appErrors.ErrForbidden, "link expired")
	case errors.Is(err, storage.ErrTokenInvalid):
		return appErrors.Clone(appErrors.ErrForbidden, "invalid link")
	case errors.Is(err, storage.ErrObjectNotFound), errors.Is(err, storage.ErrInvalidKey):
		return appErrors.ErrNotFound
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read object")
	}
}
