package handler

import (
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/fahimunoffice-stack/her-well-being/internal/middleware"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}

// actorFromContext describes the caller for audit entries.
func actorFromContext(c *gin.Context) models.Actor {
	actor := models.Actor{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
	if claims := claimsFromContext(c); claims != nil {
		actor.UserID = claims.UserID
	}
	return actor
}

// openUpload opens the named multipart field. The caller closes the file.
func openUpload(c *gin.Context, field string) (*multipart.FileHeader, multipart.File, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	src, err := header.Open()
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file")
	}
	return header, src, nil
}
