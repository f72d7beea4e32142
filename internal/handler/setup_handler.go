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

type setupService interface {
	ProvisionAdmin(ctx context.Context, req dto.SetupAdminRequest, actor models.Actor) (*dto.SetupAdminResponse, error)
}

// SetupHandler provisions admin accounts with the server setup token.
type SetupHandler struct {
	service setupService
}

// NewSetupHandler constructs the handler.
func NewSetupHandler(svc setupService) *SetupHandler {
	return &SetupHandler{service: svc}
}

// ProvisionAdmin godoc
// @Summary Create an admin account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.SetupAdminRequest true "Admin account"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /setup-admin [post]
func (h *SetupHandler) ProvisionAdmin(c *gin.Context) {
	var req dto.SetupAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid setup payload"))
		return
	}
	res, err := h.service.ProvisionAdmin(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}
