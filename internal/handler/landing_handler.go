package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/pkg/response"
)

type landingService interface {
	Page(ctx context.Context) (*dto.LandingPage, error)
}

// LandingHandler serves the public landing page payload.
type LandingHandler struct {
	service landingService
}

// NewLandingHandler constructs the handler.
func NewLandingHandler(svc landingService) *LandingHandler {
	return &LandingHandler{service: svc}
}

// Page godoc
// @Summary Landing page content
// @Tags Landing
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /landing [get]
func (h *LandingHandler) Page(c *gin.Context) {
	page, err := h.service.Page(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, page)
}
