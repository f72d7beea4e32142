package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
	"github.com/fahimunoffice-stack/her-well-being/pkg/response"
)

type analyticsService interface {
	Orders(ctx context.Context, days int) (*models.OrderAnalytics, error)
	Activity(ctx context.Context) (*dto.ActivityLog, error)
}

// AnalyticsHandler exposes the dashboard chart and the activity log.
type AnalyticsHandler struct {
	service analyticsService
}

// NewAnalyticsHandler constructs the handler.
func NewAnalyticsHandler(svc analyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: svc}
}

// Orders godoc
// @Summary Daily order counts
// @Tags Analytics
// @Produce json
// @Param days query int false "Window in days (1-90)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/analytics [get]
func (h *AnalyticsHandler) Orders(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "days must be a number"))
			return
		}
		days = parsed
	}
	stats, err := h.service.Orders(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

// Activity godoc
// @Summary Recent orders and audit trail
// @Tags Analytics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/logs [get]
func (h *AnalyticsHandler) Activity(c *gin.Context) {
	log, err := h.service.Activity(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, log)
}
