package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
)

type fakeAnalyticsSrv struct {
	days int
}

func (f *fakeAnalyticsSrv) Orders(_ context.Context, days int) (*models.OrderAnalytics, error) {
	f.days = days
	if days > 90 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "days must be between 1 and 90")
	}
	return &models.OrderAnalytics{}, nil
}

func (f *fakeAnalyticsSrv) Activity(context.Context) (*dto.ActivityLog, error) {
	return &dto.ActivityLog{}, nil
}

func TestAnalyticsHandlerDays(t *testing.T) {
	srv := &fakeAnalyticsSrv{}
	r := testRouter(http.MethodGet, "/admin/analytics", NewAnalyticsHandler(srv).Orders)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/admin/analytics", nil).Code)
	assert.Equal(t, 0, srv.days)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/admin/analytics?days=30", nil).Code)
	assert.Equal(t, 30, srv.days)

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/admin/analytics?days=week", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/admin/analytics?days=365", nil).Code)
}

func TestAnalyticsHandlerActivity(t *testing.T) {
	r := testRouter(http.MethodGet, "/admin/logs", NewAnalyticsHandler(&fakeAnalyticsSrv{}).Activity)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/admin/logs", nil).Code)
}
