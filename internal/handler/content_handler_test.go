package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
)

type fakeContentSrv struct {
	savedKey   string
	savedRaw   json.RawMessage
	saveActor  models.Actor
	settingReq dto.UpdateSettingsRequest
}

func (f *fakeContentSrv) All(context.Context) (*models.SiteContent, error) {
	return &models.SiteContent{Price: "280"}, nil
}

func (f *fakeContentSrv) Get(_ context.Context, key string) (interface{}, error) {
	if key != models.ContentKeyPrice {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown content key")
	}
	return "280", nil
}

func (f *fakeContentSrv) Save(_ context.Context, key string, raw json.RawMessage, actor models.Actor) (interface{}, error) {
	f.savedKey, f.savedRaw, f.saveActor = key, raw, actor
	return json.RawMessage(raw), nil
}

func (f *fakeContentSrv) SaveSettings(_ context.Context, req dto.UpdateSettingsRequest, _ models.Actor) (*models.SiteContent, error) {
	f.settingReq = req
	return &models.SiteContent{Price: *req.Price}, nil
}

func TestContentHandlerSaveForwardsRawValue(t *testing.T) {
	srv := &fakeContentSrv{}
	r := testRouter(http.MethodPut, "/admin/content/:key", NewContentHandler(srv).Save)

	rec := doJSON(r, http.MethodPut, "/admin/content/faq", `[{"question":"Q","answer":"A"}]`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "faq", srv.savedKey)
	assert.JSONEq(t, `[{"question":"Q","answer":"A"}]`, string(srv.savedRaw))
	assert.Equal(t, "admin-1", srv.saveActor.UserID)
}

func TestContentHandlerSaveRejectsInvalidJSON(t *testing.T) {
	srv := &fakeContentSrv{}
	r := testRouter(http.MethodPut, "/admin/content/:key", NewContentHandler(srv).Save)

	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPut, "/admin/content/faq", `[{"question"`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodPut, "/admin/content/faq", nil).Code)
	assert.Empty(t, srv.savedKey)
}

func TestContentHandlerGetUnknownKey(t *testing.T) {
	r := testRouter(http.MethodGet, "/admin/content/:key", NewContentHandler(&fakeContentSrv{}).Get)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/admin/content/price", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/admin/content/colour", nil).Code)
}

func TestContentHandlerSaveSettings(t *testing.T) {
	srv := &fakeContentSrv{}
	r := testRouter(http.MethodPut, "/admin/settings", NewContentHandler(srv).SaveSettings)

	rec := doJSON(r, http.MethodPut, "/admin/settings", map[string]string{"price": "350"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.settingReq.Price)
	assert.Equal(t, "350", *srv.settingReq.Price)
	assert.Nil(t, srv.settingReq.BkashNumber)
}
