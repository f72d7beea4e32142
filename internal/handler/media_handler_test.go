package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	"github.com/fahimunoffice-stack/her-well-being/pkg/mediatype"
)

type fakeMediaSrv struct {
	upload  dto.MediaUpload
	kind    string
	removed string
}

func (f *fakeMediaSrv) Upload(_ context.Context, upload dto.MediaUpload, _ models.Actor) (*dto.MediaItem, error) {
	f.upload = upload
	return &dto.MediaItem{Path: "media/x.png", PublicURL: "https://files.test/public/media/media/x.png", Kind: mediatype.KindImage}, nil
}

func (f *fakeMediaSrv) List(_ context.Context, kind string) ([]dto.MediaItem, error) {
	f.kind = kind
	return []dto.MediaItem{{Path: "media/a.jpg"}}, nil
}

func (f *fakeMediaSrv) Remove(_ context.Context, path string, _ models.Actor) error {
	f.removed = path
	return nil
}

func TestMediaHandlerUploadParsesAcceptedKinds(t *testing.T) {
	srv := &fakeMediaSrv{}
	r := testRouter(http.MethodPost, "/admin/media", NewMediaHandler(srv).Upload)

	rec := doMultipart(t, r, "/admin/media?accept=image,video", nil, "x.png", "image/png", []byte{0x89, 0x50, 0x4E, 0x47})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []mediatype.Kind{mediatype.KindImage, mediatype.KindVideo}, srv.upload.Accept)
	assert.Equal(t, "x.png", srv.upload.Filename)
}

func TestMediaHandlerUploadRejectsUnknownAccept(t *testing.T) {
	r := testRouter(http.MethodPost, "/admin/media", NewMediaHandler(&fakeMediaSrv{}).Upload)

	rec := doMultipart(t, r, "/admin/media?accept=audio", nil, "x.mp3", "audio/mpeg", []byte("ID3"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMediaHandlerListDefaultsToAll(t *testing.T) {
	srv := &fakeMediaSrv{}
	r := testRouter(http.MethodGet, "/admin/media", NewMediaHandler(srv).List)

	rec := doJSON(r, http.MethodGet, "/admin/media", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "all", srv.kind)
	assert.Equal(t, float64(1), decodeEnvelope(t, rec).Meta["count"])
}

func TestMediaHandlerRemove(t *testing.T) {
	srv := &fakeMediaSrv{}
	r := testRouter(http.MethodDelete, "/admin/media", NewMediaHandler(srv).Remove)

	rec := doJSON(r, http.MethodDelete, "/admin/media?path=media/a.jpg", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "media/a.jpg", srv.removed)

	rec = doJSON(r, http.MethodDelete, "/admin/media", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestParseAcceptedKinds(t *testing.T) {
	kinds, err := parseAcceptedKinds("")
	require.NoError(t, err)
	assert.Nil(t, kinds)

	kinds, err = parseAcceptedKinds(" Any ")
	require.NoError(t, err)
	assert.Equal(t, []mediatype.Kind{mediatype.KindAny}, kinds)

	_, err = parseAcceptedKinds("image,pdf")
	assert.Error(t, err)
}
