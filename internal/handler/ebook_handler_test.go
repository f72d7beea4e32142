package handler

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
	"github.com/fahimunoffice-stack/her-well-being/pkg/storage"
)

type fakeEbookSrv struct {
	upload   dto.EbookUpload
	body     []byte
	linkPath string
}

func (f *fakeEbookSrv) Upload(_ context.Context, upload dto.EbookUpload, _ models.Actor) (*models.EbookFile, error) {
	f.upload = upload
	f.body, _ = io.ReadAll(upload.Content)
	return &models.EbookFile{ID: "e-1", Title: upload.Title, FilePath: "uuid-" + upload.Filename}, nil
}

func (f *fakeEbookSrv) List(context.Context) (*dto.EbookList, error) {
	return &dto.EbookList{Items: []models.EbookFile{{ID: "e-2"}, {ID: "e-1"}}, TotalBytes: 2048}, nil
}

func (f *fakeEbookSrv) CreateDownloadLink(_ context.Context, req dto.EbookDownloadLinkRequest, _ models.Actor) (*storage.SignedURL, error) {
	f.linkPath = req.Path
	if req.Path == "broken.pdf" {
		return nil, appErrors.Clone(appErrors.ErrDownload, "")
	}
	return &storage.SignedURL{URL: "https://files.test/sign/ebooks/" + req.Path}, nil
}

func TestEbookHandlerUploadPassesFile(t *testing.T) {
	srv := &fakeEbookSrv{}
	r := testRouter(http.MethodPost, "/admin/ebooks", NewEbookHandler(srv).Upload)

	rec := doMultipart(t, r, "/admin/ebooks", map[string]string{"title": " Home Doctor v2 "}, "book.pdf", "application/pdf", []byte("%PDF-1.7"))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Home Doctor v2", srv.upload.Title)
	assert.Equal(t, "book.pdf", srv.upload.Filename)
	assert.Equal(t, "application/pdf", srv.upload.MimeType)
	assert.Equal(t, int64(8), srv.upload.Size)
	assert.Equal(t, []byte("%PDF-1.7"), srv.body)
}

func TestEbookHandlerUploadRequiresTitleAndFile(t *testing.T) {
	r := testRouter(http.MethodPost, "/admin/ebooks", NewEbookHandler(&fakeEbookSrv{}).Upload)

	rec := doMultipart(t, r, "/admin/ebooks", nil, "book.pdf", "application/pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title is required", decodeEnvelope(t, rec).Error["message"])

	rec = doMultipart(t, r, "/admin/ebooks", map[string]string{"title": "x"}, "", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "file is required", decodeEnvelope(t, rec).Error["message"])
}

func TestEbookHandlerListReportsTotalSize(t *testing.T) {
	r := testRouter(http.MethodGet, "/admin/ebooks", NewEbookHandler(&fakeEbookSrv{}).List)

	rec := doJSON(r, http.MethodGet, "/admin/ebooks", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, float64(2048), env.Meta["total_bytes"])
	assert.Equal(t, float64(2), env.Meta["count"])
}

func TestEbookHandlerDownloadLink(t *testing.T) {
	srv := &fakeEbookSrv{}
	r := testRouter(http.MethodPost, "/admin/ebooks/download-link", NewEbookHandler(srv).DownloadLink)

	rec := doJSON(r, http.MethodPost, "/admin/ebooks/download-link", map[string]string{"path": "a.pdf"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a.pdf", srv.linkPath)

	rec = doJSON(r, http.MethodPost, "/admin/ebooks/download-link", map[string]string{"path": "broken.pdf"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
