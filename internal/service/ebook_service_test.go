package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
)

type ebookRepoStub struct {
	files     []models.EbookFile
	createErr error
}

func (r *ebookRepoStub) Create(ctx context.Context, file *models.EbookFile) error {
	if r.createErr != nil {
		return r.createErr
	}
	file.ID = "ebook-1"
	file.CreatedAt = time.Now()
	r.files = append(r.files, *file)
	return nil
}

func (r *ebookRepoStub) List(ctx context.Context) ([]models.EbookFile, error) {
	return r.files, nil
}

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n")

func pdfUpload(name string) dto.EbookUpload {
	return dto.EbookUpload{
		Title:    "Home Doctor v2",
		Filename: name,
		Size:     int64(len(pdfBytes)),
		Content:  bytes.NewReader(pdfBytes),
	}
}

func TestEbookServiceUploadSanitisesAndStores(t *testing.T) {
	repo := &ebookRepoStub{}
	store := newObjectStoreStub()
	audit := &auditStub{}
	svc := NewEbookService(repo, store, audit, nil, nil, EbookServiceConfig{})

	file, err := svc.Upload(context.Background(), pdfUpload("my book (final).pdf"), models.Actor{UserID: "admin-1"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(file.FilePath, "-my_book__final_.pdf"), file.FilePath)
	require.NotNil(t, file.MimeType)
	assert.Equal(t, "application/pdf", *file.MimeType)
	require.NotNil(t, file.SizeBytes)
	assert.Equal(t, int64(len(pdfBytes)), *file.SizeBytes)

	stored, ok := store.objects["ebooks/"+file.FilePath]
	require.True(t, ok)
	assert.Equal(t, pdfBytes, stored.data)
	assert.Equal(t, []string{models.AuditActionEbookUpload}, audit.actions())
}

func TestEbookServiceUploadValidation(t *testing.T) {
	svc := NewEbookService(&ebookRepoStub{}, newObjectStoreStub(), nil, nil, nil, EbookServiceConfig{MaxFileSize: 10})
	ctx := context.Background()

	noTitle := pdfUpload("a.pdf")
	noTitle.Title = "  "
	_, err := svc.Upload(ctx, noTitle, models.Actor{})
	requireAppError(t, err, http.StatusBadRequest)

	_, err = svc.Upload(ctx, pdfUpload("a.pdf"), models.Actor{})
	requireAppError(t, err, http.StatusRequestEntityTooLarge)

	svc = NewEbookService(&ebookRepoStub{}, newObjectStoreStub(), nil, nil, nil, EbookServiceConfig{})
	png := dto.EbookUpload{Title: "x", Filename: "x.png", MimeType: "image/png", Size: 4, Content: bytes.NewReader([]byte{1, 2, 3, 4})}
	appErr := requireAppError(t, errOnly(svc.Upload(ctx, png, models.Actor{})), http.StatusBadRequest)
	assert.Contains(t, appErr.Message, "image/png")
}

func TestEbookServiceUploadRemovesObjectWhenInsertFails(t *testing.T) {
	repo := &ebookRepoStub{createErr: errors.New("insert failed")}
	store := newObjectStoreStub()
	svc := NewEbookService(repo, store, nil, nil, nil, EbookServiceConfig{})

	_, err := svc.Upload(context.Background(), pdfUpload("book.pdf"), models.Actor{})
	requireAppError(t, err, http.StatusInternalServerError)
	assert.Empty(t, store.objects)
	require.Len(t, store.removed, 1)
}

func TestEbookServiceUploadStorageFailure(t *testing.T) {
	store := newObjectStoreStub()
	store.putErr = errors.New("bucket unavailable")
	svc := NewEbookService(&ebookRepoStub{}, store, nil, nil, nil, EbookServiceConfig{})

	_, err := svc.Upload(context.Background(), pdfUpload("book.pdf"), models.Actor{})
	appErr := requireAppError(t, err, http.StatusBadGateway)
	assert.Equal(t, appErrors.ErrUpload.Code, appErr.Code)
}

func TestEbookServiceListTotals(t *testing.T) {
	a, b := int64(100), int64(250)
	repo := &ebookRepoStub{files: []models.EbookFile{{ID: "1", SizeBytes: &a}, {ID: "2", SizeBytes: &b}, {ID: "3"}}}
	svc := NewEbookService(repo, newObjectStoreStub(), nil, nil, nil, EbookServiceConfig{})

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list.Items, 3)
	assert.Equal(t, int64(350), list.TotalBytes)
}

func TestEbookServiceCreateDownloadLink(t *testing.T) {
	store := newObjectStoreStub()
	svc := NewEbookService(&ebookRepoStub{}, store, nil, nil, nil, EbookServiceConfig{})
	ctx := context.Background()

	link, err := svc.CreateDownloadLink(ctx, dto.EbookDownloadLinkRequest{Path: "/abc-book.pdf"}, models.Actor{})
	require.NoError(t, err)
	assert.Equal(t, "https://files.test/sign/ebooks/abc-book.pdf", link.URL)

	_, err = svc.CreateDownloadLink(ctx, dto.EbookDownloadLinkRequest{Path: "../secret"}, models.Actor{})
	requireAppError(t, err, http.StatusBadRequest)

	store.signErr = errors.New("object missing")
	_, err = svc.CreateDownloadLink(ctx, dto.EbookDownloadLinkRequest{Path: "abc-book.pdf"}, models.Actor{})
	appErr := requireAppError(t, err, http.StatusBadGateway)
	assert.Equal(t, appErrors.ErrDownload.Code, appErr.Code)
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "file", safeFilename("  "))
	assert.Equal(t, "report.pdf", safeFilename(`C:\Users\me\report.pdf`))
	assert.Equal(t, "____.pdf", safeFilename("বই ১.pdf"))
}

func errOnly(_ interface{}, err error) error {
	return err
}
