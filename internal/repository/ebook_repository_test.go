package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

func TestEbookRepositoryCreateAndList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEbookRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO ebook_files")).WillReturnResult(sqlmock.NewResult(1, 1))

	mime := "application/pdf"
	size := int64(2048)
	file := &models.EbookFile{Title: "Guide", FilePath: "abc-guide.pdf", MimeType: &mime, SizeBytes: &size}
	require.NoError(t, repo.Create(context.Background(), file))
	assert.NotEmpty(t, file.ID)

	rows := sqlmock.NewRows([]string{"id", "title", "file_path", "mime_type", "size_bytes", "created_at"}).
		AddRow(file.ID, "Guide", "abc-guide.pdf", mime, size, time.Now()).
		AddRow("old", "Guide v1", "old.pdf", nil, nil, time.Now().Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("FROM ebook_files ORDER BY created_at DESC")).WillReturnRows(rows)

	files, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Nil(t, files[1].SizeBytes)
	assert.NoError(t, mock.ExpectationsWereMet())
}
