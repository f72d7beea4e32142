package repository

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

func TestContentRepositoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	rows := sqlmock.NewRows([]string{"key", "value", "updated_by", "updated_at"}).
		AddRow("price", []byte(`"350"`), "u1", time.Now())
	mock.ExpectQuery("SELECT key, value, updated_by, updated_at FROM site_content").WillReturnRows(rows)

	entries, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.JSONEq(t, `"350"`, string(entries[0].Value))
}

func TestContentRepositoryUpsertSendsJSONText(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("CAST($2 AS jsonb)")).
		WithArgs("faq", `[{"question":"q","answer":"a"}]`, "u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.SiteContentEntry{Key: "faq", Value: json.RawMessage(`[{"question":"q","answer":"a"}]`), UpdatedBy: strPtr("u1")}
	require.NoError(t, repo.Upsert(context.Background(), entry))
	assert.False(t, entry.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentRepositoryBulkUpsertRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewContentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO site_content").
		WithArgs("price", `"300"`, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO site_content").
		WithArgs("bkash_number", `"017"`, nil, sqlmock.AnyArg()).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.BulkUpsert(context.Background(), []models.SiteContentEntry{
		{Key: "price", Value: json.RawMessage(`"300"`)},
		{Key: "bkash_number", Value: json.RawMessage(`"017"`)},
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
