package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

func TestOrderPresetRepositoryCreateTrimsOldest(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOrderPresetRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO order_filter_presets").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM order_filter_presets WHERE user_id = $1 AND id NOT IN")).
		WithArgs("u1", 20).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	preset := &models.OrderFilterPreset{UserID: "u1", Name: "Pending this week", Status: "pending"}
	require.NoError(t, repo.Create(context.Background(), preset, 20))
	assert.NotEmpty(t, preset.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderPresetRepositoryListByUser(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOrderPresetRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "name", "search", "status", "from_date", "to_date", "created_at"}).
		AddRow("p1", "u1", "All", "", "all", "", "", time.Now())
	mock.ExpectQuery("FROM order_filter_presets WHERE user_id").WithArgs("u1", 20).WillReturnRows(rows)

	presets, err := repo.ListByUser(context.Background(), "u1", 20)
	require.NoError(t, err)
	require.Len(t, presets, 1)
	assert.Equal(t, "All", presets[0].Name)
}

func TestOrderPresetRepositoryDeleteOtherUsersPreset(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOrderPresetRepository(db)

	mock.ExpectExec("DELETE FROM order_filter_presets WHERE id").
		WithArgs("p1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "u2", "p1")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
