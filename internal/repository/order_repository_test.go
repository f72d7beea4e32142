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

var orderRowColumns = []string{"id", "name", "mobile", "sender_bkash", "status", "notes", "ebook_file_id", "created_at", "confirmed_at"}

func TestOrderRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(1, 1))

	order := &models.Order{Name: "Rina", Mobile: "01711111111", SenderBkash: "01722222222", Status: models.OrderStatusPending}
	require.NoError(t, repo.Create(context.Background(), order))
	assert.NotEmpty(t, order.ID)
	assert.False(t, order.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryListAppliesFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)
	rows := sqlmock.NewRows(orderRowColumns).
		AddRow("o1", "Rina", "01711111111", "01722222222", "pending", nil, nil, from, nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM orders WHERE status = $1 AND (name ILIKE $2 OR mobile ILIKE $2 OR sender_bkash ILIKE $2) AND created_at >= $3 AND created_at <= $4 ORDER BY created_at DESC LIMIT 50")).
		WithArgs(models.OrderStatusPending, `%50\%%`, from, to).
		WillReturnRows(rows)

	orders, err := repo.List(context.Background(), models.OrderFilter{
		Search:      " 50% ",
		Status:      models.OrderStatusPending,
		CreatedFrom: &from,
		CreatedTo:   &to,
		Limit:       50,
	})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusPending, orders[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryListWithoutFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows(orderRowColumns))

	orders, err := repo.List(context.Background(), models.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderRepositoryCountByStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE status = 'pending')")).
		WillReturnRows(sqlmock.NewRows([]string{"total", "pending", "confirmed", "rejected"}).AddRow(6, 3, 2, 1))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCounts{Total: 6, Pending: 3, Confirmed: 2, Rejected: 1}, counts)
}

func TestOrderRepositoryUpdateStatusStampsConfirmation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("confirmed_at = GREATEST($3::timestamptz, created_at)")).
		WithArgs("o1", models.OrderStatusConfirmed, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateStatus(context.Background(), "o1", models.OrderStatusConfirmed, &now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryUpdateStatusMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $2 WHERE id = $1")).
		WithArgs("missing", models.OrderStatusRejected).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), "missing", models.OrderStatusRejected, nil)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestOrderRepositoryBulkUpdateStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET status = $1, confirmed_at = GREATEST($2::timestamptz, created_at), ebook_file_id = $3 WHERE id = ANY($4)")).
		WithArgs(models.OrderStatusConfirmed, now, "e1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	updated, err := repo.BulkUpdateStatus(context.Background(), []string{"o1", "o2"}, models.OrderStatusConfirmed, &now, strPtr("e1"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryAssignEbookAndNotes(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET ebook_file_id = $2")).
		WithArgs("o1", "e1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE orders SET notes = $2")).
		WithArgs("o1", "called back").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AssignEbook(context.Background(), "o1", strPtr("e1")))
	require.NoError(t, repo.UpdateNotes(context.Background(), "o1", strPtr("called back")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderRepositoryDeleteAll(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders")).WillReturnResult(sqlmock.NewResult(0, 12))

	deleted, err := repo.DeleteAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), deleted)
}

func TestOrderRepositoryStatusPointsSince(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewOrderRepository(db)

	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT status, created_at FROM orders WHERE created_at >=").
		WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"status", "created_at"}).AddRow("confirmed", since.Add(time.Hour)))

	points, err := repo.StatusPointsSince(context.Background(), since)
	require.NoError(t, err)
	require.Len(t, points, 1)
	assert.Equal(t, models.OrderStatusConfirmed, points[0].Status)
}
