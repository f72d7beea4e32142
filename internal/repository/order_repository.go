package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

const orderColumns = `id, name, mobile, sender_bkash, status, notes, ebook_file_id, created_at, confirmed_at`

// OrderRepository persists orders.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository constructs the repository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order row.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.NewString()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO orders (id, name, mobile, sender_bkash, status, notes, ebook_file_id, created_at, confirmed_at)
VALUES (:id, :name, :mobile, :sender_bkash, :status, :notes, :ebook_file_id, :created_at, :confirmed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, order); err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// GetByID returns one order. sql.ErrNoRows is returned unwrapped when missing.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	var order models.Order
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

// List returns orders matching filter, newest first.
func (r *OrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, error) {
	builder := strings.Builder{}
	builder.WriteString(`SELECT ` + orderColumns + ` FROM orders`)
	args := make([]interface{}, 0, 4)
	conditions := make([]string, 0, 4)

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(name ILIKE $%d OR mobile ILIKE $%d OR sender_bkash ILIKE $%d)", n, n, n))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	if len(conditions) > 0 {
		builder.WriteString(" WHERE ")
		builder.WriteString(strings.Join(conditions, " AND "))
	}
	builder.WriteString(" ORDER BY created_at DESC")
	if filter.Limit > 0 {
		builder.WriteString(fmt.Sprintf(" LIMIT %d", filter.Limit))
	}

	orders := make([]models.Order, 0)
	if err := r.db.SelectContext(ctx, &orders, builder.String(), args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// CountByStatus returns per-status totals over the whole table.
func (r *OrderRepository) CountByStatus(ctx context.Context) (models.OrderStatusCounts, error) {
	const query = `SELECT COUNT(*) AS total,
       COUNT(*) FILTER (WHERE status = 'pending') AS pending,
       COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed,
       COUNT(*) FILTER (WHERE status = 'rejected') AS rejected
FROM orders`
	var counts models.OrderStatusCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return models.OrderStatusCounts{}, fmt.Errorf("count orders by status: %w", err)
	}
	return counts, nil
}

// UpdateStatus sets the status of one order. A non-nil confirmedAt also stamps
// confirmed_at, never earlier than the order's creation time.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, confirmedAt *time.Time) error {
	var (
		res sql.Result
		err error
	)
	if confirmedAt != nil {
		res, err = r.db.ExecContext(ctx, `UPDATE orders SET status = $2, confirmed_at = GREATEST($3::timestamptz, created_at) WHERE id = $1`, id, status, *confirmedAt)
	} else {
		res, err = r.db.ExecContext(ctx, `UPDATE orders SET status = $2 WHERE id = $1`, id, status)
	}
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return requireAffected(res, "update order status")
}

// BulkUpdateStatus applies one status, and optionally an e-book, to every id in a single statement.
func (r *OrderRepository) BulkUpdateStatus(ctx context.Context, ids []string, status models.OrderStatus, confirmedAt *time.Time, ebookFileID *string) (int64, error) {
	args := []interface{}{status}
	sets := []string{"status = $1"}
	if confirmedAt != nil {
		args = append(args, *confirmedAt)
		sets = append(sets, fmt.Sprintf("confirmed_at = GREATEST($%d::timestamptz, created_at)", len(args)))
	}
	if ebookFileID != nil {
		args = append(args, *ebookFileID)
		sets = append(sets, fmt.Sprintf("ebook_file_id = $%d", len(args)))
	}
	args = append(args, pq.Array(ids))
	query := fmt.Sprintf(`UPDATE orders SET %s WHERE id = ANY($%d)`, strings.Join(sets, ", "), len(args))

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk update order status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("bulk update order status rows: %w", err)
	}
	return affected, nil
}

// AssignEbook sets or clears the e-book linked to an order.
func (r *OrderRepository) AssignEbook(ctx context.Context, id string, ebookFileID *string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET ebook_file_id = $2 WHERE id = $1`, id, ebookFileID)
	if err != nil {
		return fmt.Errorf("assign order ebook: %w", err)
	}
	return requireAffected(res, "assign order ebook")
}

// UpdateNotes replaces the internal notes of an order.
func (r *OrderRepository) UpdateNotes(ctx context.Context, id string, notes *string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET notes = $2 WHERE id = $1`, id, notes)
	if err != nil {
		return fmt.Errorf("update order notes: %w", err)
	}
	return requireAffected(res, "update order notes")
}

// DeleteAll removes every order row.
func (r *OrderRepository) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders`)
	if err != nil {
		return 0, fmt.Errorf("delete all orders: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete all orders rows: %w", err)
	}
	return affected, nil
}

// StatusPointsSince returns status and creation time of orders created at or after since.
func (r *OrderRepository) StatusPointsSince(ctx context.Context, since time.Time) ([]models.OrderStatusPoint, error) {
	const query = `SELECT status, created_at FROM orders WHERE created_at >= $1 ORDER BY created_at ASC`
	points := make([]models.OrderStatusPoint, 0)
	if err := r.db.SelectContext(ctx, &points, query, since); err != nil {
		return nil, fmt.Errorf("list order status points: %w", err)
	}
	return points, nil
}

func requireAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
