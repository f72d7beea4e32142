package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

// OrderPresetRepository stores saved order list filters per admin.
type OrderPresetRepository struct {
	db *sqlx.DB
}

// NewOrderPresetRepository constructs the repository.
func NewOrderPresetRepository(db *sqlx.DB) *OrderPresetRepository {
	return &OrderPresetRepository{db: db}
}

// ListByUser returns a user's presets, newest first.
func (r *OrderPresetRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.OrderFilterPreset, error) {
	const query = `SELECT id, user_id, name, search, status, from_date, to_date, created_at
FROM order_filter_presets WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	presets := make([]models.OrderFilterPreset, 0)
	if err := r.db.SelectContext(ctx, &presets, query, userID, limit); err != nil {
		return nil, fmt.Errorf("list order presets: %w", err)
	}
	return presets, nil
}

// Create stores a preset and drops the user's oldest ones beyond keep.
func (r *OrderPresetRepository) Create(ctx context.Context, preset *models.OrderFilterPreset, keep int) error {
	if preset.ID == "" {
		preset.ID = uuid.NewString()
	}
	if preset.CreatedAt.IsZero() {
		preset.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin order preset tx: %w", err)
	}
	const insert = `INSERT INTO order_filter_presets (id, user_id, name, search, status, from_date, to_date, created_at)
VALUES (:id, :user_id, :name, :search, :status, :from_date, :to_date, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insert, preset); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("create order preset: %w", err)
	}
	const trim = `DELETE FROM order_filter_presets WHERE user_id = $1 AND id NOT IN (
	SELECT id FROM order_filter_presets WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2)`
	if _, err := tx.ExecContext(ctx, trim, preset.UserID, keep); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("trim order presets: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit order preset tx: %w", err)
	}
	return nil
}

// Delete removes one of the user's presets.
func (r *OrderPresetRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM order_filter_presets WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete order preset: %w", err)
	}
	return requireAffected(res, "delete order preset")
}
