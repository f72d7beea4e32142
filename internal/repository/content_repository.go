package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

const upsertContentQuery = `INSERT INTO site_content (key, value, updated_by, updated_at)
VALUES ($1, CAST($2 AS jsonb), $3, $4)
ON CONFLICT (key)
DO UPDATE SET value = EXCLUDED.value, updated_by = EXCLUDED.updated_by, updated_at = EXCLUDED.updated_at`

// ContentRepository persists site content entries.
type ContentRepository struct {
	db *sqlx.DB
}

// NewContentRepository constructs the repository.
func NewContentRepository(db *sqlx.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// List returns every stored content entry.
func (r *ContentRepository) List(ctx context.Context) ([]models.SiteContentEntry, error) {
	const query = `SELECT key, value, updated_by, updated_at FROM site_content ORDER BY key ASC`
	entries := make([]models.SiteContentEntry, 0)
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list site content: %w", err)
	}
	return entries, nil
}

// Get fetches a single entry by key. sql.ErrNoRows is returned unwrapped when missing.
func (r *ContentRepository) Get(ctx context.Context, key string) (*models.SiteContentEntry, error) {
	const query = `SELECT key, value, updated_by, updated_at FROM site_content WHERE key = $1`
	var entry models.SiteContentEntry
	if err := r.db.GetContext(ctx, &entry, query, key); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get site content: %w", err)
	}
	return &entry, nil
}

// Upsert inserts or overwrites one entry.
func (r *ContentRepository) Upsert(ctx context.Context, entry *models.SiteContentEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, upsertContentQuery, entry.Key, string(entry.Value), entry.UpdatedBy, entry.UpdatedAt); err != nil {
		return fmt.Errorf("upsert site content: %w", err)
	}
	return nil
}

// BulkUpsert writes several entries in one transaction.
func (r *ContentRepository) BulkUpsert(ctx context.Context, entries []models.SiteContentEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin site content tx: %w", err)
	}
	now := time.Now().UTC()
	for i := range entries {
		entries[i].UpdatedAt = now
		if _, err := tx.ExecContext(ctx, upsertContentQuery, entries[i].Key, string(entries[i].Value), entries[i].UpdatedBy, now); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("bulk upsert site content: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit site content tx: %w", err)
	}
	return nil
}
