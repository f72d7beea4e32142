package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

// EbookRepository handles e-book metadata persistence.
type EbookRepository struct {
	db *sqlx.DB
}

// NewEbookRepository constructs the repository.
func NewEbookRepository(db *sqlx.DB) *EbookRepository {
	return &EbookRepository{db: db}
}

// Create stores metadata for an uploaded e-book file.
func (r *EbookRepository) Create(ctx context.Context, file *models.EbookFile) error {
	if file.ID == "" {
		file.ID = uuid.NewString()
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO ebook_files (id, title, file_path, mime_type, size_bytes, created_at)
VALUES (:id, :title, :file_path, :mime_type, :size_bytes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, file); err != nil {
		return fmt.Errorf("create ebook file: %w", err)
	}
	return nil
}

// GetByID retrieves one e-book row.
func (r *EbookRepository) GetByID(ctx context.Context, id string) (*models.EbookFile, error) {
	const query = `SELECT id, title, file_path, mime_type, size_bytes, created_at FROM ebook_files WHERE id = $1`
	var file models.EbookFile
	if err := r.db.GetContext(ctx, &file, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("get ebook file: %w", err)
	}
	return &file, nil
}

// List returns every e-book version, newest first.
func (r *EbookRepository) List(ctx context.Context) ([]models.EbookFile, error) {
	const query = `SELECT id, title, file_path, mime_type, size_bytes, created_at FROM ebook_files ORDER BY created_at DESC`
	files := make([]models.EbookFile, 0)
	if err := r.db.SelectContext(ctx, &files, query); err != nil {
		return nil, fmt.Errorf("list ebook files: %w", err)
	}
	return files, nil
}
