package models

import "time"

// EbookFile is the metadata row for an uploaded e-book version.
type EbookFile struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	FilePath  string    `db:"file_path" json:"file_path"`
	MimeType  *string   `db:"mime_type" json:"mime_type"`
	SizeBytes *int64    `db:"size_bytes" json:"size_bytes"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
