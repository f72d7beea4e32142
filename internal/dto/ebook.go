package dto

import (
	"io"

	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

// EbookUpload is a file received for a new e-book version.
type EbookUpload struct {
	Title    string
	Filename string
	MimeType string
	Size     int64
	Content  io.ReadSeeker
}

// EbookList is the e-book versions page payload.
type EbookList struct {
	Items      []models.EbookFile `json:"items"`
	TotalBytes int64              `json:"total_bytes"`
}

// EbookDownloadLinkRequest asks for a signed link to a stored e-book.
type EbookDownloadLinkRequest struct {
	Path string `json:"path" validate:"required"`
}
