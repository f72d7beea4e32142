package dto

import (
	"io"
	"time"

	"github.com/fahimunoffice-stack/her-well-being/pkg/mediatype"
)

// MediaUpload is a file received for the media library.
type MediaUpload struct {
	Filename string
	MimeType string
	Size     int64
	Content  io.ReadSeeker
	Accept   []mediatype.Kind
}

// MediaItem is a stored media object with its public URL.
type MediaItem struct {
	Path        string         `json:"path"`
	PublicURL   string         `json:"public_url"`
	ContentType string         `json:"content_type,omitempty"`
	Kind        mediatype.Kind `json:"kind"`
	Size        int64          `json:"size"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
