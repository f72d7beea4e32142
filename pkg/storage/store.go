package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"
)

var (
	// ErrObjectExists is returned when a write would overwrite an existing object.
	ErrObjectExists = errors.New("storage: object already exists")
	// ErrObjectNotFound is returned when the requested object does not exist.
	ErrObjectNotFound = errors.New("storage: object not found")
	// ErrInvalidKey is returned for empty or escaping object keys.
	ErrInvalidKey = errors.New("storage: invalid object key")
)

// Object describes a stored binary.
type Object struct {
	Key         string    `json:"path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PutOptions carries the metadata recorded alongside an upload.
type PutOptions struct {
	ContentType string
	Size        int64
}

// SignedURL is a time limited link to a private object.
type SignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ObjectStore abstracts bucket based object storage.
type ObjectStore interface {
	// Put stores body under key and fails with ErrObjectExists instead of overwriting.
	Put(ctx context.Context, bucket, key string, body io.Reader, opts PutOptions) error
	// List returns the objects directly under prefix.
	List(ctx context.Context, bucket, prefix string) ([]Object, error)
	// Remove deletes the given keys. Missing keys are ignored.
	Remove(ctx context.Context, bucket string, keys ...string) error
	// SignURL issues a link that grants read access until ttl elapses.
	SignURL(ctx context.Context, bucket, key string, ttl time.Duration) (SignedURL, error)
	// PublicURL returns the unauthenticated URL for an object in a public bucket.
	PublicURL(bucket, key string) string
}

// CleanKey normalises an object key and rejects keys escaping their bucket.
func CleanKey(key string) (string, error) {
	key = strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func joinURL(base string, parts ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, part := range parts {
		part = strings.Trim(part, "/")
		if part == "" {
			continue
		}
		b.WriteByte('/')
		b.WriteString(part)
	}
	return b.String()
}
