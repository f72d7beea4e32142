package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"
)

// LocalStore keeps objects on disk under <baseDir>/<bucket>/<key> and signs
// download links with an HMAC token served by the storage HTTP routes.
type LocalStore struct {
	baseDir string
	baseURL string
	signer  *Signer
}

// NewLocalStore ensures the base directory exists and returns a handle.
func NewLocalStore(baseDir, baseURL string, signer *Signer) (*LocalStore, error) {
	if baseDir == "" {
		baseDir = "./storage"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	if signer == nil {
		return nil, fmt.Errorf("signer required")
	}
	return &LocalStore{baseDir: baseDir, baseURL: baseURL, signer: signer}, nil
}

// Put writes body to a new file, refusing to replace an existing one.
func (s *LocalStore) Put(ctx context.Context, bucket, key string, body io.Reader, _ PutOptions) error {
	target, err := s.resolve(bucket, key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("prepare object directory: %w", err)
	}
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ErrObjectExists
		}
		return fmt.Errorf("create object: %w", err)
	}
	if _, err := io.Copy(file, body); err != nil {
		_ = file.Close()
		_ = os.Remove(target)
		return fmt.Errorf("write object: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(target)
		return fmt.Errorf("close object: %w", err)
	}
	return nil
}

// List returns the files stored directly under prefix.
func (s *LocalStore) List(ctx context.Context, bucket, prefix string) ([]Object, error) {
	dir := filepath.Join(s.baseDir, filepath.FromSlash(bucket))
	cleanPrefix := ""
	if prefix != "" {
		p, err := CleanKey(prefix)
		if err != nil {
			return nil, err
		}
		cleanPrefix = p
		dir = filepath.Join(dir, filepath.FromSlash(p))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Object{}, nil
		}
		return nil, fmt.Errorf("list objects: %w", err)
	}

	objects := make([]Object, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat object: %w", err)
		}
		objects = append(objects, Object{
			Key:         path.Join(cleanPrefix, entry.Name()),
			Size:        info.Size(),
			ContentType: mime.TypeByExtension(filepath.Ext(entry.Name())),
			UpdatedAt:   info.ModTime(),
		})
	}
	return objects, nil
}

// Remove deletes stored objects; missing ones are ignored.
func (s *LocalStore) Remove(_ context.Context, bucket string, keys ...string) error {
	for _, key := range keys {
		target, err := s.resolve(bucket, key)
		if err != nil {
			return err
		}
		if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete object: %w", err)
		}
	}
	return nil
}

// SignURL issues a link to the signed download route.
func (s *LocalStore) SignURL(_ context.Context, bucket, key string, ttl time.Duration) (SignedURL, error) {
	cleaned, err := CleanKey(key)
	if err != nil {
		return SignedURL{}, err
	}
	if _, err := os.Stat(filepath.Join(s.baseDir, bucket, filepath.FromSlash(cleaned))); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return SignedURL{}, ErrObjectNotFound
		}
		return SignedURL{}, fmt.Errorf("stat object: %w", err)
	}
	token, expiresAt, err := s.signer.Sign(bucket, cleaned, ttl)
	if err != nil {
		return SignedURL{}, fmt.Errorf("sign object: %w", err)
	}
	link := joinURL(s.baseURL, "storage/v1/object/sign", bucket, cleaned) + "?token=" + url.QueryEscape(token)
	return SignedURL{URL: link, ExpiresAt: expiresAt}, nil
}

// PublicURL returns the link served by the public object route.
func (s *LocalStore) PublicURL(bucket, key string) string {
	return joinURL(s.baseURL, "storage/v1/object/public", bucket, key)
}

// Open returns a read handle for a stored object.
func (s *LocalStore) Open(bucket, key string) (*os.File, Object, error) {
	target, err := s.resolve(bucket, key)
	if err != nil {
		return nil, Object{}, err
	}
	file, err := os.Open(target)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, Object{}, ErrObjectNotFound
		}
		return nil, Object{}, fmt.Errorf("open object: %w", err)
	}
	info, err := file.Stat()
	if err != nil || info.IsDir() {
		_ = file.Close()
		return nil, Object{}, ErrObjectNotFound
	}
	cleaned, _ := CleanKey(key)
	return file, Object{
		Key:         cleaned,
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(target)),
		UpdatedAt:   info.ModTime(),
	}, nil
}

// OpenSigned validates token against bucket/key before opening the object.
func (s *LocalStore) OpenSigned(bucket, key, token string) (*os.File, Object, error) {
	tokenBucket, tokenKey, _, err := s.signer.Verify(token)
	if err != nil {
		return nil, Object{}, err
	}
	cleaned, err := CleanKey(key)
	if err != nil {
		return nil, Object{}, err
	}
	if tokenBucket != bucket || tokenKey != cleaned {
		return nil, Object{}, ErrTokenInvalid
	}
	return s.Open(bucket, cleaned)
}

func (s *LocalStore) resolve(bucket, key string) (string, error) {
	if bucket == "" {
		return "", ErrInvalidKey
	}
	cleaned, err := CleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(bucket), filepath.FromSlash(cleaned)), nil
}
