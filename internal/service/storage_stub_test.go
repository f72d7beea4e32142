package service

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fahimunoffice-stack/her-well-being/pkg/storage"
)

type storedObject struct {
	data        []byte
	contentType string
	updatedAt   time.Time
}

type objectStoreStub struct {
	mu      sync.Mutex
	objects map[string]storedObject
	putErr  error
	signErr error
	removed []string
}

func newObjectStoreStub() *objectStoreStub {
	return &objectStoreStub{objects: make(map[string]storedObject)}
}

func (s *objectStoreStub) Put(ctx context.Context, bucket, key string, body io.Reader, opts storage.PutOptions) error {
	if s.putErr != nil {
		return s.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	full := bucket + "/" + key
	if _, exists := s.objects[full]; exists {
		return storage.ErrObjectExists
	}
	s.objects[full] = storedObject{data: data, contentType: opts.ContentType, updatedAt: time.Now()}
	return nil
}

func (s *objectStoreStub) List(ctx context.Context, bucket, prefix string) ([]storage.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]storage.Object, 0, len(s.objects))
	for full, obj := range s.objects {
		key := strings.TrimPrefix(full, bucket+"/")
		if key == full || !strings.HasPrefix(key, prefix) {
			continue
		}
		out = append(out, storage.Object{Key: key, Size: int64(len(obj.data)), ContentType: obj.contentType, UpdatedAt: obj.updatedAt})
	}
	return out, nil
}

func (s *objectStoreStub) Remove(ctx context.Context, bucket string, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.objects, bucket+"/"+key)
		s.removed = append(s.removed, key)
	}
	return nil
}

func (s *objectStoreStub) SignURL(ctx context.Context, bucket, key string, ttl time.Duration) (storage.SignedURL, error) {
	if s.signErr != nil {
		return storage.SignedURL{}, s.signErr
	}
	return storage.SignedURL{URL: "https://files.test/sign/" + bucket + "/" + key, ExpiresAt: time.Now().Add(ttl)}, nil
}

func (s *objectStoreStub) PublicURL(bucket, key string) string {
	return "https://files.test/public/" + bucket + "/" + key
}

func (s *objectStoreStub) put(bucket, key string, data []byte, updatedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[bucket+"/"+key] = storedObject{data: data, updatedAt: updatedAt}
}
