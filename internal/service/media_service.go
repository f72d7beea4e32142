package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
	"github.com/fahimunoffice-stack/her-well-being/pkg/mediatype"
	"github.com/fahimunoffice-stack/her-well-being/pkg/storage"
)

const mediaNamespace = "media/"

var (
	imageExtPattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp)$`)
	videoExtPattern = regexp.MustCompile(`(?i)\.(mp4|webm|mov)$`)
)

// MediaServiceConfig bounds uploads and listings of the media library.
type MediaServiceConfig struct {
	Bucket      string
	MaxFileSize int64
	ListLimit   int
}

// MediaService manages images and videos referenced by site content.
type MediaService struct {
	store   storage.ObjectStore
	audit   auditLogger
	metrics *MetricsService
	logger  *zap.Logger
	cfg     MediaServiceConfig
}

// NewMediaService constructs a MediaService.
func NewMediaService(store storage.ObjectStore, audit auditLogger, metrics *MetricsService, logger *zap.Logger, cfg MediaServiceConfig) *MediaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "media"
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 50 * 1024 * 1024
	}
	if cfg.ListLimit <= 0 {
		cfg.ListLimit = 200
	}
	return &MediaService{store: store, audit: audit, metrics: metrics, logger: logger, cfg: cfg}
}

// Upload stores a media file under a fresh media/<uuid>.<ext> path.
func (s *MediaService) Upload(ctx context.Context, upload dto.MediaUpload, actor models.Actor) (*dto.MediaItem, error) {
	if upload.Content == nil || upload.Size <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if upload.Size > s.cfg.MaxFileSize {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("file exceeds %d bytes limit", s.cfg.MaxFileSize))
	}

	prefix := make([]byte, mediatype.SniffLength)
	n, err := io.ReadFull(upload.Content, prefix)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect file")
	}
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
	}

	detected := mediatype.Resolve(upload.MimeType, upload.Filename, prefix[:n])
	kind := detected.Kind()
	if !mediatype.Accepts(upload.Accept, kind) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s files are not accepted here", detected.MIME))
	}

	key := mediaNamespace + uuid.NewString() + "." + detected.Extension
	start := time.Now()
	err = s.store.Put(ctx, s.cfg.Bucket, key, upload.Content, storage.PutOptions{ContentType: detected.MIME, Size: upload.Size})
	s.metrics.ObserveStorage(s.cfg.Bucket, "put", err, time.Since(start))
	if err != nil {
		if errors.Is(err, storage.ErrObjectExists) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a file already exists at this path")
		}
		s.logger.Error("failed to store media", zap.String("key", key), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpload.Code, appErrors.ErrUpload.Status, appErrors.ErrUpload.Message)
	}

	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionMediaUpload, "media", key, map[string]interface{}{
		"content_type": detected.MIME,
		"size":         upload.Size,
	})
	return &dto.MediaItem{
		Path:        key,
		PublicURL:   s.store.PublicURL(s.cfg.Bucket, key),
		ContentType: detected.MIME,
		Kind:        kind,
		Size:        upload.Size,
		UpdatedAt:   time.Now().UTC(),
	}, nil
}

// List returns media objects, most recently updated first. kind is one of
// image, video or all; anything else behaves like all.
func (s *MediaService) List(ctx context.Context, kind string) ([]dto.MediaItem, error) {
	start := time.Now()
	objects, err := s.store.List(ctx, s.cfg.Bucket, mediaNamespace)
	s.metrics.ObserveStorage(s.cfg.Bucket, "list", err, time.Since(start))
	if err != nil {
		s.logger.Error("failed to list media", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list media")
	}

	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].UpdatedAt.After(objects[j].UpdatedAt)
	})
	if len(objects) > s.cfg.ListLimit {
		objects = objects[:s.cfg.ListLimit]
	}

	items := make([]dto.MediaItem, 0, len(objects))
	for _, obj := range objects {
		itemKind := kindFromPath(obj.Key)
		switch strings.ToLower(kind) {
		case string(mediatype.KindImage), string(mediatype.KindVideo):
			if string(itemKind) != strings.ToLower(kind) {
				continue
			}
		}
		items = append(items, dto.MediaItem{
			Path:        obj.Key,
			PublicURL:   s.store.PublicURL(s.cfg.Bucket, obj.Key),
			ContentType: obj.ContentType,
			Kind:        itemKind,
			Size:        obj.Size,
			UpdatedAt:   obj.UpdatedAt,
		})
	}
	return items, nil
}

// Remove deletes one media object. References from site content are not checked.
func (s *MediaService) Remove(ctx context.Context, path string, actor models.Actor) error {
	key, err := storage.CleanKey(path)
	if err != nil || !strings.HasPrefix(key, mediaNamespace) {
		return appErrors.Clone(appErrors.ErrValidation, "path must point inside media/")
	}
	start := time.Now()
	err = s.store.Remove(ctx, s.cfg.Bucket, key)
	s.metrics.ObserveStorage(s.cfg.Bucket, "remove", err, time.Since(start))
	if err != nil {
		s.logger.Error("failed to remove media", zap.String("key", key), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove media")
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionMediaRemove, "media", key, nil)
	return nil
}

// ResolvePublicURL maps stored media paths to their public URL and returns
// anything else unchanged.
func (s *MediaService) ResolvePublicURL(value string) string {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, mediaNamespace) {
		return value
	}
	return s.store.PublicURL(s.cfg.Bucket, trimmed)
}

func kindFromPath(key string) mediatype.Kind {
	switch {
	case imageExtPattern.MatchString(key):
		return mediatype.KindImage
	case videoExtPattern.MatchString(key):
		return mediatype.KindVideo
	default:
		return mediatype.KindOther
	}
}
