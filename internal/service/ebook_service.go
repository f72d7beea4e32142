package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
	"github.com/fahimunoffice-stack/her-well-being/pkg/storage"
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

type ebookRepository interface {
	Create(ctx context.Context, file *models.EbookFile) error
	List(ctx context.Context) ([]models.EbookFile, error)
}

// EbookServiceConfig holds upload validation and storage parameters.
type EbookServiceConfig struct {
	Bucket       string
	MaxFileSize  int64
	AllowedMIMEs []string
	SignedURLTTL time.Duration
}

// EbookService stores e-book versions and issues download links for them.
type EbookService struct {
	repo    ebookRepository
	store   storage.ObjectStore
	audit   auditLogger
	metrics *MetricsService
	logger  *zap.Logger
	cfg     EbookServiceConfig
	mimeSet map[string]struct{}
}

// NewEbookService constructs the service with defaults.
func NewEbookService(repo ebookRepository, store storage.ObjectStore, audit auditLogger, metrics *MetricsService, logger *zap.Logger, cfg EbookServiceConfig) *EbookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Bucket == "" {
		cfg.Bucket = "ebooks"
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 100 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"application/pdf"}
	}
	if cfg.SignedURLTTL <= 0 {
		cfg.SignedURLTTL = defaultSignedTTL
	}
	mimeSet := make(map[string]struct{}, len(cfg.AllowedMIMEs))
	for _, mt := range cfg.AllowedMIMEs {
		mimeSet[strings.ToLower(mt)] = struct{}{}
	}
	return &EbookService{repo: repo, store: store, audit: audit, metrics: metrics, logger: logger, cfg: cfg, mimeSet: mimeSet}
}

// Upload stores a new e-book version and records its metadata. The stored
// object is removed again if the metadata insert fails.
func (s *EbookService) Upload(ctx context.Context, upload dto.EbookUpload, actor models.Actor) (*models.EbookFile, error) {
	title := strings.TrimSpace(upload.Title)
	if title == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	if upload.Content == nil || upload.Size <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if upload.Size > s.cfg.MaxFileSize {
		return nil, appErrors.Clone(appErrors.ErrPayloadTooLarge, fmt.Sprintf("file exceeds %d bytes limit", s.cfg.MaxFileSize))
	}
	mimeType, err := s.detectMime(upload)
	if err != nil {
		return nil, err
	}
	if _, allowed := s.mimeSet[mimeType]; !allowed {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file type %s is not allowed", mimeType))
	}

	key := uuid.NewString() + "-" + safeFilename(upload.Filename)
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
	}
	start := time.Now()
	err = s.store.Put(ctx, s.cfg.Bucket, key, upload.Content, storage.PutOptions{ContentType: mimeType, Size: upload.Size})
	s.metrics.ObserveStorage(s.cfg.Bucket, "put", err, time.Since(start))
	if err != nil {
		if errors.Is(err, storage.ErrObjectExists) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "a file with this name already exists")
		}
		s.logger.Error("failed to store ebook", zap.String("key", key), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrUpload.Code, appErrors.ErrUpload.Status, appErrors.ErrUpload.Message)
	}

	size := upload.Size
	file := &models.EbookFile{Title: title, FilePath: key, MimeType: &mimeType, SizeBytes: &size}
	if err := s.repo.Create(ctx, file); err != nil {
		if rmErr := s.store.Remove(ctx, s.cfg.Bucket, key); rmErr != nil {
			s.logger.Warn("failed to remove orphaned ebook object", zap.String("key", key), zap.Error(rmErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save ebook metadata")
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionEbookUpload, "ebook", file.ID, map[string]interface{}{
		"title": title,
		"path":  key,
		"size":  size,
	})
	return file, nil
}

// List returns all e-book versions, newest first, with their combined size.
func (s *EbookService) List(ctx context.Context) (*dto.EbookList, error) {
	files, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list ebooks")
	}
	var total int64
	for _, f := range files {
		if f.SizeBytes != nil {
			total += *f.SizeBytes
		}
	}
	return &dto.EbookList{Items: files, TotalBytes: total}, nil
}

// CreateDownloadLink signs a short lived link to a stored e-book.
func (s *EbookService) CreateDownloadLink(ctx context.Context, req dto.EbookDownloadLinkRequest, actor models.Actor) (*storage.SignedURL, error) {
	key, err := storage.CleanKey(req.Path)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "path is required")
	}
	start := time.Now()
	link, err := s.store.SignURL(ctx, s.cfg.Bucket, key, s.cfg.SignedURLTTL)
	s.metrics.ObserveStorage(s.cfg.Bucket, "sign", err, time.Since(start))
	if err != nil {
		s.logger.Error("failed to sign ebook link", zap.String("key", key), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrDownload.Code, appErrors.ErrDownload.Status, appErrors.ErrDownload.Message)
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionEbookDownloadLink, "ebook", key, nil)
	return &link, nil
}

func (s *EbookService) detectMime(upload dto.EbookUpload) (string, error) {
	if reported, _, err := mime.ParseMediaType(upload.MimeType); err == nil && reported != "" && reported != "application/octet-stream" {
		return strings.ToLower(reported), nil
	}
	header := make([]byte, 512)
	n, err := upload.Content.Read(header)
	if err != nil && err != io.EOF {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect file")
	}
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
	}
	if n == 0 {
		return "", appErrors.Clone(appErrors.ErrValidation, "empty file")
	}
	detected, _, _ := mime.ParseMediaType(http.DetectContentType(header[:n]))
	return detected, nil
}

// safeFilename replaces every character outside [a-zA-Z0-9._-] with '_'.
func safeFilename(name string) string {
	name = strings.TrimSpace(name)
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}
	if name == "" {
		return "file"
	}
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}
