package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
)

const siteContentCacheKey = "site_content:v1"

var errUnknownContentKey = errors.New("unknown content key")

type contentRepository interface {
	List(ctx context.Context) ([]models.SiteContentEntry, error)
	Upsert(ctx context.Context, entry *models.SiteContentEntry) error
	BulkUpsert(ctx context.Context, entries []models.SiteContentEntry) error
}

// ContentService reads and writes the storefront's key/value content.
type ContentService struct {
	repo      contentRepository
	cache     *CacheService
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
	cacheTTL  time.Duration
	loads     singleflight.Group
}

// NewContentService constructs the service. A nil cache disables caching.
func NewContentService(repo contentRepository, cache *CacheService, audit auditLogger, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ContentService{repo: repo, cache: cache, audit: audit, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// All returns the typed view over every content key. Concurrent callers share
// one load.
func (s *ContentService) All(ctx context.Context) (*models.SiteContent, error) {
	value, err, _ := s.loads.Do(siteContentCacheKey, func() (interface{}, error) {
		var cached models.SiteContent
		if s.cache.Get(ctx, siteContentCacheKey, &cached) {
			return &cached, nil
		}
		entries, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		content := decodeSiteContent(entries)
		s.cache.Set(ctx, siteContentCacheKey, content, s.cacheTTL)
		return &content, nil
	})
	if err != nil {
		s.logger.Error("failed to load site content", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load site content")
	}
	content := *value.(*models.SiteContent)
	return &content, nil
}

// Get returns the typed value of one key.
func (s *ContentService) Get(ctx context.Context, key string) (interface{}, error) {
	if !knownContentKey(key) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown content key %q", key))
	}
	content, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return contentValue(content, key), nil
}

// Save normalises and stores one key. Last write wins.
func (s *ContentService) Save(ctx context.Context, key string, raw json.RawMessage, actor models.Actor) (interface{}, error) {
	value, err := canonicalContentValue(key, raw)
	if err != nil {
		if errors.Is(err, errUnknownContentKey) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown content key %q", key))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid content value: "+err.Error())
	}

	entry := &models.SiteContentEntry{Key: key, Value: value, UpdatedBy: optionalString(actor.UserID)}
	if err := s.repo.Upsert(ctx, entry); err != nil {
		s.logger.Error("failed to save site content", zap.String("key", key), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save content")
	}
	s.cache.Invalidate(ctx, siteContentCacheKey)
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionContentUpdate, "site_content", key, map[string]json.RawMessage{"value": value})

	decoded := decodeSiteContent([]models.SiteContentEntry{*entry})
	return contentValue(&decoded, key), nil
}

// SaveSettings stores the scalar settings from one form in a single transaction.
func (s *ContentService) SaveSettings(ctx context.Context, req dto.UpdateSettingsRequest, actor models.Actor) (*models.SiteContent, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
	}

	fields := []struct {
		key   string
		value *string
	}{
		{models.ContentKeyPrice, req.Price},
		{models.ContentKeyBkashNumber, req.BkashNumber},
		{models.ContentKeyProductName, req.ProductName},
		{models.ContentKeyProductDescription, req.ProductDescription},
		{models.ContentKeyVideoURL, req.VideoURL},
		{models.ContentKeyVideoPoster, req.VideoPoster},
		{models.ContentKeyMetaPixelID, req.MetaPixelID},
	}
	entries := make([]models.SiteContentEntry, 0, len(fields))
	changed := make(map[string]json.RawMessage, len(fields))
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		encoded, err := json.Marshal(*f.value)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
		}
		value, err := canonicalContentValue(f.key, encoded)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settings payload")
		}
		entries = append(entries, models.SiteContentEntry{Key: f.key, Value: value, UpdatedBy: optionalString(actor.UserID)})
		changed[f.key] = value
	}
	if len(entries) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no settings to update")
	}

	if err := s.repo.BulkUpsert(ctx, entries); err != nil {
		s.logger.Error("failed to save settings", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save settings")
	}
	s.cache.Invalidate(ctx, siteContentCacheKey)
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionContentUpdate, "site_content", "settings", changed)

	return s.All(ctx)
}

func contentValue(content *models.SiteContent, key string) interface{} {
	switch key {
	case models.ContentKeyPrice:
		return content.Price
	case models.ContentKeyBkashNumber:
		return content.BkashNumber
	case models.ContentKeyProductName:
		return content.ProductName
	case models.ContentKeyProductDescription:
		return content.ProductDescription
	case models.ContentKeyVideoURL:
		return content.VideoURL
	case models.ContentKeyVideoPoster:
		return content.VideoPoster
	case models.ContentKeyMetaPixelID:
		return content.MetaPixelID
	case models.ContentKeyReviews:
		return content.Reviews
	case models.ContentKeyReviewsSettings:
		return content.ReviewsSettings
	case models.ContentKeyFAQ:
		return content.FAQ
	case models.ContentKeyTableOfContents:
		return content.TableOfContents
	case models.ContentKeyPreviewPages:
		return content.PreviewPages
	}
	return nil
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
