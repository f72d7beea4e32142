package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
)

const defaultPresetLimit = 20

type presetRepository interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]models.OrderFilterPreset, error)
	Create(ctx context.Context, preset *models.OrderFilterPreset, keep int) error
	Delete(ctx context.Context, userID, id string) error
}

// PresetService manages the saved order filters of each admin.
type PresetService struct {
	repo      presetRepository
	validator *validator.Validate
	logger    *zap.Logger
	limit     int
}

// NewPresetService constructs the service. Each user keeps at most limit presets.
func NewPresetService(repo presetRepository, validate *validator.Validate, logger *zap.Logger, limit int) *PresetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if limit <= 0 {
		limit = defaultPresetLimit
	}
	return &PresetService{repo: repo, validator: validate, logger: logger, limit: limit}
}

// List returns the user's presets, newest first.
func (s *PresetService) List(ctx context.Context, userID string) ([]models.OrderFilterPreset, error) {
	presets, err := s.repo.ListByUser(ctx, userID, s.limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list presets")
	}
	return presets, nil
}

// Create saves the filters under a name, dropping the oldest preset when the
// user is over the limit.
func (s *PresetService) Create(ctx context.Context, userID string, req dto.CreateOrderPresetRequest) (*models.OrderFilterPreset, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "preset name is required")
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status == "" {
		status = models.OrderStatusAll
	}
	if status != models.OrderStatusAll && !models.OrderStatus(status).Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be all, pending, confirmed or rejected")
	}
	for _, d := range []string{req.FromDate, req.ToDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(dateLayout, d); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "dates must use YYYY-MM-DD")
		}
	}

	preset := &models.OrderFilterPreset{
		UserID:   userID,
		Name:     req.Name,
		Search:   strings.TrimSpace(req.Search),
		Status:   status,
		FromDate: req.FromDate,
		ToDate:   req.ToDate,
	}
	if err := s.repo.Create(ctx, preset, s.limit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save preset")
	}
	return preset, nil
}

// Delete removes one of the user's presets.
func (s *PresetService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if isNotFound(err) {
			return appErrors.Clone(appErrors.ErrNotFound, "preset not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete preset")
	}
	return nil
}
