package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/fahimunoffice-stack/her-well-being/internal/dto"
	"github.com/fahimunoffice-stack/her-well-being/internal/models"
	"github.com/fahimunoffice-stack/her-well-being/internal/repository"
	appErrors "github.com/fahimunoffice-stack/her-well-being/pkg/errors"
)

type adminProvisioner interface {
	CreateWithRole(ctx context.Context, user *models.User, role models.UserRole) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SetupService provisions admin accounts guarded by a shared setup secret.
type SetupService struct {
	repo       adminProvisioner
	validator  *validator.Validate
	logger     *zap.Logger
	setupToken string
	hashCost   int
}

// NewSetupService constructs the service. An empty setupToken disables provisioning.
func NewSetupService(repo adminProvisioner, validate *validator.Validate, logger *zap.Logger, setupToken string) *SetupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SetupService{repo: repo, validator: validate, logger: logger, setupToken: setupToken, hashCost: bcrypt.DefaultCost}
}

// ProvisionAdmin creates an account holding the admin role.
func (s *SetupService) ProvisionAdmin(ctx context.Context, req dto.SetupAdminRequest, actor models.Actor) (*dto.SetupAdminResponse, error) {
	if !s.tokenMatches(req.SetupToken) {
		s.logger.Warn("rejected admin setup attempt", zap.String("ip", actor.IP))
		return nil, appErrors.Clone(appErrors.ErrInvalidSetupToken, "")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "a valid email and a password of at least 6 characters are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{Email: req.Email, PasswordHash: string(hash), FullName: req.Email, Active: true}
	if err := s.repo.CreateWithRole(ctx, user, models.RoleAdmin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an account with this email already exists")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create admin")
	}

	actor.UserID = user.ID
	recordAudit(ctx, s.repo, s.logger, actor, models.AuditActionAdminProvisioned, "user", user.ID, map[string]string{"email": user.Email})
	return &dto.SetupAdminResponse{UserID: user.ID, Email: user.Email}, nil
}

func (s *SetupService) tokenMatches(candidate string) bool {
	if s.setupToken == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.setupToken), []byte(candidate)) == 1
}
