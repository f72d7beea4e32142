package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

const accessDeniedMessage = "Access denied"

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

type gateRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindRefreshTokenByID(ctx context.Context, id string) (*models.RefreshToken, error)
	HasRole(ctx context.Context, userID string, role models.UserRole) (bool, error)
}

// AdminGateService decides whether a bearer token may enter the back office.
type AdminGateService struct {
	tokens    tokenValidator
	repo      gateRepository
	logger    *zap.Logger
	loginPath string
	now       func() time.Time
}

// NewAdminGateService constructs the gate. loginPath is where signed out
// visitors are sent.
func NewAdminGateService(tokens tokenValidator, repo gateRepository, logger *zap.Logger, loginPath string) *AdminGateService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loginPath == "" {
		loginPath = "/"
	}
	return &AdminGateService{tokens: tokens, repo: repo, logger: logger, loginPath: loginPath, now: func() time.Time { return time.Now().UTC() }}
}

// Check resolves the gate state for token. A failed lookup yields
// GateError and never grants access.
func (s *AdminGateService) Check(ctx context.Context, token string) models.GateResult {
	token = strings.TrimSpace(token)
	if token == "" {
		return s.unauthenticated("sign in required")
	}
	claims, err := s.tokens.ValidateToken(token)
	if err != nil || claims.UserID == "" || claims.SessionID == "" {
		return s.unauthenticated("session expired")
	}

	session, err := s.repo.FindRefreshTokenByID(ctx, claims.SessionID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.unauthenticated("session expired")
	case err != nil:
		return s.failed("session lookup failed", err)
	case session.UserID != claims.UserID || !session.Active(s.now()):
		return s.unauthenticated("session expired")
	}

	user, err := s.repo.FindByID(ctx, claims.UserID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return s.unauthenticated("account not found")
	case err != nil:
		return s.failed("user lookup failed", err)
	case !user.Active:
		return s.unauthenticated("account is inactive")
	}

	isAdmin, err := s.repo.HasRole(ctx, user.ID, models.RoleAdmin)
	if err != nil {
		return s.failed("role lookup failed", err)
	}
	if !isAdmin {
		return models.GateResult{
			State:    models.GateAuthenticatedNonAdmin,
			Redirect: "/",
			Message:  accessDeniedMessage,
			Claims:   claims,
		}
	}

	info := userInfo(user, []models.UserRole{models.RoleAdmin})
	return models.GateResult{State: models.GateAuthenticatedAdmin, Claims: claims, User: &info}
}

func (s *AdminGateService) unauthenticated(message string) models.GateResult {
	return models.GateResult{State: models.GateUnauthenticated, Redirect: s.loginPath, Message: message}
}

func (s *AdminGateService) failed(msg string, err error) models.GateResult {
	s.logger.Error("admin gate check failed", zap.String("step", msg), zap.Error(err))
	return models.GateResult{
		State:   models.GateError,
		Message: "could not verify admin access, please retry",
		Retry:   true,
	}
}
