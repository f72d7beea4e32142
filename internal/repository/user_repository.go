package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/fahimunoffice-stack/her-well-being/internal/models"
)

// ErrDuplicateEmail is returned when an account with the same email exists.
var ErrDuplicateEmail = errors.New("email already registered")

const userColumns = `id, email, password_hash, full_name, active, last_login, created_at, updated_at`

// UserRepository provides database access for accounts, roles, sessions and audit logs.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1) LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByID returns a user by identifier.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// UpdateLastLogin updates the last_login timestamp for a user.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE users SET last_login = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, ts, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// UpdatePassword updates the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, passwordHash, updatedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// HasRole reports whether the user holds role.
func (r *UserRepository) HasRole(ctx context.Context, userID string, role models.UserRole) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`
	var ok bool
	if err := r.db.GetContext(ctx, &ok, query, userID, role); err != nil {
		return false, fmt.Errorf("check user role: %w", err)
	}
	return ok, nil
}

// ListRoles returns every role granted to the user.
func (r *UserRepository) ListRoles(ctx context.Context, userID string) ([]models.UserRole, error) {
	const query = `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role ASC`
	roles := make([]models.UserRole, 0)
	if err := r.db.SelectContext(ctx, &roles, query, userID); err != nil {
		return nil, fmt.Errorf("list user roles: %w", err)
	}
	return roles, nil
}

// CreateWithRole inserts a user and grants role in one transaction.
func (r *UserRepository) CreateWithRole(ctx context.Context, user *models.User, role models.UserRole) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create user tx: %w", err)
	}
	const insertUser = `INSERT INTO users (id, email, password_hash, full_name, active, created_at, updated_at)
VALUES (:id, :email, :password_hash, :full_name, :active, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertUser, user); err != nil {
		_ = tx.Rollback()
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, user.ID, role); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("grant user role: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create user tx: %w", err)
	}
	return nil
}

// CreateRefreshToken persists a refresh token session.
func (r *UserRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = now
	}
	token.UpdatedAt = now
	const query = `INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at, revoked, created_at, updated_at)
VALUES (:id, :user_id, :token_hash, :expires_at, :revoked, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindRefreshTokenByHash returns the session matching a token hash.
func (r *UserRepository) FindRefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error) {
	const query = `SELECT id, user_id, token_hash, expires_at, revoked, created_at, updated_at FROM refresh_tokens WHERE token_hash = $1 LIMIT 1`
	var rt models.RefreshToken
	if err := r.db.GetContext(ctx, &rt, query, hash); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &rt, nil
}

// FindRefreshTokenByID returns a session by id.
func (r *UserRepository) FindRefreshTokenByID(ctx context.Context, id string) (*models.RefreshToken, error) {
	const query = `SELECT id, user_id, token_hash, expires_at, revoked, created_at, updated_at FROM refresh_tokens WHERE id = $1 LIMIT 1`
	var rt models.RefreshToken
	if err := r.db.GetContext(ctx, &rt, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find refresh token by id: %w", err)
	}
	return &rt, nil
}

// RevokeRefreshToken marks a session as revoked.
func (r *UserRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, revokedAt); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeUserRefreshTokens revokes every live session of a user except keepID
// and returns the revoked session ids.
func (r *UserRepository) RevokeUserRefreshTokens(ctx context.Context, userID, keepID string) ([]string, error) {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, updated_at = $3
WHERE user_id = $1 AND revoked = FALSE AND id::text <> $2 RETURNING id`
	ids := make([]string, 0)
	if err := r.db.SelectContext(ctx, &ids, query, userID, keepID, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("revoke user refresh tokens: %w", err)
	}
	return ids, nil
}

// CreateAuditLog stores an audit log entry.
func (r *UserRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, user_id, action, resource, resource_id, old_values, new_values, ip_address, user_agent, created_at)
VALUES ($1, $2, $3, $4, $5, CAST($6 AS jsonb), CAST($7 AS jsonb), $8, $9, $10)`
	if _, err := r.db.ExecContext(ctx, query, log.ID, log.UserID, log.Action, log.Resource, log.ResourceID,
		jsonArg(log.OldValues), jsonArg(log.NewValues), log.IPAddress, log.UserAgent, log.CreatedAt); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}

// ListAuditLogs returns the most recent audit entries.
func (r *UserRepository) ListAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	const query = `SELECT id, user_id, action, resource, resource_id,
       COALESCE(old_values, 'null'::jsonb) AS old_values, COALESCE(new_values, 'null'::jsonb) AS new_values,
       COALESCE(ip_address, '') AS ip_address, COALESCE(user_agent, '') AS user_agent, created_at
FROM audit_logs ORDER BY created_at DESC LIMIT $1`
	logs := make([]models.AuditLog, 0)
	if err := r.db.SelectContext(ctx, &logs, query, limit); err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, nil
}

func jsonArg(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
