package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/blink-dev/blink/internal/apperr"
	"github.com/blink-dev/blink/internal/auth"
	"github.com/blink-dev/blink/internal/models"
	"gorm.io/gorm"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService owns registration, login, refresh and logout. Collaborators are
// injected; one instance is composed at startup and shared by all requests.
type AuthService struct {
	log        *slog.Logger
	db         *gorm.DB
	sessions   *SessionStore
	codec      *auth.Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(log *slog.Logger, db *gorm.DB, sessions *SessionStore, codec *auth.Codec, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		log:        log,
		db:         db,
		sessions:   sessions,
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register creates the user together with their default workspace and an
// administrator membership in it, all in one transaction.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	const op = "auth.register"

	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User

	err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error

	if err == nil {
		return nil, apperr.Conflict("email already in use")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := auth.HashPassword(password, 0)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Conflict("email already in use")
			}
			return err
		}

		workspace := models.Workspace{Name: fmt.Sprintf("%s's workspace", name)}

		if err := tx.Create(&workspace).Error; err != nil {
			return err
		}

		member := models.WorkspaceMember{
			WorkspaceID: workspace.ID,
			UserID:      user.ID,
			Role:        models.RoleAdministrator,
		}

		return tx.Create(&member).Error
	})

	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", slog.String("op", op), slog.Uint64("user_id", uint64(user.ID)))

	return &user, nil
}

// Login verifies the credentials, creates a fresh session and mints the token
// pair. An unknown email and a wrong password fail identically so responses
// cannot be used to enumerate accounts. Concurrent logins by one user each
// get their own session row.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	const op = "auth.login"

	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User

	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.InvalidCredentials()
	}

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return nil, apperr.InvalidCredentials()
	}

	sessionID, err := s.sessions.Create(ctx, user.ID)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	accessToken, err := s.codec.Encode(user.ID, sessionID, s.accessTTL)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := s.codec.Encode(user.ID, sessionID, s.refreshTTL)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged in", slog.String("op", op), slog.Uint64("user_id", uint64(user.ID)), slog.String("session_id", sessionID))

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh mints a new access token against the session referenced by a still
// valid refresh token. The refresh token itself is not rotated. A deleted
// session (logout) fails exactly like a forged token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	const op = "auth.refresh"

	claims, err := s.codec.Decode(refreshToken)

	if err != nil {
		return "", apperr.InvalidCredentials()
	}

	session, err := s.sessions.Find(ctx, claims.SessionID)

	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if session == nil {
		return "", apperr.InvalidCredentials()
	}

	accessToken, err := s.codec.Encode(session.UserID, session.ID, s.accessTTL)

	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return accessToken, nil
}

// Logout revokes the session. Idempotent: logging out twice succeeds both
// times. Access tokens already issued against the session stay
// cryptographically valid until their own expiry; only refresh and any check
// that re-queries the store are cut off. That window is bounded by the access
// token TTL, which is why it is minutes, not hours.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	const op = "auth.logout"

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("session revoked", slog.String("op", op), slog.String("session_id", sessionID))

	return nil
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User

	err := s.db.WithContext(ctx).First(&user, userID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("user")
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// DeleteUser removes the account after a password recheck. Sessions and
// memberships go with it and the email becomes available for a fresh
// registration; blinks the user created stay behind with a null creator.
func (s *AuthService) DeleteUser(ctx context.Context, userID uint, password string) error {
	const op = "auth.delete_user"

	var user models.User

	err := s.db.WithContext(ctx).First(&user, userID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound("user")
	}

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return apperr.InvalidCredentials()
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Blink{}).Where("creator_id = ?", user.ID).Update("creator_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.WorkspaceMember{}).Error; err != nil {
			return err
		}

		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Session{}).Error; err != nil {
			return err
		}

		// Unscoped: a soft-deleted row would keep the email in the unique
		// index and block re-registration forever.
		return tx.Unscoped().Delete(&user).Error
	})

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user deleted", slog.String("op", op), slog.Uint64("user_id", uint64(userID)))

	return nil
}
