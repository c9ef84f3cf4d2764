package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/blink-dev/blink/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionStore persists the session rows that back refresh and revocation.
// Rows are create-and-delete only; nothing ever updates a session.
type SessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

// Create inserts a session for the user and returns its id. Ids are random
// UUIDs, collision-free at any scale this system will see, so no retry loop.
func (s *SessionStore) Create(ctx context.Context, userID uint) (string, error) {
	session := models.Session{
		ID:     uuid.NewString(),
		UserID: userID,
	}

	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	return session.ID, nil
}

// Find returns the session or nil when no row exists.
func (s *SessionStore) Find(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&session).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	return &session, nil
}

// Delete removes the session. Deleting an absent session is a no-op, which
// makes logout idempotent.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
