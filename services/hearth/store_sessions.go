package hearth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateSession stores a new session for email valid until expiresAt.
func (s *Store) CreateSession(ctx context.Context, email string, expiresAt time.Time) (Session, error) {
	row := sessionModel{ID: uuid.New(), Email: email, ExpiresAt: expiresAt.UTC()}
	if err := s.conn(ctx).Create(&row).Error; err != nil {
		return Session{}, storeErr("create session", err)
	}
	return Session{ID: row.ID, Email: row.Email, ExpiresAt: row.ExpiresAt}, nil
}

// ActiveSession returns the session if it exists, is unrevoked and has not
// expired at now. Anything else is ErrUnauthenticated.
func (s *Store) ActiveSession(ctx context.Context, id uuid.UUID, now time.Time) (Session, error) {
	var row sessionModel
	err := s.conn(ctx).Where("id = ?", id).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Session{}, ErrUnauthenticated
	case err != nil:
		return Session{}, storeErr("load session", err)
	}

	if row.RevokedAt != nil || !now.Before(row.ExpiresAt) {
		return Session{}, ErrUnauthenticated
	}
	return Session{ID: row.ID, Email: row.Email, ExpiresAt: row.ExpiresAt}, nil
}

// RevokeSession marks the session revoked. Unknown or already revoked
// sessions are left alone.
func (s *Store) RevokeSession(ctx context.Context, id uuid.UUID) error {
	err := s.conn(ctx).Model(&sessionModel{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", time.Now().UTC()).Error
	if err != nil {
		return storeErr("revoke session", err)
	}
	return nil
}

func (s *Store) revokeSessionsFor(ctx context.Context, email string) error {
	err := s.conn(ctx).Model(&sessionModel{}).
		Where("email = ? AND revoked_at IS NULL", email).
		Update("revoked_at", time.Now().UTC()).Error
	if err != nil {
		return storeErr("revoke sessions", err)
	}
	return nil
}
