package hearth

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// Login checks the credentials and opens a session. Unknown emails and wrong
// passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Session{}, validationErr("email and password are required")
	}

	ok, err := s.store.VerifyCredential(ctx, email, password)
	if err != nil {
		return Session{}, err
	}
	if !ok {
		return Session{}, ErrInvalidCredentials
	}

	return s.store.CreateSession(ctx, email, s.now().Add(s.config.SessionTTL))
}

// Logout revokes the session. Revoking an unknown session succeeds.
func (s *Service) Logout(ctx context.Context, sessionID uuid.UUID) error {
	return s.store.RevokeSession(ctx, sessionID)
}

// WhoAmI resolves a session to its email, or ErrUnauthenticated.
func (s *Service) WhoAmI(ctx context.Context, sessionID uuid.UUID) (string, error) {
	sess, err := s.store.ActiveSession(ctx, sessionID, s.now())
	if err != nil {
		return "", err
	}
	return sess.Email, nil
}

// ResetPassword sets the password for email and revokes its sessions. When
// no profile exists yet the credential is provisioned on its own and the
// later signup adopts it. It is an operator action with no caller check.
func (s *Service) ResetPassword(ctx context.Context, actor, email, password string) error {
	email = strings.TrimSpace(email)
	if err := requireEmail(email); err != nil {
		return err
	}

	return s.store.WithTx(ctx, func(tx *Store) error {
		if err := tx.DeleteCredential(ctx, email); err != nil {
			return err
		}
		if err := tx.CreateCredential(ctx, email, password); err != nil {
			return err
		}
		if err := tx.revokeSessionsFor(ctx, email); err != nil {
			return err
		}
		return tx.recordAudit(ctx, actor, "credential.reset", "profile:"+email, nil)
	})
}
