package hearth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hearth/pkg/db"
)

// dummyHash is compared against when no credential exists so unknown emails
// cost the same bcrypt work as wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("hearth-dummy-password"), bcrypt.DefaultCost)

// CreateCredential hashes password and stores it for email.
func (s *Store) CreateCredential(ctx context.Context, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return validationErr("email is required")
	}
	if password == "" {
		return validationErr("password is required")
	}
	if len(password) > 72 {
		return validationErr("password must be at most 72 bytes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return storeErr("hash password", err)
	}

	row := credentialModel{Email: email, HashedPassword: string(hash)}
	if err := s.conn(ctx).Create(&row).Error; err != nil {
		if db.IsUniqueViolation(err) {
			return conflictErr("credential for %s", email)
		}
		return storeErr("create credential", err)
	}
	return nil
}

// VerifyCredential reports whether password matches the stored hash for
// email. An unknown email is reported exactly like a wrong password.
func (s *Store) VerifyCredential(ctx context.Context, email, password string) (bool, error) {
	var row credentialModel
	err := s.conn(ctx).Where("email = ?", email).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return false, nil
	case err != nil:
		return false, storeErr("load credential", err)
	}

	return bcrypt.CompareHashAndPassword([]byte(row.HashedPassword), []byte(password)) == nil, nil
}

// DeleteCredential removes the credential for email. Missing rows are not an error.
func (s *Store) DeleteCredential(ctx context.Context, email string) error {
	if err := s.conn(ctx).Where("email = ?", email).Delete(&credentialModel{}).Error; err != nil {
		return storeErr("delete credential", err)
	}
	return nil
}

func (s *Store) credentialExists(ctx context.Context, email string) (bool, error) {
	var n int64
	if err := s.conn(ctx).Model(&credentialModel{}).Where("email = ?", email).Count(&n).Error; err != nil {
		return false, storeErr("look up credential", err)
	}
	return n > 0, nil
}
