package hearth

import (
	"context"
	"sort"
	"strings"
)

// ProfileExists reports whether email has a profile.
func (s *Service) ProfileExists(ctx context.Context, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, validationErr("email is required")
	}
	return s.store.ProfileExists(ctx, strings.TrimSpace(email))
}

// CreateProfile registers a profile together with its password. When access
// codes are configured, accessCode must match one of them.
func (s *Service) CreateProfile(ctx context.Context, p Profile, password, accessCode string) (Profile, error) {
	if err := requireEmail(p.Email); err != nil {
		return Profile{}, err
	}
	if password == "" {
		return Profile{}, validationErr("password is required")
	}
	if !s.CheckAccessCode(accessCode) {
		return Profile{}, forbiddenErr("invalid access code")
	}

	var created Profile
	err := s.store.WithTx(ctx, func(tx *Store) error {
		var err error
		created, err = tx.CreateProfileWithCredential(ctx, p, password)
		if err != nil {
			return err
		}
		return tx.recordAudit(ctx, created.Email, "profile.create", "profile:"+created.Email, nil)
	})
	if err != nil {
		return Profile{}, err
	}

	s.notify(ctx, KindProfileCreated, "New Profile Created", "profile_created.tmpl", created, map[string]string{
		"name":     created.Name,
		"email":    created.Email,
		"location": created.Location,
		"about_me": created.AboutMe,
	})
	return created, nil
}

// GetProfile returns the profile for email.
func (s *Service) GetProfile(ctx context.Context, email string) (Profile, error) {
	return s.store.ProfileByEmail(ctx, email)
}

// UpdateProfile merges patch into the caller's own profile.
func (s *Service) UpdateProfile(ctx context.Context, caller string, patch ProfilePatch) (Profile, error) {
	if caller == "" {
		return Profile{}, ErrUnauthenticated
	}

	var updated Profile
	err := s.store.WithTx(ctx, func(tx *Store) error {
		var err error
		updated, err = tx.UpdateProfile(ctx, caller, patch)
		if err != nil {
			return err
		}
		return tx.recordAudit(ctx, caller, "profile.update", "profile:"+caller, patchDetails(patch))
	})
	if err != nil {
		return Profile{}, err
	}
	return updated, nil
}

// DeleteAccount removes the caller's profile, credential, activities and
// matches, and revokes every session of the caller.
func (s *Service) DeleteAccount(ctx context.Context, caller string) error {
	if caller == "" {
		return ErrUnauthenticated
	}
	return s.store.WithTx(ctx, func(tx *Store) error {
		if err := tx.DeleteAccountCascade(ctx, caller); err != nil {
			return err
		}
		return tx.recordAudit(ctx, caller, "account.delete", "profile:"+caller, nil)
	})
}

// patchDetails lists which fields a patch touched, without their values.
func patchDetails(p ProfilePatch) map[string]any {
	fields := []string{}
	for name, v := range map[string]*string{
		"name":            p.Name,
		"location":        p.Location,
		"about_me":        p.AboutMe,
		"online_presence": p.OnlinePresence,
		"phone":           p.Phone,
	} {
		if v != nil {
			fields = append(fields, name)
		}
	}
	sort.Strings(fields)
	return map[string]any{"fields": fields}
}
