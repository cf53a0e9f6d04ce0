package hearth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"hearth/pkg/db"
)

// CreateProfileWithCredential inserts the profile and its credential in one
// transaction. Neither row survives if either insert fails. A credential
// provisioned ahead of the profile is adopted when password matches it and
// is a conflict otherwise.
func (s *Store) CreateProfileWithCredential(ctx context.Context, p Profile, password string) (Profile, error) {
	p.Email = strings.TrimSpace(p.Email)
	if p.Email == "" {
		return Profile{}, validationErr("email is required")
	}
	if password == "" {
		return Profile{}, validationErr("password is required")
	}

	row := profileModel{
		Name:           p.Name,
		Location:       p.Location,
		AboutMe:        p.AboutMe,
		OnlinePresence: p.OnlinePresence,
		Email:          p.Email,
		Phone:          p.Phone,
	}

	err := s.WithTx(ctx, func(tx *Store) error {
		if err := tx.conn(ctx).Create(&row).Error; err != nil {
			if db.IsUniqueViolation(err) {
				return conflictErr("profile for %s", p.Email)
			}
			return storeErr("create profile", err)
		}
		provisioned, err := tx.credentialExists(ctx, p.Email)
		if err != nil {
			return err
		}
		if !provisioned {
			return tx.CreateCredential(ctx, p.Email, password)
		}

		ok, err := tx.VerifyCredential(ctx, p.Email, password)
		if err != nil {
			return err
		}
		if !ok {
			return conflictErr("credential for %s", p.Email)
		}
		return nil
	})
	if err != nil {
		return Profile{}, err
	}
	return row.toDomain(), nil
}

// ProfileByEmail returns the profile registered under email.
func (s *Store) ProfileByEmail(ctx context.Context, email string) (Profile, error) {
	var row profileModel
	err := s.conn(ctx).Where("email = ?", email).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Profile{}, notFoundErr("profile %s", email)
	case err != nil:
		return Profile{}, storeErr("load profile", err)
	}
	return row.toDomain(), nil
}

// ProfileExists reports whether a profile is registered under email.
func (s *Store) ProfileExists(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := s.conn(ctx).Model(&profileModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, storeErr("count profiles", err)
	}
	return count > 0, nil
}

// ProfilesByEmails batch-loads profiles. Unknown emails are skipped and the
// result order is unspecified.
func (s *Store) ProfilesByEmails(ctx context.Context, emails []string) ([]Profile, error) {
	if len(emails) == 0 {
		return nil, nil
	}

	var rows []profileModel
	if err := s.conn(ctx).Where("email IN ?", emails).Find(&rows).Error; err != nil {
		return nil, storeErr("load profiles", err)
	}

	out := make([]Profile, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// UpdateProfile applies patch to the profile registered under email and
// returns the stored result. Email itself is never changed.
func (s *Store) UpdateProfile(ctx context.Context, email string, patch ProfilePatch) (Profile, error) {
	if patch.empty() {
		return s.ProfileByEmail(ctx, email)
	}

	updates := map[string]any{}
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	set("name", patch.Name)
	set("location", patch.Location)
	set("aboutme", patch.AboutMe)
	set("onlinepresence", patch.OnlinePresence)
	set("phone", patch.Phone)

	res := s.conn(ctx).Model(&profileModel{}).Where("email = ?", email).Updates(updates)
	if res.Error != nil {
		return Profile{}, storeErr("update profile", res.Error)
	}
	if res.RowsAffected == 0 {
		return Profile{}, notFoundErr("profile %s", email)
	}
	return s.ProfileByEmail(ctx, email)
}

// DeleteAccountCascade removes everything tied to email in one transaction:
// the matches it requested, the matches on its activities, its activities,
// its credential, its profile and finally its sessions.
func (s *Store) DeleteAccountCascade(ctx context.Context, email string) error {
	return s.WithTx(ctx, func(tx *Store) error {
		conn := tx.conn(ctx)

		if err := conn.Where("match_email = ?", email).Delete(&matchModel{}).Error; err != nil {
			return storeErr("delete requested matches", err)
		}

		owned := conn.Model(&activityModel{}).Select("id").Where("activityowner = ?", email)
		if err := conn.Where("activity_id IN (?)", owned).Delete(&matchModel{}).Error; err != nil {
			return storeErr("delete matches on owned activities", err)
		}

		if err := conn.Where("activityowner = ?", email).Delete(&activityModel{}).Error; err != nil {
			return storeErr("delete activities", err)
		}

		if err := tx.DeleteCredential(ctx, email); err != nil {
			return err
		}

		if err := conn.Where("email = ?", email).Delete(&profileModel{}).Error; err != nil {
			return storeErr("delete profile", err)
		}

		return tx.revokeSessionsFor(ctx, email)
	})
}
