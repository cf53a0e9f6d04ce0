package hearth

import (
	"context"
	"strconv"
	"strings"
)

// CreateActivity posts a new activity owned by the caller.
func (s *Service) CreateActivity(ctx context.Context, caller string, a Activity) (Activity, error) {
	if caller == "" {
		return Activity{}, ErrUnauthenticated
	}
	if strings.TrimSpace(a.Description) == "" {
		return Activity{}, validationErr("description is required")
	}
	a.Owner = caller

	var created Activity
	err := s.store.WithTx(ctx, func(tx *Store) error {
		var err error
		created, err = tx.SaveActivity(ctx, a)
		if err != nil {
			return err
		}
		return tx.recordAudit(ctx, caller, "activity.create", activityRef(created.ID), nil)
	})
	if err != nil {
		return Activity{}, err
	}

	s.notify(ctx, KindActivityCreated, "New Activity Created", "activity_created.tmpl", created, map[string]string{
		"owner":     created.Owner,
		"what":      created.Description,
		"where":     created.Location,
		"when":      created.Timing,
		"with_whom": created.BuddyDescription,
	})
	return created, nil
}

// ListFeed returns the activities viewer can still request.
func (s *Service) ListFeed(ctx context.Context, viewer string) ([]Activity, error) {
	if viewer == "" {
		return nil, ErrUnauthenticated
	}
	return s.store.ListVisibleTo(ctx, viewer)
}

// ListOwned returns the activities posted by owner.
func (s *Service) ListOwned(ctx context.Context, owner string) ([]Activity, error) {
	if owner == "" {
		return nil, ErrUnauthenticated
	}
	return s.store.ListOwnedBy(ctx, owner)
}

// DeleteActivity removes one of the caller's activities and every match on it.
func (s *Service) DeleteActivity(ctx context.Context, caller string, id int64) error {
	return s.store.WithTx(ctx, func(tx *Store) error {
		a, err := tx.ActivityByID(ctx, id)
		if err != nil {
			return err
		}
		if a.Owner != caller {
			return forbiddenErr("activity %d belongs to another profile", id)
		}
		if err := tx.DeleteActivity(ctx, id); err != nil {
			return err
		}
		return tx.recordAudit(ctx, caller, "activity.delete", activityRef(id), nil)
	})
}

// Dashboard returns the caller's owned and requested activities with
// contact details disclosed per match status.
func (s *Service) Dashboard(ctx context.Context, caller string) ([]ViewItem, error) {
	if caller == "" {
		return nil, ErrUnauthenticated
	}
	return s.store.Dashboard(ctx, caller)
}

func activityRef(id int64) string { return "activity:" + strconv.FormatInt(id, 10) }

func matchRef(id int64) string { return "match:" + strconv.FormatInt(id, 10) }
