package hearth

import (
	"context"
)

// RequestMatch asks to join another profile's activity.
func (s *Service) RequestMatch(ctx context.Context, caller string, activityID int64) (MatchRequest, error) {
	if caller == "" {
		return MatchRequest{}, ErrUnauthenticated
	}

	var created MatchRequest
	err := s.store.WithTx(ctx, func(tx *Store) error {
		a, err := tx.ActivityByID(ctx, activityID)
		if err != nil {
			return err
		}
		if a.Owner == caller {
			return forbiddenErr("cannot request a match on your own activity")
		}

		exists, err := tx.ProfileExists(ctx, caller)
		if err != nil {
			return err
		}
		if !exists {
			return notFoundErr("profile %s", caller)
		}

		created, err = tx.RequestMatch(ctx, activityID, caller)
		if err != nil {
			return err
		}
		return tx.recordAudit(ctx, caller, "match.request", matchRef(created.ID), map[string]any{"activity_id": activityID})
	})
	if err != nil {
		return MatchRequest{}, err
	}
	return created, nil
}

// ListMatchesForActivity returns the requests on one of the caller's activities.
func (s *Service) ListMatchesForActivity(ctx context.Context, caller string, activityID int64) ([]MatchRequest, error) {
	a, err := s.store.ActivityByID(ctx, activityID)
	if err != nil {
		return nil, err
	}
	if a.Owner != caller {
		return nil, forbiddenErr("activity %d belongs to another profile", activityID)
	}
	return s.store.ListMatchesForActivity(ctx, activityID)
}

// ApproveMatch lets the activity owner approve a request. Approving twice
// is not an error.
func (s *Service) ApproveMatch(ctx context.Context, caller string, matchID int64) (MatchRequest, error) {
	var approved MatchRequest
	err := s.store.WithTx(ctx, func(tx *Store) error {
		m, a, err := tx.matchWithActivity(ctx, matchID)
		if err != nil {
			return err
		}
		if a.Owner != caller {
			return forbiddenErr("only the activity owner can approve match %d", matchID)
		}
		if err := tx.ApproveMatch(ctx, matchID); err != nil {
			return err
		}
		m.Status = StatusApproved
		approved = m
		return tx.recordAudit(ctx, caller, "match.approve", matchRef(matchID), map[string]any{"activity_id": a.ID})
	})
	if err != nil {
		return MatchRequest{}, err
	}
	return approved, nil
}

// DeleteMatch rejects or withdraws a request. Only the activity owner and
// the requester may delete it.
func (s *Service) DeleteMatch(ctx context.Context, caller string, matchID int64) error {
	return s.store.WithTx(ctx, func(tx *Store) error {
		m, a, err := tx.matchWithActivity(ctx, matchID)
		if err != nil {
			return err
		}
		if caller != a.Owner && caller != m.RequesterEmail {
			return forbiddenErr("match %d is not yours to delete", matchID)
		}
		if err := tx.DeleteMatch(ctx, matchID); err != nil {
			return err
		}
		return tx.recordAudit(ctx, caller, "match.delete", matchRef(matchID), map[string]any{"activity_id": a.ID})
	})
}

func (s *Store) matchWithActivity(ctx context.Context, matchID int64) (MatchRequest, Activity, error) {
	m, err := s.MatchByID(ctx, matchID)
	if err != nil {
		return MatchRequest{}, Activity{}, err
	}
	a, err := s.ActivityByID(ctx, m.ActivityID)
	if err != nil {
		return MatchRequest{}, Activity{}, err
	}
	return m, a, nil
}
