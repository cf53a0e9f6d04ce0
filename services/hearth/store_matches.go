package hearth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"hearth/pkg/db"
)

// RequestMatch records a request by requester to join the activity. Repeat
// requests are stored as separate rows.
func (s *Store) RequestMatch(ctx context.Context, activityID int64, requester string) (MatchRequest, error) {
	if requester == "" {
		return MatchRequest{}, validationErr("requester email is required")
	}

	row := matchModel{ActivityID: activityID, MatchEmail: requester, Status: string(StatusRequested)}
	if err := s.conn(ctx).Create(&row).Error; err != nil {
		if db.IsForeignKeyViolation(err) {
			return MatchRequest{}, notFoundErr("activity %d or profile %s", activityID, requester)
		}
		return MatchRequest{}, storeErr("create match", err)
	}
	return row.toDomain(), nil
}

// MatchByID loads a single match request.
func (s *Store) MatchByID(ctx context.Context, id int64) (MatchRequest, error) {
	var row matchModel
	err := s.conn(ctx).Where("id = ?", id).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return MatchRequest{}, notFoundErr("match %d", id)
	case err != nil:
		return MatchRequest{}, storeErr("load match", err)
	}
	return row.toDomain(), nil
}

// ListMatchesForActivity returns every request against the activity in creation order.
func (s *Store) ListMatchesForActivity(ctx context.Context, activityID int64) ([]MatchRequest, error) {
	var rows []matchModel
	if err := s.conn(ctx).Where("activity_id = ?", activityID).Order("id").Find(&rows).Error; err != nil {
		return nil, storeErr("list matches", err)
	}
	return matchesToDomain(rows), nil
}

// ApproveMatch sets the match to approved. Approving an approved match is a no-op.
func (s *Store) ApproveMatch(ctx context.Context, id int64) error {
	res := s.conn(ctx).Model(&matchModel{}).Where("id = ?", id).Update("status", string(StatusApproved))
	if res.Error != nil {
		return storeErr("approve match", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundErr("match %d", id)
	}
	return nil
}

// DeleteMatch removes the match. It performs no ownership check.
func (s *Store) DeleteMatch(ctx context.Context, id int64) error {
	if err := s.conn(ctx).Where("id = ?", id).Delete(&matchModel{}).Error; err != nil {
		return storeErr("delete match", err)
	}
	return nil
}

// matchesInvolving returns the matches on the given activities plus those
// requested by email, in creation order.
func (s *Store) matchesInvolving(ctx context.Context, activityIDs []int64, email string) ([]matchModel, error) {
	q := s.conn(ctx).Where("match_email = ?", email)
	if len(activityIDs) > 0 {
		q = q.Or("activity_id IN ?", activityIDs)
	}

	var rows []matchModel
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, storeErr("list dashboard matches", err)
	}
	return rows, nil
}

func matchesToDomain(rows []matchModel) []MatchRequest {
	out := make([]MatchRequest, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}
