package hearth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"hearth/pkg/db"
)

const feedQuery = `
SELECT id, activityowner, activitydescription, activitylocation, activitytiming, activitybuddydescription
FROM activities
WHERE activityowner <> $1
  AND id NOT IN (SELECT activity_id FROM activity_matches WHERE match_email = $1)
ORDER BY id`

// SaveActivity inserts a new activity and returns it with its generated id.
func (s *Store) SaveActivity(ctx context.Context, a Activity) (Activity, error) {
	a.Owner = strings.TrimSpace(a.Owner)
	if a.Owner == "" {
		return Activity{}, validationErr("owner is required")
	}

	row := activityModel{
		Owner:            a.Owner,
		Description:      a.Description,
		Location:         a.Location,
		Timing:           a.Timing,
		BuddyDescription: a.BuddyDescription,
	}
	if err := s.conn(ctx).Create(&row).Error; err != nil {
		if db.IsForeignKeyViolation(err) {
			return Activity{}, notFoundErr("profile %s", a.Owner)
		}
		return Activity{}, storeErr("create activity", err)
	}
	return row.toDomain(), nil
}

// ActivityByID loads a single activity.
func (s *Store) ActivityByID(ctx context.Context, id int64) (Activity, error) {
	var row activityModel
	err := s.conn(ctx).Where("id = ?", id).Take(&row).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return Activity{}, notFoundErr("activity %d", id)
	case err != nil:
		return Activity{}, storeErr("load activity", err)
	}
	return row.toDomain(), nil
}

// ListVisibleTo returns the feed for email: activities owned by someone else
// that email has not requested yet, whatever the request's status.
func (s *Store) ListVisibleTo(ctx context.Context, email string) ([]Activity, error) {
	var rows []activityModel
	if err := db.Select(ctx, s.querier(), &rows, feedQuery, email); err != nil {
		return nil, storeErr("list feed", err)
	}
	return activitiesToDomain(rows), nil
}

// ListOwnedBy returns the activities posted by email in creation order.
func (s *Store) ListOwnedBy(ctx context.Context, email string) ([]Activity, error) {
	var rows []activityModel
	if err := s.conn(ctx).Where("activityowner = ?", email).Order("id").Find(&rows).Error; err != nil {
		return nil, storeErr("list owned activities", err)
	}
	return activitiesToDomain(rows), nil
}

// DeleteActivity removes the activity and its match requests. It performs
// no ownership check; callers authorise first.
func (s *Store) DeleteActivity(ctx context.Context, id int64) error {
	return s.WithTx(ctx, func(tx *Store) error {
		conn := tx.conn(ctx)
		if err := conn.Where("activity_id = ?", id).Delete(&matchModel{}).Error; err != nil {
			return storeErr("delete activity matches", err)
		}
		if err := conn.Where("id = ?", id).Delete(&activityModel{}).Error; err != nil {
			return storeErr("delete activity", err)
		}
		return nil
	})
}
