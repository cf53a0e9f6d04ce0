package hearth

import (
	"context"
	"strings"

	"hearth/pkg/db"
)

// CreateAccessRequest appends email to the waitlist.
func (s *Store) CreateAccessRequest(ctx context.Context, email string) (AccessRequest, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return AccessRequest{}, validationErr("email is required")
	}

	row := accessRequestModel{Email: email}
	if err := s.conn(ctx).Create(&row).Error; err != nil {
		return AccessRequest{}, storeErr("create access request", err)
	}
	return AccessRequest{ID: row.ID, Email: row.Email, RequestedAt: row.RequestedAt}, nil
}

// ListAccessRequests returns the waitlist oldest first.
func (s *Store) ListAccessRequests(ctx context.Context) ([]AccessRequest, error) {
	var out []AccessRequest
	if err := db.Select(ctx, s.querier(), &out,
		`SELECT id, email, requested_at FROM access_requests ORDER BY requested_at, id`); err != nil {
		return nil, storeErr("list access requests", err)
	}
	return out, nil
}
