package hearth

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a user's public card, keyed by email.
type Profile struct {
	ID             int64  `json:"id" yaml:"id"`
	Email          string `json:"email" yaml:"email"`
	Name           string `json:"name" yaml:"name"`
	Location       string `json:"location" yaml:"location"`
	AboutMe        string `json:"about_me" yaml:"about_me"`
	OnlinePresence string `json:"online_presence" yaml:"online_presence"`
	Phone          string `json:"phone" yaml:"phone"`
}

// ProfilePatch carries a merge-patch update. Nil fields keep their stored
// value; a non-nil empty string clears the field.
type ProfilePatch struct {
	Name           *string `json:"name"`
	Location       *string `json:"location"`
	AboutMe        *string `json:"about_me"`
	OnlinePresence *string `json:"online_presence"`
	Phone          *string `json:"phone"`
}

func (p ProfilePatch) empty() bool {
	return p.Name == nil && p.Location == nil && p.AboutMe == nil && p.OnlinePresence == nil && p.Phone == nil
}

// Activity is a posting describing something the owner wants company for.
type Activity struct {
	ID               int64  `json:"id"`
	Owner            string `json:"owner"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	Timing           string `json:"timing"`
	BuddyDescription string `json:"buddy_description"`
}

// MatchStatus is the lifecycle state of a match request. Rejection deletes
// the request, so there is no rejected state.
type MatchStatus string

const (
	StatusRequested MatchStatus = "requested"
	StatusApproved  MatchStatus = "approved"
)

// MatchRequest links a requester to another profile's activity.
type MatchRequest struct {
	ID             int64       `json:"id"`
	ActivityID     int64       `json:"activity_id"`
	RequesterEmail string      `json:"requester_email"`
	Status         MatchStatus `json:"status"`
}

// ViewType tells dashboard consumers which side of a match the caller is on.
type ViewType string

const (
	ViewOwned     ViewType = "owned"
	ViewRequested ViewType = "requested"
)

// ProfileSnapshot is the counterparty card shown on the dashboard. Email and
// Phone stay nil until the match they belong to is approved.
type ProfileSnapshot struct {
	Name           string  `json:"name"`
	Location       string  `json:"location"`
	AboutMe        string  `json:"about_me"`
	OnlinePresence string  `json:"online_presence"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
}

// MatchView is one match as seen from the dashboard. Counterparty is the
// requester on owned activities and the owner on requested ones.
type MatchView struct {
	MatchID      int64           `json:"match_id"`
	Status       MatchStatus     `json:"status"`
	Counterparty ProfileSnapshot `json:"counterparty"`
}

// ViewItem is one dashboard entry. Owned items list every match on the
// activity; requested items carry the caller's own match.
type ViewItem struct {
	Type     ViewType    `json:"type"`
	Activity Activity    `json:"activity"`
	Matches  []MatchView `json:"matches,omitempty"`
	Match    *MatchView  `json:"match,omitempty"`
}

// AccessRequest is a waitlist entry.
type AccessRequest struct {
	ID          int64     `json:"id" yaml:"id" db:"id"`
	Email       string    `json:"email" yaml:"email" db:"email"`
	RequestedAt time.Time `json:"requested_at" yaml:"requested_at" db:"requested_at"`
}

// Session is a server-side login record.
type Session struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}
