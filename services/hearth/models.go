package hearth

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type profileModel struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Name           string `gorm:"type:text"`
	Location       string `gorm:"type:text"`
	AboutMe        string `gorm:"column:aboutme;type:text"`
	OnlinePresence string `gorm:"column:onlinepresence;type:text"`
	Email          string `gorm:"type:text;uniqueIndex;not null"`
	Phone          string `gorm:"type:text"`
}

func (profileModel) TableName() string { return "profiles" }

func (m profileModel) toDomain() Profile {
	return Profile{
		ID:             m.ID,
		Email:          m.Email,
		Name:           m.Name,
		Location:       m.Location,
		AboutMe:        m.AboutMe,
		OnlinePresence: m.OnlinePresence,
		Phone:          m.Phone,
	}
}

type credentialModel struct {
	Email          string    `gorm:"type:text;primaryKey"`
	HashedPassword string    `gorm:"column:hashed_password;type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (credentialModel) TableName() string { return "passwords" }

// activityModel doubles as the scan target for raw feed queries.
type activityModel struct {
	ID               int64  `gorm:"primaryKey;autoIncrement" db:"id"`
	Owner            string `gorm:"column:activityowner;type:text;not null" db:"activityowner"`
	Description      string `gorm:"column:activitydescription;type:text" db:"activitydescription"`
	Location         string `gorm:"column:activitylocation;type:text" db:"activitylocation"`
	Timing           string `gorm:"column:activitytiming;type:text" db:"activitytiming"`
	BuddyDescription string `gorm:"column:activitybuddydescription;type:text" db:"activitybuddydescription"`
}

func (activityModel) TableName() string { return "activities" }

func (m activityModel) toDomain() Activity {
	return Activity{
		ID:               m.ID,
		Owner:            m.Owner,
		Description:      m.Description,
		Location:         m.Location,
		Timing:           m.Timing,
		BuddyDescription: m.BuddyDescription,
	}
}

func activitiesToDomain(rows []activityModel) []Activity {
	out := make([]Activity, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out
}

type matchModel struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	ActivityID int64  `gorm:"not null"`
	MatchEmail string `gorm:"type:text;not null"`
	Status     string `gorm:"type:text;not null"`
}

func (matchModel) TableName() string { return "activity_matches" }

func (m matchModel) toDomain() MatchRequest {
	return MatchRequest{
		ID:             m.ID,
		ActivityID:     m.ActivityID,
		RequesterEmail: m.MatchEmail,
		Status:         MatchStatus(m.Status),
	}
}

type accessRequestModel struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Email       string    `gorm:"type:text;not null"`
	RequestedAt time.Time `gorm:"autoCreateTime"`
}

func (accessRequestModel) TableName() string { return "access_requests" }

type sessionModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null"`
	RevokedAt *time.Time
}

func (sessionModel) TableName() string { return "sessions" }

type auditModel struct {
	ID      int64             `gorm:"primaryKey;autoIncrement"`
	Actor   string            `gorm:"type:text;not null"`
	Action  string            `gorm:"type:text;not null"`
	Obj     string            `gorm:"type:text"`
	Details datatypes.JSONMap `gorm:"type:jsonb"`
	At      time.Time         `gorm:"not null;autoCreateTime"`
}

func (auditModel) TableName() string { return "audit" }
