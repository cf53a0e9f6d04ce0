package migrations

import (
	"context"
	"database/sql"
	"embed"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// FS exposes the migration sources so goose can resolve registered Go
// migrations without depending on the working directory.
//
//go:embed *.go
var FS embed.FS

func init() {
	goose.AddMigrationContext(upInit, downInit)
}

type Profile struct {
	ID             int64  `gorm:"primaryKey;autoIncrement"`
	Name           string `gorm:"type:text"`
	Location       string `gorm:"type:text"`
	AboutMe        string `gorm:"column:aboutme;type:text"`
	OnlinePresence string `gorm:"column:onlinepresence;type:text"`
	Email          string `gorm:"type:text;uniqueIndex;not null"`
	Phone          string `gorm:"type:text"`
}

// Credential has no foreign key to profiles: a credential may be provisioned
// before its profile exists.
type Credential struct {
	Email          string    `gorm:"type:text;primaryKey"`
	HashedPassword string    `gorm:"column:hashed_password;type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (Credential) TableName() string { return "passwords" }

type Activity struct {
	ID               int64   `gorm:"primaryKey;autoIncrement"`
	Owner            string  `gorm:"column:activityowner;type:text;not null;index"`
	Description      string  `gorm:"column:activitydescription;type:text"`
	Location         string  `gorm:"column:activitylocation;type:text"`
	Timing           string  `gorm:"column:activitytiming;type:text"`
	BuddyDescription string  `gorm:"column:activitybuddydescription;type:text"`
	OwnerProfile     Profile `gorm:"foreignKey:Owner;references:Email;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

type ActivityMatch struct {
	ID         int64    `gorm:"primaryKey;autoIncrement"`
	ActivityID int64    `gorm:"not null;index"`
	MatchEmail string   `gorm:"type:text;not null;index"`
	Status     string   `gorm:"type:text;not null;default:'requested'"`
	Activity   Activity `gorm:"foreignKey:ActivityID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Requester  Profile  `gorm:"foreignKey:MatchEmail;references:Email;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

type AccessRequest struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	Email       string    `gorm:"type:text;not null"`
	RequestedAt time.Time `gorm:"autoCreateTime"`
}

type Session struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"type:text;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	ExpiresAt time.Time `gorm:"not null"`
	RevokedAt *time.Time
}

type Audit struct {
	ID      int64             `gorm:"primaryKey;autoIncrement"`
	Actor   string            `gorm:"type:text;not null"`
	Action  string            `gorm:"type:text;not null"`
	Obj     string            `gorm:"type:text"`
	Details datatypes.JSONMap `gorm:"type:jsonb"`
	At      time.Time         `gorm:"not null;autoCreateTime"`
}

func (Audit) TableName() string { return "audit" }

func models() []any {
	return []any{
		&Profile{},
		&Credential{},
		&Activity{},
		&ActivityMatch{},
		&AccessRequest{},
		&Session{},
		&Audit{},
	}
}

// Apply creates or upgrades the schema on gormDB. The goose migration and
// the SQLite-backed tests share it so both run against the same tables and
// foreign keys.
func Apply(ctx context.Context, gormDB *gorm.DB) error {
	if err := gormDB.WithContext(ctx).AutoMigrate(models()...); err != nil {
		return err
	}

	m := gormDB.WithContext(ctx).Migrator()
	for _, c := range []struct {
		model any
		name  string
	}{
		{&Activity{}, "OwnerProfile"},
		{&ActivityMatch{}, "Activity"},
		{&ActivityMatch{}, "Requester"},
	} {
		if m.HasConstraint(c.model, c.name) {
			continue
		}
		if err := m.CreateConstraint(c.model, c.name); err != nil {
			return err
		}
	}
	return nil
}

func upInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := openTx(tx)
	if err != nil {
		return err
	}
	return Apply(ctx, gormDB)
}

func downInit(ctx context.Context, tx *sql.Tx) error {
	gormDB, err := openTx(tx)
	if err != nil {
		return err
	}

	// Children first so foreign keys never block the drop.
	return gormDB.WithContext(ctx).Migrator().DropTable(
		&Audit{},
		&Session{},
		&AccessRequest{},
		&ActivityMatch{},
		&Activity{},
		&Credential{},
		&Profile{},
	)
}

func openTx(tx *sql.Tx) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: tx, PreferSimpleProtocol: true}), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: false},
		Logger:         logger.Default.LogMode(logger.Silent),
	})
}
