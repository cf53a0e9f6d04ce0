package hearth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"hearth/pkg/db"
)

// DefaultHashCost is the bcrypt work factor applied to new credentials.
const DefaultHashCost = 10

// Store is the relational data layer behind the service. It owns no
// connection lifecycle; the caller opens and closes the gorm handle.
type Store struct {
	orm      *gorm.DB
	hashCost int
}

// StoreOption customises a Store.
type StoreOption func(*Store)

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithHashCost(cost int) StoreOption {
	return func(s *Store) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.hashCost = cost
		}
	}
}

// NewStore wraps an open gorm handle.
func NewStore(orm *gorm.DB, opts ...StoreOption) (*Store, error) {
	if orm == nil {
		return nil, errors.New("orm is required")
	}
	s := &Store{orm: orm, hashCost: DefaultHashCost}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// WithTx runs fn inside a transaction. The Store handed to fn is bound to
// the transaction; returning an error or panicking rolls everything back.
// Nested calls become savepoints.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.orm.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{orm: tx, hashCost: s.hashCost})
	})
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return db.Ping(ctx, s.orm)
}

func (s *Store) conn(ctx context.Context) *gorm.DB {
	return s.orm.WithContext(ctx)
}

// querier exposes the current connection, or the open transaction, to raw scans.
func (s *Store) querier() db.Querier {
	return s.orm.Statement.ConnPool
}
