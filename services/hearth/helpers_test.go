package hearth

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"hearth/pkg/db/dbtest"
	"hearth/pkg/render"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
	err  error
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *recordingNotifier) notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(dbtest.New(t), WithHashCost(bcrypt.MinCost))
	require.NoError(t, err)
	return store
}

func newTestService(t *testing.T, cfg Config) (*Service, *recordingNotifier) {
	t.Helper()
	engine, err := render.New()
	require.NoError(t, err)

	notifier := &recordingNotifier{}
	svc, err := NewService(newTestStore(t), notifier, engine, cfg, zerolog.Nop())
	require.NoError(t, err)
	return svc, notifier
}

func mustProfile(t *testing.T, s *Store, email, password string) Profile {
	t.Helper()
	p, err := s.CreateProfileWithCredential(context.Background(), Profile{
		Email:          email,
		Name:           "Name of " + email,
		Location:       "Lisbon",
		AboutMe:        "about " + email,
		OnlinePresence: "@" + email,
		Phone:          "555-" + email,
	}, password)
	require.NoError(t, err)
	return p
}

func mustActivity(t *testing.T, s *Store, owner, description string) Activity {
	t.Helper()
	a, err := s.SaveActivity(context.Background(), Activity{
		Owner:            owner,
		Description:      description,
		Location:         "hills",
		Timing:           "saturday",
		BuddyDescription: "anyone fit",
	})
	require.NoError(t, err)
	return a
}

func activityIDs(list []Activity) []int64 {
	ids := make([]int64, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.ID)
	}
	return ids
}
