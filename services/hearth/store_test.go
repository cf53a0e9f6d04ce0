package hearth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateCredential(ctx, "c@x.com", "secret"))

	ok, err := store.VerifyCredential(ctx, "c@x.com", "secret")
	require.NoError(t, err)
	assert.True(t, ok)

	wrongPassword, errWrong := store.VerifyCredential(ctx, "c@x.com", "wrong")
	unknownEmail, errUnknown := store.VerifyCredential(ctx, "nouser@x.com", "anything")
	assert.False(t, wrongPassword)
	assert.False(t, unknownEmail)
	assert.Equal(t, errWrong, errUnknown, "unknown email and wrong password must look the same")
	assert.NoError(t, errWrong)

	err = store.CreateCredential(ctx, "c@x.com", "again")
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, store.DeleteCredential(ctx, "c@x.com"))
	require.NoError(t, store.DeleteCredential(ctx, "c@x.com"))
	ok, err = store.VerifyCredential(ctx, "c@x.com", "secret")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateCredentialValidation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{name: "missing email", email: " ", password: "pw"},
		{name: "missing password", email: "a@x.com", password: ""},
		{name: "password too long", email: "a@x.com", password: string(make([]byte, 73))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, store.CreateCredential(ctx, tt.email, tt.password), ErrValidation)
		})
	}
}

func TestCreateProfileWithCredentialIsAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustProfile(t, store, "a@x.com", "p1")

	t.Run("duplicate email keeps the original rows", func(t *testing.T) {
		_, err := store.CreateProfileWithCredential(ctx, Profile{Email: "a@x.com", Name: "Impostor"}, "other")
		require.ErrorIs(t, err, ErrConflict)

		p, err := store.ProfileByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "Name of a@x.com", p.Name)

		ok, err := store.VerifyCredential(ctx, "a@x.com", "other")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("credential failure rolls back the profile", func(t *testing.T) {
		require.NoError(t, store.CreateCredential(ctx, "c@x.com", "provisioned"))

		_, err := store.CreateProfileWithCredential(ctx, Profile{Email: "c@x.com", Name: "C"}, "mine")
		require.ErrorIs(t, err, ErrConflict)

		exists, err := store.ProfileExists(ctx, "c@x.com")
		require.NoError(t, err)
		assert.False(t, exists)

		ok, err := store.VerifyCredential(ctx, "c@x.com", "provisioned")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("matching provisioned credential is adopted", func(t *testing.T) {
		p, err := store.CreateProfileWithCredential(ctx, Profile{Email: "c@x.com", Name: "C"}, "provisioned")
		require.NoError(t, err)
		assert.Equal(t, "C", p.Name)

		ok, err := store.VerifyCredential(ctx, "c@x.com", "provisioned")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestProfileLookups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustProfile(t, store, "a@x.com", "p1")
	mustProfile(t, store, "b@x.com", "p2")

	_, err := store.ProfileByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	profiles, err := store.ProfilesByEmails(ctx, []string{"b@x.com", "a@x.com", "ghost@x.com"})
	require.NoError(t, err)
	emails := []string{}
	for _, p := range profiles {
		emails = append(emails, p.Email)
	}
	assert.ElementsMatch(t, []string{"a@x.com", "b@x.com"}, emails)

	profiles, err = store.ProfilesByEmails(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, profiles)
}

func TestUpdateProfileMergesPatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	mustProfile(t, store, "a@x.com", "p1")

	name := "Ada"
	empty := ""
	updated, err := store.UpdateProfile(ctx, "a@x.com", ProfilePatch{Name: &name, Phone: &empty})
	require.NoError(t, err)

	assert.Equal(t, "Ada", updated.Name)
	assert.Equal(t, "", updated.Phone)
	assert.Equal(t, "Lisbon", updated.Location, "omitted fields keep their value")
	assert.Equal(t, "a@x.com", updated.Email)

	_, err = store.UpdateProfile(ctx, "ghost@x.com", ProfilePatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)

	same, err := store.UpdateProfile(ctx, "a@x.com", ProfilePatch{})
	require.NoError(t, err)
	assert.Equal(t, updated, same)
}

func TestSaveActivityRequiresExistingOwner(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveActivity(context.Background(), Activity{Owner: "ghost@x.com", Description: "orphan"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListVisibleToExcludesOwnAndRequested(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustProfile(t, store, "a@x.com", "p1")
	mustProfile(t, store, "b@x.com", "p2")
	hike := mustActivity(t, store, "a@x.com", "hiking")
	swim := mustActivity(t, store, "a@x.com", "swimming")
	own := mustActivity(t, store, "b@x.com", "chess")

	feed, err := store.ListVisibleTo(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, []int64{hike.ID, swim.ID}, activityIDs(feed))
	assert.NotContains(t, activityIDs(feed), own.ID)

	m, err := store.RequestMatch(ctx, hike.ID, "b@x.com")
	require.NoError(t, err)
	feed, err = store.ListVisibleTo(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, []int64{swim.ID}, activityIDs(feed))

	require.NoError(t, store.ApproveMatch(ctx, m.ID))
	feed, err = store.ListVisibleTo(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, []int64{swim.ID}, activityIDs(feed), "approved matches stay hidden")

	require.NoError(t, store.DeleteMatch(ctx, m.ID))
	feed, err = store.ListVisibleTo(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, []int64{hike.ID, swim.ID}, activityIDs(feed), "deleting the match makes the activity visible again")
}

func TestApproveMatchIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustProfile(t, store, "a@x.com", "p1")
	mustProfile(t, store, "b@x.com", "p2")
	hike := mustActivity(t, store, "a@x.com", "hiking")
	m, err := store.RequestMatch(ctx, hike.ID, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, StatusRequested, m.Status)

	for i := 0; i < 2; i++ {
		require.NoError(t, store.ApproveMatch(ctx, m.ID))
		got, err := store.MatchByID(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, StatusApproved, got.Status)
	}

	assert.ErrorIs(t, store.ApproveMatch(ctx, 9999), ErrNotFound)
}

func TestRequestMatchRequiresExistingRows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustProfile(t, store, "a@x.com", "p1")
	hike := mustActivity(t, store, "a@x.com", "hiking")

	_, err := store.RequestMatch(ctx, hike.ID, "ghost@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.RequestMatch(ctx, 9999, "a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteActivityRemovesItsMatches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustProfile(t, store, "a@x.com", "p1")
	mustProfile(t, store, "b@x.com", "p2")
	hike := mustActivity(t, store, "a@x.com", "hiking")
	m, err := store.RequestMatch(ctx, hike.ID, "b@x.com")
	require.NoError(t, err)

	require.NoError(t, store.DeleteActivity(ctx, hike.ID))

	_, err = store.ActivityByID(ctx, hike.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = store.MatchByID(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteAccountCascade(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustProfile(t, store, "a@x.com", "p1")
	mustProfile(t, store, "b@x.com", "p2")
	mustProfile(t, store, "c@x.com", "p3")

	aHike := mustActivity(t, store, "a@x.com", "hiking")
	bChess := mustActivity(t, store, "b@x.com", "chess")

	onOwn, err := store.RequestMatch(ctx, aHike.ID, "b@x.com")
	require.NoError(t, err)
	requested, err := store.RequestMatch(ctx, bChess.ID, "a@x.com")
	require.NoError(t, err)
	unrelated, err := store.RequestMatch(ctx, bChess.ID, "c@x.com")
	require.NoError(t, err)

	require.NoError(t, store.DeleteAccountCascade(ctx, "a@x.com"))

	_, err = store.ProfileByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
	ok, err := store.VerifyCredential(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	assert.False(t, ok)

	owned, err := store.ListOwnedBy(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, owned)

	for _, id := range []int64{onOwn.ID, requested.ID} {
		_, err = store.MatchByID(ctx, id)
		assert.ErrorIs(t, err, ErrNotFound)
	}

	_, err = store.ActivityByID(ctx, bChess.ID)
	assert.NoError(t, err, "activities the user only requested survive")
	_, err = store.MatchByID(ctx, unrelated.ID)
	assert.NoError(t, err)

	items, err := store.Dashboard(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAccessRequests(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.CreateAccessRequest(ctx, "w1@x.com")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	_, err = store.CreateAccessRequest(ctx, "w2@x.com")
	require.NoError(t, err)
	_, err = store.CreateAccessRequest(ctx, "")
	assert.ErrorIs(t, err, ErrValidation)

	list, err := store.ListAccessRequests(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "w1@x.com", list[0].Email)
	assert.Equal(t, "w2@x.com", list[1].Email)
	assert.False(t, list[0].RequestedAt.IsZero())
}
