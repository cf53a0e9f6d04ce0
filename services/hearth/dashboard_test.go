package hearth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardDisclosure(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustProfile(t, store, "a@x.com", "p1")
	b := mustProfile(t, store, "b@x.com", "p2")
	mustProfile(t, store, "c@x.com", "p3")
	hike := mustActivity(t, store, "a@x.com", "hiking")

	mb, err := store.RequestMatch(ctx, hike.ID, "b@x.com")
	require.NoError(t, err)
	mc, err := store.RequestMatch(ctx, hike.ID, "c@x.com")
	require.NoError(t, err)

	before, err := store.Dashboard(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, before, 1)
	require.Equal(t, ViewOwned, before[0].Type)
	require.Len(t, before[0].Matches, 2)
	for _, m := range before[0].Matches {
		assert.Nil(t, m.Counterparty.Email)
		assert.Nil(t, m.Counterparty.Phone)
		assert.NotEmpty(t, m.Counterparty.Name)
	}

	requesterView, err := store.Dashboard(ctx, "b@x.com")
	require.NoError(t, err)
	require.Len(t, requesterView, 1)
	assert.Equal(t, ViewRequested, requesterView[0].Type)
	assert.Nil(t, requesterView[0].Match.Counterparty.Email)
	assert.Nil(t, requesterView[0].Match.Counterparty.Phone)
	assert.Equal(t, "Name of a@x.com", requesterView[0].Match.Counterparty.Name)

	require.NoError(t, store.ApproveMatch(ctx, mb.ID))

	after, err := store.Dashboard(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, after[0].Matches, 2)

	approved, pending := after[0].Matches[0], after[0].Matches[1]
	require.Equal(t, mb.ID, approved.MatchID)
	require.Equal(t, mc.ID, pending.MatchID)

	require.NotNil(t, approved.Counterparty.Email)
	require.NotNil(t, approved.Counterparty.Phone)
	assert.Equal(t, b.Email, *approved.Counterparty.Email)
	assert.Equal(t, b.Phone, *approved.Counterparty.Phone)
	assert.Nil(t, pending.Counterparty.Email, "disclosure is keyed on each match's own status")
	assert.Nil(t, pending.Counterparty.Phone)

	beforeApproved := before[0].Matches[0].Counterparty
	afterApproved := approved.Counterparty
	afterApproved.Email, afterApproved.Phone = nil, nil
	assert.Equal(t, beforeApproved, afterApproved, "approval only adds email and phone")

	requester, err := store.Dashboard(ctx, "b@x.com")
	require.NoError(t, err)
	require.NotNil(t, requester[0].Match.Counterparty.Email)
	assert.Equal(t, "a@x.com", *requester[0].Match.Counterparty.Email)
	assert.Equal(t, StatusApproved, requester[0].Match.Status)

	stillPending, err := store.Dashboard(ctx, "c@x.com")
	require.NoError(t, err)
	assert.Nil(t, stillPending[0].Match.Counterparty.Email)
}

func TestDashboardKeepsDuplicateRequests(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustProfile(t, store, "a@x.com", "p1")
	mustProfile(t, store, "b@x.com", "p2")
	hike := mustActivity(t, store, "a@x.com", "hiking")

	first, err := store.RequestMatch(ctx, hike.ID, "b@x.com")
	require.NoError(t, err)
	second, err := store.RequestMatch(ctx, hike.ID, "b@x.com")
	require.NoError(t, err)
	require.NoError(t, store.ApproveMatch(ctx, second.ID))

	items, err := store.Dashboard(ctx, "b@x.com")
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, first.ID, items[0].Match.MatchID)
	assert.Nil(t, items[0].Match.Counterparty.Email)
	assert.Equal(t, second.ID, items[1].Match.MatchID)
	assert.NotNil(t, items[1].Match.Counterparty.Email)
	assert.Equal(t, hike.ID, items[0].Activity.ID)
	assert.Equal(t, hike.ID, items[1].Activity.ID)

	owner, err := store.Dashboard(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, owner, 1)
	assert.Len(t, owner[0].Matches, 2)
}

func TestDashboardOrdersOwnedBeforeRequested(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	mustProfile(t, store, "a@x.com", "p1")
	mustProfile(t, store, "b@x.com", "p2")
	bChess := mustActivity(t, store, "b@x.com", "chess")
	aHike := mustActivity(t, store, "a@x.com", "hiking")
	aSwim := mustActivity(t, store, "a@x.com", "swimming")

	_, err := store.RequestMatch(ctx, bChess.ID, "a@x.com")
	require.NoError(t, err)

	items, err := store.Dashboard(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, ViewOwned, items[0].Type)
	assert.Equal(t, aHike.ID, items[0].Activity.ID)
	assert.Empty(t, items[0].Matches)
	assert.Equal(t, aSwim.ID, items[1].Activity.ID)
	assert.Equal(t, ViewRequested, items[2].Type)
	assert.Equal(t, bChess.ID, items[2].Activity.ID)
	assert.Equal(t, "chess", items[2].Activity.Description)
}

func TestDisclose(t *testing.T) {
	p := Profile{Name: "N", Location: "L", AboutMe: "A", OnlinePresence: "O", Email: "e@x.com", Phone: "1"}

	snap := disclose(p, true, StatusRequested)
	assert.Nil(t, snap.Email)
	assert.Nil(t, snap.Phone)
	assert.Equal(t, "N", snap.Name)

	snap = disclose(p, true, StatusApproved)
	require.NotNil(t, snap.Email)
	assert.Equal(t, "e@x.com", *snap.Email)
	assert.Equal(t, "1", *snap.Phone)

	snap = disclose(Profile{}, false, StatusApproved)
	assert.Nil(t, snap.Email, "a missing profile discloses nothing")
}
