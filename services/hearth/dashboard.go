package hearth

import (
	"context"
)

// Dashboard assembles the caller's activities with their match requests,
// followed by one entry per match the caller requested on someone else's
// activity. Contact fields of a counterparty are disclosed only when the
// match they belong to is approved.
//
// The reads are sequential and not isolated from each other; a match
// changing mid-assembly may show up half-updated.
func (s *Store) Dashboard(ctx context.Context, email string) ([]ViewItem, error) {
	owned, err := s.ListOwnedBy(ctx, email)
	if err != nil {
		return nil, err
	}

	ownedIDs := make([]int64, 0, len(owned))
	for _, a := range owned {
		ownedIDs = append(ownedIDs, a.ID)
	}

	matches, err := s.matchesInvolving(ctx, ownedIDs, email)
	if err != nil {
		return nil, err
	}

	byActivity := make(map[int64][]matchModel, len(owned))
	var requested []matchModel
	var foreignIDs []int64
	seenForeign := map[int64]bool{}
	counterparties := map[string]bool{}
	ownedSet := make(map[int64]bool, len(owned))
	for _, id := range ownedIDs {
		ownedSet[id] = true
	}

	for _, m := range matches {
		if ownedSet[m.ActivityID] {
			byActivity[m.ActivityID] = append(byActivity[m.ActivityID], m)
			counterparties[m.MatchEmail] = true
		}
		if m.MatchEmail == email {
			requested = append(requested, m)
			if !ownedSet[m.ActivityID] && !seenForeign[m.ActivityID] {
				seenForeign[m.ActivityID] = true
				foreignIDs = append(foreignIDs, m.ActivityID)
			}
		}
	}

	activities := make(map[int64]Activity, len(owned)+len(foreignIDs))
	for _, a := range owned {
		activities[a.ID] = a
	}
	foreign, err := s.activitiesByIDs(ctx, foreignIDs)
	if err != nil {
		return nil, err
	}
	for _, a := range foreign {
		activities[a.ID] = a
		counterparties[a.Owner] = true
	}

	emails := make([]string, 0, len(counterparties))
	for e := range counterparties {
		emails = append(emails, e)
	}
	profiles, err := s.ProfilesByEmails(ctx, emails)
	if err != nil {
		return nil, err
	}
	profileByEmail := make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		profileByEmail[p.Email] = p
	}

	items := make([]ViewItem, 0, len(owned)+len(requested))
	for _, a := range owned {
		views := make([]MatchView, 0, len(byActivity[a.ID]))
		for _, m := range byActivity[a.ID] {
			views = append(views, matchView(m, profileByEmail[m.MatchEmail], hasProfile(profileByEmail, m.MatchEmail)))
		}
		items = append(items, ViewItem{Type: ViewOwned, Activity: a, Matches: views})
	}

	for _, m := range requested {
		a, ok := activities[m.ActivityID]
		if !ok {
			continue
		}
		view := matchView(m, profileByEmail[a.Owner], hasProfile(profileByEmail, a.Owner))
		items = append(items, ViewItem{Type: ViewRequested, Activity: a, Match: &view})
	}

	return items, nil
}

func (s *Store) activitiesByIDs(ctx context.Context, ids []int64) ([]Activity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []activityModel
	if err := s.conn(ctx).Where("id IN ?", ids).Order("id").Find(&rows).Error; err != nil {
		return nil, storeErr("load activities", err)
	}
	return activitiesToDomain(rows), nil
}

func hasProfile(profiles map[string]Profile, email string) bool {
	_, ok := profiles[email]
	return ok
}

func matchView(m matchModel, counterparty Profile, found bool) MatchView {
	return MatchView{
		MatchID:      m.ID,
		Status:       MatchStatus(m.Status),
		Counterparty: disclose(counterparty, found, MatchStatus(m.Status)),
	}
}

// disclose projects p for a match in the given status. Email and phone are
// only ever set for approved matches.
func disclose(p Profile, found bool, status MatchStatus) ProfileSnapshot {
	snap := ProfileSnapshot{
		Name:           p.Name,
		Location:       p.Location,
		AboutMe:        p.AboutMe,
		OnlinePresence: p.OnlinePresence,
	}
	if found && status == StatusApproved {
		email, phone := p.Email, p.Phone
		snap.Email = &email
		snap.Phone = &phone
	}
	return snap
}
