package ledger

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitease/internal/calculator"
	"github.com/mmynk/splitease/internal/models"
)

const maxGroupNameLength = 120

// NewGroup describes a group to create. Members are referenced by email.
type NewGroup struct {
	Name         string
	Category     models.Category
	MemberEmails []string
}

// GroupDetail is the full view of one group for one of its members.
type GroupDetail struct {
	Group       *models.Group
	Members     []models.Member
	Entries     []models.LedgerEntry
	TotalSpent  decimal.Decimal
	EntryCount  int
	Balances    map[string]decimal.Decimal
	YouAreOwed  decimal.Decimal
	YouOwe      decimal.Decimal
	Suggestions []calculator.Suggestion
}

// GroupListItem summarises one group in the requester's group list.
type GroupListItem struct {
	ID           string
	Name         string
	Category     models.Category
	MemberCount  int
	CreatedAt    int64
	LastActivity int64
	YouAreOwed   decimal.Decimal
	YouOwe       decimal.Decimal
}

// Summary is the requester's position across all of their groups.
type Summary struct {
	YouAreOwed  decimal.Decimal
	YouOwe      decimal.Decimal
	TotalGroups int
}

// CreateGroup creates a group owned by requesterID. Every email must belong to a
// registered user; the creator is always included and duplicates are dropped.
func (l *Ledger) CreateGroup(ctx context.Context, requesterID string, in NewGroup) (*models.Group, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidInput("group name required")
	}
	if utf8.RuneCountInString(name) > maxGroupNameLength {
		return nil, invalidInput("group name must be at most %d characters", maxGroupNameLength)
	}

	category := in.Category
	if category == "" {
		category = models.CategoryOther
	}
	if !category.Valid() {
		return nil, invalidInput("unknown category %q", category)
	}

	if _, err := l.store.GetUserByID(ctx, requesterID); err != nil {
		return nil, storageError(err, "user "+requesterID)
	}

	var emails []string
	seenEmail := make(map[string]bool)
	for _, e := range in.MemberEmails {
		e = models.NormalizeEmail(e)
		if e == "" || seenEmail[e] {
			continue
		}
		seenEmail[e] = true
		emails = append(emails, e)
	}

	users, err := l.store.GetUsersByEmails(ctx, emails)
	if err != nil {
		return nil, storageError(err, "members")
	}
	if len(users) != len(emails) {
		return nil, invalidInput("some members not found")
	}

	members := []string{requesterID}
	seenID := map[string]bool{requesterID: true}
	for _, e := range emails {
		id := users[e].ID
		if seenID[id] {
			continue
		}
		seenID[id] = true
		members = append(members, id)
	}

	group := &models.Group{
		Name:      name,
		Category:  category,
		Members:   members,
		CreatedBy: requesterID,
	}
	if err := l.store.CreateGroup(ctx, group); err != nil {
		return nil, storageError(err, "create group")
	}

	slog.Debug("Group created", "group_id", group.ID, "members", len(members))
	return group, nil
}

// DeleteGroup removes a group and its entries. Any member may delete it.
func (l *Ledger) DeleteGroup(ctx context.Context, requesterID, groupID string) error {
	if _, err := l.memberGroup(ctx, requesterID, groupID); err != nil {
		return err
	}
	if err := l.store.DeleteGroup(ctx, groupID); err != nil {
		return storageError(err, "group "+groupID)
	}
	return nil
}

// GroupView assembles the group's entries, balances and settlement suggestions.
func (l *Ledger) GroupView(ctx context.Context, requesterID, groupID string) (*GroupDetail, error) {
	group, err := l.memberGroup(ctx, requesterID, groupID)
	if err != nil {
		return nil, err
	}

	entries, err := l.store.ListEntriesByGroup(ctx, groupID)
	if err != nil {
		return nil, storageError(err, "entries for group "+groupID)
	}

	users, err := l.store.GetUsersByIDs(ctx, group.Members)
	if err != nil {
		return nil, storageError(err, "members of group "+groupID)
	}
	members := make([]models.Member, len(group.Members))
	for i, id := range group.Members {
		members[i] = models.Member{ID: id}
		if u, ok := users[id]; ok {
			members[i].Name = u.Name
		}
	}

	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}

	balances := calculator.ComputeBalances(group.Members, entries)
	owed, owe := calculator.Position(balances[requesterID])

	return &GroupDetail{
		Group:       group,
		Members:     members,
		Entries:     entries,
		TotalSpent:  total,
		EntryCount:  len(entries),
		Balances:    balances,
		YouAreOwed:  owed,
		YouOwe:      owe,
		Suggestions: calculator.PlanSettlement(group.Members, balances),
	}, nil
}

// ListGroups returns every group of requesterID, newest first, with the requester's
// position computed against each group's entries alone.
func (l *Ledger) ListGroups(ctx context.Context, requesterID string) ([]GroupListItem, error) {
	groups, entries, err := l.groupsWithEntries(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	items := make([]GroupListItem, len(groups))
	for i, g := range groups {
		groupEntries := entries[g.ID]

		lastActivity := g.CreatedAt
		for _, e := range groupEntries {
			if e.CreatedAt > lastActivity {
				lastActivity = e.CreatedAt
			}
		}

		balances := calculator.ComputeBalances(g.Members, groupEntries)
		owed, owe := calculator.Position(balances[requesterID])

		items[i] = GroupListItem{
			ID:           g.ID,
			Name:         g.Name,
			Category:     g.Category,
			MemberCount:  len(g.Members),
			CreatedAt:    g.CreatedAt,
			LastActivity: lastActivity,
			YouAreOwed:   owed,
			YouOwe:       owe,
		}
	}
	return items, nil
}

// Summary adds up the requester's net position over all of their groups.
// Balances are computed per group; a debt in one group never nets against another
// group's engine run, only the resulting nets are summed.
func (l *Ledger) Summary(ctx context.Context, requesterID string) (*Summary, error) {
	groups, entries, err := l.groupsWithEntries(ctx, requesterID)
	if err != nil {
		return nil, err
	}

	net := decimal.Zero
	for _, g := range groups {
		balances := calculator.ComputeBalances(g.Members, entries[g.ID])
		net = net.Add(balances[requesterID])
	}

	owed, owe := calculator.Position(net)
	return &Summary{YouAreOwed: owed, YouOwe: owe, TotalGroups: len(groups)}, nil
}

func (l *Ledger) groupsWithEntries(ctx context.Context, userID string) ([]*models.Group, map[string][]models.LedgerEntry, error) {
	groups, err := l.store.ListGroupsForUser(ctx, userID)
	if err != nil {
		return nil, nil, storageError(err, "groups for user "+userID)
	}

	ids := make([]string, len(groups))
	for i, g := range groups {
		ids[i] = g.ID
	}
	entries, err := l.store.ListEntriesByGroups(ctx, ids)
	if err != nil {
		return nil, nil, storageError(err, "entries")
	}
	return groups, entries, nil
}
