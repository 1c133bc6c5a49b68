package ledger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitease/internal/calculator"
	"github.com/mmynk/splitease/internal/models"
	"github.com/mmynk/splitease/internal/storage/sqlite"
)

type fixture struct {
	store *sqlite.SQLiteStore
	alice *models.User
	bob   *models.User
	carol *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{store: store}
	f.alice = f.user(t, "alice@example.com", "Alice")
	f.bob = f.user(t, "bob@example.com", "Bob")
	f.carol = f.user(t, "carol@example.com", "Carol")
	return f
}

func (f *fixture) user(t *testing.T, email, name string) *models.User {
	t.Helper()
	u := models.NewUser(email, name, "hash")
	require.NoError(t, f.store.CreateUser(context.Background(), u))
	return u
}

func (f *fixture) group(t *testing.T, l *Ledger, owner *models.User, emails ...string) *models.Group {
	t.Helper()
	g, err := l.CreateGroup(context.Background(), owner.ID, NewGroup{Name: "Group", MemberEmails: emails})
	require.NoError(t, err)
	return g
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func equalSplit(amount string, members ...string) []models.Split {
	total := d(amount)
	share := total.Div(decimal.NewFromInt(int64(len(members))))
	splits := make([]models.Split, len(members))
	for i, m := range members {
		splits[i] = models.Split{MemberID: m, Share: share}
	}
	return splits
}

func TestCreateGroup(t *testing.T) {
	f := newFixture(t)
	l := New(f.store)
	ctx := context.Background()

	t.Run("creator first, emails normalized and deduplicated", func(t *testing.T) {
		g, err := l.CreateGroup(ctx, f.alice.ID, NewGroup{
			Name:         "  Lisbon  ",
			Category:     models.CategoryTrip,
			MemberEmails: []string{" BOB@example.com", "bob@example.com", "alice@example.com", "carol@example.com"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Lisbon", g.Name)
		assert.Equal(t, []string{f.alice.ID, f.bob.ID, f.carol.ID}, g.Members)
	})

	t.Run("category defaults to other", func(t *testing.T) {
		g, err := l.CreateGroup(ctx, f.alice.ID, NewGroup{Name: "Misc"})
		require.NoError(t, err)
		assert.Equal(t, models.CategoryOther, g.Category)
		assert.Equal(t, []string{f.alice.ID}, g.Members)
	})

	tests := []struct {
		name string
		in   NewGroup
	}{
		{"empty name", NewGroup{Name: "   "}},
		{"unknown category", NewGroup{Name: "X", Category: "work"}},
		{"unknown member email", NewGroup{Name: "X", MemberEmails: []string{"nobody@example.com"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.CreateGroup(ctx, f.alice.ID, tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestGroupView(t *testing.T) {
	f := newFixture(t)
	l := New(f.store)
	ctx := context.Background()

	g := f.group(t, l, f.alice, "bob@example.com", "carol@example.com")

	_, err := l.AddExpense(ctx, f.alice.ID, ExpenseInput{
		GroupID: g.ID, Description: "Dinner", Amount: d("30"),
		Splits: []models.Split{{MemberID: f.bob.ID, Share: d("10")}, {MemberID: f.carol.ID, Share: d("20")}},
	})
	require.NoError(t, err)

	view, err := l.GroupView(ctx, f.bob.ID, g.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, view.EntryCount)
	assert.True(t, view.TotalSpent.Equal(d("30")))
	assert.True(t, view.Balances[f.alice.ID].Equal(d("30")))
	assert.True(t, view.YouOwe.Equal(d("10")))
	assert.True(t, view.YouAreOwed.IsZero())
	require.Len(t, view.Members, 3)
	assert.Equal(t, "Carol", view.Members[2].Name)

	require.Len(t, view.Suggestions, 2)
	assert.Equal(t, calculator.Suggestion{Debtor: f.bob.ID, Creditor: f.alice.ID, Amount: view.Suggestions[0].Amount}, view.Suggestions[0])
	assert.True(t, view.Suggestions[0].Amount.Equal(d("10")))
	assert.Equal(t, f.carol.ID, view.Suggestions[1].Debtor)
	assert.True(t, view.Suggestions[1].Amount.Equal(d("20")))

	t.Run("outsider is forbidden", func(t *testing.T) {
		dave := f.user(t, "dave@example.com", "Dave")
		_, err := l.GroupView(ctx, dave.ID, g.ID)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("missing group", func(t *testing.T) {
		_, err := l.GroupView(ctx, f.alice.ID, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestAddExpense(t *testing.T) {
	f := newFixture(t)
	l := New(f.store)
	ctx := context.Background()

	g := f.group(t, l, f.alice, "bob@example.com")

	tests := []struct {
		name      string
		requester string
		in        ExpenseInput
		wantErr   error
	}{
		{
			name:      "shares within tolerance",
			requester: f.alice.ID,
			in:        ExpenseInput{Description: "Taxi", Amount: d("10"), Splits: []models.Split{{MemberID: f.alice.ID, Share: d("4.995")}, {MemberID: f.bob.ID, Share: d("4.995")}}},
		},
		{
			name:      "shares off by more than a cent",
			requester: f.alice.ID,
			in:        ExpenseInput{Description: "Taxi", Amount: d("10"), Splits: []models.Split{{MemberID: f.bob.ID, Share: d("9.989")}}},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "payer outside group",
			requester: f.alice.ID,
			in:        ExpenseInput{Description: "Taxi", Amount: d("10"), PayerID: f.carol.ID, Splits: equalSplit("10", f.bob.ID)},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "requester outside group",
			requester: f.carol.ID,
			in:        ExpenseInput{Description: "Taxi", Amount: d("10"), Splits: equalSplit("10", f.bob.ID)},
			wantErr:   ErrForbidden,
		},
		{
			name:      "missing description",
			requester: f.alice.ID,
			in:        ExpenseInput{Amount: d("10"), Splits: equalSplit("10", f.bob.ID)},
			wantErr:   ErrInvalidInput,
		},
		{
			name:      "no splits",
			requester: f.alice.ID,
			in:        ExpenseInput{Description: "Taxi", Amount: d("10")},
			wantErr:   ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.GroupID = g.ID
			entry, err := l.AddExpense(ctx, tt.requester, tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.requester, entry.PayerID)
			assert.Equal(t, models.KindExpense, entry.Kind)
			assert.NotEmpty(t, entry.ID)
		})
	}

	entries, err := l.ListEntries(ctx, f.bob.ID, g.ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestListGroupsLastActivity(t *testing.T) {
	f := newFixture(t)
	l := New(f.store)
	ctx := context.Background()

	quiet := f.group(t, l, f.alice, "bob@example.com")
	busy := f.group(t, l, f.alice, "carol@example.com")

	entry, err := l.AddExpense(ctx, f.carol.ID, ExpenseInput{
		GroupID: busy.ID, Description: "Groceries", Amount: d("40"), Splits: equalSplit("40", f.alice.ID, f.carol.ID),
	})
	require.NoError(t, err)

	items, err := l.ListGroups(ctx, f.alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byID := map[string]GroupListItem{}
	for _, it := range items {
		byID[it.ID] = it
	}

	assert.Equal(t, quiet.CreatedAt, byID[quiet.ID].LastActivity)
	assert.True(t, byID[quiet.ID].YouOwe.IsZero())

	assert.Equal(t, entry.CreatedAt, byID[busy.ID].LastActivity)
	assert.Equal(t, 2, byID[busy.ID].MemberCount)
	assert.True(t, byID[busy.ID].YouOwe.Equal(d("20")))
}

func TestSummaryAcrossGroups(t *testing.T) {
	f := newFixture(t)
	l := New(f.store)
	ctx := context.Background()

	withBob := f.group(t, l, f.alice, "bob@example.com")
	withCarol := f.group(t, l, f.alice, "carol@example.com")

	// Alice is +15 with Bob.
	_, err := l.AddExpense(ctx, f.alice.ID, ExpenseInput{
		GroupID: withBob.ID, Description: "Hotel", Amount: d("30"), Splits: equalSplit("30", f.alice.ID, f.bob.ID),
	})
	require.NoError(t, err)

	// Alice is -5 with Carol.
	_, err = l.AddExpense(ctx, f.carol.ID, ExpenseInput{
		GroupID: withCarol.ID, Description: "Lunch", Amount: d("10"), Splits: equalSplit("10", f.alice.ID, f.carol.ID),
	})
	require.NoError(t, err)

	summary, err := l.Summary(ctx, f.alice.ID)
	require.NoError(t, err)
	assert.True(t, summary.YouAreOwed.Equal(d("10")), "got %s", summary.YouAreOwed)
	assert.True(t, summary.YouOwe.IsZero())
	assert.Equal(t, 2, summary.TotalGroups)
}

func TestDeleteGroup(t *testing.T) {
	f := newFixture(t)
	l := New(f.store)
	ctx := context.Background()

	g := f.group(t, l, f.alice, "bob@example.com")

	assert.ErrorIs(t, l.DeleteGroup(ctx, f.carol.ID, g.ID), ErrForbidden)
	require.NoError(t, l.DeleteGroup(ctx, f.bob.ID, g.ID))
	assert.ErrorIs(t, l.DeleteGroup(ctx, f.bob.ID, g.ID), ErrNotFound)
}

func TestCredit(t *testing.T) {
	f := newFixture(t)
	l := New(f.store)
	ctx := context.Background()

	for _, amount := range []string{"0", "-5"} {
		_, err := l.Credit(ctx, f.alice.ID, d(amount))
		assert.ErrorIs(t, err, ErrInvalidAmount)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	wallet, err := l.Credit(ctx, f.alice.ID, d("12.50"))
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(d("12.5")))

	_, err = l.Credit(ctx, "missing", d("1"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDebitAndSettle(t *testing.T) {
	f := newFixture(t)
	l := New(f.store)
	ctx := context.Background()

	g := f.group(t, l, f.alice, "bob@example.com")
	_, err := l.Credit(ctx, f.alice.ID, d("50"))
	require.NoError(t, err)

	settled, err := l.DebitAndSettle(ctx, SettleRequest{
		PayerID: f.alice.ID, PayeeID: f.bob.ID, GroupID: g.ID, Amount: d("30"), Note: "rent",
	})
	require.NoError(t, err)
	assert.True(t, settled.Wallet.Balance.Equal(d("20")))
	assert.Equal(t, "Wallet Payment: rent", settled.Payment.Description)

	entries, err := l.ListEntries(ctx, f.alice.ID, g.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.KindPayment, entries[0].Kind)
	require.Len(t, entries[0].Splits, 1)
	assert.Equal(t, f.bob.ID, entries[0].Splits[0].MemberID)
	assert.True(t, entries[0].Splits[0].Share.Equal(d("30")))

	t.Run("insufficient funds leaves wallet unchanged", func(t *testing.T) {
		_, err := l.DebitAndSettle(ctx, SettleRequest{
			PayerID: f.alice.ID, PayeeID: f.bob.ID, GroupID: g.ID, Amount: d("60"),
		})
		assert.ErrorIs(t, err, ErrInsufficientFunds)

		wallet, err := l.Wallet(ctx, f.alice.ID)
		require.NoError(t, err)
		assert.True(t, wallet.Balance.Equal(d("20")))

		entries, err := l.ListEntries(ctx, f.alice.ID, g.ID)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("payee wallet untouched by default", func(t *testing.T) {
		wallet, err := l.Wallet(ctx, f.bob.ID)
		require.NoError(t, err)
		assert.True(t, wallet.Balance.IsZero())
	})

	rejected := []struct {
		name    string
		req     SettleRequest
		wantErr error
	}{
		{"zero amount", SettleRequest{PayerID: f.alice.ID, PayeeID: f.bob.ID, GroupID: g.ID, Amount: d("0")}, ErrInvalidAmount},
		{"self payment", SettleRequest{PayerID: f.alice.ID, PayeeID: f.alice.ID, GroupID: g.ID, Amount: d("1")}, ErrInvalidInput},
		{"payee outside group", SettleRequest{PayerID: f.alice.ID, PayeeID: f.carol.ID, GroupID: g.ID, Amount: d("1")}, ErrInvalidInput},
		{"missing group", SettleRequest{PayerID: f.alice.ID, PayeeID: f.bob.ID, GroupID: "missing", Amount: d("1")}, ErrNotFound},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.DebitAndSettle(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDebitAndSettleCreditsPayeeWhenEnabled(t *testing.T) {
	f := newFixture(t)
	l := New(f.store, WithPayeeCredit(true))
	ctx := context.Background()

	g := f.group(t, l, f.alice, "bob@example.com")
	_, err := l.Credit(ctx, f.alice.ID, d("50"))
	require.NoError(t, err)

	_, err = l.DebitAndSettle(ctx, SettleRequest{PayerID: f.alice.ID, PayeeID: f.bob.ID, GroupID: g.ID, Amount: d("30")})
	require.NoError(t, err)

	wallet, err := l.Wallet(ctx, f.bob.ID)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(d("30")))

	view, err := l.GroupView(ctx, f.alice.ID, g.ID)
	require.NoError(t, err)
	assert.True(t, view.Balances[f.alice.ID].Equal(d("30")))
	assert.True(t, view.Balances[f.bob.ID].Equal(d("-30")))
}
