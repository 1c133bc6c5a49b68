package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitease/internal/models"
	"github.com/mmynk/splitease/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// Create temp directory for test database
	tempDir, err := os.MkdirTemp("", "splitease-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func mustCreateUser(t *testing.T, store *SQLiteStore, email, name string) *models.User {
	t.Helper()
	user := models.NewUser(email, name, "hash")
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("CreateUser(%s) failed: %v", email, err)
	}
	return user
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSQLiteStore_Users(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "alice@example.com", "Alice")
	bob := mustCreateUser(t, store, "bob@example.com", "Bob")

	t.Run("CreateUser opens an empty wallet", func(t *testing.T) {
		wallet, err := store.GetWallet(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetWallet failed: %v", err)
		}
		if !wallet.Balance.IsZero() {
			t.Errorf("Expected zero balance, got %s", wallet.Balance)
		}
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		dup := models.NewUser("alice@example.com", "Other Alice", "hash")
		err := store.CreateUser(ctx, dup)
		if !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("Expected ErrDuplicate, got %v", err)
		}
	})

	t.Run("lookup by email and ID", func(t *testing.T) {
		byEmail, err := store.GetUserByEmail(ctx, "bob@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.ID != bob.ID || byEmail.Name != "Bob" {
			t.Errorf("Unexpected user: %+v", byEmail)
		}

		byID, err := store.GetUserByID(ctx, alice.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if byID.Email != "alice@example.com" {
			t.Errorf("Expected alice@example.com, got %s", byID.Email)
		}

		if _, err := store.GetUserByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("batch lookups omit unknown keys", func(t *testing.T) {
		byID, err := store.GetUsersByIDs(ctx, []string{alice.ID, "missing", bob.ID})
		if err != nil {
			t.Fatalf("GetUsersByIDs failed: %v", err)
		}
		if len(byID) != 2 {
			t.Errorf("Expected 2 users, got %d", len(byID))
		}

		byEmail, err := store.GetUsersByEmails(ctx, []string{"bob@example.com", "nobody@example.com"})
		if err != nil {
			t.Fatalf("GetUsersByEmails failed: %v", err)
		}
		if len(byEmail) != 1 || byEmail["bob@example.com"].ID != bob.ID {
			t.Errorf("Unexpected result: %v", byEmail)
		}
	})
}

func TestSQLiteStore_GroupsAndEntries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "alice@example.com", "Alice")
	bob := mustCreateUser(t, store, "bob@example.com", "Bob")
	carol := mustCreateUser(t, store, "carol@example.com", "Carol")

	group := &models.Group{
		Name:      "Roommates",
		Category:  models.CategoryHome,
		Members:   []string{carol.ID, alice.ID, bob.ID},
		CreatedBy: alice.ID,
	}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	t.Run("CreateGroup generates ID and timestamp", func(t *testing.T) {
		if group.ID == "" {
			t.Error("Expected group ID to be generated")
		}
		if group.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}
	})

	t.Run("GetGroup keeps member order", func(t *testing.T) {
		got, err := store.GetGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		want := []string{carol.ID, alice.ID, bob.ID}
		if len(got.Members) != len(want) {
			t.Fatalf("Expected %d members, got %d", len(want), len(got.Members))
		}
		for i := range want {
			if got.Members[i] != want[i] {
				t.Errorf("Member %d: expected %s, got %s", i, want[i], got.Members[i])
			}
		}
		if got.Category != models.CategoryHome {
			t.Errorf("Expected category home, got %s", got.Category)
		}
	})

	t.Run("entries round-trip newest first with exact amounts", func(t *testing.T) {
		older := &models.LedgerEntry{
			GroupID: group.ID, Description: "Groceries", Amount: d("30.10"),
			PayerID: alice.ID, Kind: models.KindExpense, CreatedBy: alice.ID, CreatedAt: 1000,
			Splits: []models.Split{
				{MemberID: alice.ID, Share: d("10.04")},
				{MemberID: bob.ID, Share: d("10.03")},
				{MemberID: carol.ID, Share: d("10.03")},
			},
		}
		newer := &models.LedgerEntry{
			GroupID: group.ID, Description: "Wallet Payment", Amount: d("10.03"),
			PayerID: bob.ID, Kind: models.KindPayment, CreatedBy: bob.ID, CreatedAt: 2000,
			Splits: []models.Split{{MemberID: alice.ID, Share: d("10.03")}},
		}
		for _, e := range []*models.LedgerEntry{older, newer} {
			if err := store.CreateEntry(ctx, e); err != nil {
				t.Fatalf("CreateEntry failed: %v", err)
			}
		}

		entries, err := store.ListEntriesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListEntriesByGroup failed: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(entries))
		}
		if entries[0].ID != newer.ID || entries[0].Kind != models.KindPayment {
			t.Errorf("Expected newest payment first, got %+v", entries[0])
		}
		got := entries[1]
		if !got.Amount.Equal(d("30.10")) {
			t.Errorf("Expected amount 30.10, got %s", got.Amount)
		}
		if len(got.Splits) != 3 || got.Splits[0].MemberID != alice.ID || !got.Splits[0].Share.Equal(d("10.04")) {
			t.Errorf("Unexpected splits: %+v", got.Splits)
		}
	})

	t.Run("ListGroupsForUser only returns member groups", func(t *testing.T) {
		other := &models.Group{Name: "Trip", Members: []string{bob.ID}, CreatedBy: bob.ID}
		if err := store.CreateGroup(ctx, other); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}

		groups, err := store.ListGroupsForUser(ctx, alice.ID)
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(groups) != 1 || groups[0].ID != group.ID {
			t.Fatalf("Expected only Roommates, got %+v", groups)
		}
		if len(groups[0].Members) != 3 {
			t.Errorf("Expected members loaded, got %v", groups[0].Members)
		}

		bobGroups, err := store.ListGroupsForUser(ctx, bob.ID)
		if err != nil {
			t.Fatalf("ListGroupsForUser failed: %v", err)
		}
		if len(bobGroups) != 2 {
			t.Errorf("Expected 2 groups for bob, got %d", len(bobGroups))
		}
		if other.Category != models.CategoryOther {
			t.Errorf("Expected default category other, got %s", other.Category)
		}
	})

	t.Run("DeleteGroup removes entries", func(t *testing.T) {
		if err := store.DeleteGroup(ctx, group.ID); err != nil {
			t.Fatalf("DeleteGroup failed: %v", err)
		}
		if _, err := store.GetGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		entries, err := store.ListEntriesByGroup(ctx, group.ID)
		if err != nil {
			t.Fatalf("ListEntriesByGroup failed: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("Expected no entries, got %d", len(entries))
		}
		if err := store.DeleteGroup(ctx, group.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestSQLiteStore_Wallets(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	alice := mustCreateUser(t, store, "alice@example.com", "Alice")
	bob := mustCreateUser(t, store, "bob@example.com", "Bob")
	group := &models.Group{Name: "Pair", Members: []string{alice.ID, bob.ID}, CreatedBy: alice.ID}
	if err := store.CreateGroup(ctx, group); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	payment := func(amount string) *models.LedgerEntry {
		return &models.LedgerEntry{
			GroupID: group.ID, Description: "Wallet Payment", Amount: d(amount),
			PayerID: alice.ID, Kind: models.KindPayment, CreatedBy: alice.ID,
			Splits: []models.Split{{MemberID: bob.ID, Share: d(amount)}},
		}
	}

	t.Run("CreditWallet adds exactly", func(t *testing.T) {
		if _, err := store.CreditWallet(ctx, alice.ID, d("0.1")); err != nil {
			t.Fatalf("CreditWallet failed: %v", err)
		}
		wallet, err := store.CreditWallet(ctx, alice.ID, d("49.9"))
		if err != nil {
			t.Fatalf("CreditWallet failed: %v", err)
		}
		if !wallet.Balance.Equal(d("50")) {
			t.Errorf("Expected 50, got %s", wallet.Balance)
		}
	})

	t.Run("CreditWallet unknown user", func(t *testing.T) {
		if _, err := store.CreditWallet(ctx, "missing", d("1")); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("SettleFromWallet insufficient leaves state untouched", func(t *testing.T) {
		_, err := store.SettleFromWallet(ctx, payment("60"), false)
		if !errors.Is(err, storage.ErrInsufficientFunds) {
			t.Fatalf("Expected ErrInsufficientFunds, got %v", err)
		}
		wallet, _ := store.GetWallet(ctx, alice.ID)
		if !wallet.Balance.Equal(d("50")) {
			t.Errorf("Expected 50, got %s", wallet.Balance)
		}
		entries, _ := store.ListEntriesByGroup(ctx, group.ID)
		if len(entries) != 0 {
			t.Errorf("Expected no entries, got %d", len(entries))
		}
	})

	t.Run("SettleFromWallet debits and records", func(t *testing.T) {
		wallet, err := store.SettleFromWallet(ctx, payment("30"), false)
		if err != nil {
			t.Fatalf("SettleFromWallet failed: %v", err)
		}
		if !wallet.Balance.Equal(d("20")) {
			t.Errorf("Expected 20, got %s", wallet.Balance)
		}
		payee, _ := store.GetWallet(ctx, bob.ID)
		if !payee.Balance.IsZero() {
			t.Errorf("Expected payee wallet untouched, got %s", payee.Balance)
		}
		entries, _ := store.ListEntriesByGroup(ctx, group.ID)
		if len(entries) != 1 || entries[0].Kind != models.KindPayment {
			t.Errorf("Expected one payment entry, got %+v", entries)
		}
	})

	t.Run("SettleFromWallet can credit payee", func(t *testing.T) {
		if _, err := store.SettleFromWallet(ctx, payment("5"), true); err != nil {
			t.Fatalf("SettleFromWallet failed: %v", err)
		}
		payee, _ := store.GetWallet(ctx, bob.ID)
		if !payee.Balance.Equal(d("5")) {
			t.Errorf("Expected payee 5, got %s", payee.Balance)
		}
	})

	t.Run("concurrent credits are not lost", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := store.CreditWallet(ctx, bob.ID, d("1")); err != nil {
					t.Errorf("CreditWallet failed: %v", err)
				}
			}()
		}
		wg.Wait()

		payee, _ := store.GetWallet(ctx, bob.ID)
		if !payee.Balance.Equal(d("25")) {
			t.Errorf("Expected 25, got %s", payee.Balance)
		}
	})
}
