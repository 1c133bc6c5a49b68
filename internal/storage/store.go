// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitease/internal/models"
)

var (
	// ErrNotFound is returned when a user, group or wallet does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique key (e.g. email) is already taken.
	ErrDuplicate = errors.New("already exists")
	// ErrInsufficientFunds is returned by SettleFromWallet when the payer's balance is too low.
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)

// UserStore persists user accounts.
type UserStore interface {
	// CreateUser persists a new user together with an empty wallet.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns ErrNotFound if no user has the email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns ErrNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns a map of user ID to user. Unknown IDs are omitted.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// GetUsersByEmails returns a map of email to user. Unknown emails are omitted.
	GetUsersByEmails(ctx context.Context, emails []string) (map[string]*models.User, error)
}

// GroupStore persists groups and their member lists.
type GroupStore interface {
	// CreateGroup persists a new group. ID and CreatedAt are filled in when empty.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns the group with members in insertion order, or ErrNotFound.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsForUser returns every group the user is a member of, newest first.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	// DeleteGroup removes the group and all of its entries, or returns ErrNotFound.
	DeleteGroup(ctx context.Context, groupID string) error
}

// EntryStore persists ledger entries.
type EntryStore interface {
	// CreateEntry persists a validated entry. ID and CreatedAt are filled in when empty.
	CreateEntry(ctx context.Context, entry *models.LedgerEntry) error

	// ListEntriesByGroup returns a group's entries newest first.
	ListEntriesByGroup(ctx context.Context, groupID string) ([]models.LedgerEntry, error)

	// ListEntriesByGroups returns entries for several groups keyed by group ID, newest first.
	ListEntriesByGroups(ctx context.Context, groupIDs []string) (map[string][]models.LedgerEntry, error)
}

// WalletStore persists wallet balances. Every mutation is atomic.
type WalletStore interface {
	// GetWallet returns the user's wallet or ErrNotFound.
	GetWallet(ctx context.Context, userID string) (*models.Wallet, error)

	// CreditWallet atomically adds amount to the wallet and returns the updated wallet.
	CreditWallet(ctx context.Context, userID string, amount decimal.Decimal) (*models.Wallet, error)

	// SettleFromWallet atomically debits the payment's payer by its amount and stores the
	// payment entry, crediting the payee's wallet too when creditPayee is set.
	// It returns ErrInsufficientFunds, leaving everything untouched, if the payer cannot cover it.
	SettleFromWallet(ctx context.Context, payment *models.LedgerEntry, creditPayee bool) (*models.Wallet, error)
}

// Store defines the full persistence contract.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the ledger or service layers.
type Store interface {
	UserStore
	GroupStore
	EntryStore
	WalletStore

	// Close releases any resources held by the store.
	Close() error
}
