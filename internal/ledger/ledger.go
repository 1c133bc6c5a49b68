// Package ledger composes the balance engine and settlement planner with storage
// and membership checks. Every operation takes the requesting user's ID explicitly.
package ledger

import (
	"context"

	"github.com/mmynk/splitease/internal/models"
	"github.com/mmynk/splitease/internal/storage"
)

// Ledger is the entry point for group, expense and wallet operations.
type Ledger struct {
	store       storage.Store
	creditPayee bool
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithPayeeCredit controls whether a wallet settlement also credits the payee's wallet.
// It is off by default: the payment only moves the group balance.
func WithPayeeCredit(enabled bool) Option {
	return func(l *Ledger) {
		l.creditPayee = enabled
	}
}

// New creates a Ledger backed by store.
func New(store storage.Store, opts ...Option) *Ledger {
	l := &Ledger{store: store}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// memberGroup loads a group and checks that requesterID belongs to it.
func (l *Ledger) memberGroup(ctx context.Context, requesterID, groupID string) (*models.Group, error) {
	if groupID == "" {
		return nil, invalidInput("group id required")
	}
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storageError(err, "group "+groupID)
	}
	if !group.HasMember(requesterID) {
		return nil, ErrForbidden
	}
	return group, nil
}
