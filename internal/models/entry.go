package models

import "github.com/shopspring/decimal"

// EntryKind distinguishes shared expenses from wallet settlements.
type EntryKind string

const (
	// KindExpense is a purchase paid by one member and owed by the split members.
	KindExpense EntryKind = "expense"
	// KindPayment is a settlement from the payer to the single split member.
	KindPayment EntryKind = "payment"
)

// Split is one member's share of a ledger entry.
type Split struct {
	MemberID string
	Share    decimal.Decimal
}

// LedgerEntry is an immutable record of money moved inside a group.
type LedgerEntry struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string

	// GroupID is the group the entry belongs to.
	GroupID string

	// Description is a short human-readable label.
	Description string

	// Amount is the total amount paid. Always positive.
	Amount decimal.Decimal

	// PayerID is the member who paid.
	PayerID string

	// Kind is expense or payment.
	Kind EntryKind

	// Splits is the ordered list of shares. Their sum matches Amount within 0.01.
	// A payment has exactly one split: the payee, for the full amount.
	Splits []Split

	// CreatedBy is the user ID of whoever recorded the entry.
	CreatedBy string

	// CreatedAt is the Unix millisecond timestamp when the entry was recorded.
	CreatedAt int64
}
