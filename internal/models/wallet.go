package models

import "github.com/shopspring/decimal"

// Wallet is a user's standalone cash balance.
// It is created with a zero balance alongside the user and only changes
// through a credit or a debit-and-settle.
type Wallet struct {
	UserID    string
	Balance   decimal.Decimal
	UpdatedAt int64
}
