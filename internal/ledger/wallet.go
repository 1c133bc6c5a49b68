package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitease/internal/calculator"
	"github.com/mmynk/splitease/internal/models"
)

const paymentDescription = "Wallet Payment"

// SettleRequest pays PayeeID out of PayerID's wallet inside GroupID.
type SettleRequest struct {
	PayerID string
	PayeeID string
	GroupID string
	Amount  decimal.Decimal
	Note    string
}

// Settlement is the result of a successful wallet payment.
type Settlement struct {
	Wallet  *models.Wallet
	Payment *models.LedgerEntry
}

// Wallet returns the user's wallet.
func (l *Ledger) Wallet(ctx context.Context, userID string) (*models.Wallet, error) {
	wallet, err := l.store.GetWallet(ctx, userID)
	if err != nil {
		return nil, storageError(err, "wallet "+userID)
	}
	return wallet, nil
}

// Credit tops up the user's wallet.
func (l *Ledger) Credit(ctx context.Context, userID string, amount decimal.Decimal) (*models.Wallet, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	wallet, err := l.store.CreditWallet(ctx, userID, amount)
	if err != nil {
		return nil, storageError(err, "wallet "+userID)
	}
	return wallet, nil
}

// DebitAndSettle takes Amount from the payer's wallet and records a payment entry to
// the payee in the group. Both happen in one storage transaction; on
// ErrInsufficientFunds nothing changes.
func (l *Ledger) DebitAndSettle(ctx context.Context, req SettleRequest) (*Settlement, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if req.PayeeID == "" {
		return nil, invalidInput("payee required")
	}
	if req.PayeeID == req.PayerID {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, calculator.ErrSelfPayment)
	}
	if req.GroupID == "" {
		return nil, invalidInput("group id required")
	}

	group, err := l.store.GetGroup(ctx, req.GroupID)
	if err != nil {
		return nil, storageError(err, "group "+req.GroupID)
	}

	description := paymentDescription
	if note := strings.TrimSpace(req.Note); note != "" {
		description += ": " + note
	}

	payment := &models.LedgerEntry{
		GroupID:     group.ID,
		Description: description,
		Amount:      req.Amount,
		PayerID:     req.PayerID,
		Kind:        models.KindPayment,
		Splits:      []models.Split{{MemberID: req.PayeeID, Share: req.Amount}},
		CreatedBy:   req.PayerID,
	}
	if err := calculator.ValidateEntry(payment, group.Members); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	wallet, err := l.store.SettleFromWallet(ctx, payment, l.creditPayee)
	if err != nil {
		return nil, storageError(err, "wallet "+req.PayerID)
	}

	slog.Info("Wallet settlement recorded",
		"group_id", group.ID,
		"payer_id", req.PayerID,
		"payee_id", req.PayeeID,
		"amount", req.Amount.String(),
		"payee_credited", l.creditPayee,
	)
	return &Settlement{Wallet: wallet, Payment: payment}, nil
}
