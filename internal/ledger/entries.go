package ledger

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitease/internal/calculator"
	"github.com/mmynk/splitease/internal/models"
)

const maxDescriptionLength = 200

// ExpenseInput describes an expense to record. PayerID defaults to the requester.
type ExpenseInput struct {
	GroupID     string
	Description string
	Amount      decimal.Decimal
	PayerID     string
	Splits      []models.Split
}

// AddExpense validates and records an expense in a group the requester belongs to.
func (l *Ledger) AddExpense(ctx context.Context, requesterID string, in ExpenseInput) (*models.LedgerEntry, error) {
	group, err := l.memberGroup(ctx, requesterID, in.GroupID)
	if err != nil {
		return nil, err
	}

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, invalidInput("description required")
	}
	if utf8.RuneCountInString(description) > maxDescriptionLength {
		return nil, invalidInput("description must be at most %d characters", maxDescriptionLength)
	}

	payer := in.PayerID
	if payer == "" {
		payer = requesterID
	}

	entry := &models.LedgerEntry{
		GroupID:     group.ID,
		Description: description,
		Amount:      in.Amount,
		PayerID:     payer,
		Kind:        models.KindExpense,
		Splits:      in.Splits,
		CreatedBy:   requesterID,
	}
	if err := calculator.ValidateEntry(entry, group.Members); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := l.store.CreateEntry(ctx, entry); err != nil {
		return nil, storageError(err, "create entry")
	}
	return entry, nil
}

// ListEntries returns the group's entries, newest first.
func (l *Ledger) ListEntries(ctx context.Context, requesterID, groupID string) ([]models.LedgerEntry, error) {
	if _, err := l.memberGroup(ctx, requesterID, groupID); err != nil {
		return nil, err
	}
	entries, err := l.store.ListEntriesByGroup(ctx, groupID)
	if err != nil {
		return nil, storageError(err, "entries for group "+groupID)
	}
	return entries, nil
}
