package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitease/internal/models"
)

// SplitTolerance is the largest accepted difference between an entry's amount and the
// sum of its shares. It absorbs rounding in client-side split calculations only;
// balances themselves are computed exactly.
var SplitTolerance = decimal.New(1, -2)

var (
	ErrNonPositiveAmount = errors.New("amount must be positive")
	ErrNegativeShare     = errors.New("split share cannot be negative")
	ErrNoSplits          = errors.New("expense must have at least one split")
	ErrUnbalancedSplits  = errors.New("splits must sum to total amount")
	ErrPayerNotMember    = errors.New("payer must be a member of the group")
	ErrSplitNotMember    = errors.New("split member must be a member of the group")
	ErrInvalidPayment    = errors.New("payment must have exactly one split for the full amount")
	ErrSelfPayment       = errors.New("cannot pay yourself")
	ErrUnknownKind       = errors.New("unknown entry kind")
)

// ValidateEntry checks an entry against the group's member list before it is stored.
// Entries are validated once here and never again at read time.
func ValidateEntry(entry *models.LedgerEntry, members []string) error {
	if !entry.Amount.IsPositive() {
		return ErrNonPositiveAmount
	}

	memberSet := make(map[string]bool, len(members))
	for _, m := range members {
		memberSet[m] = true
	}
	if !memberSet[entry.PayerID] {
		return fmt.Errorf("%w: %s", ErrPayerNotMember, entry.PayerID)
	}

	switch entry.Kind {
	case models.KindExpense:
		if len(entry.Splits) == 0 {
			return ErrNoSplits
		}
	case models.KindPayment:
		if len(entry.Splits) != 1 || !entry.Splits[0].Share.Equal(entry.Amount) {
			return ErrInvalidPayment
		}
		if entry.Splits[0].MemberID == entry.PayerID {
			return ErrSelfPayment
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, entry.Kind)
	}

	sum := decimal.Zero
	for _, split := range entry.Splits {
		if !memberSet[split.MemberID] {
			return fmt.Errorf("%w: %s", ErrSplitNotMember, split.MemberID)
		}
		if split.Share.IsNegative() {
			return fmt.Errorf("%w: %s", ErrNegativeShare, split.MemberID)
		}
		sum = sum.Add(split.Share)
	}

	if sum.Sub(entry.Amount).Abs().GreaterThan(SplitTolerance) {
		return fmt.Errorf("%w: splits sum to %s, amount is %s", ErrUnbalancedSplits, sum, entry.Amount)
	}

	return nil
}
