package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitease/internal/models"
)

// Item represents a single item on a receipt
type Item struct {
	Description string
	Amount      decimal.Decimal
	AssignedTo  []string
}

// centPlaces is the precision shares are rounded to.
const centPlaces = 2

// ItemizedShares computes how much each participant owes for an itemised receipt,
// including a proportional share of tax and fees.
// Based on the algorithm: person_total = person_subtotal × (total / subtotal)
//
// Without items, the total is split equally. Every item amount must be positive.
// Shares are rounded to cents and the rounding remainder goes to the first participant
// with a non-zero share, so the returned shares are never negative, always sum to exactly
// total and can be passed straight into an expense.
func ItemizedShares(items []Item, total, subtotal decimal.Decimal, participants []string) ([]models.Split, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("must have at least one participant")
	}
	if !total.IsPositive() {
		return nil, ErrNonPositiveAmount
	}

	raw := make(map[string]decimal.Decimal, len(participants))
	for _, p := range participants {
		raw[p] = decimal.Zero
	}

	if len(items) == 0 {
		perPerson := total.Div(decimal.NewFromInt(int64(len(participants))))
		for _, p := range participants {
			raw[p] = perPerson
		}
		return roundShares(raw, total, participants), nil
	}

	if !subtotal.IsPositive() {
		return nil, fmt.Errorf("subtotal must be positive")
	}

	// Split each item equally among the people it is assigned to
	assigned := decimal.Zero
	for _, item := range items {
		if !item.Amount.IsPositive() {
			return nil, fmt.Errorf("item %q: %w", item.Description, ErrNonPositiveAmount)
		}
		if len(item.AssignedTo) == 0 {
			continue
		}
		perPerson := item.Amount.Div(decimal.NewFromInt(int64(len(item.AssignedTo))))
		for _, person := range item.AssignedTo {
			if _, ok := raw[person]; !ok {
				return nil, fmt.Errorf("item %q assigned to non-participant %s", item.Description, person)
			}
			raw[person] = raw[person].Add(perPerson)
		}
		assigned = assigned.Add(item.Amount)
	}
	if assigned.Sub(subtotal).Abs().GreaterThan(SplitTolerance) {
		return nil, errors.New("assigned items must add up to the subtotal")
	}

	// Scale subtotals up to the total so tax and fees are shared proportionally
	ratio := total.Div(subtotal)
	for p, sub := range raw {
		raw[p] = sub.Mul(ratio)
	}

	return roundShares(raw, total, participants), nil
}

func roundShares(raw map[string]decimal.Decimal, total decimal.Decimal, participants []string) []models.Split {
	splits := make([]models.Split, len(participants))
	sum := decimal.Zero
	for i, p := range participants {
		share := raw[p].Round(centPlaces)
		splits[i] = models.Split{MemberID: p, Share: share}
		sum = sum.Add(share)
	}
	// Remainder goes to the first participant with a positive share, so no share can go negative
	target := 0
	for i, split := range splits {
		if split.Share.IsPositive() {
			target = i
			break
		}
	}
	splits[target].Share = splits[target].Share.Add(total.Sub(sum))
	return splits
}
