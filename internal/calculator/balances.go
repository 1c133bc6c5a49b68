package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitease/internal/models"
)

// ComputeBalances returns the net balance of every member over the given entries.
// Positive = the group owes the member, Negative = the member owes the group.
//
// Algorithm:
// - Every member starts at zero, so members without activity still appear
// - For each entry: payer is credited the full amount, each split member is debited their share
// - A payer included in their own splits is simply debited like anyone else
//
// Entry order does not matter. Members that only appear in entries (e.g. someone who
// has since left the group) are included too, otherwise the balances would not sum to zero.
func ComputeBalances(members []string, entries []models.LedgerEntry) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(members))
	for _, m := range members {
		balances[m] = decimal.Zero
	}

	for _, entry := range entries {
		balances[entry.PayerID] = balances[entry.PayerID].Add(entry.Amount)
		for _, split := range entry.Splits {
			balances[split.MemberID] = balances[split.MemberID].Sub(split.Share)
		}
	}

	return balances
}

// Position splits a net balance into what the member is owed and what they owe.
// At most one of the two is non-zero.
func Position(net decimal.Decimal) (youAreOwed, youOwe decimal.Decimal) {
	if net.IsPositive() {
		return net, decimal.Zero
	}
	if net.IsNegative() {
		return decimal.Zero, net.Abs()
	}
	return decimal.Zero, decimal.Zero
}
