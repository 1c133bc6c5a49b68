package calculator

import "github.com/shopspring/decimal"

// Suggestion is one suggested transfer: Debtor pays Creditor Amount.
type Suggestion struct {
	Debtor   string
	Creditor string
	Amount   decimal.Decimal
}

// PlanSettlement lists who owes whom, pair by pair.
//
// For every pair (i, j) with i < j in member order, where one member is owed money and the
// other owes money, it emits a suggestion for min(|b_i|, |b_j|) from the debtor to the creditor.
// This is a display aid and is intentionally not a minimum-transfer solver: a creditor can
// appear against several debtors and the amounts are not reduced as pairs are matched.
//
// Members missing from balances are treated as zero.
func PlanSettlement(order []string, balances map[string]decimal.Decimal) []Suggestion {
	var suggestions []Suggestion
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			a, b := order[i], order[j]
			balA, balB := balances[a], balances[b]

			switch {
			case balA.IsPositive() && balB.IsNegative():
				suggestions = append(suggestions, Suggestion{
					Debtor:   b,
					Creditor: a,
					Amount:   decimal.Min(balA, balB.Abs()),
				})
			case balB.IsPositive() && balA.IsNegative():
				suggestions = append(suggestions, Suggestion{
					Debtor:   a,
					Creditor: b,
					Amount:   decimal.Min(balB, balA.Abs()),
				})
			}
		}
	}
	return suggestions
}
