package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mmynk/splitease/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s %v", want, got, msgAndArgs)
}

func expense(payer, amount string, splits ...models.Split) models.LedgerEntry {
	return models.LedgerEntry{
		Kind:    models.KindExpense,
		PayerID: payer,
		Amount:  dec(amount),
		Splits:  splits,
	}
}

func payment(payer, payee, amount string) models.LedgerEntry {
	return models.LedgerEntry{
		Kind:    models.KindPayment,
		PayerID: payer,
		Amount:  dec(amount),
		Splits:  []models.Split{{MemberID: payee, Share: dec(amount)}},
	}
}

func share(member, amount string) models.Split {
	return models.Split{MemberID: member, Share: dec(amount)}
}
