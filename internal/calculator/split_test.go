package calculator

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitease/internal/models"
)

func TestItemizedShares(t *testing.T) {
	tests := []struct {
		name         string
		items        []Item
		total        string
		subtotal     string
		participants []string
		wantErr      bool
		want         map[string]string
	}{
		{
			name: "simple two-person split with tax",
			items: []Item{
				{Description: "Pizza", Amount: dec("20"), AssignedTo: []string{"Alice", "Bob"}},
				{Description: "Salad", Amount: dec("10"), AssignedTo: []string{"Alice"}},
			},
			total:        "33",
			subtotal:     "30",
			participants: []string{"Alice", "Bob"},
			// Alice: subtotal = 10 + 10 = 20, with tax = 22
			// Bob: subtotal = 10, with tax = 11
			want: map[string]string{"Alice": "22", "Bob": "11"},
		},
		{
			name:         "zero subtotal with items should error",
			items:        []Item{{Description: "Item", Amount: dec("10"), AssignedTo: []string{"Alice"}}},
			total:        "10",
			subtotal:     "0",
			participants: []string{"Alice"},
			wantErr:      true,
		},
		{
			name:         "no participants should error",
			items:        []Item{{Description: "Item", Amount: dec("10"), AssignedTo: []string{"Alice"}}},
			total:        "10",
			subtotal:     "10",
			participants: []string{},
			wantErr:      true,
		},
		{
			name:         "item assigned to non-participant should error",
			items:        []Item{{Description: "Item", Amount: dec("10"), AssignedTo: []string{"Mallory"}}},
			total:        "10",
			subtotal:     "10",
			participants: []string{"Alice"},
			wantErr:      true,
		},
		{
			name: "unassigned items should error",
			items: []Item{
				{Description: "Pizza", Amount: dec("20"), AssignedTo: []string{"Alice"}},
				{Description: "Wine", Amount: dec("15")},
			},
			total:        "35",
			subtotal:     "35",
			participants: []string{"Alice"},
			wantErr:      true,
		},
		{
			name: "negative item amount should error",
			items: []Item{
				{Description: "Pizza", Amount: dec("20"), AssignedTo: []string{"Alice"}},
				{Description: "Refund", Amount: dec("-10"), AssignedTo: []string{"Bob"}},
			},
			total:        "10",
			subtotal:     "10",
			participants: []string{"Alice", "Bob"},
			wantErr:      true,
		},
		{
			name: "zero item amount should error",
			items: []Item{
				{Description: "Pizza", Amount: dec("20"), AssignedTo: []string{"Alice"}},
				{Description: "Water", Amount: dec("0"), AssignedTo: []string{"Bob"}},
			},
			total:        "20",
			subtotal:     "20",
			participants: []string{"Alice", "Bob"},
			wantErr:      true,
		},
		{
			name:         "no items - split equally among participants",
			total:        "33",
			subtotal:     "30",
			participants: []string{"Alice", "Bob"},
			want:         map[string]string{"Alice": "16.5", "Bob": "16.5"},
		},
		{
			name:         "no items - remainder cent goes to first participant",
			total:        "10",
			participants: []string{"Alice", "Bob", "Charlie"},
			want:         map[string]string{"Alice": "3.34", "Bob": "3.33", "Charlie": "3.33"},
		},
		{
			name: "proportional tax rounds to cents",
			items: []Item{
				{Description: "Tacos", Amount: dec("10"), AssignedTo: []string{"Alice", "Bob", "Charlie"}},
			},
			total:        "11",
			subtotal:     "10",
			participants: []string{"Alice", "Bob", "Charlie"},
			want:         map[string]string{"Alice": "3.66", "Bob": "3.67", "Charlie": "3.67"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subtotal := decimal.Zero
			if tt.subtotal != "" {
				subtotal = dec(tt.subtotal)
			}
			splits, err := ItemizedShares(tt.items, dec(tt.total), subtotal, tt.participants)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ItemizedShares() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			for _, split := range splits {
				if split.Share.IsNegative() {
					t.Errorf("%s share is negative: %s", split.MemberID, split.Share)
				}
			}

			sum := decimal.Zero
			for i, split := range splits {
				if split.MemberID != tt.participants[i] {
					t.Errorf("split %d member = %s, want %s", i, split.MemberID, tt.participants[i])
				}
				if want := dec(tt.want[split.MemberID]); !split.Share.Equal(want) {
					t.Errorf("%s share = %s, want %s", split.MemberID, split.Share, want)
				}
				sum = sum.Add(split.Share)
			}
			if !sum.Equal(dec(tt.total)) {
				t.Errorf("shares sum to %s, want %s", sum, tt.total)
			}
		})
	}
}

func TestItemizedSharesRejectsNonPositiveItems(t *testing.T) {
	for _, amount := range []string{"0", "-10"} {
		items := []Item{
			{Description: "Pizza", Amount: dec("20"), AssignedTo: []string{"Alice"}},
			{Description: "Adjustment", Amount: dec(amount), AssignedTo: []string{"Bob"}},
		}
		_, err := ItemizedShares(items, dec("10"), dec("10"), []string{"Alice", "Bob"})
		if !errors.Is(err, ErrNonPositiveAmount) {
			t.Errorf("item amount %s: expected ErrNonPositiveAmount, got %v", amount, err)
		}
	}
}

func TestItemizedSharesAreValidExpenseSplits(t *testing.T) {
	// Only Bob and Charlie have items; the rounding remainder must not land on Alice's zero share.
	items := []Item{
		{Description: "Wine", Amount: dec("10"), AssignedTo: []string{"Bob", "Charlie"}},
	}
	participants := []string{"Alice", "Bob", "Charlie"}
	splits, err := ItemizedShares(items, dec("10.01"), dec("10"), participants)
	if err != nil {
		t.Fatalf("ItemizedShares() error = %v", err)
	}

	entry := &models.LedgerEntry{
		Amount:  dec("10.01"),
		PayerID: "Alice",
		Kind:    models.KindExpense,
		Splits:  splits,
	}
	if err := ValidateEntry(entry, participants); err != nil {
		t.Errorf("splits %v rejected as expense: %v", splits, err)
	}
}
