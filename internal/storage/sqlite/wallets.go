package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitease/internal/models"
	"github.com/mmynk/splitease/internal/storage"
)

// GetWallet retrieves a user's wallet.
func (s *SQLiteStore) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	return getWallet(ctx, s.db, userID)
}

func getWallet(ctx context.Context, q querier, userID string) (*models.Wallet, error) {
	wallet := &models.Wallet{}
	err := q.QueryRowContext(ctx,
		"SELECT user_id, balance, updated_at FROM wallets WHERE user_id = ?",
		userID,
	).Scan(&wallet.UserID, &wallet.Balance, &wallet.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("wallet %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return wallet, nil
}

// addToWallet applies delta to the wallet inside q's transaction and returns the new state.
// Decimal TEXT columns cannot be added in SQL without going through REAL, so the sum is
// computed here; the IMMEDIATE transaction keeps the read and the write together.
func addToWallet(ctx context.Context, q querier, userID string, delta decimal.Decimal) (*models.Wallet, error) {
	wallet, err := getWallet(ctx, q, userID)
	if err != nil {
		return nil, err
	}

	wallet.Balance = wallet.Balance.Add(delta)
	wallet.UpdatedAt = time.Now().UnixMilli()

	_, err = q.ExecContext(ctx,
		"UPDATE wallets SET balance = ?, updated_at = ? WHERE user_id = ?",
		wallet.Balance, wallet.UpdatedAt, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update wallet balance: %w", err)
	}
	return wallet, nil
}

// CreditWallet atomically adds amount to the user's wallet.
func (s *SQLiteStore) CreditWallet(ctx context.Context, userID string, amount decimal.Decimal) (*models.Wallet, error) {
	var wallet *models.Wallet
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		wallet, err = addToWallet(ctx, tx, userID, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return wallet, nil
}

// SettleFromWallet debits the payer and records the payment entry in one transaction.
func (s *SQLiteStore) SettleFromWallet(ctx context.Context, payment *models.LedgerEntry, creditPayee bool) (*models.Wallet, error) {
	var payer *models.Wallet
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		current, err := getWallet(ctx, tx, payment.PayerID)
		if err != nil {
			return err
		}
		if current.Balance.LessThan(payment.Amount) {
			return fmt.Errorf("wallet %s has %s, needs %s: %w",
				payment.PayerID, current.Balance, payment.Amount, storage.ErrInsufficientFunds)
		}

		payer, err = addToWallet(ctx, tx, payment.PayerID, payment.Amount.Neg())
		if err != nil {
			return err
		}

		if creditPayee {
			for _, split := range payment.Splits {
				if _, err := addToWallet(ctx, tx, split.MemberID, split.Share); err != nil {
					return err
				}
			}
		}

		return insertEntry(ctx, tx, payment)
	})
	if err != nil {
		return nil, err
	}
	return payer, nil
}
