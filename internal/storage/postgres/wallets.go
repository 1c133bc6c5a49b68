package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitease/internal/models"
	"github.com/mmynk/splitease/internal/storage"
)

type walletRow struct {
	UserID    string          `db:"user_id"`
	Balance   decimal.Decimal `db:"balance"`
	UpdatedAt int64           `db:"updated_at"`
}

func (r walletRow) toModel() *models.Wallet {
	return &models.Wallet{UserID: r.UserID, Balance: r.Balance, UpdatedAt: r.UpdatedAt}
}

// GetWallet retrieves a user's wallet.
func (s *PostgresStore) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	var row walletRow
	err := s.db.GetContext(ctx, &row,
		`SELECT user_id, balance, updated_at FROM wallets WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("wallet %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return row.toModel(), nil
}

// incrementWallet adds amount to the wallet with a single atomic UPDATE.
func incrementWallet(ctx context.Context, q sqlx.QueryerContext, userID string, amount decimal.Decimal) (*models.Wallet, error) {
	var row walletRow
	err := sqlx.GetContext(ctx, q, &row,
		`UPDATE wallets SET balance = balance + $1, updated_at = $2
		 WHERE user_id = $3
		 RETURNING user_id, balance, updated_at`,
		amount, time.Now().UnixMilli(), userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("wallet %s: %w", userID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update wallet balance: %w", err)
	}
	return row.toModel(), nil
}

// CreditWallet atomically adds amount to the user's wallet.
func (s *PostgresStore) CreditWallet(ctx context.Context, userID string, amount decimal.Decimal) (*models.Wallet, error) {
	return incrementWallet(ctx, s.db, userID, amount)
}

// SettleFromWallet debits the payer and records the payment entry in one transaction.
// The debit only applies while balance >= amount, so two concurrent settlements
// can never take a wallet below zero.
func (s *PostgresStore) SettleFromWallet(ctx context.Context, payment *models.LedgerEntry, creditPayee bool) (*models.Wallet, error) {
	var payer walletRow
	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &payer,
			`UPDATE wallets SET balance = balance - $1, updated_at = $2
			 WHERE user_id = $3 AND balance >= $1
			 RETURNING user_id, balance, updated_at`,
			payment.Amount, time.Now().UnixMilli(), payment.PayerID,
		)
		if errors.Is(err, sql.ErrNoRows) {
			var exists bool
			if err := tx.GetContext(ctx, &exists,
				`SELECT EXISTS (SELECT 1 FROM wallets WHERE user_id = $1)`, payment.PayerID); err != nil {
				return fmt.Errorf("failed to check wallet: %w", err)
			}
			if !exists {
				return fmt.Errorf("wallet %s: %w", payment.PayerID, storage.ErrNotFound)
			}
			return fmt.Errorf("wallet %s: %w", payment.PayerID, storage.ErrInsufficientFunds)
		}
		if err != nil {
			return fmt.Errorf("failed to debit wallet: %w", err)
		}

		if creditPayee {
			for _, split := range payment.Splits {
				if _, err := incrementWallet(ctx, tx, split.MemberID, split.Share); err != nil {
					return err
				}
			}
		}

		return insertEntry(ctx, tx, payment)
	})
	if err != nil {
		return nil, err
	}
	return payer.toModel(), nil
}
