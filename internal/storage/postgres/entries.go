package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitease/internal/models"
)

type entryRow struct {
	ID          string          `db:"id"`
	GroupID     string          `db:"group_id"`
	Description string          `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	PayerID     string          `db:"payer_id"`
	Kind        string          `db:"kind"`
	CreatedBy   string          `db:"created_by"`
	CreatedAt   int64           `db:"created_at"`
}

type splitRow struct {
	EntryID  string          `db:"entry_id"`
	MemberID string          `db:"member_id"`
	Share    decimal.Decimal `db:"share"`
}

// CreateEntry persists a ledger entry and its splits.
func (s *PostgresStore) CreateEntry(ctx context.Context, entry *models.LedgerEntry) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		return insertEntry(ctx, tx, entry)
	})
}

func insertEntry(ctx context.Context, tx *sqlx.Tx, entry *models.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().UnixMilli()
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO entries (id, group_id, description, amount, payer_id, kind, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, entry.GroupID, entry.Description, entry.Amount, entry.PayerID,
		string(entry.Kind), entry.CreatedBy, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}

	for i, split := range entry.Splits {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO entry_splits (entry_id, position, member_id, share) VALUES ($1, $2, $3, $4)`,
			entry.ID, i, split.MemberID, split.Share,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

// ListEntriesByGroup retrieves a group's entries, newest first.
func (s *PostgresStore) ListEntriesByGroup(ctx context.Context, groupID string) ([]models.LedgerEntry, error) {
	byGroup, err := s.ListEntriesByGroups(ctx, []string{groupID})
	if err != nil {
		return nil, err
	}
	return byGroup[groupID], nil
}

// ListEntriesByGroups retrieves entries for several groups, keyed by group ID, newest first.
func (s *PostgresStore) ListEntriesByGroups(ctx context.Context, groupIDs []string) (map[string][]models.LedgerEntry, error) {
	byGroup := make(map[string][]models.LedgerEntry, len(groupIDs))
	if len(groupIDs) == 0 {
		return byGroup, nil
	}

	var rows []entryRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT id, group_id, description, amount, payer_id, kind, created_by, created_at
		 FROM entries WHERE group_id = ANY($1)
		 ORDER BY created_at DESC, seq DESC`,
		pq.Array(groupIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	var splits []splitRow
	err = s.db.SelectContext(ctx, &splits,
		`SELECT s.entry_id, s.member_id, s.share
		 FROM entry_splits s JOIN entries e ON e.id = s.entry_id
		 WHERE e.group_id = ANY($1)
		 ORDER BY s.entry_id, s.position`,
		pq.Array(groupIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}

	splitsByEntry := make(map[string][]models.Split)
	for _, sr := range splits {
		splitsByEntry[sr.EntryID] = append(splitsByEntry[sr.EntryID], models.Split{MemberID: sr.MemberID, Share: sr.Share})
	}

	for _, r := range rows {
		byGroup[r.GroupID] = append(byGroup[r.GroupID], models.LedgerEntry{
			ID:          r.ID,
			GroupID:     r.GroupID,
			Description: r.Description,
			Amount:      r.Amount,
			PayerID:     r.PayerID,
			Kind:        models.EntryKind(r.Kind),
			Splits:      splitsByEntry[r.ID],
			CreatedBy:   r.CreatedBy,
			CreatedAt:   r.CreatedAt,
		})
	}
	return byGroup, nil
}
