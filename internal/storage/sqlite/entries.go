package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitease/internal/models"
)

// CreateEntry persists a ledger entry and its splits.
func (s *SQLiteStore) CreateEntry(ctx context.Context, entry *models.LedgerEntry) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return insertEntry(ctx, tx, entry)
	})
}

// insertEntry writes an entry within an existing transaction, generating ID and CreatedAt if unset.
func insertEntry(ctx context.Context, q querier, entry *models.LedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().UnixMilli()
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO entries (id, group_id, description, amount, payer_id, kind, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.GroupID, entry.Description, entry.Amount, entry.PayerID,
		string(entry.Kind), entry.CreatedBy, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert entry: %w", err)
	}

	for i, split := range entry.Splits {
		_, err = q.ExecContext(ctx,
			"INSERT INTO entry_splits (entry_id, position, member_id, share) VALUES (?, ?, ?, ?)",
			entry.ID, i, split.MemberID, split.Share,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}
	return nil
}

// ListEntriesByGroup retrieves a group's entries, newest first.
func (s *SQLiteStore) ListEntriesByGroup(ctx context.Context, groupID string) ([]models.LedgerEntry, error) {
	byGroup, err := s.ListEntriesByGroups(ctx, []string{groupID})
	if err != nil {
		return nil, err
	}
	return byGroup[groupID], nil
}

// ListEntriesByGroups retrieves entries for several groups at once, keyed by group ID.
func (s *SQLiteStore) ListEntriesByGroups(ctx context.Context, groupIDs []string) (map[string][]models.LedgerEntry, error) {
	byGroup := make(map[string][]models.LedgerEntry, len(groupIDs))
	if len(groupIDs) == 0 {
		return byGroup, nil
	}
	in, args := placeholders(groupIDs)

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, description, amount, payer_id, kind, created_by, created_at
		 FROM entries WHERE group_id IN (`+in+`)
		 ORDER BY created_at DESC, rowid DESC`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	var entries []*models.LedgerEntry
	index := make(map[string]*models.LedgerEntry)
	for rows.Next() {
		entry := &models.LedgerEntry{}
		var kind string
		if err := rows.Scan(&entry.ID, &entry.GroupID, &entry.Description, &entry.Amount,
			&entry.PayerID, &kind, &entry.CreatedBy, &entry.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entry.Kind = models.EntryKind(kind)
		entries = append(entries, entry)
		index[entry.ID] = entry
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate entries: %w", err)
	}

	splitRows, err := s.db.QueryContext(ctx,
		`SELECT s.entry_id, s.member_id, s.share
		 FROM entry_splits s JOIN entries e ON e.id = s.entry_id
		 WHERE e.group_id IN (`+in+`)
		 ORDER BY s.entry_id, s.position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer splitRows.Close()

	for splitRows.Next() {
		var entryID string
		var split models.Split
		if err := splitRows.Scan(&entryID, &split.MemberID, &split.Share); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if entry, ok := index[entryID]; ok {
			entry.Splits = append(entry.Splits, split)
		}
	}
	if err := splitRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	for _, entry := range entries {
		byGroup[entry.GroupID] = append(byGroup[entry.GroupID], *entry)
	}
	return byGroup, nil
}
