package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/splitease/internal/models"
	"github.com/mmynk/splitease/internal/storage"
)

// CreateGroup persists a new group and its ordered member list.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().UnixMilli()
	}
	if group.Category == "" {
		group.Category = models.CategoryOther
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO groups (id, name, category, created_by, created_at) VALUES (?, ?, ?, ?, ?)",
			group.ID, group.Name, string(group.Category), group.CreatedBy, group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		for i, member := range group.Members {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO group_members (group_id, user_id, position) VALUES (?, ?, ?)",
				group.ID, member, i,
			)
			if err != nil {
				return fmt.Errorf("failed to insert group member: %w", err)
			}
		}
		return nil
	})
}

// GetGroup retrieves a group by ID with its members in insertion order.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group := &models.Group{}
	var category string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, category, created_by, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &category, &group.CreatedBy, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.Category = models.Category(category)

	members, err := s.loadMembers(ctx, []string{groupID})
	if err != nil {
		return nil, err
	}
	group.Members = members[groupID]

	return group, nil
}

// ListGroupsForUser retrieves all groups the user belongs to, newest first.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.category, g.created_by, g.created_at
		 FROM groups g JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = ?
		 ORDER BY g.created_at DESC, g.rowid DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []*models.Group
	var ids []string
	for rows.Next() {
		group := &models.Group{}
		var category string
		if err := rows.Scan(&group.ID, &group.Name, &category, &group.CreatedBy, &group.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.Category = models.Category(category)
		groups = append(groups, group)
		ids = append(ids, group.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	// Members are loaded after the group rows are closed: the pool has one connection.
	members, err := s.loadMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		g.Members = members[g.ID]
	}

	return groups, nil
}

// loadMembers returns the ordered member IDs of each group.
func (s *SQLiteStore) loadMembers(ctx context.Context, groupIDs []string) (map[string][]string, error) {
	members := make(map[string][]string, len(groupIDs))
	if len(groupIDs) == 0 {
		return members, nil
	}

	in, args := placeholders(groupIDs)
	rows, err := s.db.QueryContext(ctx,
		`SELECT group_id, user_id FROM group_members
		 WHERE group_id IN (`+in+`) ORDER BY group_id, position`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var groupID, userID string
		if err := rows.Scan(&groupID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members[groupID] = append(members[groupID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}
	return members, nil
}

// DeleteGroup removes a group together with its members and entries.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmts := []string{
			"DELETE FROM entry_splits WHERE entry_id IN (SELECT id FROM entries WHERE group_id = ?)",
			"DELETE FROM entries WHERE group_id = ?",
			"DELETE FROM group_members WHERE group_id = ?",
		}
		for _, stmt := range stmts {
			if _, err := tx.ExecContext(ctx, stmt, groupID); err != nil {
				return fmt.Errorf("failed to delete group data: %w", err)
			}
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM groups WHERE id = ?", groupID)
		if err != nil {
			return fmt.Errorf("failed to delete group: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check deleted group: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
		}
		return nil
	})
}
