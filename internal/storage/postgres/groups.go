package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mmynk/splitease/internal/models"
	"github.com/mmynk/splitease/internal/storage"
)

type groupRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Category  string `db:"category"`
	CreatedBy string `db:"created_by"`
	CreatedAt int64  `db:"created_at"`
}

func (r groupRow) toModel() *models.Group {
	return &models.Group{
		ID:        r.ID,
		Name:      r.Name,
		Category:  models.Category(r.Category),
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
	}
}

type memberRow struct {
	GroupID string `db:"group_id"`
	UserID  string `db:"user_id"`
}

// CreateGroup persists a new group and its ordered member list.
func (s *PostgresStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().UnixMilli()
	}
	if group.Category == "" {
		group.Category = models.CategoryOther
	}

	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO groups (id, name, category, created_by, created_at) VALUES ($1, $2, $3, $4, $5)`,
			group.ID, group.Name, string(group.Category), group.CreatedBy, group.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group: %w", err)
		}

		for i, member := range group.Members {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO group_members (group_id, user_id, position) VALUES ($1, $2, $3)`,
				group.ID, member, i,
			)
			if err != nil {
				return fmt.Errorf("failed to insert group member: %w", err)
			}
		}
		return nil
	})
}

// GetGroup retrieves a group with members in insertion order.
func (s *PostgresStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	var row groupRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, name, category, created_by, created_at FROM groups WHERE id = $1`, groupID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	group := row.toModel()
	members, err := s.loadMembers(ctx, []string{groupID})
	if err != nil {
		return nil, err
	}
	group.Members = members[groupID]
	return group, nil
}

// ListGroupsForUser retrieves every group the user belongs to, newest first.
func (s *PostgresStore) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	var rows []groupRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT g.id, g.name, g.category, g.created_by, g.created_at
		 FROM groups g JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = $1
		 ORDER BY g.created_at DESC, g.seq DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	members, err := s.loadMembers(ctx, ids)
	if err != nil {
		return nil, err
	}

	groups := make([]*models.Group, len(rows))
	for i, r := range rows {
		groups[i] = r.toModel()
		groups[i].Members = members[r.ID]
	}
	return groups, nil
}

func (s *PostgresStore) loadMembers(ctx context.Context, groupIDs []string) (map[string][]string, error) {
	members := make(map[string][]string, len(groupIDs))
	if len(groupIDs) == 0 {
		return members, nil
	}

	var rows []memberRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT group_id, user_id FROM group_members
		 WHERE group_id = ANY($1) ORDER BY group_id, position`,
		pq.Array(groupIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	for _, r := range rows {
		members[r.GroupID] = append(members[r.GroupID], r.UserID)
	}
	return members, nil
}

// DeleteGroup removes a group; members, entries and splits cascade.
func (s *PostgresStore) DeleteGroup(ctx context.Context, groupID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM groups WHERE id = $1`, groupID)
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
}
