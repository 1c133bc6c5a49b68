package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mmynk/splitease/internal/models"
	"github.com/mmynk/splitease/internal/storage"
)

type userRow struct {
	ID           string `db:"id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	CreatedAt    int64  `db:"created_at"`
}

func (r userRow) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}

const selectUsers = `SELECT id, name, email, password_hash, created_at FROM users`

// CreateUser inserts a new user and their empty wallet.
func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
			user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("email %s: %w", user.Email, storage.ErrDuplicate)
		}
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO wallets (user_id, balance, updated_at) VALUES ($1, 0, $2)`,
			user.ID, user.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create wallet: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) getUser(ctx context.Context, column, value string) (*models.User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, selectUsers+` WHERE `+column+` = $1`, value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", value, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}
	return row.toModel(), nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email", email)
}

// GetUserByID retrieves a user by their ID.
func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id", id)
}

func (s *PostgresStore) listUsers(ctx context.Context, column string, values []string) ([]userRow, error) {
	if len(values) == 0 {
		return nil, nil
	}
	var rows []userRow
	if err := s.db.SelectContext(ctx, &rows, selectUsers+` WHERE `+column+` = ANY($1)`, pq.Array(values)); err != nil {
		return nil, fmt.Errorf("failed to get users by %s: %w", column, err)
	}
	return rows, nil
}

// GetUsersByIDs retrieves multiple users by their IDs, omitting unknown ones.
func (s *PostgresStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	rows, err := s.listUsers(ctx, "id", ids)
	if err != nil {
		return nil, err
	}
	users := make(map[string]*models.User, len(rows))
	for _, r := range rows {
		users[r.ID] = r.toModel()
	}
	return users, nil
}

// GetUsersByEmails retrieves multiple users by email, omitting unknown ones.
func (s *PostgresStore) GetUsersByEmails(ctx context.Context, emails []string) (map[string]*models.User, error) {
	rows, err := s.listUsers(ctx, "email", emails)
	if err != nil {
		return nil, err
	}
	users := make(map[string]*models.User, len(rows))
	for _, r := range rows {
		users[r.Email] = r.toModel()
	}
	return users, nil
}
