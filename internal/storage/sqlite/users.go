package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitease/internal/models"
	"github.com/mmynk/splitease/internal/storage"
)

const userColumns = `id, name, email, password_hash, created_at`

// CreateUser inserts a new user and their empty wallet.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?)`,
			user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt,
		)
		if isConstraintError(err) {
			return fmt.Errorf("email %s: %w", user.Email, storage.ErrDuplicate)
		}
		if err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO wallets (user_id, balance, updated_at) VALUES (?, ?, ?)",
			user.ID, decimal.Zero, user.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create wallet: %w", err)
		}
		return nil
	})
}

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt)
	return user, err
}

// GetUserByEmail retrieves a user by their email address.
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", email, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// GetUsersByIDs retrieves multiple users by their IDs.
// Users that don't exist are omitted from the result.
func (s *SQLiteStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users, err := s.listUsers(ctx, "id", ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

// GetUsersByEmails retrieves multiple users by their email addresses.
// Emails without an account are omitted from the result.
func (s *SQLiteStore) GetUsersByEmails(ctx context.Context, emails []string) (map[string]*models.User, error) {
	users, err := s.listUsers(ctx, "email", emails)
	if err != nil {
		return nil, err
	}
	byEmail := make(map[string]*models.User, len(users))
	for _, u := range users {
		byEmail[u.Email] = u
	}
	return byEmail, nil
}

// listUsers selects users whose column matches one of values. column is never user input.
func (s *SQLiteStore) listUsers(ctx context.Context, column string, values []string) ([]*models.User, error) {
	if len(values) == 0 {
		return nil, nil
	}

	in, args := placeholders(values)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` IN (`+in+`)`, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by %s: %w", column, err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}
