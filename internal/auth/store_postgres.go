// Copyright (c) 2026 Inkbound. All rights reserved.
// Author: hoang.ledinh.dev@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledinhhoang/inkbound/internal/platform/apperr"
	"github.com/ledinhhoang/inkbound/internal/platform/database/schema"
	"github.com/ledinhhoang/inkbound/internal/platform/dberr"
)

// # User Repository

// PostgresUserRepository implements the [UserRepository] interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// userColumns is the SELECT list shared by every account lookup.
func userColumns() string {
	return strings.Join(schema.Users.Columns(), ", ")
}

// scanUser hydrates a [User] from a userColumns row.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Role,
		&user.IsVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user account.

Description: Duplicate username or email surfaces as a client-safe conflict
via the unique constraints, closing the lookup/insert race window.
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s`,
		schema.Users.Table,
		schema.Users.ID,
		schema.Users.Username,
		schema.Users.Email,
		schema.Users.PasswordHash,
		schema.Users.DisplayName,
		schema.Users.Role,
		schema.Users.IsVerified,
		schema.Users.CreatedAt,
		schema.Users.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.DisplayName, user.Role, user.IsVerified,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return apperr.Conflict("Username or email is already registered")
		}
		return fmt.Errorf("postgres: failed to create user: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves an account by its unique email address.
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns(), schema.Users.Table, schema.Users.Email)

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres: failed to find user by email: %w", err)
	}

	return user, nil
}

/*
FindByUsername retrieves an account by its unique username.
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns(), schema.Users.Table, schema.Users.Username)

	user, err := scanUser(repository.pool.QueryRow(context, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres: failed to find user by username: %w", err)
	}

	return user, nil
}

/*
FindByID retrieves an account by primary key.
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns(), schema.Users.Table, schema.Users.ID)

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres: failed to find user by id: %w", err)
	}

	return user, nil
}

/*
UpdatePassword replaces only the password hash for a specific user.
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, userID, newHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.Users.Table,
		schema.Users.PasswordHash,
		schema.Users.UpdatedAt,
		schema.Users.ID,
	)

	if _, err := repository.pool.Exec(context, query, userID, newHash); err != nil {
		return fmt.Errorf("postgres: failed to update password: %w", err)
	}

	return nil
}

/*
MarkVerified flips the account's is_verified flag after email confirmation.
*/
func (repository *PostgresUserRepository) MarkVerified(context context.Context, userID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE, %s = NOW() WHERE %s = $1`,
		schema.Users.Table,
		schema.Users.IsVerified,
		schema.Users.UpdatedAt,
		schema.Users.ID,
	)

	if _, err := repository.pool.Exec(context, query, userID); err != nil {
		return fmt.Errorf("postgres: failed to mark user verified: %w", err)
	}

	return nil
}
