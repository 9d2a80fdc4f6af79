// Copyright (c) 2026 Cursus. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/cursus/internal/platform/apperr"
	"github.com/taibuivan/cursus/internal/platform/database/schema"
	"github.com/taibuivan/cursus/internal/platform/dberr"
	"github.com/taibuivan/cursus/internal/platform/sec"
)

// # User Repository

const userResource = "User"

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// Storage errors are mapped by [dberr.Wrap]: no rows becomes NOT_FOUND and a
// duplicate email becomes CONFLICT.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var userColumns = schema.Select(schema.UserAccount.Columns())

// scanUser hydrates a [User] from a row selected with userColumns.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID, &user.Pseudo, &user.Email, &user.PasswordHash,
		&user.Role, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

/*
Create persists a new user record into the users.account table.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist, timestamps initialized if zero)

Returns:
  - error: apperr.Conflict on a duplicate email or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	table := schema.UserAccount
	query := fmt.Sprintf(
		`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		table.Table, userColumns,
	)

	// Initialize timestamps
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := repository.pool.Exec(context, query,
		user.ID, user.Pseudo, user.Email, user.PasswordHash,
		user.Role, user.CreatedAt, user.UpdatedAt,
	)
	return dberr.Wrap(err, userResource)
}

/*
FindByID retrieves an account by its UUID.
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	table := schema.UserAccount
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, userColumns, table.Table, table.ID)

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, userResource)
	}
	return user, nil
}

/*
FindByEmail retrieves an account by its normalized email.
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	table := schema.UserAccount
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, userColumns, table.Table, table.Email)

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, dberr.Wrap(err, userResource)
	}
	return user, nil
}

/*
List returns a page of accounts, oldest first, with the total row count.
*/
func (repository *PostgresUserRepository) List(context context.Context, limit, offset int) ([]*User, int, error) {
	table := schema.UserAccount

	var total int
	countQuery := fmt.Sprintf(`SELECT count(*) FROM %s`, table.Table)
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, userResource)
	}

	query := fmt.Sprintf(
		`SELECT %s FROM %s ORDER BY %s ASC, %s ASC LIMIT $1 OFFSET $2`,
		userColumns, table.Table, table.CreatedAt, table.ID,
	)
	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, userResource)
	}
	defer rows.Close()

	users := make([]*User, 0, limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, userResource)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, userResource)
	}

	return users, total, nil
}

/*
Update persists the mutable fields of an account and refreshes UpdatedAt.
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) error {
	table := schema.UserAccount
	query := fmt.Sprintf(
		`UPDATE %s SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6 WHERE %s = $1`,
		table.Table, table.Pseudo, table.Email, table.Password, table.Role, table.UpdatedAt, table.ID,
	)

	user.UpdatedAt = time.Now().UTC()
	tag, err := repository.pool.Exec(context, query,
		user.ID, user.Pseudo, user.Email, user.PasswordHash, user.Role, user.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, userResource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(userResource)
	}
	return nil
}

/*
UpdateRole replaces the stored role code of an account.
*/
func (repository *PostgresUserRepository) UpdateRole(context context.Context, id string, role sec.RoleCode) error {
	table := schema.UserAccount
	query := fmt.Sprintf(
		`UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1`,
		table.Table, table.Role, table.UpdatedAt, table.ID,
	)

	tag, err := repository.pool.Exec(context, query, id, role, time.Now().UTC())
	if err != nil {
		return dberr.Wrap(err, userResource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(userResource)
	}
	return nil
}

/*
Delete removes an account row.
*/
func (repository *PostgresUserRepository) Delete(context context.Context, id string) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table.Table, table.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, userResource)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(userResource)
	}
	return nil
}
