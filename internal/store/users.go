package store

import (
	"context"
	"time"

	"cinelog/internal/model"
)

const createUser = `
INSERT INTO users (name, password_hash, email, role, created_at)
VALUES (?, ?, ?, ?, ?)
RETURNING id, name, password_hash, email, role, created_at
`

// CreateUserParams holds the fields for creating a user.
type CreateUserParams struct {
	Name         string
	PasswordHash string
	Email        string
	Role         string
	CreatedAt    time.Time
}

// CreateUser inserts a new user. The UNIQUE constraint on users.name is
// the authority on username uniqueness; callers should surface constraint
// violations as a duplicate-name error rather than pre-checking.
func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (model.User, error) {
	row := q.db.QueryRowContext(ctx, createUser,
		arg.Name, arg.PasswordHash, arg.Email, arg.Role, arg.CreatedAt)
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.PasswordHash, &u.Email, &u.Role, &u.CreatedAt)
	return u, err
}

const getUserByID = `
SELECT id, name, password_hash, email, role, created_at FROM users WHERE id = ?
`

// GetUserByID fetches a user by primary key.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	row := q.db.QueryRowContext(ctx, getUserByID, id)
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.PasswordHash, &u.Email, &u.Role, &u.CreatedAt)
	return u, err
}

const getUserByName = `
SELECT id, name, password_hash, email, role, created_at FROM users WHERE name = ?
`

// GetUserByName fetches a user by its unique username.
func (q *Queries) GetUserByName(ctx context.Context, name string) (model.User, error) {
	row := q.db.QueryRowContext(ctx, getUserByName, name)
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.PasswordHash, &u.Email, &u.Role, &u.CreatedAt)
	return u, err
}

const listUsers = `
SELECT id, name, password_hash, email, role, created_at FROM users ORDER BY name
`

// ListUsers returns all users ordered by name.
func (q *Queries) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := q.db.QueryContext(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.PasswordHash, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

const countUsers = `SELECT COUNT(*) FROM users`

// CountUsers returns the total number of registered users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countUsers).Scan(&count)
	return count, err
}

const updateUserRole = `UPDATE users SET role = ? WHERE name = ?`

// UpdateUserRoleParams holds the fields for a role change.
type UpdateUserRoleParams struct {
	Role string
	Name string
}

// UpdateUserRole sets the role of the named user.
func (q *Queries) UpdateUserRole(ctx context.Context, arg UpdateUserRoleParams) error {
	_, err := q.db.ExecContext(ctx, updateUserRole, arg.Role, arg.Name)
	return err
}

const updateUserPassword = `UPDATE users SET password_hash = ? WHERE id = ?`

// UpdateUserPasswordParams holds the fields for a password hash update.
type UpdateUserPasswordParams struct {
	PasswordHash string
	ID           int64
}

// UpdateUserPassword replaces the stored password hash. Used when the
// hash needs re-creation with current parameters after a login.
func (q *Queries) UpdateUserPassword(ctx context.Context, arg UpdateUserPasswordParams) error {
	_, err := q.db.ExecContext(ctx, updateUserPassword, arg.PasswordHash, arg.ID)
	return err
}
