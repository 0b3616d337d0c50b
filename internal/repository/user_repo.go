package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"voxcredit/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Users interface at compile time.
var _ Users = (*UserRepository)(nil)

const (
	userColumns = `id, username, email, password_hash, credits, is_admin, created_at`

	insertUserSQL           = `INSERT INTO users (username, email, password_hash, credits, is_admin, created_at) VALUES (?, ?, ?, ?, ?, ?)`
	selectUserByIDSQL       = `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	selectUserByUsernameSQL = `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	selectUserByEmailSQL    = `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	existsUserSQL           = `SELECT EXISTS(SELECT 1 FROM users WHERE username = ? OR email = ?)`
	updatePasswordSQL       = `UPDATE users SET password_hash = ? WHERE id = ?`
	updateAdminSQL          = `UPDATE users SET is_admin = ? WHERE username = ?`
)

// Create inserts a new user and returns its ID.
func (r *UserRepository) Create(ctx context.Context, u models.User) (int, error) {
	createdAt := u.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, insertUserSQL, u.Username, u.Email, u.PasswordHash, u.Credits, u.IsAdmin, createdAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrUserExists
		}
		return 0, fmt.Errorf("insert user %q: %w", u.Username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", u.Username, err)
	}
	return int(lastID), nil
}

// GetByID fetches a user by id. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

// GetByUsername fetches a user by username. Returns (nil, nil) if not found.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByUsernameSQL, username))
	if err != nil {
		return nil, fmt.Errorf("select user %q: %w", username, err)
	}
	return u, nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUserByEmailSQL, email))
	if err != nil {
		return nil, fmt.Errorf("select user by email %q: %w", email, err)
	}
	return u, nil
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, existsUserSQL, username, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user %q exists: %w", username, err)
	}
	return exists, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	res, err := r.db.ExecContext(ctx, updatePasswordSQL, hash, id)
	if err != nil {
		return fmt.Errorf("update password for user %d: %w", id, err)
	}
	return requireAffected(res, id)
}

func (r *UserRepository) SetAdmin(ctx context.Context, username string, admin bool) error {
	res, err := r.db.ExecContext(ctx, updateAdminSQL, admin, username)
	if err != nil {
		return fmt.Errorf("update admin flag for %q: %w", username, err)
	}
	return requireAffected(res, username)
}

// scanUser reads one user row; sql.ErrNoRows maps to (nil, nil).
func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Credits, &u.IsAdmin, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

func requireAffected(res sql.Result, key any) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for user %v: %w", key, err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
