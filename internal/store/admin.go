package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/quizdeck/quizdeck/internal/model"
)

// CreateAdmin inserts a new administrator account. The ID, CreatedAt, and
// UpdatedAt fields on admin are populated after a successful insert.
// Returns ErrDuplicate if the username or email is already taken.
func (s *Store) CreateAdmin(ctx context.Context, admin *model.Admin) error {
	ts := now()
	admin.CreatedAt = ts
	admin.UpdatedAt = ts

	q := s.rebind(`INSERT INTO admins
		(username, email, password_hash, full_name, role, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`)

	err := s.db.GetContext(ctx, &admin.ID, q,
		admin.Username, admin.Email, admin.PasswordHash, admin.FullName,
		admin.Role, admin.IsActive, admin.CreatedAt, admin.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

// GetActiveAdminByUsername returns an active admin by exact username match.
// Inactive accounts are treated as missing so login cannot distinguish them.
func (s *Store) GetActiveAdminByUsername(ctx context.Context, username string) (*model.Admin, error) {
	var admin model.Admin
	q := s.rebind("SELECT * FROM admins WHERE username = ? AND is_active = TRUE")
	if err := s.db.GetContext(ctx, &admin, q, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin by username: %w", err)
	}
	return &admin, nil
}

// GetAdmin returns an admin by id, active or not. Token verification uses
// this to re-check the account state behind a presented token.
func (s *Store) GetAdmin(ctx context.Context, id int64) (*model.Admin, error) {
	var admin model.Admin
	q := s.rebind("SELECT * FROM admins WHERE id = ?")
	if err := s.db.GetContext(ctx, &admin, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &admin, nil
}

// ListAdmins returns all admin accounts ordered by username.
func (s *Store) ListAdmins(ctx context.Context) ([]model.Admin, error) {
	var admins []model.Admin
	if err := s.db.SelectContext(ctx, &admins, "SELECT * FROM admins ORDER BY username"); err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return admins, nil
}

// HasAnyAdmin reports whether at least one admin account exists. Used for
// first-run detection.
func (s *Store) HasAnyAdmin(ctx context.Context) (bool, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM admins"); err != nil {
		return false, fmt.Errorf("count admins: %w", err)
	}
	return count > 0, nil
}

// TouchAdminLogin sets the last_login_at timestamp for an admin.
func (s *Store) TouchAdminLogin(ctx context.Context, id int64) error {
	ts := now()
	q := s.rebind("UPDATE admins SET last_login_at = ?, updated_at = ? WHERE id = ?")
	result, err := s.db.ExecContext(ctx, q, ts, ts, id)
	if err != nil {
		return fmt.Errorf("touch admin login: %w", err)
	}
	return requireRow(result)
}

// AdminProfilePatch carries a partial profile update. Nil fields are left
// unchanged.
type AdminProfilePatch struct {
	Email        *string
	FullName     *string
	PasswordHash *string
}

// UpdateAdminProfile applies a partial profile update to an admin account.
func (s *Store) UpdateAdminProfile(ctx context.Context, id int64, patch AdminProfilePatch) error {
	sets := []string{"updated_at = ?"}
	args := []interface{}{now()}

	if patch.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, *patch.Email)
	}
	if patch.FullName != nil {
		sets = append(sets, "full_name = ?")
		args = append(args, *patch.FullName)
	}
	if patch.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *patch.PasswordHash)
	}
	args = append(args, id)

	q := s.rebind("UPDATE admins SET " + strings.Join(sets, ", ") + " WHERE id = ?")
	result, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update admin profile: %w", err)
	}
	return requireRow(result)
}

// SetAdminActive activates or deactivates an admin account. Deactivation
// takes effect on the account's next token verification.
func (s *Store) SetAdminActive(ctx context.Context, id int64, active bool) error {
	q := s.rebind("UPDATE admins SET is_active = ?, updated_at = ? WHERE id = ?")
	result, err := s.db.ExecContext(ctx, q, active, now(), id)
	if err != nil {
		return fmt.Errorf("set admin active: %w", err)
	}
	return requireRow(result)
}

// requireRow converts a zero-rows-affected update into ErrNotFound.
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a uniqueness-constraint failure
// in either supported dialect.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
