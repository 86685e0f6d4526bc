// Package authz persists users, roles, and permission grants in
// SQLite and answers permission checks for command dispatch. Effective
// permissions are the union of a user's direct grants and the grants
// of every role assigned to the user.
package authz

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/arbor-tools/arbor/internal/authz/migrations"
)

// ErrNotFound reports a user, role, grant, or assignment that does not exist.
var ErrNotFound = errors.New("not found")

// ErrExists reports a user or role that is already registered.
var ErrExists = errors.New("already exists")

// Store wraps the authz database.
type Store struct {
	db   *sql.DB
	path string
}

// New opens (creating if necessary) the database at path and brings
// the schema up to date.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// An in-memory database exists per connection; a second pooled
		// connection would see an empty schema.
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := setDBPermissions(path); err != nil {
		db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// NewWithDB wraps an existing handle. The caller owns the schema.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func setDBPermissions(path string) error {
	if path == ":memory:" {
		return nil
	}
	if err := os.Chmod(path, 0600); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// CreateUser registers a user name.
func (s *Store) CreateUser(name string) error {
	res, err := s.db.Exec("INSERT OR IGNORE INTO users (name) VALUES (?)", name)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %q: %w", name, ErrExists)
	}
	return nil
}

// DeleteUser removes a user along with its grants and role assignments.
func (s *Store) DeleteUser(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM user_grants WHERE user_name = ?", name); err != nil {
		return fmt.Errorf("delete user grants: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM user_roles WHERE user_name = ?", name); err != nil {
		return fmt.Errorf("delete user roles: %w", err)
	}
	res, err := tx.Exec("DELETE FROM users WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %q: %w", name, ErrNotFound)
	}
	return tx.Commit()
}

// ListUsers returns all user names sorted alphabetically.
func (s *Store) ListUsers() ([]string, error) {
	return s.listColumn("SELECT name FROM users ORDER BY name")
}

// CreateRole registers a role name.
func (s *Store) CreateRole(name string) error {
	res, err := s.db.Exec("INSERT OR IGNORE INTO roles (name) VALUES (?)", name)
	if err != nil {
		return fmt.Errorf("create role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("role %q: %w", name, ErrExists)
	}
	return nil
}

// DeleteRole removes a role, its grants, and its assignments.
func (s *Store) DeleteRole(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM role_grants WHERE role_name = ?", name); err != nil {
		return fmt.Errorf("delete role grants: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM user_roles WHERE role_name = ?", name); err != nil {
		return fmt.Errorf("delete role assignments: %w", err)
	}
	res, err := tx.Exec("DELETE FROM roles WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("role %q: %w", name, ErrNotFound)
	}
	return tx.Commit()
}

// ListRoles returns all role names sorted alphabetically.
func (s *Store) ListRoles() ([]string, error) {
	return s.listColumn("SELECT name FROM roles ORDER BY name")
}

// AssignRole gives user every grant of role. Assigning twice is a no-op.
func (s *Store) AssignRole(user, role string) error {
	if err := s.requireUser(user); err != nil {
		return err
	}
	if err := s.requireRole(role); err != nil {
		return err
	}
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO user_roles (user_name, role_name) VALUES (?, ?)",
		user, role,
	)
	if err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

// UnassignRole removes a role assignment.
func (s *Store) UnassignRole(user, role string) error {
	res, err := s.db.Exec(
		"DELETE FROM user_roles WHERE user_name = ? AND role_name = ?",
		user, role,
	)
	if err != nil {
		return fmt.Errorf("unassign role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("assignment %q -> %q: %w", user, role, ErrNotFound)
	}
	return nil
}

// UserRoles returns the roles assigned to user, sorted.
func (s *Store) UserRoles(user string) ([]string, error) {
	return s.listColumn(
		"SELECT role_name FROM user_roles WHERE user_name = ? ORDER BY role_name", user)
}

// GrantUser gives user a permission directly. Granting twice is a no-op.
func (s *Store) GrantUser(user, permission string) error {
	if err := s.requireUser(user); err != nil {
		return err
	}
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO user_grants (user_name, permission) VALUES (?, ?)",
		user, permission,
	)
	if err != nil {
		return fmt.Errorf("grant user: %w", err)
	}
	return nil
}

// RevokeUser removes a direct grant.
func (s *Store) RevokeUser(user, permission string) error {
	res, err := s.db.Exec(
		"DELETE FROM user_grants WHERE user_name = ? AND permission = ?",
		user, permission,
	)
	if err != nil {
		return fmt.Errorf("revoke user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("grant %q on %q: %w", permission, user, ErrNotFound)
	}
	return nil
}

// UserGrants returns the direct grants of user, sorted.
func (s *Store) UserGrants(user string) ([]string, error) {
	return s.listColumn(
		"SELECT permission FROM user_grants WHERE user_name = ? ORDER BY permission", user)
}

// GrantRole gives role a permission. Granting twice is a no-op.
func (s *Store) GrantRole(role, permission string) error {
	if err := s.requireRole(role); err != nil {
		return err
	}
	_, err := s.db.Exec(
		"INSERT OR IGNORE INTO role_grants (role_name, permission) VALUES (?, ?)",
		role, permission,
	)
	if err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	return nil
}

// RevokeRole removes a role grant.
func (s *Store) RevokeRole(role, permission string) error {
	res, err := s.db.Exec(
		"DELETE FROM role_grants WHERE role_name = ? AND permission = ?",
		role, permission,
	)
	if err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("grant %q on %q: %w", permission, role, ErrNotFound)
	}
	return nil
}

// RoleGrants returns the grants of role, sorted.
func (s *Store) RoleGrants(role string) ([]string, error) {
	return s.listColumn(
		"SELECT permission FROM role_grants WHERE role_name = ? ORDER BY permission", role)
}

// Permissions returns the effective permissions of user: direct grants
// plus grants inherited through roles, sorted and deduplicated.
func (s *Store) Permissions(ctx context.Context, user string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT permission FROM user_grants WHERE user_name = ?1
		UNION
		SELECT rg.permission
		FROM user_roles ur
		JOIN role_grants rg ON rg.role_name = ur.role_name
		WHERE ur.user_name = ?1
		ORDER BY permission`, user)
	if err != nil {
		return nil, fmt.Errorf("query permissions: %w", err)
	}
	defer rows.Close()
	return scanColumn(rows)
}

// HasPermission reports whether user holds permission, directly or
// through a role.
func (s *Store) HasPermission(ctx context.Context, user, permission string) (bool, error) {
	var held bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM user_grants
			WHERE user_name = ?1 AND permission = ?2
			UNION
			SELECT 1
			FROM user_roles ur
			JOIN role_grants rg ON rg.role_name = ur.role_name
			WHERE ur.user_name = ?1 AND rg.permission = ?2
		)`, user, permission).Scan(&held)
	if err != nil {
		return false, fmt.Errorf("query permission: %w", err)
	}
	return held, nil
}

func (s *Store) requireUser(name string) error {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS (SELECT 1 FROM users WHERE name = ?)", name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("look up user: %w", err)
	}
	if !exists {
		return fmt.Errorf("user %q: %w", name, ErrNotFound)
	}
	return nil
}

func (s *Store) requireRole(name string) error {
	var exists bool
	err := s.db.QueryRow("SELECT EXISTS (SELECT 1 FROM roles WHERE name = ?)", name).Scan(&exists)
	if err != nil {
		return fmt.Errorf("look up role: %w", err)
	}
	if !exists {
		return fmt.Errorf("role %q: %w", name, ErrNotFound)
	}
	return nil
}

func (s *Store) listColumn(query string, args ...any) ([]string, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()
	return scanColumn(rows)
}

func scanColumn(rows *sql.Rows) ([]string, error) {
	var out []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}
