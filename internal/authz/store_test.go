package authz

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/arbor-tools/arbor/internal/authz/migrations"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(db))
	return NewWithDB(db)
}

func TestStore_CreateUser(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CreateUser("steve"))
	require.NoError(t, s.CreateUser("alex"))

	users, err := s.ListUsers()
	require.NoError(t, err)
	require.Equal(t, []string{"alex", "steve"}, users)

	err = s.CreateUser("steve")
	require.ErrorIs(t, err, ErrExists)
}

func TestStore_DeleteUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser("steve"))
	require.NoError(t, s.CreateRole("mod"))
	require.NoError(t, s.GrantRole("mod", "mod.kick"))
	require.NoError(t, s.AssignRole("steve", "mod"))
	require.NoError(t, s.GrantUser("steve", "demo.give"))

	require.NoError(t, s.DeleteUser("steve"))

	users, err := s.ListUsers()
	require.NoError(t, err)
	require.Empty(t, users)

	held, err := s.HasPermission(ctx, "steve", "demo.give")
	require.NoError(t, err)
	require.False(t, held)

	held, err = s.HasPermission(ctx, "steve", "mod.kick")
	require.NoError(t, err)
	require.False(t, held)

	err = s.DeleteUser("steve")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_Roles(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.CreateRole("admin"))
	require.NoError(t, s.CreateRole("mod"))

	roles, err := s.ListRoles()
	require.NoError(t, err)
	require.Equal(t, []string{"admin", "mod"}, roles)

	require.ErrorIs(t, s.CreateRole("mod"), ErrExists)

	require.NoError(t, s.DeleteRole("admin"))
	roles, err = s.ListRoles()
	require.NoError(t, err)
	require.Equal(t, []string{"mod"}, roles)

	require.ErrorIs(t, s.DeleteRole("admin"), ErrNotFound)
}

func TestStore_DeleteRoleRemovesAssignments(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser("steve"))
	require.NoError(t, s.CreateRole("mod"))
	require.NoError(t, s.GrantRole("mod", "mod.ban"))
	require.NoError(t, s.AssignRole("steve", "mod"))

	require.NoError(t, s.DeleteRole("mod"))

	held, err := s.HasPermission(ctx, "steve", "mod.ban")
	require.NoError(t, err)
	require.False(t, held)

	roles, err := s.UserRoles("steve")
	require.NoError(t, err)
	require.Empty(t, roles)
}

func TestStore_DirectGrants(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser("steve"))

	held, err := s.HasPermission(ctx, "steve", "demo.give")
	require.NoError(t, err)
	require.False(t, held)

	require.NoError(t, s.GrantUser("steve", "demo.give"))
	require.NoError(t, s.GrantUser("steve", "demo.give")) // idempotent

	held, err = s.HasPermission(ctx, "steve", "demo.give")
	require.NoError(t, err)
	require.True(t, held)

	grants, err := s.UserGrants("steve")
	require.NoError(t, err)
	require.Equal(t, []string{"demo.give"}, grants)

	require.NoError(t, s.RevokeUser("steve", "demo.give"))

	held, err = s.HasPermission(ctx, "steve", "demo.give")
	require.NoError(t, err)
	require.False(t, held)

	require.ErrorIs(t, s.RevokeUser("steve", "demo.give"), ErrNotFound)
}

func TestStore_GrantUnknownUser(t *testing.T) {
	s := newTestStore(t)

	require.ErrorIs(t, s.GrantUser("ghost", "demo.give"), ErrNotFound)
	require.ErrorIs(t, s.GrantRole("ghost", "demo.give"), ErrNotFound)
	require.ErrorIs(t, s.AssignRole("ghost", "mod"), ErrNotFound)
}

func TestStore_RoleGrants(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser("steve"))
	require.NoError(t, s.CreateRole("mod"))
	require.NoError(t, s.GrantRole("mod", "mod.kick"))
	require.NoError(t, s.GrantRole("mod", "mod.ban"))

	grants, err := s.RoleGrants("mod")
	require.NoError(t, err)
	require.Equal(t, []string{"mod.ban", "mod.kick"}, grants)

	// Not effective until the role is assigned.
	held, err := s.HasPermission(ctx, "steve", "mod.kick")
	require.NoError(t, err)
	require.False(t, held)

	require.NoError(t, s.AssignRole("steve", "mod"))

	held, err = s.HasPermission(ctx, "steve", "mod.kick")
	require.NoError(t, err)
	require.True(t, held)

	require.NoError(t, s.UnassignRole("steve", "mod"))

	held, err = s.HasPermission(ctx, "steve", "mod.kick")
	require.NoError(t, err)
	require.False(t, held)

	require.ErrorIs(t, s.UnassignRole("steve", "mod"), ErrNotFound)
}

func TestStore_Permissions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser("steve"))
	require.NoError(t, s.CreateRole("mod"))
	require.NoError(t, s.GrantRole("mod", "mod.kick"))
	require.NoError(t, s.GrantRole("mod", "demo.give"))
	require.NoError(t, s.AssignRole("steve", "mod"))
	require.NoError(t, s.GrantUser("steve", "demo.give"))
	require.NoError(t, s.GrantUser("steve", "demo.echo"))

	perms, err := s.Permissions(ctx, "steve")
	require.NoError(t, err)
	require.Equal(t, []string{"demo.echo", "demo.give", "mod.kick"}, perms)

	perms, err = s.Permissions(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, perms)
}

func TestNew_FileDatabase(t *testing.T) {
	path := t.TempDir() + "/authz.db"

	s, err := New(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.CreateUser("steve"))

	version, err := migrations.CurrentVersion(s.DB())
	require.NoError(t, err)
	require.Greater(t, version, 0)
}
