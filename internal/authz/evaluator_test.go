package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arbor-tools/arbor"
)

type namedSender struct {
	name string
}

func (s namedSender) Name() string { return s.name }

func TestEvaluator_EmptyPermissionPassesEveryone(t *testing.T) {
	e := NewEvaluator(newTestStore(t), nil)

	ok := e.Test(context.Background(), namedSender{"stranger"}, arbor.Permission{})
	require.True(t, ok)
}

func TestEvaluator_NilSenderDenied(t *testing.T) {
	e := NewEvaluator(newTestStore(t), nil)

	ok := e.Test(context.Background(), nil, arbor.Perm("mod.kick"))
	require.False(t, ok)
}

func TestEvaluator_AnyGrantedNamePasses(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser("steve"))
	require.NoError(t, s.GrantUser("steve", "mod.ban"))

	e := NewEvaluator(s, nil)

	require.True(t, e.Test(ctx, namedSender{"steve"}, arbor.Perm("mod.kick").Or(arbor.Perm("mod.ban"))))
	require.False(t, e.Test(ctx, namedSender{"steve"}, arbor.Perm("mod.kick")))
	require.False(t, e.Test(ctx, namedSender{"alex"}, arbor.Perm("mod.ban")))
}

func TestEvaluator_SuperuserBypassesStore(t *testing.T) {
	e := NewEvaluator(newTestStore(t), nil, "console")
	ctx := context.Background()

	require.True(t, e.Test(ctx, namedSender{"console"}, arbor.Perm("admin.user")))
	require.False(t, e.Test(ctx, namedSender{"steve"}, arbor.Perm("admin.user")))
}

func TestEvaluator_RoleGrantsApply(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser("steve"))
	require.NoError(t, s.CreateRole("mod"))
	require.NoError(t, s.GrantRole("mod", "mod.kick"))
	require.NoError(t, s.AssignRole("steve", "mod"))

	e := NewEvaluator(s, nil)

	require.True(t, e.Test(ctx, namedSender{"steve"}, arbor.Perm("mod.kick")))
}
