package arbor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type permHolder struct {
	perms map[string]bool
}

func (permHolder) Name() string { return "holder" }

func (h permHolder) HasPermission(name string) bool { return h.perms[name] }

func TestPermissionZeroValue(t *testing.T) {
	var p Permission
	require.True(t, p.IsEmpty())
	require.Nil(t, p.Names())
	require.Equal(t, "", p.String())
}

func TestPermissionOr(t *testing.T) {
	tests := []struct {
		name string
		p    Permission
		q    Permission
		want []string
	}{
		{
			name: "disjoint names union",
			p:    Perm("mod.kick"),
			q:    Perm("mod.ban"),
			want: []string{"mod.kick", "mod.ban"},
		},
		{
			name: "duplicates collapse keeping first order",
			p:    Perm("a").Or(Perm("b")),
			q:    Perm("b").Or(Perm("c")),
			want: []string{"a", "b", "c"},
		},
		{
			name: "empty left absorbs",
			p:    Permission{},
			q:    Perm("mod.ban"),
			want: nil,
		},
		{
			name: "empty right absorbs",
			p:    Perm("mod.ban"),
			q:    Permission{},
			want: nil,
		},
		{
			name: "both empty",
			p:    Permission{},
			q:    Permission{},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.p.Or(tt.q).Names())
		})
	}
}

func TestPermissionString(t *testing.T) {
	require.Equal(t, "mod.kick|mod.ban", Perm("mod.kick").Or(Perm("mod.ban")).String())
}

func TestPermissionNamesIsACopy(t *testing.T) {
	p := Perm("a").Or(Perm("b"))
	names := p.Names()
	names[0] = "mutated"
	require.Equal(t, []string{"a", "b"}, p.Names())
}

func TestHolderEvaluator(t *testing.T) {
	ev := HolderEvaluator{}
	ctx := context.Background()

	tests := []struct {
		name   string
		sender Sender
		perm   Permission
		want   bool
	}{
		{
			name:   "empty permission grants anyone",
			sender: playerSender{name: "steve"},
			perm:   Permission{},
			want:   true,
		},
		{
			name:   "non-holder denied",
			sender: playerSender{name: "steve"},
			perm:   Perm("mod.ban"),
			want:   false,
		},
		{
			name:   "holder with the name",
			sender: permHolder{perms: map[string]bool{"mod.ban": true}},
			perm:   Perm("mod.ban"),
			want:   true,
		},
		{
			name:   "holder missing the name",
			sender: permHolder{perms: map[string]bool{}},
			perm:   Perm("mod.ban"),
			want:   false,
		},
		{
			name:   "any one name suffices",
			sender: permHolder{perms: map[string]bool{"mod.kick": true}},
			perm:   Perm("mod.ban").Or(Perm("mod.kick")),
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ev.Test(ctx, tt.sender, tt.perm))
		})
	}
}
