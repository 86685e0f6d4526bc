package arbor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComponentConstructors(t *testing.T) {
	lit := Literal("teleport", "tp", "warp")
	require.Equal(t, KindLiteral, lit.Kind)
	require.Equal(t, "teleport", lit.Name)
	require.Equal(t, []string{"tp", "warp"}, lit.Aliases)

	req := Required("player", wordStub{})
	require.Equal(t, KindVariable, req.Kind)
	require.True(t, req.Required)
	require.False(t, req.HasDefault)
	require.NotNil(t, req.Parser)

	opt := Optional("reason", wordStub{})
	require.Equal(t, KindVariable, opt.Kind)
	require.False(t, opt.Required)
	require.False(t, opt.HasDefault)

	def := OptionalDefault("amount", wordStub{}, "1")
	require.Equal(t, KindVariable, def.Kind)
	require.False(t, def.Required)
	require.True(t, def.HasDefault)
	require.Equal(t, "1", def.Default)

	fg := FlagGroup(Flag{Name: "force"}, Flag{Name: "delay", Parser: wordStub{}})
	require.Equal(t, KindFlag, fg.Kind)
	require.Equal(t, "flags", fg.Name)
	require.Len(t, fg.Flags, 2)
}

func TestComponentNames(t *testing.T) {
	require.Equal(t, []string{"teleport", "tp", "warp"}, Literal("teleport", "tp", "warp").Names())
	require.Equal(t, []string{"list"}, Literal("list").Names())
}

func TestComponentMatches(t *testing.T) {
	lit := Literal("teleport", "tp")

	tests := []struct {
		token string
		want  bool
	}{
		{token: "teleport", want: true},
		{token: "tp", want: true},
		{token: "Teleport", want: false},
		{token: "tele", want: false},
		{token: "", want: false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, lit.Matches(tt.token), "token %q", tt.token)
	}
}

func TestComponentCopyIsDeep(t *testing.T) {
	orig := Literal("teleport", "tp")
	cp := orig.Copy()
	orig.Aliases[0] = "mutated"
	require.Equal(t, []string{"tp"}, cp.Aliases)

	fg := FlagGroup(Flag{Name: "force", Aliases: []string{"f"}})
	fcp := fg.Copy()
	fg.Flags[0].Aliases[0] = "mutated"
	fg.Flags[0].Name = "renamed"
	require.Equal(t, "force", fcp.Flags[0].Name)
	require.Equal(t, []string{"f"}, fcp.Flags[0].Aliases)
}

func TestComponentKindString(t *testing.T) {
	require.Equal(t, "literal", KindLiteral.String())
	require.Equal(t, "variable", KindVariable.String())
	require.Equal(t, "flag", KindFlag.String())
	require.Equal(t, "unknown", ComponentKind(42).String())
}

func TestFlagForms(t *testing.T) {
	f := Flag{Name: "force", Aliases: []string{"f", "x"}}
	require.Equal(t, "--force", f.Long())
	require.Equal(t, []string{"-f", "-x"}, f.Shorts())

	require.True(t, f.Matches("--force"))
	require.True(t, f.Matches("-f"))
	require.True(t, f.Matches("-x"))
	require.False(t, f.Matches("-force"))
	require.False(t, f.Matches("force"))
	require.False(t, f.Matches("--f"))

	require.Nil(t, Flag{Name: "quiet"}.Shorts())
}
