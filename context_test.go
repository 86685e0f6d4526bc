package arbor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextValues(t *testing.T) {
	cctx := NewContext(playerSender{name: "steve"})
	require.Equal(t, "steve", cctx.Sender().Name())

	require.False(t, cctx.Has("player"))
	_, ok := cctx.Get("player")
	require.False(t, ok)

	cctx.Set("player", "Alex")
	require.True(t, cctx.Has("player"))
	v, ok := cctx.Get("player")
	require.True(t, ok)
	require.Equal(t, "Alex", v)
}

func TestContextFlags(t *testing.T) {
	cctx := NewContext(playerSender{name: "steve"})

	require.False(t, cctx.HasFlag("force"))
	cctx.SetFlag("force", true)
	cctx.SetFlag("delay", int64(30))

	require.True(t, cctx.HasFlag("force"))
	v, ok := cctx.Flag("delay")
	require.True(t, ok)
	require.Equal(t, int64(30), v)
	_, ok = cctx.Flag("trace")
	require.False(t, ok)
}

func TestTypedValueAccess(t *testing.T) {
	cctx := NewContext(playerSender{name: "steve"})
	cctx.Set("amount", int64(5))
	cctx.Set("player", "Alex")

	amount, ok := Value[int64](cctx, "amount")
	require.True(t, ok)
	require.Equal(t, int64(5), amount)

	// Wrong type and missing name both come back false with the zero.
	_, ok = Value[string](cctx, "amount")
	require.False(t, ok)
	s, ok := Value[string](cctx, "missing")
	require.False(t, ok)
	require.Equal(t, "", s)
}

func TestTypedFlagAccess(t *testing.T) {
	cctx := NewContext(playerSender{name: "steve"})
	cctx.SetFlag("force", true)
	cctx.SetFlag("delay", int64(30))

	force, ok := FlagValue[bool](cctx, "force")
	require.True(t, ok)
	require.True(t, force)

	_, ok = FlagValue[string](cctx, "delay")
	require.False(t, ok)
	_, ok = FlagValue[bool](cctx, "missing")
	require.False(t, ok)
}
