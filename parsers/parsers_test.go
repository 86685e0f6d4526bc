package parsers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arbor-tools/arbor"
	"github.com/arbor-tools/arbor/input"
)

func parse(t *testing.T, p arbor.Parser, line string) (any, error) {
	t.Helper()
	return p.Parse(context.Background(), arbor.NewContext(nil), input.New(line))
}

func suggest(t *testing.T, p arbor.Parser, line string) []string {
	t.Helper()
	suggestions := p.Suggest(context.Background(), arbor.NewContext(nil), input.New(line))
	if len(suggestions) == 0 {
		return nil
	}
	out := make([]string, len(suggestions))
	for i, s := range suggestions {
		out[i] = s.Text
	}
	return out
}

func TestWord(t *testing.T) {
	v, err := parse(t, Word(), "hello world")
	require.NoError(t, err)
	require.Equal(t, "hello", v)

	_, err = parse(t, Word(), "")
	require.EqualError(t, err, "expected a word")

	require.Nil(t, suggest(t, Word(), "he"))
}

func TestWordStopsAtDelimiter(t *testing.T) {
	in := input.New("hello world")
	_, err := Word().Parse(context.Background(), arbor.NewContext(nil), in)
	require.NoError(t, err)
	require.Equal(t, "world", in.Remaining())
}

func TestGreedy(t *testing.T) {
	v, err := parse(t, Greedy(), "hello  wide   world")
	require.NoError(t, err)
	require.Equal(t, "hello  wide   world", v)

	_, err = parse(t, Greedy(), "")
	require.EqualError(t, err, "expected a word")

	require.True(t, arbor.IsGreedy(Greedy()))
	require.False(t, arbor.IsGreedy(Word()))
}

func TestInt(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    int64
		wantErr string
	}{
		{name: "positive", line: "42", want: 42},
		{name: "negative", line: "-7", want: -7},
		{name: "not a number", line: "seven", wantErr: `"seven" is not an integer`},
		{name: "fraction rejected", line: "1.5", wantErr: `"1.5" is not an integer`},
		{name: "empty", line: "", wantErr: "expected a word"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := parse(t, Int(), tt.line)
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, v)
		})
	}
}

func TestIntRange(t *testing.T) {
	p := IntRange(1, 64)

	v, err := parse(t, p, "64")
	require.NoError(t, err)
	require.Equal(t, int64(64), v)

	_, err = parse(t, p, "0")
	require.EqualError(t, err, "0 is outside the range 1..64")
	_, err = parse(t, p, "65")
	require.EqualError(t, err, "65 is outside the range 1..64")
}

func TestFloat(t *testing.T) {
	v, err := parse(t, Float(), "2.5")
	require.NoError(t, err)
	require.Equal(t, 2.5, v)

	v, err = parse(t, Float(), "-3")
	require.NoError(t, err)
	require.Equal(t, -3.0, v)

	_, err = parse(t, Float(), "fast")
	require.EqualError(t, err, `"fast" is not a number`)
}

func TestBool(t *testing.T) {
	truthy := []string{"true", "yes", "on", "TRUE", "Yes"}
	for _, line := range truthy {
		v, err := parse(t, Bool(), line)
		require.NoError(t, err, line)
		require.Equal(t, true, v, line)
	}

	falsy := []string{"false", "no", "off", "False"}
	for _, line := range falsy {
		v, err := parse(t, Bool(), line)
		require.NoError(t, err, line)
		require.Equal(t, false, v, line)
	}

	_, err := parse(t, Bool(), "maybe")
	require.EqualError(t, err, `"maybe" is not a boolean`)

	require.Equal(t, []string{"true"}, suggest(t, Bool(), "t"))
	require.Equal(t, []string{"true", "false"}, suggest(t, Bool(), ""))
}

func TestOneOf(t *testing.T) {
	p := OneOf("diamond", "iron", "stone")

	v, err := parse(t, p, "iron")
	require.NoError(t, err)
	require.Equal(t, "iron", v)

	_, err = parse(t, p, "dirt")
	require.EqualError(t, err, `"dirt" is not one of diamond, iron, stone`)
	_, err = parse(t, p, "Iron")
	require.Error(t, err)

	require.Equal(t, []string{"diamond", "iron", "stone"}, suggest(t, p, ""))
	require.Equal(t, []string{"diamond"}, suggest(t, p, "d"))
	// The fully typed choice needs no completion.
	require.Nil(t, suggest(t, p, "iron"))
}
