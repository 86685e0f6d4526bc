package parsers

import (
	"context"
	"fmt"
	"strings"

	"github.com/arbor-tools/arbor"
	"github.com/arbor-tools/arbor/input"
)

type boolParser struct{}

// Bool returns a parser accepting the usual boolean spellings: true,
// false, yes, no, on, off.
func Bool() arbor.Parser {
	return boolParser{}
}

func (boolParser) Parse(_ context.Context, _ *arbor.Context, in *input.Cursor) (any, error) {
	token := in.ReadWord()
	switch strings.ToLower(token) {
	case "true", "yes", "on":
		return true, nil
	case "false", "no", "off":
		return false, nil
	case "":
		return nil, errEmptyToken
	default:
		return nil, fmt.Errorf("%q is not a boolean", token)
	}
}

func (boolParser) Suggest(_ context.Context, _ *arbor.Context, in *input.Cursor) []arbor.Suggestion {
	return prefixed(in.Peek(), "true", "false")
}

type oneOfParser struct {
	choices []string
}

// OneOf returns a parser accepting exactly one of the given words.
// Matching is case-sensitive and the choices double as suggestions.
func OneOf(choices ...string) arbor.Parser {
	return oneOfParser{choices: choices}
}

func (p oneOfParser) Parse(_ context.Context, _ *arbor.Context, in *input.Cursor) (any, error) {
	token := in.ReadWord()
	if token == "" {
		return nil, errEmptyToken
	}
	for _, c := range p.choices {
		if c == token {
			return token, nil
		}
	}
	return nil, fmt.Errorf("%q is not one of %s", token, strings.Join(p.choices, ", "))
}

func (p oneOfParser) Suggest(_ context.Context, _ *arbor.Context, in *input.Cursor) []arbor.Suggestion {
	return prefixed(in.Peek(), p.choices...)
}

// prefixed keeps the candidates the partial token is a strict prefix of.
func prefixed(partial string, candidates ...string) []arbor.Suggestion {
	var out []arbor.Suggestion
	for _, c := range candidates {
		if c != partial && strings.HasPrefix(c, partial) {
			out = append(out, arbor.Suggestion{Text: c})
		}
	}
	return out
}
