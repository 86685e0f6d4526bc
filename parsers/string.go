// Package parsers provides stock argument parsers for common value
// shapes: single words, quoted-free greedy strings, integers, floats,
// booleans and fixed choice sets. All parsers are stateless values, so
// reusing one instance across commands keeps equivalent variable
// components mergeable in the tree.
package parsers

import (
	"context"
	"errors"

	"github.com/arbor-tools/arbor"
	"github.com/arbor-tools/arbor/input"
)

var errEmptyToken = errors.New("expected a word")

type wordParser struct{}

// Word returns a parser capturing exactly one token as a string.
func Word() arbor.Parser {
	return wordParser{}
}

func (wordParser) Parse(_ context.Context, _ *arbor.Context, in *input.Cursor) (any, error) {
	token := in.ReadWord()
	if token == "" {
		return nil, errEmptyToken
	}
	return token, nil
}

func (wordParser) Suggest(context.Context, *arbor.Context, *input.Cursor) []arbor.Suggestion {
	return nil
}

type greedyParser struct{}

// Greedy returns a parser capturing everything left on the line,
// delimiters included. Components using it terminate their chain.
func Greedy() arbor.Parser {
	return greedyParser{}
}

func (greedyParser) Parse(_ context.Context, _ *arbor.Context, in *input.Cursor) (any, error) {
	rest := in.ReadAll()
	if rest == "" {
		return nil, errEmptyToken
	}
	return rest, nil
}

func (greedyParser) Suggest(context.Context, *arbor.Context, *input.Cursor) []arbor.Suggestion {
	return nil
}

func (greedyParser) Greedy() bool {
	return true
}
