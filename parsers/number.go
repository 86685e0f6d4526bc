package parsers

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/arbor-tools/arbor"
	"github.com/arbor-tools/arbor/input"
)

type intParser struct {
	min, max int64
}

// Int returns a parser accepting any int64.
func Int() arbor.Parser {
	return intParser{min: math.MinInt64, max: math.MaxInt64}
}

// IntRange returns a parser accepting integers in [min, max].
func IntRange(min, max int64) arbor.Parser {
	return intParser{min: min, max: max}
}

func (p intParser) Parse(_ context.Context, _ *arbor.Context, in *input.Cursor) (any, error) {
	token := in.ReadWord()
	if token == "" {
		return nil, errEmptyToken
	}
	n, err := strconv.ParseInt(token, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not an integer", token)
	}
	if n < p.min || n > p.max {
		return nil, fmt.Errorf("%d is outside the range %d..%d", n, p.min, p.max)
	}
	return n, nil
}

func (intParser) Suggest(context.Context, *arbor.Context, *input.Cursor) []arbor.Suggestion {
	return nil
}

type floatParser struct{}

// Float returns a parser accepting any float64.
func Float() arbor.Parser {
	return floatParser{}
}

func (floatParser) Parse(_ context.Context, _ *arbor.Context, in *input.Cursor) (any, error) {
	token := in.ReadWord()
	if token == "" {
		return nil, errEmptyToken
	}
	f, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil, fmt.Errorf("%q is not a number", token)
	}
	return f, nil
}

func (floatParser) Suggest(context.Context, *arbor.Context, *input.Cursor) []arbor.Suggestion {
	return nil
}
