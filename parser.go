package arbor

import (
	"context"

	"github.com/arbor-tools/arbor/input"
)

// Parser turns tokens into a typed argument value.
//
// Parse consumes as much of the cursor as the value needs: most parsers
// read one token, greedy parsers read everything left. On failure the
// parser returns an error and leaves the cursor wherever it stopped; the
// tree rewinds it. The returned value is bound into the Context under
// the component's name.
//
// Suggest proposes completions for the token under the cursor. It must
// not mutate shared state: the cursor it receives is a throwaway clone.
type Parser interface {
	Parse(ctx context.Context, cctx *Context, in *input.Cursor) (any, error)
	Suggest(ctx context.Context, cctx *Context, in *input.Cursor) []Suggestion
}

// GreedyParser marks parsers that consume the whole rest of the input.
// The tree never descends past a greedy component, and suggestion walks
// hand the remaining input straight to the parser.
type GreedyParser interface {
	Parser
	Greedy() bool
}

// IsGreedy reports whether p consumes the rest of the input.
func IsGreedy(p Parser) bool {
	g, ok := p.(GreedyParser)
	return ok && g.Greedy()
}
