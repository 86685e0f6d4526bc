package tree

import (
	"context"
	"fmt"
	"strings"

	"github.com/arbor-tools/arbor"
	"github.com/arbor-tools/arbor/input"
)

// parseFlags consumes flag tokens off the cursor: --name long forms, -a
// short forms, each optionally followed by a value token when the flag
// declares a parser. The loop stops at the first token that does not
// look like a flag, leaving it for the node's children, and at the end
// of input. Every flag is optional; an unknown or repeated flag, a
// missing value, or a failed value parse aborts with an error.
func (t *Tree) parseFlags(ctx context.Context, cctx *arbor.Context, in *input.Cursor, comp *arbor.Component) error {
	for !in.IsEmpty() {
		if err := ctx.Err(); err != nil {
			return err
		}
		token := in.Peek()
		if !strings.HasPrefix(token, "-") {
			return nil
		}
		in.ReadWord()

		def := resolveFlag(comp.Flags, token)
		if def == nil {
			return fmt.Errorf("unknown flag %q", token)
		}
		if cctx.HasFlag(def.Name) {
			return fmt.Errorf("flag %s given twice", def.Long())
		}
		if !def.Permission.IsEmpty() && !t.evaluator.Test(ctx, cctx.Sender(), def.Permission) {
			return fmt.Errorf("flag %s requires permission %s", def.Long(), def.Permission)
		}

		if def.Parser == nil {
			cctx.SetFlag(def.Name, true)
			continue
		}
		if in.IsEmpty() {
			return fmt.Errorf("flag %s expects a value", def.Long())
		}
		val, err := def.Parser.Parse(ctx, cctx, in)
		if err != nil {
			return fmt.Errorf("flag %s: %w", def.Long(), err)
		}
		cctx.SetFlag(def.Name, val)
	}
	return nil
}

// resolveFlag finds the definition whose long or short form is token.
func resolveFlag(defs []arbor.Flag, token string) *arbor.Flag {
	for i := range defs {
		if defs[i].Matches(token) {
			return &defs[i]
		}
	}
	return nil
}
