package tree

import (
	"context"

	"github.com/arbor-tools/arbor"
	"github.com/arbor-tools/arbor/input"
	"github.com/arbor-tools/arbor/usage"
)

// Parse resolves the cursor against the tree and returns the matched
// command. Argument values and flags are bound into cctx as matching
// proceeds. The command's handler is not invoked.
//
// On success the cursor is fully consumed. On failure the cursor is
// restored to its position at call time and the error is a *usage.Error
// classifying what went wrong, except for context cancellation, which
// surfaces as the context's error.
func (t *Tree) Parse(ctx context.Context, cctx *arbor.Context, in *input.Cursor) (*arbor.Command, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	mark := in.Mark()
	cmd, err := t.parseNode(ctx, cctx, in, rootRef, nil)
	if err != nil {
		in.Restore(mark)
		return nil, err
	}
	return cmd, nil
}

func (t *Tree) parseNode(ctx context.Context, cctx *arbor.Context, in *input.Cursor, ref nodeRef, chain []arbor.Component) (*arbor.Command, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sender := cctx.Sender()
	if err := t.checkAccess(ctx, sender, ref, chain); err != nil {
		return nil, err
	}
	nd := &t.arena[ref]

	if len(nd.children) == 0 {
		if !in.IsEmpty() {
			return nil, t.divergence(sender, in, ref, chain)
		}
		if nd.command == nil {
			return nil, usage.IncompleteCommand(chain)
		}
		return nd.command, nil
	}

	if in.IsEmpty() {
		if nd.command != nil {
			return nd.command, nil
		}
		// The input may still reach a command through skippable nodes: a
		// flag group (all flags optional) or an optional variable. A
		// declared default is parsed and bound; a plain optional is
		// passed through with its name left unbound.
		if vref, ok := t.nonLiteralChild(ref); ok {
			vc := t.arena[vref].component
			switch {
			case vc.Kind == arbor.KindFlag:
				return t.parseNode(ctx, cctx, in, vref, append(chain, *vc))
			case vc.Kind == arbor.KindVariable && !vc.Required:
				if vc.HasDefault {
					val, err := vc.Parser.Parse(ctx, cctx, input.New(vc.Default))
					if err != nil {
						return nil, usage.ArgumentParse(sender, append(chain, *vc), err)
					}
					cctx.Set(vc.Name, val)
				}
				return t.parseNode(ctx, cctx, in, vref, append(chain, *vc))
			}
		}
		return nil, t.divergence(sender, in, ref, chain)
	}

	token := in.Peek()
	for _, cref := range t.literalChildren(ref) {
		c := t.arena[cref].component
		if c.Matches(token) {
			in.ReadWord()
			return t.parseNode(ctx, cctx, in, cref, append(chain, *c))
		}
	}

	if vref, ok := t.nonLiteralChild(ref); ok {
		vc := t.arena[vref].component
		switch vc.Kind {
		case arbor.KindFlag:
			if err := t.parseFlags(ctx, cctx, in, vc); err != nil {
				return nil, usage.ArgumentParse(sender, append(chain, *vc), err)
			}
			return t.parseNode(ctx, cctx, in, vref, append(chain, *vc))
		default:
			val, err := vc.Parser.Parse(ctx, cctx, in)
			if err != nil {
				return nil, usage.ArgumentParse(sender, append(chain, *vc), err)
			}
			cctx.Set(vc.Name, val)
			return t.parseNode(ctx, cctx, in, vref, append(chain, *vc))
		}
	}

	return nil, t.divergence(sender, in, ref, chain)
}

// divergence classifies input that matches no path out of ref: an
// unknown root command at the top of the tree, invalid syntax anywhere
// below.
func (t *Tree) divergence(sender arbor.Sender, in *input.Cursor, ref nodeRef, chain []arbor.Component) error {
	if ref == rootRef {
		return usage.NoSuchCommand(sender, in.Peek())
	}
	syntax := t.formatter.Format(sender, chain, t.childComponents(ref))
	return usage.InvalidSyntax(sender, chain, syntax)
}
