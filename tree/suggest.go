package tree

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/arbor-tools/arbor"
	"github.com/arbor-tools/arbor/input"
)

// Suggest lists completions for the token being typed at the end of the
// cursor. The walk mirrors Parse: fully typed tokens are consumed the
// way Parse would consume them, then the children of the reached node
// complete the final token. Literal completions are strict-prefix
// matches of name and aliases, variable children delegate to their
// parser, and flag groups offer their unused flag names.
//
// Suggest never fails: branches that cannot be resolved, are denied to
// the sender, or whose speculative parses error simply contribute
// nothing. Results keep tree child order and are not deduplicated. The
// caller's cursor is never modified; argument values bound during
// speculative parses do accumulate in cctx.
func (t *Tree) Suggest(ctx context.Context, cctx *arbor.Context, in *input.Cursor) []arbor.Suggestion {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []arbor.Suggestion
	t.suggestNode(ctx, cctx, in.Clone(), rootRef, &out)
	return out
}

// suggestNode owns the cursor it receives.
func (t *Tree) suggestNode(ctx context.Context, cctx *arbor.Context, in *input.Cursor, ref nodeRef, out *[]arbor.Suggestion) {
	if ctx.Err() != nil {
		return
	}
	sender := cctx.Sender()
	if !t.permitted(ctx, sender, ref) {
		return
	}
	if len(t.arena[ref].children) == 0 {
		return
	}

	if in.RemainingTokens() > 1 {
		token := in.Peek()
		for _, cref := range t.literalChildren(ref) {
			if t.arena[cref].component.Matches(token) {
				in.ReadWord()
				t.suggestNode(ctx, cctx, in, cref, out)
				return
			}
		}
		vref, ok := t.nonLiteralChild(ref)
		if !ok {
			return
		}
		if !t.permitted(ctx, sender, vref) {
			return
		}
		vc := t.arena[vref].component
		switch vc.Kind {
		case arbor.KindFlag:
			t.suggestFlags(ctx, cctx, in, vref, out)
		default:
			if len(t.arena[vref].children) == 0 && arbor.IsGreedy(vc.Parser) {
				*out = append(*out, vc.Parser.Suggest(ctx, cctx, in)...)
				return
			}
			val, err := vc.Parser.Parse(ctx, cctx, in)
			if err != nil {
				return
			}
			cctx.Set(vc.Name, val)
			t.suggestNode(ctx, cctx, in, vref, out)
		}
		return
	}

	partial := in.Peek()
	for _, cref := range t.literalChildren(ref) {
		if !t.permitted(ctx, sender, cref) {
			continue
		}
		for _, name := range t.arena[cref].component.Names() {
			if name != partial && strings.HasPrefix(name, partial) {
				*out = append(*out, arbor.Suggestion{Text: name})
			}
		}
	}
	vref, ok := t.nonLiteralChild(ref)
	if !ok || !t.permitted(ctx, sender, vref) {
		return
	}
	vc := t.arena[vref].component
	switch vc.Kind {
	case arbor.KindFlag:
		t.suggestFlags(ctx, cctx, in, vref, out)
	default:
		*out = append(*out, vc.Parser.Suggest(ctx, cctx, in.Clone())...)
	}
}

// suggestFlags completes input inside a flag group: fully typed flags
// and their values are consumed first, then either the unused flag names
// or the current flag's value are completed. A token without the flag
// prefix falls through to the group's children, which carry the rest of
// the command chain.
func (t *Tree) suggestFlags(ctx context.Context, cctx *arbor.Context, in *input.Cursor, fref nodeRef, out *[]arbor.Suggestion) {
	defs := t.arena[fref].component.Flags

	for in.RemainingTokens() > 1 {
		if ctx.Err() != nil {
			return
		}
		token := in.Peek()
		if !strings.HasPrefix(token, "-") {
			t.suggestNode(ctx, cctx, in, fref, out)
			return
		}
		in.ReadWord()

		def := resolveFlag(defs, token)
		if def == nil {
			return
		}
		if def.Parser == nil {
			cctx.SetFlag(def.Name, true)
			continue
		}
		if in.RemainingTokens() <= 1 {
			if t.flagPermitted(ctx, cctx.Sender(), *def) {
				*out = append(*out, def.Parser.Suggest(ctx, cctx, in)...)
			}
			return
		}
		val, err := def.Parser.Parse(ctx, cctx, in)
		if err != nil {
			return
		}
		cctx.SetFlag(def.Name, val)
	}

	partial := in.Peek()
	if partial == "" || strings.HasPrefix(partial, "-") {
		t.fanOutFlagNames(ctx, cctx, defs, partial, out)
	}
	if !strings.HasPrefix(partial, "-") {
		t.suggestNode(ctx, cctx, in, fref, out)
	}
}

// fanOutFlagNames completes partial against the long and short forms of
// every flag the sender may still use. Each definition is filtered on
// its own goroutine; results merge back in definition order, so the
// listing is deterministic.
func (t *Tree) fanOutFlagNames(ctx context.Context, cctx *arbor.Context, defs []arbor.Flag, partial string, out *[]arbor.Suggestion) {
	results := make([][]arbor.Suggestion, len(defs))
	g, gctx := errgroup.WithContext(ctx)
	for i := range defs {
		i := i
		def := defs[i]
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if cctx.HasFlag(def.Name) {
				return nil
			}
			if !t.flagPermitted(gctx, cctx.Sender(), def) {
				return nil
			}
			var subs []arbor.Suggestion
			for _, cand := range append([]string{def.Long()}, def.Shorts()...) {
				if cand != partial && strings.HasPrefix(cand, partial) {
					subs = append(subs, arbor.Suggestion{Text: cand})
				}
			}
			results[i] = subs
			return nil
		})
	}
	_ = g.Wait()
	for _, subs := range results {
		*out = append(*out, subs...)
	}
}

func (t *Tree) flagPermitted(ctx context.Context, sender arbor.Sender, def arbor.Flag) bool {
	return def.Permission.IsEmpty() || t.evaluator.Test(ctx, sender, def.Permission)
}
