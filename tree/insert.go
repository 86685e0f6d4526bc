package tree

import (
	"errors"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/arbor-tools/arbor"
	"github.com/arbor-tools/arbor/usage"
)

// Insert registers cmd, weaving its component chain into the tree and
// reusing existing nodes prefix by prefix. The whole tree is re-verified
// before the registration commits; on any failure the tree is left
// exactly as it was. The tree keeps cmd by reference, so callers must
// not mutate it after a successful insert.
func (t *Tree) Insert(cmd *arbor.Command) error {
	if cmd == nil {
		return errors.New("nil command")
	}
	if len(cmd.Components) == 0 {
		return errors.New("command has no components")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	chain, err := t.spliceFlags(cmd.Components)
	if err != nil {
		return err
	}
	if chain[0].Kind != arbor.KindLiteral {
		return usage.RootNotLiteral(chain[0])
	}

	undo := undoLog{command: noNode}
	cur := rootRef
	for i := range chain {
		next, err := t.findOrCreateChild(cur, &chain[i], &undo)
		if err != nil {
			undo.rollback(t)
			return err
		}
		cur = next
	}

	if t.arena[cur].command != nil {
		undo.rollback(t)
		return usage.DuplicatePath(t.chainTo(cur))
	}
	t.arena[cur].command = cmd
	undo.command = cur

	if err := t.verifyLocked(); err != nil {
		undo.rollback(t)
		return err
	}
	t.recomputeRequirementsLocked()

	t.logger.Debug("command registered",
		zap.String("command", cmd.ID.String()),
		zap.String("root", chain[0].Name),
		zap.Int("components", len(chain)))
	if t.regHandler != nil {
		t.regHandler.CommandRegistered(cmd)
	}
	return nil
}

// spliceFlags validates the flag group of a chain and moves it to its
// parse position: directly after the last literal under liberal flag
// parsing, at the end of the chain otherwise. The returned chain holds
// tree-owned copies of every component.
func (t *Tree) spliceFlags(components []arbor.Component) ([]arbor.Component, error) {
	flagIdx := -1
	for i, c := range components {
		if c.Kind != arbor.KindFlag {
			continue
		}
		if flagIdx >= 0 {
			return nil, errors.New("command declares more than one flag group")
		}
		if len(c.Flags) == 0 {
			return nil, errors.New("flag group declares no flags")
		}
		if err := validateFlagDefs(c.Flags); err != nil {
			return nil, err
		}
		flagIdx = i
	}

	chain := make([]arbor.Component, 0, len(components))
	for _, c := range components {
		chain = append(chain, c.Copy())
	}
	if flagIdx < 0 {
		return chain, nil
	}

	flag := chain[flagIdx]
	rest := make([]arbor.Component, 0, len(chain)-1)
	rest = append(rest, chain[:flagIdx]...)
	rest = append(rest, chain[flagIdx+1:]...)

	at := len(rest)
	if t.liberalFlags {
		last := -1
		for i, c := range rest {
			if c.Kind == arbor.KindLiteral {
				last = i
			}
		}
		at = last + 1
	}

	out := make([]arbor.Component, 0, len(chain))
	out = append(out, rest[:at]...)
	out = append(out, flag)
	out = append(out, rest[at:]...)
	return out, nil
}

func validateFlagDefs(defs []arbor.Flag) error {
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if def.Name == "" {
			return errors.New("flag with empty name")
		}
		for _, form := range append([]string{def.Long()}, def.Shorts()...) {
			if _, dup := seen[form]; dup {
				return fmt.Errorf("flag form %q declared twice", form)
			}
			seen[form] = struct{}{}
		}
	}
	return nil
}

// findOrCreateChild resolves comp to a child of parent, merging into an
// equivalent existing node where possible and creating a new one
// otherwise. Structural changes are recorded in undo.
func (t *Tree) findOrCreateChild(parent nodeRef, comp *arbor.Component, undo *undoLog) (nodeRef, error) {
	if comp.Kind == arbor.KindLiteral {
		for _, cref := range t.literalChildren(parent) {
			existing := t.arena[cref].component
			if !literalOverlap(existing, comp) {
				continue
			}
			merged, changed := mergedAliases(existing, comp)
			if changed {
				undo.aliases = append(undo.aliases, aliasUndo{ref: cref, prior: existing.Aliases})
				existing.Aliases = merged
			}
			return cref, nil
		}
		owned := comp.Copy()
		ref := t.alloc(&owned, parent)
		t.insertLiteralChild(parent, ref)
		undo.created = append(undo.created, ref)
		return ref, nil
	}

	if vref, ok := t.nonLiteralChild(parent); ok {
		existing := t.arena[vref].component
		if componentsEquivalent(existing, comp) {
			return vref, nil
		}
		return noNode, usage.AmbiguousNode(t.chainTo(parent), *existing, *comp)
	}
	owned := comp.Copy()
	ref := t.alloc(&owned, parent)
	t.arena[parent].children = append(t.arena[parent].children, ref)
	undo.created = append(undo.created, ref)
	return ref, nil
}

// insertLiteralChild places ref at the end of the literal section, ahead
// of the variable or flag child if one exists.
func (t *Tree) insertLiteralChild(parent, ref nodeRef) {
	children := t.arena[parent].children
	pos := len(children)
	for i, c := range children {
		if t.arena[c].component.Kind != arbor.KindLiteral {
			pos = i
			break
		}
	}
	children = append(children, noNode)
	copy(children[pos+1:], children[pos:])
	children[pos] = ref
	t.arena[parent].children = children
}

// literalOverlap reports whether two literals share any name or alias.
func literalOverlap(a, b *arbor.Component) bool {
	for _, name := range b.Names() {
		if a.Matches(name) {
			return true
		}
	}
	return false
}

// mergedAliases unions b's names into a's alias set, keeping a's primary
// name. The returned slice is fresh; a is not modified.
func mergedAliases(a, b *arbor.Component) ([]string, bool) {
	have := make(map[string]struct{}, 1+len(a.Aliases))
	have[a.Name] = struct{}{}
	for _, al := range a.Aliases {
		have[al] = struct{}{}
	}
	merged := append([]string(nil), a.Aliases...)
	changed := false
	for _, name := range b.Names() {
		if _, ok := have[name]; ok {
			continue
		}
		have[name] = struct{}{}
		merged = append(merged, name)
		changed = true
	}
	return merged, changed
}

// componentsEquivalent reports whether two non-literal components may
// share a node. Variables must agree on name, requiredness, default and
// parser configuration; flag groups must carry identical definitions.
func componentsEquivalent(a, b *arbor.Component) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case arbor.KindVariable:
		return a.Name == b.Name &&
			a.Required == b.Required &&
			a.HasDefault == b.HasDefault &&
			a.Default == b.Default &&
			reflect.DeepEqual(a.Parser, b.Parser)
	case arbor.KindFlag:
		return reflect.DeepEqual(a.Flags, b.Flags)
	default:
		return false
	}
}

// undoLog records the structural changes of one insert so a failed
// verification can unwind them.
type undoLog struct {
	created []nodeRef
	aliases []aliasUndo
	command nodeRef
}

type aliasUndo struct {
	ref   nodeRef
	prior []string
}

func (u *undoLog) rollback(t *Tree) {
	if u.command != noNode {
		t.arena[u.command].command = nil
	}
	for i := len(u.aliases) - 1; i >= 0; i-- {
		t.arena[u.aliases[i].ref].component.Aliases = u.aliases[i].prior
	}
	for i := len(u.created) - 1; i >= 0; i-- {
		ref := u.created[i]
		parent := t.arena[ref].parent
		children := t.arena[parent].children
		for j, c := range children {
			if c == ref {
				t.arena[parent].children = append(children[:j], children[j+1:]...)
				break
			}
		}
		t.release(ref)
	}
}
