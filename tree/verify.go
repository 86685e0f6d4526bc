package tree

import (
	"context"

	"github.com/arbor-tools/arbor"
	"github.com/arbor-tools/arbor/usage"
)

// Verify checks the structural invariants of the whole tree: root-level
// components are literals, no node has two sibling components competing
// for the same token, and every leaf owns a command. Insert runs the
// same checks before committing; Verify is for callers that carved up
// the tree with Delete and want to know it still parses cleanly.
func (t *Tree) Verify() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.verifyLocked()
}

func (t *Tree) verifyLocked() error {
	for _, c := range t.arena[rootRef].children {
		if t.arena[c].component.Kind != arbor.KindLiteral {
			return usage.RootNotLiteral(*t.arena[c].component)
		}
	}
	return t.verifyNode(rootRef)
}

func (t *Tree) verifyNode(ref nodeRef) error {
	nd := &t.arena[ref]
	if len(nd.children) == 0 {
		if ref != rootRef && nd.command == nil {
			return usage.IncompleteCommand(t.chainTo(ref))
		}
		return nil
	}

	nonLiteral := noNode
	for i, a := range nd.children {
		ca := t.arena[a].component
		if ca.Kind != arbor.KindLiteral {
			if nonLiteral != noNode {
				return usage.AmbiguousNode(t.chainTo(ref), *t.arena[nonLiteral].component, *ca)
			}
			nonLiteral = a
			continue
		}
		for _, b := range nd.children[i+1:] {
			cb := t.arena[b].component
			if cb.Kind != arbor.KindLiteral {
				continue
			}
			if literalOverlap(ca, cb) {
				return usage.AmbiguousNode(t.chainTo(ref), *ca, *cb)
			}
		}
	}

	for _, c := range nd.children {
		if err := t.verifyNode(c); err != nil {
			return err
		}
	}
	return nil
}

// recomputeRequirementsLocked rebuilds every node's access cache from
// scratch: each registered command contributes its sender type and
// permission to every node on its path up to the root. Entries for the
// same or a more general sender type merge by permission union, so a
// node is passable by anyone who could reach at least one command below
// it.
func (t *Tree) recomputeRequirementsLocked() {
	for i := range t.arena {
		t.arena[i].reqs = nil
	}
	for i := range t.arena {
		nd := &t.arena[i]
		if !nd.alive || nd.command == nil {
			continue
		}
		st := nd.command.SenderType
		perm := nd.command.Permission
		for ref := nodeRef(i); ref != noNode; ref = t.arena[ref].parent {
			mergeRequirement(&t.arena[ref].reqs, st, perm)
		}
	}
}

func mergeRequirement(entries *[]requirement, st arbor.SenderType, perm arbor.Permission) {
	es := *entries
	for i := range es {
		if es[i].senderType == st || es[i].senderType.Generalizes(st) {
			es[i].permission = es[i].permission.Or(perm)
			return
		}
		if st.Generalizes(es[i].senderType) {
			// Widen: fold every entry the new type covers into one.
			merged := es[i].permission.Or(perm)
			keep := es[:i]
			for _, e := range es[i+1:] {
				if st.Generalizes(e.senderType) {
					merged = merged.Or(e.permission)
					continue
				}
				keep = append(keep, e)
			}
			*entries = append(keep, requirement{senderType: st, permission: merged})
			return
		}
	}
	*entries = append(es, requirement{senderType: st, permission: perm})
}

// permitted reports whether the sender passes any requirement entry on
// the node. Nodes with an empty cache are open to everyone.
func (t *Tree) permitted(ctx context.Context, sender arbor.Sender, ref nodeRef) bool {
	reqs := t.arena[ref].reqs
	if len(reqs) == 0 {
		return true
	}
	for _, r := range reqs {
		if r.senderType.Accepts(sender) && t.evaluator.Test(ctx, sender, r.permission) {
			return true
		}
	}
	return false
}

// checkAccess is the error-reporting form of permitted: it distinguishes
// a sender type no entry accepts from a sender denied by permission.
func (t *Tree) checkAccess(ctx context.Context, sender arbor.Sender, ref nodeRef, chain []arbor.Component) error {
	reqs := t.arena[ref].reqs
	if len(reqs) == 0 {
		return nil
	}
	typeMatched := false
	var denied arbor.Permission
	for _, r := range reqs {
		if !r.senderType.Accepts(sender) {
			continue
		}
		typeMatched = true
		if t.evaluator.Test(ctx, sender, r.permission) {
			return nil
		}
		if denied.IsEmpty() {
			denied = r.permission
		} else {
			denied = denied.Or(r.permission)
		}
	}
	if !typeMatched {
		types := make([]arbor.SenderType, len(reqs))
		for i, r := range reqs {
			types[i] = r.senderType
		}
		return usage.InvalidSender(sender, chain, types)
	}
	return usage.NoPermission(sender, chain, denied)
}
