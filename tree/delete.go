package tree

import (
	"go.uber.org/zap"

	"github.com/arbor-tools/arbor"
)

// Delete removes the subtree rooted at n. Every command owned inside the
// subtree is reported to onRemoved (when non-nil) and to the tree's
// registration handler, in depth-first order, after the structure and
// the access caches have been updated. Deleting through a stale handle
// is a no-op, so Delete is idempotent.
//
// Deleting an inner node can leave an ancestor as a command-less leaf;
// Delete does not re-verify, Verify reports such trees.
func (t *Tree) Delete(n Node, onRemoved func(*arbor.Command)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.validHandle(n) {
		return
	}
	parent := t.arena[n.ref].parent

	var removed []*arbor.Command
	t.deleteSubtree(n.ref, &removed)

	children := t.arena[parent].children
	for i, c := range children {
		if c == n.ref {
			t.arena[parent].children = append(children[:i], children[i+1:]...)
			break
		}
	}

	t.recomputeRequirementsLocked()

	for _, cmd := range removed {
		t.logger.Debug("command deleted",
			zap.String("command", cmd.ID.String()),
			zap.String("root", cmd.RootName()))
		if onRemoved != nil {
			onRemoved(cmd)
		}
		if t.regHandler != nil {
			t.regHandler.CommandDeleted(cmd)
		}
	}
}

func (t *Tree) deleteSubtree(ref nodeRef, removed *[]*arbor.Command) {
	nd := t.arena[ref]
	if nd.command != nil {
		*removed = append(*removed, nd.command)
	}
	for _, c := range nd.children {
		t.deleteSubtree(c, removed)
	}
	t.release(ref)
}
