// Package tree implements the command prefix tree: registration with
// structural verification, input resolution, suggestion listing and
// recursive deletion.
//
// Nodes live in a flat arena indexed by small integers. Child order is
// part of the tree's contract: literals stay grouped before the single
// variable or flag child, and walks visit children in stored order, so
// resolution and suggestions are deterministic. A single RWMutex guards
// the structure; parses and suggestion walks share the read side.
package tree

import (
	"sync"

	"go.uber.org/zap"

	"github.com/arbor-tools/arbor"
)

type nodeRef int32

const noNode nodeRef = -1

// requirement is one entry of a node's access cache: senders of this
// type may pass if the permission holds. Entries keep insertion order.
type requirement struct {
	senderType arbor.SenderType
	permission arbor.Permission
}

type node struct {
	// component is nil only on the synthetic root.
	component *arbor.Component
	parent    nodeRef
	children  []nodeRef
	command   *arbor.Command
	reqs      []requirement
	gen       uint32
	alive     bool
}

// Tree is a thread-safe command tree. Mutations take the write lock;
// Parse, Suggest and the read accessors run concurrently under the read
// lock.
type Tree struct {
	mu    sync.RWMutex
	arena []node
	free  []nodeRef

	evaluator    arbor.PermissionEvaluator
	formatter    arbor.SyntaxFormatter
	regHandler   arbor.RegistrationHandler
	logger       *zap.Logger
	liberalFlags bool
}

// Option configures a Tree at construction.
type Option func(*Tree)

// WithPermissionEvaluator sets the evaluator consulted on every access
// check. Defaults to arbor.HolderEvaluator.
func WithPermissionEvaluator(ev arbor.PermissionEvaluator) Option {
	return func(t *Tree) { t.evaluator = ev }
}

// WithSyntaxFormatter sets the formatter used for syntax error hints.
// Defaults to arbor.StandardSyntaxFormatter.
func WithSyntaxFormatter(f arbor.SyntaxFormatter) Option {
	return func(t *Tree) { t.formatter = f }
}

// WithRegistrationHandler sets the observer notified of command
// registration and deletion.
func WithRegistrationHandler(h arbor.RegistrationHandler) Option {
	return func(t *Tree) { t.regHandler = h }
}

// WithLiberalFlagParsing controls where a command's flag group attaches.
// When enabled, flags splice in directly after the last literal of the
// chain, so they may be given before trailing variable arguments. When
// disabled, flags stay at the end of the chain.
func WithLiberalFlagParsing(enabled bool) Option {
	return func(t *Tree) { t.liberalFlags = enabled }
}

// WithLogger sets the tree's logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tree) { t.logger = logger }
}

// New returns an empty tree.
func New(opts ...Option) *Tree {
	t := &Tree{
		arena:     []node{{parent: noNode, alive: true}},
		evaluator: arbor.HolderEvaluator{},
		formatter: arbor.StandardSyntaxFormatter{},
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = zap.NewNop()
	}
	return t
}

const rootRef nodeRef = 0

// alloc places a node in the arena, reusing a freed slot when one is
// available. The slot generation survives reuse so stale handles stay
// detectably stale.
func (t *Tree) alloc(comp *arbor.Component, parent nodeRef) nodeRef {
	n := node{component: comp, parent: parent, alive: true}
	if len(t.free) > 0 {
		ref := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		n.gen = t.arena[ref].gen
		t.arena[ref] = n
		return ref
	}
	t.arena = append(t.arena, n)
	return nodeRef(len(t.arena) - 1)
}

// release returns a slot to the free list and invalidates handles to it.
func (t *Tree) release(ref nodeRef) {
	t.arena[ref] = node{parent: noNode, gen: t.arena[ref].gen + 1}
	t.free = append(t.free, ref)
}

// literalChildren iterates the leading literal section of a node's
// children.
func (t *Tree) literalChildren(ref nodeRef) []nodeRef {
	children := t.arena[ref].children
	for i, c := range children {
		if t.arena[c].component.Kind != arbor.KindLiteral {
			return children[:i]
		}
	}
	return children
}

// nonLiteralChild returns the node's variable or flag child, if any.
// Verification guarantees there is at most one.
func (t *Tree) nonLiteralChild(ref nodeRef) (nodeRef, bool) {
	children := t.arena[ref].children
	if len(children) == 0 {
		return noNode, false
	}
	last := children[len(children)-1]
	if t.arena[last].component.Kind != arbor.KindLiteral {
		return last, true
	}
	return noNode, false
}

// chainTo rebuilds the component chain from the root to ref, excluding
// the synthetic root.
func (t *Tree) chainTo(ref nodeRef) []arbor.Component {
	var refs []nodeRef
	for cur := ref; cur != rootRef && cur != noNode; cur = t.arena[cur].parent {
		refs = append(refs, cur)
	}
	chain := make([]arbor.Component, 0, len(refs))
	for i := len(refs) - 1; i >= 0; i-- {
		chain = append(chain, *t.arena[refs[i]].component)
	}
	return chain
}

// childComponents lists the components of a node's children, in stored
// order. Used for syntax hints.
func (t *Tree) childComponents(ref nodeRef) []arbor.Component {
	children := t.arena[ref].children
	out := make([]arbor.Component, 0, len(children))
	for _, c := range children {
		out = append(out, *t.arena[c].component)
	}
	return out
}

// Node is a handle to a tree node. Handles become invalid when the node
// is deleted; Valid reports liveness and every accessor degrades to its
// zero result on a stale handle.
type Node struct {
	tree *Tree
	ref  nodeRef
	gen  uint32
}

func (t *Tree) handle(ref nodeRef) Node {
	return Node{tree: t, ref: ref, gen: t.arena[ref].gen}
}

func (t *Tree) validHandle(n Node) bool {
	if n.tree != t || n.ref <= rootRef || int(n.ref) >= len(t.arena) {
		return false
	}
	nd := &t.arena[n.ref]
	return nd.alive && nd.gen == n.gen
}

// Valid reports whether the handle still points at a live node.
func (n Node) Valid() bool {
	if n.tree == nil {
		return false
	}
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	return n.tree.validHandle(n)
}

// Component returns a copy of the node's component.
func (n Node) Component() (arbor.Component, bool) {
	if n.tree == nil {
		return arbor.Component{}, false
	}
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	if !n.tree.validHandle(n) {
		return arbor.Component{}, false
	}
	return n.tree.arena[n.ref].component.Copy(), true
}

// Command returns the command owned by the node, or nil.
func (n Node) Command() *arbor.Command {
	if n.tree == nil {
		return nil
	}
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	if !n.tree.validHandle(n) {
		return nil
	}
	return n.tree.arena[n.ref].command
}

// Children returns handles to the node's children in stored order.
func (n Node) Children() []Node {
	if n.tree == nil {
		return nil
	}
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	if !n.tree.validHandle(n) {
		return nil
	}
	children := n.tree.arena[n.ref].children
	out := make([]Node, 0, len(children))
	for _, c := range children {
		out = append(out, n.tree.handle(c))
	}
	return out
}

// Parent returns the parent handle. Root-level nodes have no parent
// handle; they report false.
func (n Node) Parent() (Node, bool) {
	if n.tree == nil {
		return Node{}, false
	}
	n.tree.mu.RLock()
	defer n.tree.mu.RUnlock()
	if !n.tree.validHandle(n) {
		return Node{}, false
	}
	parent := n.tree.arena[n.ref].parent
	if parent == rootRef || parent == noNode {
		return Node{}, false
	}
	return n.tree.handle(parent), true
}

// RootNodes returns handles to the root-level literals in stored order.
func (t *Tree) RootNodes() []Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	children := t.arena[rootRef].children
	out := make([]Node, 0, len(children))
	for _, c := range children {
		out = append(out, t.handle(c))
	}
	return out
}

// FindRootByName returns the root-level node whose literal matches name
// directly or through an alias.
func (t *Tree) FindRootByName(name string) (Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, c := range t.arena[rootRef].children {
		if t.arena[c].component.Matches(name) {
			return t.handle(c), true
		}
	}
	return Node{}, false
}

// Commands returns every registered command in depth-first order.
func (t *Tree) Commands() []*arbor.Command {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var out []*arbor.Command
	t.walkCommands(rootRef, &out)
	return out
}

func (t *Tree) walkCommands(ref nodeRef, out *[]*arbor.Command) {
	nd := &t.arena[ref]
	if nd.command != nil {
		*out = append(*out, nd.command)
	}
	for _, c := range nd.children {
		t.walkCommands(c, out)
	}
}
