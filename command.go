package arbor

import (
	"context"

	"github.com/google/uuid"
)

// HandlerFunc executes a fully parsed command. The tree never calls it;
// it is carried through resolution and handed back to the caller.
type HandlerFunc func(ctx context.Context, cctx *Context) error

// Command is a registerable command: an ordered component chain plus the
// restrictions and handler that apply once the chain matches.
type Command struct {
	// ID identifies the command across registration callbacks and
	// deletion. NewCommand assigns a random one.
	ID uuid.UUID

	// Components is the chain, first component leftmost. The first
	// component must be a literal.
	Components []Component

	// SenderType restricts who may reach the command. Zero accepts all.
	SenderType SenderType

	// Permission must be granted for the sender to reach the command.
	// Empty grants everyone.
	Permission Permission

	// Handler runs the command. Opaque to the tree.
	Handler HandlerFunc
}

// NewCommand returns a command over the given chain with a fresh ID.
// Restrictions and the handler are set on the returned value.
func NewCommand(components ...Component) *Command {
	return &Command{ID: uuid.New(), Components: components}
}

// WithSenderType restricts the command to the given sender type.
func (c *Command) WithSenderType(st SenderType) *Command {
	c.SenderType = st
	return c
}

// WithPermission requires perm to run the command.
func (c *Command) WithPermission(perm Permission) *Command {
	c.Permission = perm
	return c
}

// WithHandler sets the execution handler.
func (c *Command) WithHandler(h HandlerFunc) *Command {
	c.Handler = h
	return c
}

// RootName returns the name of the leading literal, or "" for a command
// with no components.
func (c *Command) RootName() string {
	if len(c.Components) == 0 {
		return ""
	}
	return c.Components[0].Name
}
