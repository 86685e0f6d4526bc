package arbor

// Context accumulates state for one resolution: the sender, the argument
// values bound so far, and any flags seen. It belongs to a single parse
// or suggestion walk and is not safe for concurrent mutation.
type Context struct {
	sender Sender
	values map[string]any
	flags  map[string]any
}

// NewContext returns a context for the given sender.
func NewContext(sender Sender) *Context {
	return &Context{
		sender: sender,
		values: make(map[string]any),
		flags:  make(map[string]any),
	}
}

// Sender returns the sender the walk is resolving for.
func (c *Context) Sender() Sender {
	return c.sender
}

// Set binds an argument value under the component name.
func (c *Context) Set(name string, value any) {
	c.values[name] = value
}

// Get returns the value bound under name.
func (c *Context) Get(name string) (any, bool) {
	v, ok := c.values[name]
	return v, ok
}

// Has reports whether a value is bound under name. Optional components
// without defaults leave their name unbound when skipped.
func (c *Context) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// SetFlag records a flag occurrence. Presence flags store true.
func (c *Context) SetFlag(name string, value any) {
	c.flags[name] = value
}

// Flag returns the value stored for the flag.
func (c *Context) Flag(name string) (any, bool) {
	v, ok := c.flags[name]
	return v, ok
}

// HasFlag reports whether the flag was given.
func (c *Context) HasFlag(name string) bool {
	_, ok := c.flags[name]
	return ok
}

// Value returns the argument bound under name asserted to T. The second
// result is false when the name is unbound or holds a different type.
func Value[T any](c *Context, name string) (T, bool) {
	var zero T
	v, ok := c.values[name]
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// FlagValue returns the flag value stored under name asserted to T.
func FlagValue[T any](c *Context, name string) (T, bool) {
	var zero T
	v, ok := c.flags[name]
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
