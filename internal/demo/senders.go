package demo

// User is a named human sender. Permissions are resolved against the
// authz store under this name.
type User struct {
	name string
}

// NewUser returns a user sender.
func NewUser(name string) User {
	return User{name: name}
}

// Name implements arbor.Sender.
func (u User) Name() string {
	return u.name
}

// Console is the host console. Commands restricted to it are
// unreachable for user senders.
type Console struct{}

// Name implements arbor.Sender.
func (Console) Name() string {
	return "console"
}
