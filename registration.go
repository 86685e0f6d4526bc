package arbor

// RegistrationHandler observes the command population of a tree. The
// tree invokes it after a command is durably inserted and after one is
// removed by deletion. Handlers run under the tree's write lock and must
// not call back into it.
type RegistrationHandler interface {
	CommandRegistered(cmd *Command)
	CommandDeleted(cmd *Command)
}
