// Package usage defines the typed errors returned when command
// resolution or registration fails. Every failure is a *Error carrying a
// Kind, so callers can switch on the failure class while still reading a
// formatted message.
package usage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arbor-tools/arbor"
)

// Kind classifies a usage error.
type Kind int

const (
	// ErrUnknown is the zero kind and never constructed by this package.
	ErrUnknown Kind = iota
	// ErrNoSuchCommand reports a first token matching no registered root.
	ErrNoSuchCommand
	// ErrInvalidSyntax reports input that diverges from every registered
	// chain: tokens left over, tokens missing, or a token matching no
	// child.
	ErrInvalidSyntax
	// ErrInvalidSender reports a sender whose type no requirement on the
	// node accepts.
	ErrInvalidSender
	// ErrNoPermission reports a sender of an accepted type that holds
	// none of the required permissions.
	ErrNoPermission
	// ErrArgumentParse reports a variable or flag whose parser rejected
	// its token(s). The parser's error is wrapped.
	ErrArgumentParse
	// ErrAmbiguousNode reports two sibling components that could both
	// claim the same token.
	ErrAmbiguousNode
	// ErrIncompleteCommand reports a chain that ends without a command.
	ErrIncompleteCommand
	// ErrDuplicatePath reports a second command registered on an
	// existing terminal.
	ErrDuplicatePath
	// ErrRootNotLiteral reports a command whose first component is not a
	// literal.
	ErrRootNotLiteral
)

func (k Kind) String() string {
	switch k {
	case ErrNoSuchCommand:
		return "no such command"
	case ErrInvalidSyntax:
		return "invalid syntax"
	case ErrInvalidSender:
		return "invalid sender"
	case ErrNoPermission:
		return "no permission"
	case ErrArgumentParse:
		return "argument parse failure"
	case ErrAmbiguousNode:
		return "ambiguous node"
	case ErrIncompleteCommand:
		return "incomplete command"
	case ErrDuplicatePath:
		return "duplicate path"
	case ErrRootNotLiteral:
		return "root not literal"
	default:
		return "unknown"
	}
}

// Error is a classified command failure. Fields beyond Kind and Message
// are populated where they make sense for the kind: resolution errors
// carry the sender and the chain walked so far, syntax errors the
// correct-syntax rendering, permission errors the denied expression.
type Error struct {
	Kind    Kind
	Message string

	Sender      arbor.Sender
	Chain       []arbor.Component
	Token       string
	Syntax      string
	Permission  arbor.Permission
	SenderTypes []arbor.SenderType
	Err         error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var ue *Error
	return errors.As(err, &ue) && ue.Kind == kind
}

// NoSuchCommand reports that token matches no registered root command.
func NoSuchCommand(sender arbor.Sender, token string) *Error {
	return &Error{
		Kind:    ErrNoSuchCommand,
		Message: fmt.Sprintf("no such command %q", token),
		Sender:  sender,
		Token:   token,
	}
}

// InvalidSyntax reports input diverging from every registered chain.
// syntax is the formatted correct form for the stopping point.
func InvalidSyntax(sender arbor.Sender, chain []arbor.Component, syntax string) *Error {
	return &Error{
		Kind:    ErrInvalidSyntax,
		Message: fmt.Sprintf("invalid command syntax, correct syntax is: %s", syntax),
		Sender:  sender,
		Chain:   chain,
		Syntax:  syntax,
	}
}

// InvalidSender reports a sender type no requirement accepts. accepted
// lists the types that would have been.
func InvalidSender(sender arbor.Sender, chain []arbor.Component, accepted []arbor.SenderType) *Error {
	names := make([]string, len(accepted))
	for i, st := range accepted {
		names[i] = st.String()
	}
	var who string
	if sender != nil {
		who = fmt.Sprintf("%T", sender)
	} else {
		who = "nil"
	}
	return &Error{
		Kind:        ErrInvalidSender,
		Message:     fmt.Sprintf("%s senders cannot run this command, accepted: %s", who, strings.Join(names, ", ")),
		Sender:      sender,
		Chain:       chain,
		SenderTypes: accepted,
	}
}

// NoPermission reports a sender denied by every matching requirement.
func NoPermission(sender arbor.Sender, chain []arbor.Component, perm arbor.Permission) *Error {
	return &Error{
		Kind:       ErrNoPermission,
		Message:    fmt.Sprintf("insufficient permission, requires %s", perm),
		Sender:     sender,
		Chain:      chain,
		Permission: perm,
	}
}

// ArgumentParse reports a parser rejecting the token(s) for the last
// component of chain. err is the parser's error and is unwrappable.
func ArgumentParse(sender arbor.Sender, chain []arbor.Component, err error) *Error {
	name := "argument"
	if len(chain) > 0 {
		name = chain[len(chain)-1].Name
	}
	return &Error{
		Kind:    ErrArgumentParse,
		Message: fmt.Sprintf("invalid value for %q: %v", name, err),
		Sender:  sender,
		Chain:   chain,
		Err:     err,
	}
}

// AmbiguousNode reports sibling components a and b competing for the
// same tokens under the parent chain.
func AmbiguousNode(chain []arbor.Component, a, b arbor.Component) *Error {
	return &Error{
		Kind:    ErrAmbiguousNode,
		Message: fmt.Sprintf("ambiguous siblings %q and %q", a.Name, b.Name),
		Chain:   append(chain, a, b),
	}
}

// IncompleteCommand reports a chain ending on a leaf with no command.
func IncompleteCommand(chain []arbor.Component) *Error {
	name := "root"
	if len(chain) > 0 {
		name = chain[len(chain)-1].Name
	}
	return &Error{
		Kind:    ErrIncompleteCommand,
		Message: fmt.Sprintf("command chain ends at %q without an executable command", name),
		Chain:   chain,
	}
}

// DuplicatePath reports a second command registered on the same chain.
func DuplicatePath(chain []arbor.Component) *Error {
	names := make([]string, len(chain))
	for i, c := range chain {
		names[i] = c.Name
	}
	return &Error{
		Kind:    ErrDuplicatePath,
		Message: fmt.Sprintf("a command is already registered at %q", strings.Join(names, " ")),
		Chain:   chain,
	}
}

// RootNotLiteral reports a command whose chain does not start with a
// literal component.
func RootNotLiteral(c arbor.Component) *Error {
	return &Error{
		Kind:    ErrRootNotLiteral,
		Message: fmt.Sprintf("the first component %q must be a literal", c.Name),
		Chain:   []arbor.Component{c},
	}
}
