package arbor

import "reflect"

// Sender is the originator of a command: a player, an operator console,
// a scheduled job. The tree restricts commands by the sender's dynamic
// Go type, so callers define one concrete type per kind of sender.
type Sender interface {
	// Name identifies the sender in error messages and permission lookups.
	Name() string
}

// SenderType restricts who may run a command. The zero value accepts
// every sender. Non-zero values accept senders whose dynamic type is the
// named type, or implements it when the named type is an interface.
type SenderType struct {
	t reflect.Type
}

// SenderTypeOf returns the SenderType for T. T may be a concrete sender
// type or an interface extending Sender.
func SenderTypeOf[T Sender]() SenderType {
	return SenderType{t: reflect.TypeOf((*T)(nil)).Elem()}
}

// TypeOfSender returns the SenderType matching exactly the dynamic type
// of s. A nil sender yields the zero SenderType.
func TypeOfSender(s Sender) SenderType {
	if s == nil {
		return SenderType{}
	}
	return SenderType{t: reflect.TypeOf(s)}
}

// IsAny reports whether the type places no restriction on senders.
func (st SenderType) IsAny() bool {
	return st.t == nil
}

// Accepts reports whether s satisfies the restriction.
func (st SenderType) Accepts(s Sender) bool {
	if st.t == nil {
		return true
	}
	if s == nil {
		return false
	}
	rt := reflect.TypeOf(s)
	if rt == st.t {
		return true
	}
	if st.t.Kind() == reflect.Interface {
		return rt.Implements(st.t)
	}
	return false
}

// Generalizes reports whether every sender accepted by other is also
// accepted by st. The unrestricted type generalizes everything;
// interface types generalize their implementations.
func (st SenderType) Generalizes(other SenderType) bool {
	if st.t == nil {
		return true
	}
	if other.t == nil {
		return false
	}
	if st.t == other.t {
		return true
	}
	if st.t.Kind() == reflect.Interface {
		return other.t.Implements(st.t)
	}
	return false
}

func (st SenderType) String() string {
	if st.t == nil {
		return "any"
	}
	return st.t.String()
}
