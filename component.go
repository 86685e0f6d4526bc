package arbor

// ComponentKind discriminates the three component variants.
type ComponentKind int

const (
	// KindLiteral matches a fixed word or one of its aliases.
	KindLiteral ComponentKind = iota
	// KindVariable captures a typed argument through a Parser.
	KindVariable
	// KindFlag bundles a set of optional named flags.
	KindFlag
)

func (k ComponentKind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindVariable:
		return "variable"
	case KindFlag:
		return "flag"
	default:
		return "unknown"
	}
}

// Component is one element of a command chain.
//
// Literal components carry Name and Aliases. Variable components carry
// Name, Parser, Required and optionally a textual Default. Flag
// components carry Flags. SenderType and Permission further restrict the
// individual component; for variables and flags they apply on top of the
// owning command's restrictions.
type Component struct {
	Kind    ComponentKind
	Name    string
	Aliases []string

	// Required is meaningful for variables. An optional variable may be
	// skipped; if it declares a default, the default is parsed and bound
	// in its place.
	Required   bool
	Default    string
	HasDefault bool
	Parser     Parser

	SenderType SenderType
	Permission Permission

	// Flags holds the definitions of a KindFlag component.
	Flags []Flag
}

// Literal returns a literal component matching name or any alias.
func Literal(name string, aliases ...string) Component {
	return Component{Kind: KindLiteral, Name: name, Aliases: aliases}
}

// Required returns a mandatory variable component parsed by p.
func Required(name string, p Parser) Component {
	return Component{Kind: KindVariable, Name: name, Required: true, Parser: p}
}

// Optional returns a variable component that may be omitted. When it is,
// no value is bound under its name.
func Optional(name string, p Parser) Component {
	return Component{Kind: KindVariable, Name: name, Parser: p}
}

// OptionalDefault returns an optional variable component that binds the
// parsed form of def when the input omits it.
func OptionalDefault(name string, p Parser, def string) Component {
	return Component{
		Kind:       KindVariable,
		Name:       name,
		Parser:     p,
		Default:    def,
		HasDefault: true,
	}
}

// FlagGroup returns a flag component holding the given definitions. A
// command may carry at most one flag group.
func FlagGroup(flags ...Flag) Component {
	return Component{Kind: KindFlag, Name: "flags", Flags: flags}
}

// Names returns the primary name followed by the aliases.
func (c Component) Names() []string {
	out := make([]string, 0, 1+len(c.Aliases))
	out = append(out, c.Name)
	out = append(out, c.Aliases...)
	return out
}

// Matches reports whether token equals the component's name or one of
// its aliases. Matching is case-sensitive and only meaningful for
// literals.
func (c Component) Matches(token string) bool {
	if c.Name == token {
		return true
	}
	for _, a := range c.Aliases {
		if a == token {
			return true
		}
	}
	return false
}

// Copy returns a component sharing no mutable state with c.
func (c Component) Copy() Component {
	out := c
	if len(c.Aliases) > 0 {
		out.Aliases = make([]string, len(c.Aliases))
		copy(out.Aliases, c.Aliases)
	}
	if len(c.Flags) > 0 {
		out.Flags = make([]Flag, len(c.Flags))
		for i, f := range c.Flags {
			out.Flags[i] = f.copy()
		}
	}
	return out
}
