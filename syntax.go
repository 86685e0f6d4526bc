package arbor

import "strings"

// SyntaxFormatter renders a component chain for humans. The tree uses it
// to build the correct-syntax hint attached to syntax errors.
//
// chain holds the components already matched, next the components that
// could follow (the children of the node where resolution stopped).
type SyntaxFormatter interface {
	Format(sender Sender, chain []Component, next []Component) string
}

// StandardSyntaxFormatter renders chains in the conventional shape:
// literals verbatim, required variables as <name>, optional variables as
// [name], flags as bracketed long forms, and the possible next
// components as alternatives separated by |.
type StandardSyntaxFormatter struct{}

// Format implements SyntaxFormatter.
func (StandardSyntaxFormatter) Format(_ Sender, chain []Component, next []Component) string {
	parts := make([]string, 0, len(chain)+1)
	for _, c := range chain {
		parts = append(parts, formatComponent(c))
	}
	if alt := formatAlternatives(next); alt != "" {
		parts = append(parts, alt)
	}
	return strings.Join(parts, " ")
}

func formatComponent(c Component) string {
	switch c.Kind {
	case KindLiteral:
		return c.Name
	case KindFlag:
		return formatFlags(c.Flags)
	default:
		if c.Required {
			return "<" + c.Name + ">"
		}
		return "[" + c.Name + "]"
	}
}

func formatFlags(flags []Flag) string {
	parts := make([]string, 0, len(flags))
	for _, f := range flags {
		if f.Parser != nil {
			parts = append(parts, "["+f.Long()+" <"+f.Name+">]")
			continue
		}
		parts = append(parts, "["+f.Long()+"]")
	}
	return strings.Join(parts, " ")
}

func formatAlternatives(next []Component) string {
	if len(next) == 0 {
		return ""
	}
	if len(next) == 1 {
		return formatComponent(next[0])
	}
	names := make([]string, 0, len(next))
	for _, c := range next {
		switch c.Kind {
		case KindLiteral:
			names = append(names, c.Name)
		default:
			names = append(names, formatComponent(c))
		}
	}
	return strings.Join(names, "|")
}
