package arbor

// Flag defines one named flag inside a flag component. Flags are always
// optional and may appear in any order. A flag with a nil Parser is a
// presence flag and binds true when given; a flag with a Parser consumes
// the following token(s) as its value.
type Flag struct {
	// Name is the long form, given on the command line as --name.
	Name string
	// Aliases are short forms, given as -a.
	Aliases []string
	// Parser parses the flag value, or nil for a presence flag.
	Parser Parser
	// Permission restricts who may pass or see the flag. Empty means
	// anyone who reached the flag component.
	Permission Permission
}

// Long returns the long command-line form, "--name".
func (f Flag) Long() string {
	return "--" + f.Name
}

// Shorts returns the short command-line forms, "-a" per alias.
func (f Flag) Shorts() []string {
	if len(f.Aliases) == 0 {
		return nil
	}
	out := make([]string, len(f.Aliases))
	for i, a := range f.Aliases {
		out[i] = "-" + a
	}
	return out
}

// Matches reports whether token is the long or any short form of f.
func (f Flag) Matches(token string) bool {
	if token == f.Long() {
		return true
	}
	for _, a := range f.Aliases {
		if token == "-"+a {
			return true
		}
	}
	return false
}

func (f Flag) copy() Flag {
	out := f
	if len(f.Aliases) > 0 {
		out.Aliases = make([]string, len(f.Aliases))
		copy(out.Aliases, f.Aliases)
	}
	return out
}
