package arbor

// Suggestion is a single completion candidate for the token being typed.
type Suggestion struct {
	// Text replaces the current token when the suggestion is accepted.
	Text string
	// Tooltip optionally describes the candidate. UIs may ignore it.
	Tooltip string
}

// Suggest wraps plain strings as suggestions, preserving order.
func Suggest(texts ...string) []Suggestion {
	out := make([]Suggestion, len(texts))
	for i, t := range texts {
		out[i] = Suggestion{Text: t}
	}
	return out
}
