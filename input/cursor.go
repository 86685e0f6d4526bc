// Package input provides the token cursor used by the command tree to
// walk raw command lines.
//
// A command line is a sequence of tokens separated by single spaces. The
// cursor reads tokens left to right and never rewrites the underlying
// text: consuming a token advances a byte offset, and the offset can be
// saved and restored to undo speculative reads. Two adjacent spaces
// delimit an empty token, and a trailing space means an empty trailing
// token is still pending. Both cases matter to suggestion listeners,
// which treat "give " differently from "give".
package input

import "strings"

// Cursor reads whitespace-delimited tokens from a command line.
//
// The zero value is a cursor over the empty string. A Cursor is not safe
// for concurrent use; speculative readers should work on a Clone.
type Cursor struct {
	text string
	pos  int
}

// New returns a cursor positioned at the start of text.
func New(text string) *Cursor {
	return &Cursor{text: text}
}

// Text returns the full underlying input, including consumed tokens.
func (c *Cursor) Text() string {
	return c.text
}

// Position returns the byte offset of the next unread byte.
func (c *Cursor) Position() int {
	return c.pos
}

// Remaining returns the unconsumed portion of the input.
func (c *Cursor) Remaining() string {
	if c.pos >= len(c.text) {
		return ""
	}
	return c.text[c.pos:]
}

// IsEmpty reports whether every byte of the input has been consumed.
func (c *Cursor) IsEmpty() bool {
	return c.pos >= len(c.text)
}

// Peek returns the current token without consuming it. The token runs
// from the cursor position to the next space or the end of input, so it
// may be empty when the cursor sits directly on a delimiter or at the
// end of the text.
func (c *Cursor) Peek() string {
	rest := c.Remaining()
	if i := strings.IndexByte(rest, ' '); i >= 0 {
		return rest[:i]
	}
	return rest
}

// ReadWord consumes the current token and the single delimiter after it,
// if one is present, and returns the token.
func (c *Cursor) ReadWord() string {
	token := c.Peek()
	c.pos += len(token)
	if c.pos < len(c.text) && c.text[c.pos] == ' ' {
		c.pos++
	}
	return token
}

// ReadAll consumes the rest of the input verbatim, delimiters included.
func (c *Cursor) ReadAll() string {
	rest := c.Remaining()
	c.pos = len(c.text)
	return rest
}

// RemainingTokens counts the tokens left to read, including a trailing
// empty token after a terminal space. The count is never below one: an
// exhausted cursor still exposes one empty token, which completion
// treats as the token being typed.
func (c *Cursor) RemainingTokens() int {
	return strings.Count(c.Remaining(), " ") + 1
}

// Mark returns the current position for a later Restore.
func (c *Cursor) Mark() int {
	return c.pos
}

// Restore rewinds (or advances) the cursor to a position previously
// obtained from Mark. Out-of-range positions are clamped.
func (c *Cursor) Restore(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(c.text) {
		pos = len(c.text)
	}
	c.pos = pos
}

// Clone returns an independent cursor at the same position over the same
// text. Cloning is how speculative parses avoid disturbing the caller's
// cursor.
func (c *Cursor) Clone() *Cursor {
	clone := *c
	return &clone
}
