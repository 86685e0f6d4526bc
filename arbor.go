// Package arbor defines the vocabulary shared by the command tree and
// its callers: commands, their components, argument parsers, senders,
// permissions, and suggestions.
//
// A command is an ordered chain of components. Literal components match
// fixed words, variable components delegate to an argument parser, and a
// flag component bundles a set of optional named flags. The tree package
// indexes registered commands into a prefix tree and resolves raw input
// against it; this package holds everything both sides need to agree on.
package arbor
