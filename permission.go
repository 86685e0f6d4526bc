package arbor

import (
	"context"
	"strings"
)

// Permission is an any-of expression over named permission nodes. The
// zero value is unrestricted: every sender passes. A non-empty
// permission passes when the evaluator grants at least one of its names.
type Permission struct {
	names []string
}

// Perm returns the permission requiring the single node name.
func Perm(name string) Permission {
	return Permission{names: []string{name}}
}

// Or returns the permission satisfied when either side is satisfied.
// The empty permission is satisfied by everyone, so a union with an
// empty side is empty again. Duplicate names collapse, keeping first
// appearance order.
func (p Permission) Or(q Permission) Permission {
	if p.IsEmpty() || q.IsEmpty() {
		return Permission{}
	}
	merged := make([]string, 0, len(p.names)+len(q.names))
	seen := make(map[string]struct{}, len(p.names)+len(q.names))
	for _, names := range [][]string{p.names, q.names} {
		for _, n := range names {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			merged = append(merged, n)
		}
	}
	return Permission{names: merged}
}

// IsEmpty reports whether the permission is unrestricted.
func (p Permission) IsEmpty() bool {
	return len(p.names) == 0
}

// Names returns a copy of the permission node names, in declaration
// order.
func (p Permission) Names() []string {
	if len(p.names) == 0 {
		return nil
	}
	out := make([]string, len(p.names))
	copy(out, p.names)
	return out
}

// String renders the expression as "a|b|c", or "" when unrestricted.
func (p Permission) String() string {
	return strings.Join(p.names, "|")
}

// PermissionEvaluator decides whether a sender holds a permission.
// Evaluators must treat an empty permission as granted and must be safe
// for concurrent use: suggestion walks consult them from several
// goroutines at once.
type PermissionEvaluator interface {
	Test(ctx context.Context, sender Sender, perm Permission) bool
}

// PermissionHolder is implemented by senders that can answer permission
// checks themselves. HolderEvaluator consults it.
type PermissionHolder interface {
	HasPermission(name string) bool
}

// HolderEvaluator grants a permission when the sender implements
// PermissionHolder and holds any of its names. It is the tree's default
// evaluator.
type HolderEvaluator struct{}

// Test implements PermissionEvaluator.
func (HolderEvaluator) Test(_ context.Context, sender Sender, perm Permission) bool {
	if perm.IsEmpty() {
		return true
	}
	holder, ok := sender.(PermissionHolder)
	if !ok {
		return false
	}
	for _, name := range perm.names {
		if holder.HasPermission(name) {
			return true
		}
	}
	return false
}
