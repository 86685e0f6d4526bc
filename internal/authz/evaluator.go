package authz

import (
	"context"

	"go.uber.org/zap"

	"github.com/arbor-tools/arbor"
)

// Evaluator answers permission checks against the store, keyed by
// sender name. It implements arbor.PermissionEvaluator.
type Evaluator struct {
	store      *Store
	logger     *zap.Logger
	superusers map[string]bool
}

// NewEvaluator wraps store. A nil logger disables logging. Superusers
// pass every permission check by name without consulting the store,
// which keeps a fresh database administrable.
func NewEvaluator(store *Store, logger *zap.Logger, superusers ...string) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	super := make(map[string]bool, len(superusers))
	for _, name := range superusers {
		super[name] = true
	}
	return &Evaluator{store: store, logger: logger, superusers: super}
}

// Test reports whether sender holds any name of permission. An empty
// permission passes everyone. Store failures deny and are logged.
func (e *Evaluator) Test(ctx context.Context, sender arbor.Sender, permission arbor.Permission) bool {
	if permission.IsEmpty() {
		return true
	}
	if sender == nil {
		return false
	}
	if e.superusers[sender.Name()] {
		return true
	}
	for _, name := range permission.Names() {
		held, err := e.store.HasPermission(ctx, sender.Name(), name)
		if err != nil {
			e.logger.Warn("permission lookup failed",
				zap.String("sender", sender.Name()),
				zap.String("permission", name),
				zap.Error(err))
			return false
		}
		if held {
			return true
		}
	}
	return false
}
