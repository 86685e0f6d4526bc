// Package demo registers the built-in command set of the shell: user,
// role, and grant management over the authz store, plus a few toy
// commands that exercise arguments, defaults, and flags.
package demo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/arbor-tools/arbor"
	"github.com/arbor-tools/arbor/internal/authz"
	"github.com/arbor-tools/arbor/parsers"
	"github.com/arbor-tools/arbor/tree"
)

// Deps carries what the command handlers need. Printf emits one line
// of command output per call.
type Deps struct {
	Store  *authz.Store
	Logger *zap.Logger
	Printf func(format string, a ...any)
}

// DefaultDeps wires handlers to stdout.
func DefaultDeps(store *authz.Store, logger *zap.Logger) Deps {
	return Deps{
		Store:  store,
		Logger: logger,
		Printf: func(format string, a ...any) {
			fmt.Printf(format+"\n", a...)
		},
	}
}

// Register inserts the built-in command set into tr.
func Register(tr *tree.Tree, deps Deps) error {
	if deps.Store == nil {
		return errors.New("demo: nil store")
	}
	if deps.Printf == nil {
		deps.Printf = func(format string, a ...any) {
			fmt.Printf(format+"\n", a...)
		}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	commands := []*arbor.Command{
		helpCommand(tr, deps),
		echoCommand(deps),
		giveCommand(deps),
	}
	commands = append(commands, userCommands(deps)...)
	commands = append(commands, roleCommands(deps)...)
	commands = append(commands, grantCommands(deps)...)
	commands = append(commands, shutdownCommand(deps))

	for _, cmd := range commands {
		if err := tr.Insert(cmd); err != nil {
			return fmt.Errorf("register %s: %w", cmd.RootName(), err)
		}
	}
	return nil
}

func helpCommand(tr *tree.Tree, deps Deps) *arbor.Command {
	return arbor.NewCommand(
		arbor.Literal("help"),
	).WithHandler(func(_ context.Context, _ *arbor.Context) error {
		formatter := arbor.StandardSyntaxFormatter{}
		for _, cmd := range tr.Commands() {
			deps.Printf("%s", formatter.Format(nil, cmd.Components, nil))
		}
		return nil
	})
}

func echoCommand(deps Deps) *arbor.Command {
	return arbor.NewCommand(
		arbor.Literal("echo"),
		arbor.Required("message", parsers.Greedy()),
	).WithHandler(func(_ context.Context, cctx *arbor.Context) error {
		message, _ := arbor.Value[string](cctx, "message")
		deps.Printf("%s", message)
		return nil
	})
}

func giveCommand(deps Deps) *arbor.Command {
	return arbor.NewCommand(
		arbor.Literal("give"),
		arbor.Required("player", parsers.Word()),
		arbor.Required("item", parsers.OneOf("apple", "arrow", "shield", "sword")),
		arbor.OptionalDefault("amount", parsers.IntRange(1, 64), "1"),
		arbor.FlagGroup(
			arbor.Flag{Name: "silent", Aliases: []string{"s"}},
		),
	).WithPermission(arbor.Perm("demo.give")).WithHandler(func(_ context.Context, cctx *arbor.Context) error {
		player, _ := arbor.Value[string](cctx, "player")
		item, _ := arbor.Value[string](cctx, "item")
		amount, _ := arbor.Value[int64](cctx, "amount")
		if !cctx.HasFlag("silent") {
			deps.Printf("gave %d %s to %s", amount, item, player)
		}
		return nil
	})
}

func userCommands(deps Deps) []*arbor.Command {
	perm := arbor.Perm("admin.user")

	add := arbor.NewCommand(
		arbor.Literal("user"),
		arbor.Literal("add"),
		arbor.Required("name", parsers.Word()),
	).WithPermission(perm).WithHandler(func(_ context.Context, cctx *arbor.Context) error {
		name, _ := arbor.Value[string](cctx, "name")
		if err := deps.Store.CreateUser(name); err != nil {
			return err
		}
		deps.Logger.Debug("user created", zap.String("name", name))
		deps.Printf("created user %q", name)
		return nil
	})

	remove := arbor.NewCommand(
		arbor.Literal("user"),
		arbor.Literal("remove"),
		arbor.Required("name", parsers.Word()),
	).WithPermission(perm).WithHandler(func(_ context.Context, cctx *arbor.Context) error {
		name, _ := arbor.Value[string](cctx, "name")
		if err := deps.Store.DeleteUser(name); err != nil {
			return err
		}
		deps.Logger.Debug("user removed", zap.String("name", name))
		deps.Printf("removed user %q", name)
		return nil
	})

	list := arbor.NewCommand(
		arbor.Literal("user"),
		arbor.Literal("list"),
	).WithPermission(perm).WithHandler(func(_ context.Context, _ *arbor.Context) error {
		users, err := deps.Store.ListUsers()
		if err != nil {
			return err
		}
		deps.Printf("users: %s", joinOrNone(users))
		return nil
	})

	show := arbor.NewCommand(
		arbor.Literal("user"),
		arbor.Literal("show"),
		arbor.Required("name", parsers.Word()),
	).WithPermission(perm).WithHandler(func(ctx context.Context, cctx *arbor.Context) error {
		name, _ := arbor.Value[string](cctx, "name")
		roles, err := deps.Store.UserRoles(name)
		if err != nil {
			return err
		}
		grants, err := deps.Store.UserGrants(name)
		if err != nil {
			return err
		}
		effective, err := deps.Store.Permissions(ctx, name)
		if err != nil {
			return err
		}
		deps.Printf("roles: %s", joinOrNone(roles))
		deps.Printf("grants: %s", joinOrNone(grants))
		deps.Printf("effective: %s", joinOrNone(effective))
		return nil
	})

	return []*arbor.Command{add, remove, list, show}
}

func roleCommands(deps Deps) []*arbor.Command {
	perm := arbor.Perm("admin.role")

	add := arbor.NewCommand(
		arbor.Literal("role"),
		arbor.Literal("add"),
		arbor.Required("name", parsers.Word()),
	).WithPermission(perm).WithHandler(func(_ context.Context, cctx *arbor.Context) error {
		name, _ := arbor.Value[string](cctx, "name")
		if err := deps.Store.CreateRole(name); err != nil {
			return err
		}
		deps.Printf("created role %q", name)
		return nil
	})

	remove := arbor.NewCommand(
		arbor.Literal("role"),
		arbor.Literal("remove"),
		arbor.Required("name", parsers.Word()),
	).WithPermission(perm).WithHandler(func(_ context.Context, cctx *arbor.Context) error {
		name, _ := arbor.Value[string](cctx, "name")
		if err := deps.Store.DeleteRole(name); err != nil {
			return err
		}
		deps.Printf("removed role %q", name)
		return nil
	})

	list := arbor.NewCommand(
		arbor.Literal("role"),
		arbor.Literal("list"),
	).WithPermission(perm).WithHandler(func(_ context.Context, _ *arbor.Context) error {
		roles, err := deps.Store.ListRoles()
		if err != nil {
			return err
		}
		deps.Printf("roles: %s", joinOrNone(roles))
		return nil
	})

	grant := arbor.NewCommand(
		arbor.Literal("role"),
		arbor.Literal("grant"),
		arbor.Required("role", parsers.Word()),
		arbor.Required("permission", parsers.Word()),
	).WithPermission(perm).WithHandler(func(_ context.Context, cctx *arbor.Context) error {
		role, _ := arbor.Value[string](cctx, "role")
		permission, _ := arbor.Value[string](cctx, "permission")
		if err := deps.Store.GrantRole(role, permission); err != nil {
			return err
		}
		deps.Printf("granted %q to role %q", permission, role)
		return nil
	})

	revoke := arbor.NewCommand(
		arbor.Literal("role"),
		arbor.Literal("revoke"),
		arbor.Required("role", parsers.Word()),
		arbor.Required("permission", parsers.Word()),
	).WithPermission(perm).WithHandler(func(_ context.Context, cctx *arbor.Context) error {
		role, _ := arbor.Value[string](cctx, "role")
		permission, _ := arbor.Value[string](cctx, "permission")
		if err := deps.Store.RevokeRole(role, permission); err != nil {
			return err
		}
		deps.Printf("revoked %q from role %q", permission, role)
		return nil
	})

	assign := arbor.NewCommand(
		arbor.Literal("role"),
		arbor.Literal("assign"),
		arbor.Required("user", parsers.Word()),
		arbor.Required("role", parsers.Word()),
	).WithPermission(perm).WithHandler(func(_ context.Context, cctx *arbor.Context) error {
		user, _ := arbor.Value[string](cctx, "user")
		role, _ := arbor.Value[string](cctx, "role")
		if err := deps.Store.AssignRole(user, role); err != nil {
			return err
		}
		deps.Printf("assigned role %q to %q", role, user)
		return nil
	})

	unassign := arbor.NewCommand(
		arbor.Literal("role"),
		arbor.Literal("unassign"),
		arbor.Required("user", parsers.Word()),
		arbor.Required("role", parsers.Word()),
	).WithPermission(perm).WithHandler(func(_ context.Context, cctx *arbor.Context) error {
		user, _ := arbor.Value[string](cctx, "user")
		role, _ := arbor.Value[string](cctx, "role")
		if err := deps.Store.UnassignRole(user, role); err != nil {
			return err
		}
		deps.Printf("unassigned role %q from %q", role, user)
		return nil
	})

	return []*arbor.Command{add, remove, list, grant, revoke, assign, unassign}
}

func grantCommands(deps Deps) []*arbor.Command {
	perm := arbor.Perm("admin.grant")

	grant := arbor.NewCommand(
		arbor.Literal("grant"),
		arbor.Required("user", parsers.Word()),
		arbor.Required("permission", parsers.Word()),
	).WithPermission(perm).WithHandler(func(_ context.Context, cctx *arbor.Context) error {
		user, _ := arbor.Value[string](cctx, "user")
		permission, _ := arbor.Value[string](cctx, "permission")
		if err := deps.Store.GrantUser(user, permission); err != nil {
			return err
		}
		deps.Printf("granted %q to %q", permission, user)
		return nil
	})

	revoke := arbor.NewCommand(
		arbor.Literal("revoke"),
		arbor.Required("user", parsers.Word()),
		arbor.Required("permission", parsers.Word()),
	).WithPermission(perm).WithHandler(func(_ context.Context, cctx *arbor.Context) error {
		user, _ := arbor.Value[string](cctx, "user")
		permission, _ := arbor.Value[string](cctx, "permission")
		if err := deps.Store.RevokeUser(user, permission); err != nil {
			return err
		}
		deps.Printf("revoked %q from %q", permission, user)
		return nil
	})

	return []*arbor.Command{grant, revoke}
}

func shutdownCommand(deps Deps) *arbor.Command {
	return arbor.NewCommand(
		arbor.Literal("shutdown"),
		arbor.FlagGroup(
			arbor.Flag{Name: "delay", Parser: parsers.IntRange(0, 3600)},
		),
	).WithSenderType(arbor.SenderTypeOf[Console]()).WithHandler(func(_ context.Context, cctx *arbor.Context) error {
		if delay, ok := arbor.FlagValue[int64](cctx, "delay"); ok {
			deps.Printf("shutting down in %ds", delay)
			return nil
		}
		deps.Printf("shutting down")
		return nil
	})
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}
