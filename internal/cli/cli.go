// Package cli wires the shell together: configuration, the authz
// store, the command tree, and the cobra entry points.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/arbor-tools/arbor"
	"github.com/arbor-tools/arbor/input"
	"github.com/arbor-tools/arbor/internal/authz"
	"github.com/arbor-tools/arbor/internal/config"
	"github.com/arbor-tools/arbor/internal/console"
	"github.com/arbor-tools/arbor/internal/demo"
	"github.com/arbor-tools/arbor/internal/ui/style"
	"github.com/arbor-tools/arbor/tree"
)

// Execute runs the arborsh application.
func Execute() error {
	return newRootCommand().Execute()
}

type rootOptions struct {
	runAs   string
	dbPath  string
	noColor bool
}

func newRootCommand() *cobra.Command {
	var opts rootOptions

	root := &cobra.Command{
		Use:   "arborsh",
		Short: "interactive command shell with a persistent permission store",
		Long: `arborsh resolves lines of input against a prefix tree of registered
commands, completing partial tokens and enforcing per-command sender
and permission restrictions backed by a SQLite store.

Run it without arguments for help, "repl" for the interactive shell,
"exec" to run a single command, or "suggest" to print completions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&opts.runAs, "as", "", "run as the named user instead of the console")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "override the database path")
	root.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable styled output")

	root.AddCommand(
		newReplCommand(&opts),
		newExecCommand(&opts),
		newSuggestCommand(&opts),
	)
	root.InitDefaultHelpCmd()
	root.InitDefaultCompletionCmd()
	return root
}

// app bundles one fully wired shell instance.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	store  *authz.Store
	tree   *tree.Tree
	sender arbor.Sender
}

// newApp loads configuration, opens the store, and registers the
// command set with handler output going through printf.
func newApp(opts *rootOptions, printf func(format string, a ...any)) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.dbPath != "" {
		cfg.DatabasePath = opts.dbPath
	}
	if opts.runAs != "" {
		cfg.User = opts.runAs
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	store, err := authz.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	// The console is the superuser; a fresh database stays administrable.
	consoleSender := demo.Console{}
	tr := tree.New(
		tree.WithPermissionEvaluator(authz.NewEvaluator(store, logger, consoleSender.Name())),
		tree.WithLiberalFlagParsing(cfg.LiberalFlags),
		tree.WithLogger(logger),
	)

	if err := demo.Register(tr, demo.Deps{Store: store, Logger: logger, Printf: printf}); err != nil {
		store.Close()
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, store: store, tree: tr}
	if cfg.User == "" {
		a.sender = consoleSender
	} else {
		a.sender = demo.NewUser(cfg.User)
	}
	return a, nil
}

func (a *app) close() {
	a.store.Close()
	_ = a.logger.Sync()
}

// execute parses one line and runs its handler.
func (a *app) execute(ctx context.Context, line string) error {
	cctx := arbor.NewContext(a.sender)
	cmd, err := a.tree.Parse(ctx, cctx, input.New(line))
	if err != nil {
		return err
	}
	if cmd.Handler == nil {
		return fmt.Errorf("%s has no handler", cmd.RootName())
	}
	return cmd.Handler(ctx, cctx)
}

func (a *app) suggest(ctx context.Context, line string) []arbor.Suggestion {
	return a.tree.Suggest(ctx, arbor.NewContext(a.sender), input.New(line))
}

// lineSink collects handler output for the shell transcript.
type lineSink struct {
	mu    sync.Mutex
	lines []string
}

func (s *lineSink) printf(format string, a ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, fmt.Sprintf(format, a...))
}

func (s *lineSink) drain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.lines
	s.lines = nil
	return out
}

func initStyles(noColor bool) {
	style.Init(term.IsTerminal(int(os.Stdout.Fd())) && !noColor)
}

func newReplCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "start the interactive shell",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			sink := &lineSink{}
			a, err := newApp(opts, sink.printf)
			if err != nil {
				return err
			}
			defer a.close()

			initStyles(opts.noColor)

			deps := console.Deps{
				Execute: func(ctx context.Context, line string) ([]string, error) {
					runErr := a.execute(ctx, line)
					return sink.drain(), runErr
				},
				Suggest: a.suggest,
			}
			return console.Run(deps, a.sender.Name())
		},
	}
}

func newExecCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <input>",
		Short: "run a single command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, func(format string, fa ...any) {
				fmt.Fprintf(cmd.OutOrStdout(), format+"\n", fa...)
			})
			if err != nil {
				return err
			}
			defer a.close()

			initStyles(opts.noColor)

			return a.execute(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func newSuggestCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <partial>",
		Short: "print completions for a partial command line",
		Long: `Print the completion candidates for a partial command line, one per
line. Quote the argument to keep a trailing space, which completes the
next token instead of the current one.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(opts, func(string, ...any) {})
			if err != nil {
				return err
			}
			defer a.close()

			initStyles(opts.noColor)

			for _, s := range a.suggest(cmd.Context(), strings.Join(args, " ")) {
				if s.Tooltip != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.Text, style.Muted(s.Tooltip))
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), s.Text)
			}
			return nil
		},
	}
}
