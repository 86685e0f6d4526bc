// Package console implements the interactive shell: a prompt with live
// completion, history, and a scrolling transcript of executed commands.
package console

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/arbor-tools/arbor"
)

// Executor runs one line of input and returns the lines it printed.
type Executor func(ctx context.Context, line string) ([]string, error)

// Suggester returns completion candidates for a partial line.
type Suggester func(ctx context.Context, line string) []arbor.Suggestion

// Deps carries the functions the shell dispatches through.
type Deps struct {
	Execute Executor
	Suggest Suggester
}

// Run starts the interactive shell for the named user. It requires an
// interactive terminal on stdin and stdout.
func Run(deps Deps, user string) error {
	if deps.Execute == nil || deps.Suggest == nil {
		return errors.New("console: incomplete dependencies")
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("interactive shell requires a terminal")
	}

	p := tea.NewProgram(
		New(deps, user),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
