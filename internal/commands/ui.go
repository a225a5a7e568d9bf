package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/app"
	"todo/internal/exitcode"
	"todo/internal/tui"
)

func init() {
	Register(&UICmd{})
}

// UICmd starts the interactive terminal UI.
type UICmd struct{}

func (c *UICmd) Name() string      { return "ui" }
func (c *UICmd) Aliases() []string { return []string{"tui"} }
func (c *UICmd) Synopsis() string  { return "Open the interactive task manager" }
func (c *UICmd) Usage() string     { return "todo ui" }
func (c *UICmd) NeedsAuth() bool   { return false }
func (c *UICmd) Fullscreen() bool  { return true }

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	if err := tui.Run(ctx, a, tea.WithOutput(out)); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
