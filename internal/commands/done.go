package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/app"
	"todo/internal/exitcode"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It toggles: running it on a
// completed task marks it pending again.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string  { return "Toggle a task between pending and completed" }
func (c *DoneCmd) Usage() string     { return "todo done <n>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	task, code, ok := taskFromArgs(ctx, a, args, errOut)
	if !ok {
		return code
	}

	if err := a.Tasks.ToggleCompletion(ctx, task.ID, task.Status); err != nil {
		return report(errOut, err)
	}

	if !a.Config.Quiet {
		fmt.Fprintln(out, task.Status.Complement())
	}
	return exitcode.Success
}
