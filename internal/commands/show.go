package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/app"
	"todo/internal/exitcode"
	"todo/internal/output"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd prints one task in full, read fresh from the server.
type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return nil }
func (c *ShowCmd) Synopsis() string  { return "Show task details" }
func (c *ShowCmd) Usage() string     { return "todo show <n>" }
func (c *ShowCmd) NeedsAuth() bool   { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	listed, code, ok := taskFromArgs(ctx, a, args, errOut)
	if !ok {
		return code
	}

	task, err := a.Tasks.FetchOne(ctx, listed.ID)
	if err != nil {
		return report(errOut, err)
	}
	output.FormatTaskDetail(out, task)
	return exitcode.Success
}
