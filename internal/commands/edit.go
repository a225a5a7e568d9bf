package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/app"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Fields without a flag keep their
// current value; the status is never changed.
type EditCmd struct {
	title       optionalString
	description optionalString
	priority    optionalString
}

// optionalString is a flag.Value that remembers whether it was set.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's title, description or priority" }
func (c *EditCmd) Usage() string {
	return "todo edit [--title <t>] [--description <d>] [--priority <p>] <n>"
}
func (c *EditCmd) NeedsAuth() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.description, c.priority = optionalString{}, optionalString{}, optionalString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.description, "d", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
}

func (c *EditCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	if !c.title.set && !c.description.set && !c.priority.set {
		fmt.Fprintln(errOut, "error: nothing to change (use --title, --description or --priority)")
		return exitcode.UserError
	}
	if c.title.set && strings.TrimSpace(c.title.value) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	if c.description.set && strings.TrimSpace(c.description.value) == "" {
		fmt.Fprintln(errOut, "error: description required")
		return exitcode.UserError
	}
	var priority service.Priority
	if c.priority.set {
		p, ok := service.ParsePriority(c.priority.value)
		if !ok || strings.TrimSpace(c.priority.value) == "" {
			fmt.Fprintf(errOut, "error: invalid priority: %s\n", c.priority.value)
			return exitcode.UserError
		}
		priority = p
	}

	task, code, ok := taskFromArgs(ctx, a, args, errOut)
	if !ok {
		return code
	}

	title, description := task.Title, task.Description
	if c.title.set {
		title = c.title.value
	}
	if c.description.set {
		description = c.description.value
	}
	if !c.priority.set {
		priority = task.Priority
	}

	if err := a.Tasks.Update(ctx, task.ID, title, description, priority); err != nil {
		return report(errOut, err)
	}

	if !a.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
