package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"todo/internal/app"
	"todo/internal/exitcode"
	"todo/internal/service"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// errOutOfRange is returned when a task number does not match a listed task.
type errOutOfRange int

func (e errOutOfRange) Error() string {
	return fmt.Sprintf("task number out of range: %d", int(e))
}

// ParseTaskRef reads the 1-based task number from the first argument.
// Task numbers are positions in the order `todo list` prints.
func ParseTaskRef(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || !isAllDigits(args[0]) {
		return 0, fmt.Errorf("invalid task reference: %s", args[0])
	}
	if n < 1 {
		return 0, errOutOfRange(n)
	}
	return n, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// resolveTask fetches the current list and returns the task numbered num.
func resolveTask(ctx context.Context, a *app.App, num int) (service.Task, error) {
	tasks, err := a.Tasks.Refresh(ctx)
	if err != nil {
		return service.Task{}, err
	}
	if num > len(tasks) {
		return service.Task{}, errOutOfRange(num)
	}
	return tasks[num-1], nil
}

// taskFromArgs combines ParseTaskRef and resolveTask, reporting failures.
// ok is false when the command should exit with code.
func taskFromArgs(ctx context.Context, a *app.App, args []string, errOut io.Writer) (task service.Task, code int, ok bool) {
	num, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return service.Task{}, exitcode.UserError, false
	}
	task, err = resolveTask(ctx, a, num)
	if err != nil {
		return service.Task{}, report(errOut, err), false
	}
	return task, exitcode.Success, true
}

// report prints err the way every command does and returns its exit code.
func report(errOut io.Writer, err error) int {
	var oor errOutOfRange
	switch {
	case errors.As(err, &oor):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, service.ErrInvalidInput):
		fmt.Fprintf(errOut, "error: %v\n", err)
	case service.IsUnauthorized(err):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	}
	return exitcode.FromError(err)
}
