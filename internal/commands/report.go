package commands

import (
	"errors"
	"io"
	"strings"

	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
	"todo/internal/store"
)

// reportFailure prints a failed store action and returns its exit code.
// A missing task is the caller's mistake; anything else is the backend's.
func reportFailure(errOut io.Writer, st *store.Store, taskID string, err error) int {
	if errors.Is(err, service.ErrNotFound) {
		output.FormatError(errOut, "task not found: %s", taskID)
		return exitcode.UserError
	}
	msg := st.Err()
	if msg == "" {
		msg = err.Error()
	}
	output.FormatError(errOut, "%s", msg)
	return exitcode.BackendError
}

// reportFetch prints the store's error slot after a fetch, if set.
// Fetch actions record failures instead of returning them.
func reportFetch(errOut io.Writer, st *store.Store) (int, bool) {
	if msg := st.Err(); msg != "" {
		output.FormatError(errOut, "%s", msg)
		return exitcode.BackendError, true
	}
	return exitcode.Success, false
}

// taskID returns the single task id argument.
func taskID(args []string) (string, bool) {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return "", false
	}
	return args[0], true
}

// title joins the remaining arguments into a task title.
func title(args []string) (string, bool) {
	t := strings.Join(args, " ")
	if strings.TrimSpace(t) == "" {
		return "", false
	}
	return t, true
}
