// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError covers bad arguments, unknown task ids and bad config.
	UserError = 1

	// AuthError indicates missing or unusable credentials.
	AuthError = 2

	// BackendError indicates a failed call to the task service.
	BackendError = 3
)
