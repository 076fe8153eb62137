package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inab/conflict-decisions/internal/resolve"
)

// Process exit codes.
const (
	ExitOK       = 0
	ExitRejected = 1
	ExitUsage    = 2
)

// UsageError reports missing or invalid invocation parameters or settings.
// The tracker is never contacted when one is returned.
type UsageError struct {
	err error
}

func (e *UsageError) Error() string {
	return e.err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.err
}

func usageErrorf(format string, args ...any) error {
	return &UsageError{err: fmt.Errorf(format, args...)}
}

// IsUsageError reports whether err is a *UsageError.
func IsUsageError(err error) bool {
	var target *UsageError
	return errors.As(err, &target)
}

// ExitCode maps an Execute result to the process exit status. Handled
// rejections and unexpected failures both exit with ExitRejected; only the
// former print the JSON error object.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case IsUsageError(err):
		return ExitUsage
	default:
		return ExitRejected
	}
}

// ShouldLog reports whether main still has to log err. Rejections were
// already reported on the issue and usage errors on stderr.
func ShouldLog(err error) bool {
	return err != nil && !IsUsageError(err) && !resolve.IsRejected(err)
}

func issueArgs(_ *cobra.Command, args []string) error {
	if len(args) != 2 {
		return usageErrorf("expected <owner/repo> and <issue-number>, got %d argument(s)", len(args))
	}
	return nil
}
