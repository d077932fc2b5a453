package terminal

import (
	"errors"

	"github.com/de-tools/foundation-report/pkg/services/registry"
)

const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError attaches a process exit code to err
type ExitError struct {
	Code      int
	Err       error
	ShowUsage bool
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Err: err, ShowUsage: true}
}

// registryError classifies foundation registration failures
func registryError(err error) error {
	switch {
	case errors.Is(err, registry.ErrNoFoundations):
		return &ExitError{Code: ExitUsage, Err: err, ShowUsage: true}
	case errors.Is(err, registry.ErrInvalidDefinition):
		return &ExitError{Code: ExitFailure, Err: err, ShowUsage: true}
	default:
		return &ExitError{Code: ExitFailure, Err: err}
	}
}

// ExitCode maps an Execute error to the process exit status
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
