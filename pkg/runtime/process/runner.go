package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// Result holds everything a finished child process produced
type Result struct {
	ExitCode int
	Stdout   []byte
	Stderr   []byte
}

func (r Result) Success() bool {
	return r.ExitCode == 0
}

// Runner executes an argument vector as a child process
type Runner interface {
	Run(ctx context.Context, args ...string) (Result, error)
}

type execRunner struct{}

// NewRunner returns a Runner backed by os/exec. Stdin is not connected.
func NewRunner() Runner {
	return execRunner{}
}

// Run reports a non-zero exit through Result.ExitCode. The error is only set when the
// process could not be started or waited on.
func (execRunner) Run(ctx context.Context, args ...string) (Result, error) {
	if len(args) == 0 {
		return Result{}, errors.New("empty command")
	}

	//nolint:gosec // G204: arguments are assembled by the opsman and pivnet clients
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("failed to run %s: %w", args[0], err)
	}
	return result, nil
}
