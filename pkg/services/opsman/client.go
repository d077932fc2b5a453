package opsman

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/shlex"
	"github.com/rs/zerolog"

	"github.com/de-tools/foundation-report/pkg/models/domain"
	"github.com/de-tools/foundation-report/pkg/runtime/process"
)

const (
	DefaultBinary = "om"

	logoutCommand   = "curl -s -x DELETE -p /api/v0/sessions"
	productsCommand = "curl -s -x GET -p /api/v0/deployed/products"
)

// CommandError is returned when the om CLI exits non-zero
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   []byte
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("ERROR encountered when running command: %s\n%s",
		strings.Join(e.Args, " "), e.Stderr)
}

// Client drives the om CLI against Ops Manager targets
type Client struct {
	runner process.Runner
	binary string
}

func NewClient(runner process.Runner, binary string) *Client {
	if binary == "" {
		binary = DefaultBinary
	}
	return &Client{runner: runner, binary: binary}
}

// Run executes command against the target and returns its stdout
func (c *Client) Run(ctx context.Context, target, username, password, command string) ([]byte, error) {
	tokens, err := shlex.Split(command)
	if err != nil {
		return nil, fmt.Errorf("failed to parse om command %q: %w", command, err)
	}

	args := []string{
		c.binary,
		"--target", target,
		"--skip-ssl-validation",
		"--username", username,
		"--password", password,
	}
	args = append(args, tokens...)

	zerolog.Ctx(ctx).Debug().
		Str("target", target).
		Str("command", command).
		Msg("running om")

	result, err := c.runner.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if !result.Success() {
		return nil, &CommandError{Args: args, ExitCode: result.ExitCode, Stderr: result.Stderr}
	}
	return result.Stdout, nil
}

// DeployedProducts lists the products of a foundation. Any stale session is deleted
// first and the session opened by the query is deleted afterwards.
func (c *Client) DeployedProducts(ctx context.Context, f domain.Foundation) ([]domain.DeployedProduct, error) {
	if _, err := c.Run(ctx, f.Target, f.Username, f.Password, logoutCommand); err != nil {
		return nil, err
	}

	payload, err := c.Run(ctx, f.Target, f.Username, f.Password, productsCommand)
	if err != nil {
		return nil, err
	}

	if _, err := c.Run(ctx, f.Target, f.Username, f.Password, logoutCommand); err != nil {
		return nil, err
	}

	var products []domain.DeployedProduct
	if err := json.Unmarshal(payload, &products); err != nil {
		return nil, fmt.Errorf("failed to decode deployed products of %s: %w", f.Name, err)
	}
	return products, nil
}
