package process

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_Run_CapturesOutputAndExitCode(t *testing.T) {
	// Given
	runner := NewRunner()

	// When
	result, err := runner.Run(context.Background(), "sh", "-c", "echo out; echo err >&2; exit 3")

	// Then
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.False(t, result.Success())
	assert.Equal(t, "out\n", string(result.Stdout))
	assert.Equal(t, "err\n", string(result.Stderr))
}

func TestRunner_Run_Success(t *testing.T) {
	result, err := NewRunner().Run(context.Background(), "sh", "-c", "printf ok")

	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, "ok", string(result.Stdout))
	assert.Empty(t, result.Stderr)
}

func TestRunner_Run_MissingBinary_ReturnsError(t *testing.T) {
	_, err := NewRunner().Run(context.Background(), "definitely-not-a-real-binary-xyz")

	assert.Error(t, err)
}

func TestRunner_Run_EmptyCommand_ReturnsError(t *testing.T) {
	_, err := NewRunner().Run(context.Background())

	assert.Error(t, err)
}
