package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("vars.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "vars.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Equal(t, "parse error: vars.yaml:12: unexpected token", err.Error())
}

func TestParseErrorWithoutLine(t *testing.T) {
	t.Parallel()

	err := NewParseError("vars.yaml", 0, stdErrors.New("boom"))
	require.Equal(t, "parse error: vars.yaml: boom", err.Error())
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("collection_path", "directory does not exist", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "collection_path", validationErr.Field)
	require.Contains(t, err.Error(), "collection_path")
}

func TestExecutionErrorIncludesTargetContext(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("executable file not found")
	err := NewExecutionError("ec2_instance", underlying)

	var executionErr *ExecutionError
	require.ErrorAs(t, err, &executionErr)
	require.Equal(t, "ec2_instance", executionErr.Target)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "ec2_instance")
}

func TestDiscoveryErrorFormatsOperation(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("connection refused")
	err := NewDiscoveryError("list nodes", "", underlying)

	var discoveryErr *DiscoveryError
	require.ErrorAs(t, err, &discoveryErr)
	require.True(t, stdErrors.Is(err, underlying))
	require.Equal(t, "discovery error [list nodes]: connection refused", err.Error())

	err = NewDiscoveryError("internal ip", "node kind-control-plane has no InternalIP address", nil)
	require.Equal(t, "discovery error [internal ip]: node kind-control-plane has no InternalIP address", err.Error())
}
