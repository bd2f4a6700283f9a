package run

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTeardown(t *testing.T) {
	var td Teardown
	require.NoError(t, td.Err())

	td.Add(nil)
	require.NoError(t, td.Err())

	first := errors.New("close session")
	second := errors.New("close port")
	td.Add(first)
	td.Add(nil)
	td.Add(second)

	err := td.Err()
	require.Error(t, err)
	require.ErrorIs(t, err, first)
	require.ErrorIs(t, err, second)
	require.Contains(t, err.Error(), "close session")
	require.Contains(t, err.Error(), "close port")
}
