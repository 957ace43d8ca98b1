package runs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBegin_RejectsSecondActiveRun(t *testing.T) {
	r := NewRegistry()

	run, err := r.Begin("client-1", "Aurora Test Band")
	require.NoError(t, err)
	require.Equal(t, StatusRunning, run.Status)

	_, err = r.Begin("client-1", "Aurora Test Band")
	require.ErrorIs(t, err, ErrActiveRun)

	// a different client is unaffected
	_, err = r.Begin("client-2", "Other Band")
	require.NoError(t, err)
}

func TestBegin_AllowedAfterFinish(t *testing.T) {
	r := NewRegistry()

	_, err := r.Begin("client-1", "Aurora Test Band")
	require.NoError(t, err)

	r.Finish("client-1", StatusError, "upstream gateway failure")

	got, ok := r.Get("client-1")
	require.True(t, ok)
	require.Equal(t, StatusError, got.Status)
	require.Equal(t, "upstream gateway failure", got.Error)

	_, err = r.Begin("client-1", "Aurora Test Band")
	require.NoError(t, err)
}
