//go:build unix

package evloop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectBackendExplicit(t *testing.T) {
	l, err := NewWithOptions(Options{SetSize: 8, Backend: "select"})
	require.NoError(t, err)
	defer l.DeleteEventLoop()

	require.Equal(t, "select", l.GetApiName())
}

func TestUnknownBackendRejected(t *testing.T) {
	_, err := NewWithOptions(Options{SetSize: 8, Backend: "io_uring"})
	require.ErrorIs(t, err, ErrBackend)
}
