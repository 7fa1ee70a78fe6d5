package evloop

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigOverridesDefaults(t *testing.T) {
	opts, err := LoadConfig([]byte(`{"setsize": 4096, "backend": "select"}`))
	require.NoError(t, err)
	require.Equal(t, 4096, opts.SetSize)
	require.Equal(t, "select", opts.Backend)
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	opts, err := LoadConfig([]byte(`{}`))
	require.NoError(t, err)
	require.Equal(t, DefaultOptions.SetSize, opts.SetSize)
	require.Equal(t, "", opts.Backend)
}
