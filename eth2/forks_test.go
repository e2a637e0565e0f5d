package eth2

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCapellaFork(t *testing.T) {
	// Every known network resolves
	fork, err := CapellaFork("0x00000000")
	require.NoError(t, err)
	require.Equal(t, "0x03000000", fork)

	fork, err = CapellaFork("0x01017000")
	require.NoError(t, err)
	require.Equal(t, "0x04017000", fork)

	// Lookup is case-insensitive
	fork, err = CapellaFork("0X01017000")
	require.NoError(t, err)
	require.Equal(t, "0x04017000", fork)

	// Unknown networks fail
	_, err = CapellaFork("0xdeadbeef")
	require.ErrorIs(t, err, ErrUnsupportedNetwork)
}

func TestNetworkName(t *testing.T) {
	name, known := NetworkName("0x01017000")
	require.True(t, known)
	require.Equal(t, "holesky", name)

	_, known = NetworkName("0xdeadbeef")
	require.False(t, known)
}
