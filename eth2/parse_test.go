package eth2

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUint64(t *testing.T) {
	value, err := ParseUint64("0")
	require.NoError(t, err)
	require.Equal(t, uint64(0), value)

	// Full 64-bit range must parse exactly; values above 2^53 are where
	// float-based parsers silently corrupt
	value, err = ParseUint64("9007199254740993")
	require.NoError(t, err)
	require.Equal(t, uint64(9007199254740993), value)

	value, err = ParseUint64("18446744073709551615")
	require.NoError(t, err)
	require.Equal(t, uint64(18446744073709551615), value)
}

func TestParseUint64OutOfRange(t *testing.T) {
	// One past the max
	_, err := ParseUint64("18446744073709551616")
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = ParseUint64("-1")
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = ParseUint64("100.5")
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = ParseUint64("")
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = ParseUint64("0x64")
	require.ErrorIs(t, err, ErrOutOfRange)
}
