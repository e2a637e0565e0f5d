package eth2

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrOutOfRange = errors.New("value is not an unsigned 64-bit integer")
)

// ParseUint64 parses a decimal string as an unsigned 64-bit integer with a
// full range check. Epochs and validator indices must go through this
// rather than any float-based parsing: floats silently lose precision
// above 2^53, which corrupts signing roots.
func ParseUint64(s string) (uint64, error) {
	value, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: [%s]", ErrOutOfRange, s)
	}
	return value, nil
}
