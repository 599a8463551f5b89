package markov

import (
	"fmt"
	"math"
)

// IntPow returns base raised to exp using exact integer arithmetic. It fails
// with ErrInvalidArgument for a negative exponent and with ErrOverflow when
// the result does not fit in an int64.
func IntPow(base int64, exp int) (int64, error) {
	if exp < 0 {
		return 0, fmt.Errorf("%w: negative exponent %d", ErrInvalidArgument, exp)
	}
	result := int64(1)
	for i := 0; i < exp; i++ {
		if base != 0 && (result > math.MaxInt64/absInt64(base) || result < math.MinInt64/absInt64(base)) {
			return 0, fmt.Errorf("%w: %d^%d", ErrOverflow, base, exp)
		}
		result *= base
	}
	return result, nil
}

func absInt64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
