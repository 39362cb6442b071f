package compare

import (
	"errors"
	"math"
	"math/big"
	"strconv"

	"github.com/roach88/replaycheck/internal/value"
)

// FloatsEqual reports whether a and b are equal under relative tolerance.
//
// Equal if exactly equal; if either is zero, |a-b| must be below absTol;
// otherwise |a-b| / max(|a|,|b|) must be below relTol.
func FloatsEqual(a, b, relTol, absTol float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	if a == 0 || b == 0 {
		return diff < absTol
	}
	return diff/math.Max(math.Abs(a), math.Abs(b)) < relTol
}

// numbersEqual compares two number literals under the policy tolerances.
// Integer literals compare exactly at any size; they only fall back to
// float tolerance when the policy has one.
func numbersEqual(a, b value.Number, p Policy) bool {
	if a == b {
		return true
	}
	if a.IsInteger() && b.IsInteger() {
		ai, okA := new(big.Int).SetString(string(a), 10)
		bi, okB := new(big.Int).SetString(string(b), 10)
		if okA && okB {
			if ai.Cmp(bi) == 0 {
				return true
			}
			if p.RelativeTolerance == 0 && p.AbsoluteTolerance == 0 {
				return false
			}
		}
	}
	af, okA := parseFloat(a)
	bf, okB := parseFloat(b)
	if !okA || !okB {
		return false
	}
	return FloatsEqual(af, bf, p.RelativeTolerance, p.AbsoluteTolerance)
}

// parseFloat converts a literal to float64. Literals out of range become
// ±Inf (or zero on underflow) instead of failing.
func parseFloat(n value.Number) (float64, bool) {
	f, err := n.Float64()
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}
