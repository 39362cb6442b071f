package compare

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/replaycheck/internal/value"
)

func TestFloatsEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want bool
	}{
		{"within relative tolerance", 1.0000001, 1.0, true},
		{"beyond relative tolerance", 1.0, 1.1, false},
		{"zero within absolute tolerance", 0.0, 1e-10, true},
		{"zero beyond absolute tolerance", 0.0, 1.0, false},
		{"exactly equal", 42.5, 42.5, true},
		{"both zero", 0.0, 0.0, true},
		{"negative within tolerance", -1000.0001, -1000.0, true},
		{"opposite signs", -1.0, 1.0, false},
		{"symmetric", 1.0, 1.0000001, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FloatsEqual(tt.a, tt.b, DefaultRelativeTolerance, DefaultAbsoluteTolerance)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFloatsEqual_ZeroTolerance(t *testing.T) {
	assert.True(t, FloatsEqual(1.5, 1.5, 0, 0))
	assert.False(t, FloatsEqual(1.0000001, 1.0, 0, 0))
	assert.False(t, FloatsEqual(0, 1e-10, 0, 0))
}

func TestNumbersEqual(t *testing.T) {
	p := DefaultPolicy()

	assert.True(t, numbersEqual("1", "1.0", p), "integer and float of same value")
	assert.True(t, numbersEqual("1e2", "100", p))
	assert.True(t, numbersEqual("9007199254740993", "9007199254740993", p))
	assert.False(t, numbersEqual("1", "2", p))

	exact := ExactPolicy()
	assert.True(t, numbersEqual("3", "3.0", exact))
	assert.False(t, numbersEqual("1.0000001", "1.0", exact))
}

func TestNumbersEqual_LargeIntegers(t *testing.T) {
	exact := ExactPolicy()
	a := value.Number("9007199254740993")
	b := value.Number("9007199254740992")

	assert.False(t, numbersEqual(a, b, exact), "int64 comparison is lossless when both fit")
}

func TestNumbersEqual_BeyondInt64(t *testing.T) {
	a := value.Number("18446744073709551617")
	b := value.Number("18446744073709551616")

	assert.False(t, numbersEqual(a, b, ExactPolicy()))
	assert.False(t, numbersEqual(a, b, StrictPolicy()))
	assert.True(t, numbersEqual(a, "18446744073709551617", StrictPolicy()))
	assert.True(t, numbersEqual("-0", "0", StrictPolicy()), "same integer, different literal")

	// Tolerant comparison still treats them as close enough
	assert.True(t, numbersEqual(a, b, DefaultPolicy()))
}

func TestNumbersEqual_BeyondInt64Documents(t *testing.T) {
	ref := value.MustFromAny(map[string]any{"id": json.Number("18446744073709551617")})
	cand := value.MustFromAny(map[string]any{"id": json.Number("18446744073709551616")})

	assert.False(t, Compare(ref, cand, StrictPolicy()).Equal())
	assert.False(t, Equal(ref, cand, ExactPolicy()))
}

func TestNumbersEqual_OutOfRange(t *testing.T) {
	assert.True(t, numbersEqual("1e400", "1E400", DefaultPolicy()), "both overflow to +Inf")
	assert.True(t, numbersEqual("1e400", "1e500", ExactPolicy()))
	assert.False(t, numbersEqual("1e400", "-1e400", DefaultPolicy()))
	assert.False(t, numbersEqual("1e400", "1.5", DefaultPolicy()))
	assert.True(t, numbersEqual("1e-400", "0.0", ExactPolicy()), "underflow reads as zero")
}
