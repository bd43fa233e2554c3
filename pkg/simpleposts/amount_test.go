package simpleposts_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-posts/pkg/simpleposts"
)

const maxUint128 = "340282366920938463463374607431768211455"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{name: "zero", input: "0"},
		{name: "small value", input: "100"},
		{name: "max uint64", input: "18446744073709551615"},
		{name: "beyond uint64", input: "18446744073709551616"},
		{name: "max uint128", input: maxUint128},
		{name: "beyond uint128", input: "340282366920938463463374607431768211456", expectError: true},
		{name: "negative", input: "-1", expectError: true},
		{name: "not a number", input: "100 NEAR", expectError: true},
		{name: "empty", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := simpleposts.ParseAmount(tt.input)

			if tt.expectError {
				assert.ErrorIs(t, err, simpleposts.ErrInvalidAmount)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.input, a.String())
			}
		})
	}
}

func TestAmountAdd(t *testing.T) {
	t.Run("small values", func(t *testing.T) {
		sum, err := simpleposts.NewAmount(100).Add(simpleposts.NewAmount(200))
		require.NoError(t, err)
		assert.Equal(t, "300", sum.String())
	})

	t.Run("carry across limbs", func(t *testing.T) {
		a, err := simpleposts.ParseAmount("18446744073709551615") // max uint64
		require.NoError(t, err)

		sum, err := a.Add(simpleposts.NewAmount(1))
		require.NoError(t, err)
		assert.Equal(t, "18446744073709551616", sum.String())
	})

	t.Run("overflow is rejected", func(t *testing.T) {
		max, err := simpleposts.ParseAmount(maxUint128)
		require.NoError(t, err)

		_, err = max.Add(simpleposts.NewAmount(1))
		assert.ErrorIs(t, err, simpleposts.ErrAmountOverflow)

		// Operand unchanged by the failed addition.
		assert.Equal(t, maxUint128, max.String())
	})

	t.Run("zero is identity", func(t *testing.T) {
		a := simpleposts.NewAmount(42)
		sum, err := a.Add(simpleposts.Amount{})
		require.NoError(t, err)
		assert.Equal(t, 0, sum.Cmp(a))
	})
}

func TestAmountCmp(t *testing.T) {
	small := simpleposts.NewAmount(1)
	large, err := simpleposts.ParseAmount("18446744073709551616")
	require.NoError(t, err)

	assert.Equal(t, -1, small.Cmp(large))
	assert.Equal(t, 1, large.Cmp(small))
	assert.Equal(t, 0, small.Cmp(simpleposts.NewAmount(1)))
	assert.True(t, simpleposts.Amount{}.IsZero())
	assert.False(t, small.IsZero())
}

func TestAmountJSON(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		original, err := simpleposts.ParseAmount("340282366920938463463374607431768211")
		require.NoError(t, err)

		data, err := json.Marshal(original)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), `"`), "amounts serialize as strings")

		var decoded simpleposts.Amount
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, 0, original.Cmp(decoded))
	})

	t.Run("rejects JSON numbers", func(t *testing.T) {
		var a simpleposts.Amount
		err := json.Unmarshal([]byte(`100`), &a)
		assert.ErrorIs(t, err, simpleposts.ErrInvalidAmount)
	})
}
