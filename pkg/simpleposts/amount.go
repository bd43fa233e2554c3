package simpleposts

import (
	"encoding/json"
	"fmt"
	"math/big"
	"math/bits"
)

// Amount is an unsigned 128-bit donation value.
//
// Donation totals can exceed what fits in 64 bits (the smallest on-chain
// denominations are very fine-grained), so totals are carried as a pair of
// 64-bit limbs. The zero value is a zero amount and ready to use.
//
// Amounts serialize to JSON as decimal strings: 128-bit values do not survive
// a round trip through a JSON number.
type Amount struct {
	hi, lo uint64
}

var maxAmountBig = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// NewAmount returns an Amount holding v.
func NewAmount(v uint64) Amount {
	return Amount{lo: v}
}

// ParseAmount parses a non-negative decimal string into an Amount.
// Values outside [0, 2^128-1] return ErrInvalidAmount.
func ParseAmount(s string) (Amount, error) {
	i, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return Amount{}, fmt.Errorf("%w: %q is not a decimal integer", ErrInvalidAmount, s)
	}
	if i.Sign() < 0 || i.Cmp(maxAmountBig) > 0 {
		return Amount{}, fmt.Errorf("%w: %q out of range", ErrInvalidAmount, s)
	}
	var a Amount
	a.lo = i.Uint64()
	a.hi = new(big.Int).Rsh(i, 64).Uint64()
	return a, nil
}

// Add returns a+b, or ErrAmountOverflow if the sum does not fit in 128 bits.
// a is unchanged on error.
func (a Amount) Add(b Amount) (Amount, error) {
	lo, carry := bits.Add64(a.lo, b.lo, 0)
	hi, carry := bits.Add64(a.hi, b.hi, carry)
	if carry != 0 {
		return Amount{}, ErrAmountOverflow
	}
	return Amount{hi: hi, lo: lo}, nil
}

// IsZero reports whether a is zero.
func (a Amount) IsZero() bool {
	return a.hi == 0 && a.lo == 0
}

// Cmp compares a and b, returning -1, 0, or +1.
func (a Amount) Cmp(b Amount) int {
	switch {
	case a.hi < b.hi:
		return -1
	case a.hi > b.hi:
		return 1
	case a.lo < b.lo:
		return -1
	case a.lo > b.lo:
		return 1
	}
	return 0
}

func (a Amount) big() *big.Int {
	i := new(big.Int).SetUint64(a.hi)
	i.Lsh(i, 64)
	return i.Or(i, new(big.Int).SetUint64(a.lo))
}

// String returns the decimal representation of a.
func (a Amount) String() string {
	if a.hi == 0 {
		return fmt.Sprintf("%d", a.lo)
	}
	return a.big().String()
}

// MarshalJSON encodes a as a decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a decimal string into a.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: amount must be a decimal string", ErrInvalidAmount)
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalText encodes a as a decimal string.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes a decimal string into a.
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
