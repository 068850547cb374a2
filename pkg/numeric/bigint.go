package numeric

import (
	"errors"
	"fmt"
	"math/big"
)

// BigInt is a big.Int that tolerates the two encodings ledger nodes use for
// large integers: a bare JSON number or a decimal string. It always marshals
// back as a decimal string so amounts never pass through a binary float.
type BigInt struct {
	big.Int
}

// New returns a BigInt holding x.
func New(x int64) *BigInt {
	b := new(BigInt)
	b.SetInt64(x)
	return b
}

// FromBig copies v into a fresh BigInt. A nil v yields zero.
func FromBig(v *big.Int) *BigInt {
	b := new(BigInt)
	if v != nil {
		b.Set(v)
	}
	return b
}

// Big returns a copy of the value as a plain *big.Int.
func (b *BigInt) Big() *big.Int {
	if b == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(&b.Int)
}

func (b *BigInt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		b.SetInt64(0)
		return nil
	}
	if _, ok := b.SetString(s, 10); !ok {
		return fmt.Errorf("numeric: %q is not a base-10 integer", s)
	}
	return nil
}

func (b BigInt) MarshalJSON() ([]byte, error) {
	return []byte(`"` + b.String() + `"`), nil
}

// Uint64 converts to uint64, rejecting negatives and overflow.
func (b *BigInt) Uint64() (uint64, error) {
	if b.Sign() < 0 || !b.IsUint64() {
		return 0, errors.New("numeric: value does not fit in uint64")
	}
	return b.Int.Uint64(), nil
}

// Int64 converts to int64, rejecting overflow.
func (b *BigInt) Int64() (int64, error) {
	if !b.IsInt64() {
		return 0, errors.New("numeric: value does not fit in int64")
	}
	return b.Int.Int64(), nil
}
