package safe

import (
	"math/bits"

	"github.com/pkg/errors"
)

var (
	ErrOverflow     = errors.New("u64 overflow")
	ErrUnderflow    = errors.New("u64 underflow")
	ErrDivideByZero = errors.New("u64 division by zero")
)

// Add returns a+b, or ErrOverflow if the sum does not fit in a uint64.
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrOverflow
	}
	return sum, nil
}

// Sub returns a-b, or ErrUnderflow if b > a.
func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrUnderflow
	}
	return diff, nil
}

// Mul returns a*b, or ErrOverflow if the product does not fit in a uint64.
func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrOverflow
	}
	return lo, nil
}

// Div returns the truncated quotient a/b, or ErrDivideByZero.
func Div(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	return a / b, nil
}

// AbsDiff returns |a-b|. It cannot fail.
func AbsDiff(a, b uint64) uint64 {
	if a > b {
		return a - b
	}
	return b - a
}
