package decense

import (
	"github.com/code-payments/decense/pkg/solana"
)

// Program error codes, surfaced to the runtime as custom program errors.
const (
	ErrorInvalidInstruction solana.CustomError = iota
	ErrorInvalidNumber
	ErrorInsufficientTokenBalance
	ErrorMathError
	ErrorInvalidPDA
)

// ErrorPlatformMismatch is returned when the treasury supplied to seller
// initialization is not the one stamped on the platform record.
const ErrorPlatformMismatch solana.CustomError = 22

var errorNames = map[solana.CustomError]string{
	ErrorInvalidInstruction:       "InvalidInstruction",
	ErrorInvalidNumber:            "InvalidNumber",
	ErrorInsufficientTokenBalance: "InsufficientTokenBalance",
	ErrorMathError:                "MathError",
	ErrorInvalidPDA:               "InvalidPDA",
	ErrorPlatformMismatch:         "PlatformMismatch",
}

// GetErrorName returns a readable name for a program error code, or an empty
// string if the code isn't one of ours.
func GetErrorName(code solana.CustomError) string {
	return errorNames[code]
}
