package solana

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestInstructionError(t *testing.T) {
	e := InstructionError{Index: 2, Err: errors.Wrap(CustomError(3), "exchange failed")}
	assert.Equal(t, InstructionErrorCustom, e.ErrorKey())
	assert.NotNil(t, e.CustomError())
	assert.Equal(t, CustomError(3), *e.CustomError())
	assert.True(t, errors.Is(e, CustomError(3)))
	assert.False(t, errors.Is(e, CustomError(4)))

	e = InstructionError{Index: 0, Err: errors.Wrap(ErrInvalidAccountData, "bad record")}
	assert.Equal(t, InstructionErrorInvalidAccountData, e.ErrorKey())
	assert.Nil(t, e.CustomError())
	assert.True(t, errors.Is(e, ErrInvalidAccountData))
	assert.Equal(t, "Error processing Instruction 0: bad record: InvalidAccountData", e.Error())

	e = InstructionError{Index: 1, Err: errors.New("boom")}
	assert.Equal(t, InstructionErrorGenericError, e.ErrorKey())

	assert.Equal(t, InstructionErrorKey(""), InstructionError{}.ErrorKey())
}

func TestGetCustomError(t *testing.T) {
	assert.Nil(t, GetCustomError(nil))
	assert.Nil(t, GetCustomError(ErrInsufficientFunds))

	ce := GetCustomError(errors.Wrapf(CustomError(22), "platform %d", 1))
	assert.NotNil(t, ce)
	assert.Equal(t, CustomError(22), *ce)
	assert.Equal(t, "custom program error: 16", ce.Error())
}
