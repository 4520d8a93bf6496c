package solana

import (
	"fmt"

	"github.com/pkg/errors"
)

// TransactionErrorKey identifies a failure that rejects a transaction as a whole.
//
// Source: https://github.com/solana-labs/solana/blob/fc2bf2d3b669d1c6655ae48b0a05f470938f3676/sdk/src/transaction/mod.rs#L37
type TransactionErrorKey string

const (
	TransactionErrorAccountLoadedTwice         TransactionErrorKey = "AccountLoadedTwice"         // A `Pubkey` appears twice in the transaction's `account_keys`
	TransactionErrorProgramAccountNotFound     TransactionErrorKey = "ProgramAccountNotFound"     // Attempt to load a program that does not exist
	TransactionErrorInsufficientFundsForFee    TransactionErrorKey = "InsufficientFundsForFee"    // The fee payer cannot cover the transaction fee
	TransactionErrorInvalidAccountIndex        TransactionErrorKey = "InvalidAccountIndex"        // Transaction contains an invalid account reference
	TransactionErrorSignatureFailure           TransactionErrorKey = "SignatureFailure"           // Transaction did not pass signature verification
	TransactionErrorInvalidProgramForExecution TransactionErrorKey = "InvalidProgramForExecution" // This program may not be used for executing instructions
	TransactionErrorSanitizeFailure            TransactionErrorKey = "SanitizeFailure"            // Transaction failed to sanitize account offsets
	TransactionErrorUnbalancedTransaction      TransactionErrorKey = "UnbalancedTransaction"      // Lamports were created or destroyed
	TransactionErrorAlreadyProcessed           TransactionErrorKey = "AlreadyProcessed"           // This transaction has already been processed
)

func (k TransactionErrorKey) Error() string {
	return string(k)
}

// InstructionErrorKey is a builtin error returned by a program while
// processing an instruction.
//
// Source: https://github.com/solana-labs/solana/blob/4e2754341514cd181ae3f373cc2548bd22e918b8/sdk/program/src/instruction.rs#L23
type InstructionErrorKey string

const (
	InstructionErrorGenericError                InstructionErrorKey = "GenericError"
	InstructionErrorInvalidArgument             InstructionErrorKey = "InvalidArgument"
	InstructionErrorInvalidInstructionData      InstructionErrorKey = "InvalidInstructionData"
	InstructionErrorInvalidAccountData          InstructionErrorKey = "InvalidAccountData"
	InstructionErrorAccountDataTooSmall         InstructionErrorKey = "AccountDataTooSmall"
	InstructionErrorInsufficientFunds           InstructionErrorKey = "InsufficientFunds"
	InstructionErrorIncorrectProgramID          InstructionErrorKey = "IncorrectProgramId"
	InstructionErrorMissingRequiredSignature    InstructionErrorKey = "MissingRequiredSignature"
	InstructionErrorAccountAlreadyInitialized   InstructionErrorKey = "AccountAlreadyInitialized"
	InstructionErrorUninitializedAccount        InstructionErrorKey = "UninitializedAccount"
	InstructionErrorUnbalancedInstruction       InstructionErrorKey = "UnbalancedInstruction"
	InstructionErrorModifiedProgramID           InstructionErrorKey = "ModifiedProgramId"
	InstructionErrorExternalAccountLamportSpend InstructionErrorKey = "ExternalAccountLamportSpend"
	InstructionErrorExternalAccountDataModified InstructionErrorKey = "ExternalAccountDataModified"
	InstructionErrorReadonlyLamportChange       InstructionErrorKey = "ReadonlyLamportChange"
	InstructionErrorReadonlyDataModified        InstructionErrorKey = "ReadonlyDataModified"
	InstructionErrorNotEnoughAccountKeys        InstructionErrorKey = "NotEnoughAccountKeys"
	InstructionErrorAccountDataSizeChanged      InstructionErrorKey = "AccountDataSizeChanged"
	InstructionErrorAccountNotExecutable        InstructionErrorKey = "AccountNotExecutable"
	InstructionErrorAccountAlreadyInUse         InstructionErrorKey = "AccountAlreadyInUse"
	InstructionErrorCustom                      InstructionErrorKey = "Custom"
	InstructionErrorUnsupportedProgramID        InstructionErrorKey = "UnsupportedProgramId"
	InstructionErrorCallDepth                   InstructionErrorKey = "CallDepth"
	InstructionErrorMissingAccount              InstructionErrorKey = "MissingAccount"
	InstructionErrorReentrancyNotAllowed        InstructionErrorKey = "ReentrancyNotAllowed"
	InstructionErrorMaxSeedLengthExceeded       InstructionErrorKey = "MaxSeedLengthExceeded"
	InstructionErrorInvalidSeeds                InstructionErrorKey = "InvalidSeeds"
	InstructionErrorPrivilegeEscalation         InstructionErrorKey = "PrivilegeEscalation"
)

func (k InstructionErrorKey) Error() string {
	return string(k)
}

// Builtin program errors. They are comparable, so errors.Is works through
// any pkg/errors wrapping.
var (
	ErrInvalidArgument           error = InstructionErrorInvalidArgument
	ErrInvalidInstructionData    error = InstructionErrorInvalidInstructionData
	ErrInvalidAccountData        error = InstructionErrorInvalidAccountData
	ErrAccountDataTooSmall       error = InstructionErrorAccountDataTooSmall
	ErrInsufficientFunds         error = InstructionErrorInsufficientFunds
	ErrIncorrectProgramID        error = InstructionErrorIncorrectProgramID
	ErrMissingRequiredSignature  error = InstructionErrorMissingRequiredSignature
	ErrAccountAlreadyInitialized error = InstructionErrorAccountAlreadyInitialized
	ErrUninitializedAccount      error = InstructionErrorUninitializedAccount
	ErrUnbalancedInstruction     error = InstructionErrorUnbalancedInstruction
	ErrModifiedProgramID         error = InstructionErrorModifiedProgramID
	ErrExternalLamportSpend      error = InstructionErrorExternalAccountLamportSpend
	ErrExternalDataModified      error = InstructionErrorExternalAccountDataModified
	ErrReadonlyLamportChange     error = InstructionErrorReadonlyLamportChange
	ErrReadonlyDataModified      error = InstructionErrorReadonlyDataModified
	ErrNotEnoughAccountKeys      error = InstructionErrorNotEnoughAccountKeys
	ErrAccountDataSizeChanged    error = InstructionErrorAccountDataSizeChanged
	ErrAccountAlreadyInUse       error = InstructionErrorAccountAlreadyInUse
	ErrUnsupportedProgramID      error = InstructionErrorUnsupportedProgramID
	ErrCallDepth                 error = InstructionErrorCallDepth
	ErrMissingAccount            error = InstructionErrorMissingAccount
	ErrReentrancyNotAllowed      error = InstructionErrorReentrancyNotAllowed
	ErrInvalidSeeds              error = InstructionErrorInvalidSeeds
	ErrPrivilegeEscalation       error = InstructionErrorPrivilegeEscalation
)

// CustomError is the numerical error returned by a non-system program.
type CustomError int

func (c CustomError) Error() string {
	return fmt.Sprintf("custom program error: %x", int(c))
}

// GetCustomError returns the custom program error in the chain, if any.
func GetCustomError(err error) *CustomError {
	var ce CustomError
	if errors.As(err, &ce) {
		return &ce
	}
	return nil
}

// InstructionError indicates an instruction returned an error in a transaction.
type InstructionError struct {
	Index int
	Err   error
}

func (i InstructionError) Error() string {
	return fmt.Sprintf("Error processing Instruction %d: %v", i.Index, i.Err)
}

func (i InstructionError) Unwrap() error {
	return i.Err
}

func (i InstructionError) ErrorKey() InstructionErrorKey {
	if i.Err == nil {
		return ""
	}

	if i.CustomError() != nil {
		return InstructionErrorCustom
	}

	var key InstructionErrorKey
	if errors.As(i.Err, &key) {
		return key
	}

	return InstructionErrorGenericError
}

func (i InstructionError) CustomError() *CustomError {
	return GetCustomError(i.Err)
}
