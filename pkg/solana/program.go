package solana

import (
	"context"
	"crypto/ed25519"
)

// Program processes instructions addressed to its program id.
type Program interface {
	ProcessInstruction(ctx context.Context, invoker Invoker, programID ed25519.PublicKey, accounts []*AccountInfo, data []byte) error
}

// ProgramFunc adapts a plain function into a Program.
type ProgramFunc func(ctx context.Context, invoker Invoker, programID ed25519.PublicKey, accounts []*AccountInfo, data []byte) error

func (f ProgramFunc) ProcessInstruction(ctx context.Context, invoker Invoker, programID ed25519.PublicKey, accounts []*AccountInfo, data []byte) error {
	return f(ctx, invoker, programID, accounts, data)
}

// Invoker executes cross-program invocations on behalf of a running program.
//
// The accounts passed in must include every account referenced by the
// instruction. Signer privileges are only granted for accounts that signed
// the caller's invocation, or for program addresses of the caller derived
// from one of the signer seed sets.
type Invoker interface {
	Invoke(ctx context.Context, ix Instruction, accounts []*AccountInfo) error
	InvokeSigned(ctx context.Context, ix Instruction, accounts []*AccountInfo, signerSeeds ...[][]byte) error
}
