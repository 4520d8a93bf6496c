package decense

import "fmt"

type InstructionType uint8

const (
	InstructionTypeInitializePlatform InstructionType = iota
	InstructionTypeInitializeSeller
	InstructionTypeExchange
	InstructionTypeSendReceiveToken
)

func (t InstructionType) String() string {
	switch t {
	case InstructionTypeInitializePlatform:
		return "InitializePlatform"
	case InstructionTypeInitializeSeller:
		return "InitializeSeller"
	case InstructionTypeExchange:
		return "Exchange"
	case InstructionTypeSendReceiveToken:
		return "SendReceiveToken"
	}
	return fmt.Sprintf("InstructionType(%d)", uint8(t))
}

func putInstructionType(dst []byte, v InstructionType, offset *int) {
	dst[*offset] = uint8(v)
	*offset += 1
}

// TokenAction selects the direction of a SendReceiveToken transfer.
type TokenAction uint64

const (
	// Trader tokens move into the seller's vault.
	TokenActionDeposit TokenAction = iota
	// Vault tokens move out to the trader.
	TokenActionWithdraw
)

func (a TokenAction) IsValid() bool {
	return a == TokenActionDeposit || a == TokenActionWithdraw
}

func (a TokenAction) String() string {
	switch a {
	case TokenActionDeposit:
		return "deposit"
	case TokenActionWithdraw:
		return "withdraw"
	}
	return fmt.Sprintf("TokenAction(%d)", uint64(a))
}
