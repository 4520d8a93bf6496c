package decense

import (
	"fmt"
)

// Instruction is a decoded program instruction. Exactly one of the argument
// fields is set, matching Type. InitializePlatform carries no arguments.
type Instruction struct {
	Type InstructionType

	InitializeSeller *InitializeSellerInstructionArgs
	Exchange         *ExchangeInstructionArgs
	SendReceiveToken *SendReceiveTokenInstructionArgs
}

// DecodeInstruction parses raw instruction data. The first byte selects the
// instruction and is followed by its little endian u64 operands. Bytes past
// the final operand are ignored.
//
// An empty buffer or unknown opcode fails with ErrorInvalidInstruction, and a
// truncated operand fails with ErrorInvalidNumber.
func DecodeInstruction(data []byte) (*Instruction, error) {
	if len(data) == 0 {
		return nil, ErrorInvalidInstruction
	}

	offset := 1
	switch InstructionType(data[0]) {
	case InstructionTypeInitializePlatform:
		return &Instruction{Type: InstructionTypeInitializePlatform}, nil

	case InstructionTypeInitializeSeller:
		var args InitializeSellerInstructionArgs
		if err := getNumber(data, &args.Valuation, &offset); err != nil {
			return nil, err
		}
		if err := getNumber(data, &args.Supply, &offset); err != nil {
			return nil, err
		}
		return &Instruction{Type: InstructionTypeInitializeSeller, InitializeSeller: &args}, nil

	case InstructionTypeExchange:
		var args ExchangeInstructionArgs
		if err := getNumber(data, &args.AskedPrice, &offset); err != nil {
			return nil, err
		}
		if err := getNumber(data, &args.Quantity, &offset); err != nil {
			return nil, err
		}
		return &Instruction{Type: InstructionTypeExchange, Exchange: &args}, nil

	case InstructionTypeSendReceiveToken:
		var args SendReceiveTokenInstructionArgs
		var action uint64
		if err := getNumber(data, &action, &offset); err != nil {
			return nil, err
		}
		if err := getNumber(data, &args.Amount, &offset); err != nil {
			return nil, err
		}
		args.Action = TokenAction(action)
		return &Instruction{Type: InstructionTypeSendReceiveToken, SendReceiveToken: &args}, nil

	default:
		return nil, ErrorInvalidInstruction
	}
}

func (i *Instruction) String() string {
	switch i.Type {
	case InstructionTypeInitializeSeller:
		return fmt.Sprintf("InitializeSeller{valuation=%d,supply=%d}", i.InitializeSeller.Valuation, i.InitializeSeller.Supply)
	case InstructionTypeExchange:
		return fmt.Sprintf("Exchange{asked_price=%d,quantity=%d}", i.Exchange.AskedPrice, i.Exchange.Quantity)
	case InstructionTypeSendReceiveToken:
		return fmt.Sprintf("SendReceiveToken{action=%s,amount=%d}", i.SendReceiveToken.Action, i.SendReceiveToken.Amount)
	}
	return i.Type.String()
}
