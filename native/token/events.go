package token

import (
	"math/big"

	gethcommon "github.com/ethereum/go-ethereum/common"

	"karvachain/core/events"
)

// Event types emitted by the token engine.
const (
	TypeTransfer = "token.transfer"
	TypeMint     = "token.mint"
	TypeBurn     = "token.burn"
)

func transferEvent(symbol string, from, to [20]byte, amount *big.Int) events.Event {
	return events.Event{
		Type: TypeTransfer,
		Attributes: map[string]string{
			"token":  symbol,
			"from":   gethcommon.BytesToAddress(from[:]).Hex(),
			"to":     gethcommon.BytesToAddress(to[:]).Hex(),
			"amount": amount.String(),
		},
	}
}

func mintEvent(symbol string, to [20]byte, amount *big.Int) events.Event {
	return events.Event{
		Type: TypeMint,
		Attributes: map[string]string{
			"token":  symbol,
			"to":     gethcommon.BytesToAddress(to[:]).Hex(),
			"amount": amount.String(),
		},
	}
}

func burnEvent(symbol string, from [20]byte, amount *big.Int) events.Event {
	return events.Event{
		Type: TypeBurn,
		Attributes: map[string]string{
			"token":  symbol,
			"from":   gethcommon.BytesToAddress(from[:]).Hex(),
			"amount": amount.String(),
		},
	}
}
