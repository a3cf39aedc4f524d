package market

import (
	"math/big"
	"strconv"

	gethcommon "github.com/ethereum/go-ethereum/common"

	"karvachain/core/events"
)

// Event types emitted by the order book.
const (
	TypeOrderCreated = "market.order_created"
	TypeOrderMatched = "market.order_matched"
	TypeFeeCollected = "market.fee_collected"
)

func orderCreatedEvent(o *Order) events.Event {
	return events.Event{
		Type: TypeOrderCreated,
		Attributes: map[string]string{
			"id":       strconv.FormatUint(o.ID, 10),
			"seller":   gethcommon.BytesToAddress(o.Seller[:]).Hex(),
			"token":    o.TokenKind,
			"quantity": o.Remaining.String(),
			"price":    o.UnitPrice.String(),
		},
	}
}

func orderMatchedEvent(id uint64, buyer, seller [20]byte, quantity *big.Int) events.Event {
	return events.Event{
		Type: TypeOrderMatched,
		Attributes: map[string]string{
			"id":       strconv.FormatUint(id, 10),
			"buyer":    gethcommon.BytesToAddress(buyer[:]).Hex(),
			"seller":   gethcommon.BytesToAddress(seller[:]).Hex(),
			"quantity": quantity.String(),
		},
	}
}

func feeCollectedEvent(fee *big.Int, collector [20]byte) events.Event {
	return events.Event{
		Type: TypeFeeCollected,
		Attributes: map[string]string{
			"amount":    fee.String(),
			"collector": gethcommon.BytesToAddress(collector[:]).Hex(),
		},
	}
}
