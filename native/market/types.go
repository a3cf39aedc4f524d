package market

import "math/big"

// Order is a standing offer to sell a quantity of a token kind at a unit
// price. Remaining shrinks with every match; the order record is removed the
// moment it reaches zero.
type Order struct {
	ID        uint64
	Seller    [20]byte
	TokenKind string
	Remaining *big.Int
	UnitPrice *big.Int
	CreatedAt int64
}

// Copy returns a deep copy to avoid callers mutating shared pointers.
func (o *Order) Copy() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	if o.Remaining != nil {
		clone.Remaining = new(big.Int).Set(o.Remaining)
	}
	if o.UnitPrice != nil {
		clone.UnitPrice = new(big.Int).Set(o.UnitPrice)
	}
	return &clone
}

type storedOrder struct {
	Seller    [20]byte
	TokenKind string
	Remaining *big.Int
	UnitPrice *big.Int
	CreatedAt uint64
}

func toStored(o *Order) storedOrder {
	stored := storedOrder{
		Seller:    o.Seller,
		TokenKind: o.TokenKind,
		Remaining: o.Remaining,
		UnitPrice: o.UnitPrice,
	}
	if stored.Remaining == nil {
		stored.Remaining = big.NewInt(0)
	}
	if stored.UnitPrice == nil {
		stored.UnitPrice = big.NewInt(0)
	}
	if o.CreatedAt > 0 {
		stored.CreatedAt = uint64(o.CreatedAt)
	}
	return stored
}

func fromStored(id uint64, stored *storedOrder) *Order {
	order := &Order{
		ID:        id,
		Seller:    stored.Seller,
		TokenKind: stored.TokenKind,
		Remaining: stored.Remaining,
		UnitPrice: stored.UnitPrice,
		CreatedAt: int64(stored.CreatedAt),
	}
	if order.Remaining == nil {
		order.Remaining = big.NewInt(0)
	}
	if order.UnitPrice == nil {
		order.UnitPrice = big.NewInt(0)
	}
	return order
}
