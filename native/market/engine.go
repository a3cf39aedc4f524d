package market

import (
	"encoding/binary"
	"errors"
	"math/big"
	"strings"
	"time"

	"karvachain/core/events"
	nativecommon "karvachain/native/common"
	"karvachain/native/fees"
	"karvachain/native/token"
)

const moduleName = "market"

var (
	errNilState  = errors.New("market engine: state not configured")
	errNilLedger = errors.New("market engine: settlement ledger not configured")
)

var (
	orderPrefix = []byte("market/order/")
	sequenceKey = []byte("market/seq")
)

func orderKey(id uint64) []byte {
	key := make([]byte, len(orderPrefix)+8)
	copy(key, orderPrefix)
	binary.BigEndian.PutUint64(key[len(orderPrefix):], id)
	return key
}

// Storage abstracts the subset of state manager functionality required by the
// order book.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
	KVDelete(key []byte) error
}

// SettlementLedger is the balance engine a match settles against. The order
// book owns no balances itself; every debit and credit goes through these
// operations so the ledger's invariants hold independently.
type SettlementLedger interface {
	BalanceOf(symbol string, account [20]byte) (*big.Int, error)
	Settle(symbol string, from, to [20]byte, amount *big.Int) error
}

// Engine maintains the marketplace order book. Orders are direct-addressed by
// id; matching is caller-driven with partial fills, no price-time priority.
type Engine struct {
	state           Storage
	ledger          SettlementLedger
	emitter         events.Emitter
	auth            nativecommon.Authorizer
	pauses          nativecommon.PauseView
	nowFn           func() int64
	settlementToken string
	feeBps          uint32
	feeTreasury     [20]byte
}

// NewEngine constructs an order book settling on the supplied ledger. The
// settlement token defaults to KV1 and the trade fee to 150 bps.
func NewEngine(ledger SettlementLedger) *Engine {
	return &Engine{
		ledger:          ledger,
		emitter:         events.NoopEmitter{},
		nowFn:           func() int64 { return time.Now().Unix() },
		settlementToken: token.SymbolKV1,
		feeBps:          fees.DefaultTradeFeeBps,
	}
}

// SetState configures the state backend used by the order book.
func (e *Engine) SetState(state Storage) { e.state = state }

// SetAuthorizer configures the caller authorization oracle.
func (e *Engine) SetAuthorizer(auth nativecommon.Authorizer) { e.auth = auth }

// SetPauses configures the administrative pause view.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

// SetEmitter configures the event emitter. Passing nil resets it to no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source, primarily used in tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// SetSettlementToken overrides the token kind trades settle in.
func (e *Engine) SetSettlementToken(symbol string) {
	normalized := token.NormalizeSymbol(symbol)
	if normalized != "" {
		e.settlementToken = normalized
	}
}

// SetFeeBps overrides the trade fee rate. Values above the bps scale are
// clamped to take the whole gross as fee rather than overdraw.
func (e *Engine) SetFeeBps(bps uint32) {
	if bps > fees.MaxBps {
		bps = fees.MaxBps
	}
	e.feeBps = bps
}

// SetFeeTreasury configures the account that collects trade fees.
func (e *Engine) SetFeeTreasury(addr [20]byte) { e.feeTreasury = addr }

// CreateOrder stores a new sell order and returns its id. The caller must be
// authorized for the seller account.
func (e *Engine) CreateOrder(seller [20]byte, tokenKind string, quantity, price *big.Int) (uint64, error) {
	if e.state == nil {
		return 0, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return 0, err
	}
	if quantity == nil || quantity.Sign() <= 0 {
		return 0, ErrInvalidQuantity
	}
	if price == nil || price.Sign() <= 0 {
		return 0, ErrInvalidPrice
	}
	if err := nativecommon.RequireAuth(e.auth, seller); err != nil {
		return 0, ErrUnauthorized
	}
	id, err := e.nextID()
	if err != nil {
		return 0, err
	}
	order := &Order{
		ID:        id,
		Seller:    seller,
		TokenKind: strings.ToUpper(strings.TrimSpace(tokenKind)),
		Remaining: new(big.Int).Set(quantity),
		UnitPrice: new(big.Int).Set(price),
		CreatedAt: e.nowFn(),
	}
	if err := e.state.KVPut(orderKey(id), toStored(order)); err != nil {
		return 0, err
	}
	e.emitter.Emit(orderCreatedEvent(order))
	return id, nil
}

// MatchOrder fills fillQuantity units of the order for the buyer. Gross value
// is debited from the buyer in the settlement token; the seller receives
// gross minus the trade fee and the fee treasury collects the rest. A full
// fill removes the order. A buyer cannot fill their own order. The settlement
// and the quantity update stage together, so a failure anywhere leaves no
// partial state change.
func (e *Engine) MatchOrder(id uint64, buyer [20]byte, fillQuantity *big.Int) error {
	if e.state == nil {
		return errNilState
	}
	if e.ledger == nil {
		return errNilLedger
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if err := nativecommon.RequireAuth(e.auth, buyer); err != nil {
		return ErrUnauthorized
	}
	order, ok, err := e.load(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if buyer == order.Seller {
		return ErrSelfTrade
	}
	if fillQuantity == nil || fillQuantity.Sign() <= 0 {
		return ErrInvalidQuantity
	}
	if fillQuantity.Cmp(order.Remaining) > 0 {
		return ErrInsufficientQuantity
	}
	gross := new(big.Int).Mul(fillQuantity, order.UnitPrice)
	applied := fees.Apply(fees.ApplyInput{Gross: gross, FeeBps: e.feeBps})
	buyerBalance, err := e.ledger.BalanceOf(e.settlementToken, buyer)
	if err != nil {
		return err
	}
	if buyerBalance.Cmp(gross) < 0 {
		return token.ErrInsufficientBalance
	}
	if applied.Net.Sign() > 0 {
		if err := e.ledger.Settle(e.settlementToken, buyer, order.Seller, applied.Net); err != nil {
			return err
		}
	}
	// A buyer who is the fee treasury keeps the fee in place.
	if applied.Fee.Sign() > 0 && buyer != e.feeTreasury {
		if err := e.ledger.Settle(e.settlementToken, buyer, e.feeTreasury, applied.Fee); err != nil {
			return err
		}
	}
	remaining := new(big.Int).Sub(order.Remaining, fillQuantity)
	if remaining.Sign() == 0 {
		if err := e.state.KVDelete(orderKey(id)); err != nil {
			return err
		}
	} else {
		order.Remaining = remaining
		if err := e.state.KVPut(orderKey(id), toStored(order)); err != nil {
			return err
		}
	}
	e.emitter.Emit(orderMatchedEvent(id, buyer, order.Seller, fillQuantity))
	e.emitter.Emit(feeCollectedEvent(applied.Fee, e.feeTreasury))
	return nil
}

// GetOrder returns a snapshot of the order. The boolean reports existence; a
// filled or never-created id yields false without an error.
func (e *Engine) GetOrder(id uint64) (*Order, bool, error) {
	if e.state == nil {
		return nil, false, errNilState
	}
	order, ok, err := e.load(id)
	if err != nil || !ok {
		return nil, false, err
	}
	return order.Copy(), true, nil
}

func (e *Engine) nextID() (uint64, error) {
	var current uint64
	if _, err := e.state.KVGet(sequenceKey, &current); err != nil {
		return 0, err
	}
	next := current + 1
	if err := e.state.KVPut(sequenceKey, next); err != nil {
		return 0, err
	}
	return next, nil
}

func (e *Engine) load(id uint64) (*Order, bool, error) {
	var stored storedOrder
	ok, err := e.state.KVGet(orderKey(id), &stored)
	if err != nil || !ok {
		return nil, false, err
	}
	return fromStored(id, &stored), true, nil
}
