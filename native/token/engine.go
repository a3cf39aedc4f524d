package token

import (
	"errors"
	"math/big"
	"time"

	"karvachain/core/events"
	nativecommon "karvachain/native/common"
)

const moduleName = "token"

var errNilState = errors.New("token engine: state not configured")

// Storage abstracts the subset of state manager functionality required by the
// token engine. Writes land in the manager's staging overlay; the host
// commits or discards the whole operation.
type Storage interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

// Engine keeps the fungible balances and total supply of every registered
// token kind consistent. All reads default to zero for never-written keys;
// every mutating operation validates its preconditions before staging any
// write, so a named failure leaves state untouched.
type Engine struct {
	state   Storage
	emitter events.Emitter
	auth    nativecommon.Authorizer
	pauses  nativecommon.PauseView
	nowFn   func() int64
	specs   map[string]Spec
}

// NewEngine constructs a token engine covering the supplied token kinds. When
// none are given the built-in defaults are registered.
func NewEngine(specs ...Spec) *Engine {
	if len(specs) == 0 {
		specs = DefaultSpecs()
	}
	registered := make(map[string]Spec, len(specs))
	for _, spec := range specs {
		spec.Symbol = NormalizeSymbol(spec.Symbol)
		if spec.Symbol == "" {
			continue
		}
		if spec.SupplyCap != nil {
			spec.SupplyCap = new(big.Int).Set(spec.SupplyCap)
		}
		registered[spec.Symbol] = spec
	}
	return &Engine{
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
		specs:   registered,
	}
}

// SetState configures the state backend used by the engine.
func (e *Engine) SetState(state Storage) { e.state = state }

// SetAuthorizer configures the caller authorization oracle.
func (e *Engine) SetAuthorizer(auth nativecommon.Authorizer) { e.auth = auth }

// SetPauses configures the administrative pause view.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

// SetEmitter configures the event emitter used by the engine. Passing nil
// resets it to a no-op emitter.
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

// Spec returns the registered policy for the supplied token kind.
func (e *Engine) Spec(symbol string) (Spec, bool) {
	spec, ok := e.specs[NormalizeSymbol(symbol)]
	return spec, ok
}

// BalanceOf returns the balance of the account for the supplied token kind.
// Unknown accounts hold zero.
func (e *Engine) BalanceOf(symbol string, account [20]byte) (*big.Int, error) {
	spec, err := e.spec(symbol)
	if err != nil {
		return nil, err
	}
	if e.state == nil {
		return nil, errNilState
	}
	return e.readAmount(balanceKey(spec.Symbol, account))
}

// TotalSupply returns the circulating supply of the supplied token kind.
// Missing entries default to zero.
func (e *Engine) TotalSupply(symbol string) (*big.Int, error) {
	spec, err := e.spec(symbol)
	if err != nil {
		return nil, err
	}
	if e.state == nil {
		return nil, errNilState
	}
	return e.readAmount(supplyKey(spec.Symbol))
}

// Transfer moves amount from one account to another. The caller must be
// authorized for the debited account. Total supply is unchanged.
func (e *Engine) Transfer(symbol string, from, to [20]byte, amount *big.Int) error {
	spec, err := e.spec(symbol)
	if err != nil {
		return err
	}
	if e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if from == to {
		return ErrSameAccount
	}
	if err := nativecommon.RequireAuth(e.auth, from); err != nil {
		return ErrUnauthorized
	}
	if err := e.move(spec.Symbol, from, to, amount); err != nil {
		return err
	}
	e.emitter.Emit(transferEvent(spec.Symbol, from, to, amount))
	return nil
}

// Mint credits freshly created tokens to the recipient, honouring the token
// kind's supply cap and mint interval. The caller must be authorized for the
// recipient account.
func (e *Engine) Mint(symbol string, to [20]byte, amount *big.Int) error {
	spec, err := e.spec(symbol)
	if err != nil {
		return err
	}
	if e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if err := nativecommon.RequireAuth(e.auth, to); err != nil {
		return ErrUnauthorized
	}
	now := e.nowFn()
	if spec.MintInterval > 0 {
		var last uint64
		ok, err := e.state.KVGet(lastMintKey(spec.Symbol), &last)
		if err != nil {
			return err
		}
		if ok && now-int64(last) < spec.MintInterval {
			return ErrMintTooSoon
		}
	}
	supply, err := e.readAmount(supplyKey(spec.Symbol))
	if err != nil {
		return err
	}
	newSupply := new(big.Int).Add(supply, amount)
	if spec.SupplyCap != nil && newSupply.Cmp(spec.SupplyCap) > 0 {
		return ErrSupplyCapExceeded
	}
	balance, err := e.readAmount(balanceKey(spec.Symbol, to))
	if err != nil {
		return err
	}
	if err := e.state.KVPut(supplyKey(spec.Symbol), newSupply); err != nil {
		return err
	}
	if err := e.state.KVPut(balanceKey(spec.Symbol, to), new(big.Int).Add(balance, amount)); err != nil {
		return err
	}
	if spec.MintInterval > 0 {
		stamp := uint64(0)
		if now > 0 {
			stamp = uint64(now)
		}
		if err := e.state.KVPut(lastMintKey(spec.Symbol), stamp); err != nil {
			return err
		}
	}
	e.emitter.Emit(mintEvent(spec.Symbol, to, amount))
	return nil
}

// Burn removes tokens from circulation, debiting the holder and shrinking the
// total supply. Only token kinds marked burnable accept it.
func (e *Engine) Burn(symbol string, from [20]byte, amount *big.Int) error {
	spec, err := e.spec(symbol)
	if err != nil {
		return err
	}
	if e.state == nil {
		return errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if !spec.Burnable {
		return ErrNotBurnable
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if err := nativecommon.RequireAuth(e.auth, from); err != nil {
		return ErrUnauthorized
	}
	balance, err := e.readAmount(balanceKey(spec.Symbol, from))
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	supply, err := e.readAmount(supplyKey(spec.Symbol))
	if err != nil {
		return err
	}
	if err := e.state.KVPut(balanceKey(spec.Symbol, from), new(big.Int).Sub(balance, amount)); err != nil {
		return err
	}
	if err := e.state.KVPut(supplyKey(spec.Symbol), new(big.Int).Sub(supply, amount)); err != nil {
		return err
	}
	e.emitter.Emit(burnEvent(spec.Symbol, from, amount))
	return nil
}

// Settle moves amount between two accounts without an authorization check on
// the debited side. It exists for composition by higher-level engines (the
// order book) that have already authorized the paying party for the whole
// settlement; it still refuses overdrafts.
func (e *Engine) Settle(symbol string, from, to [20]byte, amount *big.Int) error {
	spec, err := e.spec(symbol)
	if err != nil {
		return err
	}
	if e.state == nil {
		return errNilState
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if from == to {
		return ErrSameAccount
	}
	if err := e.move(spec.Symbol, from, to, amount); err != nil {
		return err
	}
	e.emitter.Emit(transferEvent(spec.Symbol, from, to, amount))
	return nil
}

func (e *Engine) move(symbol string, from, to [20]byte, amount *big.Int) error {
	fromBalance, err := e.readAmount(balanceKey(symbol, from))
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	toBalance, err := e.readAmount(balanceKey(symbol, to))
	if err != nil {
		return err
	}
	if err := e.state.KVPut(balanceKey(symbol, from), new(big.Int).Sub(fromBalance, amount)); err != nil {
		return err
	}
	return e.state.KVPut(balanceKey(symbol, to), new(big.Int).Add(toBalance, amount))
}

func (e *Engine) spec(symbol string) (Spec, error) {
	spec, ok := e.specs[NormalizeSymbol(symbol)]
	if !ok {
		return Spec{}, ErrUnknownToken
	}
	return spec, nil
}

func (e *Engine) readAmount(key []byte) (*big.Int, error) {
	amount := new(big.Int)
	ok, err := e.state.KVGet(key, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return amount, nil
}
