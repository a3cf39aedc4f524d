package token

import (
	"math/big"
	"strings"
)

// Built-in token kinds.
const (
	SymbolKV1   = "KV1"
	SymbolSUDHI = "SUDHI"
	SymbolKARVA = "KARVA"
)

// Spec describes the minting policy of one token kind. A nil SupplyCap means
// the supply is unbounded; a zero MintInterval disables time gating.
type Spec struct {
	Symbol       string
	Decimals     uint8
	SupplyCap    *big.Int
	MintInterval int64 // seconds between mints
	Burnable     bool
}

// DefaultSpecs returns the three token kinds the platform ships with: the
// capped, interval-gated KV1 utility token, the uncapped SUDHI reward token,
// and the hard-capped KARVA governance token.
func DefaultSpecs() []Spec {
	return []Spec{
		{
			Symbol:       SymbolKV1,
			Decimals:     8,
			SupplyCap:    big.NewInt(1_000_000_000),
			MintInterval: 3600,
			Burnable:     true,
		},
		{
			Symbol:       SymbolSUDHI,
			Decimals:     8,
			MintInterval: 3600,
		},
		{
			Symbol:    SymbolKARVA,
			Decimals:  8,
			SupplyCap: big.NewInt(100_000_000),
		},
	}
}

// NormalizeSymbol canonicalises token symbols for consistent lookups.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
