package fees

import "math/big"

// DefaultTradeFeeBps is the marketplace trade fee applied when no explicit
// rate is configured: 150 basis points, i.e. 1.5% of gross.
const DefaultTradeFeeBps uint32 = 150

// MaxBps is the denominator of the basis-point scale.
const MaxBps uint32 = 10_000

// ApplyInput captures the context required to evaluate the fee obligation for
// a trade.
type ApplyInput struct {
	Gross  *big.Int
	FeeBps uint32
}

// ApplyResult summarises the computed fee and the resulting net amount due to
// the counterparty after the fee is carved out of gross.
type ApplyResult struct {
	Fee *big.Int
	Net *big.Int
}

// Apply computes fee = floor(gross * bps / 10000) and net = gross - fee. The
// caller is responsible for routing the fee to the collecting account. A nil
// or non-positive gross yields zero fee and zero net.
func Apply(input ApplyInput) ApplyResult {
	result := ApplyResult{Fee: big.NewInt(0)}
	if input.Gross != nil {
		result.Net = new(big.Int).Set(input.Gross)
	} else {
		result.Net = big.NewInt(0)
	}
	if result.Net.Sign() <= 0 {
		result.Net = big.NewInt(0)
		return result
	}
	if input.FeeBps == 0 {
		return result
	}
	fee := new(big.Int).Mul(result.Net, big.NewInt(int64(input.FeeBps)))
	fee = fee.Div(fee, big.NewInt(int64(MaxBps)))
	if fee.Sign() <= 0 {
		return result
	}
	if fee.Cmp(result.Net) >= 0 {
		result.Fee = new(big.Int).Set(result.Net)
		result.Net = big.NewInt(0)
		return result
	}
	result.Fee = fee
	result.Net = new(big.Int).Sub(result.Net, fee)
	return result
}
