package fees

import (
	"math/big"
	"testing"
)

func TestApply(t *testing.T) {
	cases := []struct {
		name  string
		gross int64
		bps   uint32
		fee   int64
		net   int64
	}{
		{name: "default rate", gross: 1_000, bps: DefaultTradeFeeBps, fee: 15, net: 985},
		{name: "floor rounding", gross: 99, bps: DefaultTradeFeeBps, fee: 1, net: 98},
		{name: "rounds to zero", gross: 66, bps: DefaultTradeFeeBps, fee: 0, net: 66},
		{name: "zero rate", gross: 1_000, bps: 0, fee: 0, net: 1_000},
		{name: "full rate", gross: 1_000, bps: MaxBps, fee: 1_000, net: 0},
		{name: "zero gross", gross: 0, bps: DefaultTradeFeeBps, fee: 0, net: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Apply(ApplyInput{Gross: big.NewInt(tc.gross), FeeBps: tc.bps})
			if result.Fee.Cmp(big.NewInt(tc.fee)) != 0 {
				t.Fatalf("fee: expected %d, got %s", tc.fee, result.Fee)
			}
			if result.Net.Cmp(big.NewInt(tc.net)) != 0 {
				t.Fatalf("net: expected %d, got %s", tc.net, result.Net)
			}
			sum := new(big.Int).Add(result.Fee, result.Net)
			if sum.Cmp(big.NewInt(tc.gross)) != 0 {
				t.Fatalf("fee+net must equal gross, got %s", sum)
			}
		})
	}
}

func TestApplyNilGross(t *testing.T) {
	result := Apply(ApplyInput{FeeBps: DefaultTradeFeeBps})
	if result.Fee.Sign() != 0 || result.Net.Sign() != 0 {
		t.Fatalf("expected zero fee and net for nil gross, got %s / %s", result.Fee, result.Net)
	}
}
