package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"karvachain/native/fees"
	"karvachain/native/token"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OpsAddress != ":8081" {
		t.Fatalf("unexpected default ops address %q", cfg.OpsAddress)
	}
	if cfg.SettlementToken != token.SymbolKV1 {
		t.Fatalf("unexpected default settlement token %q", cfg.SettlementToken)
	}
	if cfg.TradeFeeBps != fees.DefaultTradeFeeBps {
		t.Fatalf("unexpected default fee %d", cfg.TradeFeeBps)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected default file written: %v", err)
	}
	// A second load reads the file just written.
	again, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reflect.DeepEqual(again, cfg) {
		t.Fatalf("reload mismatch: %+v vs %+v", again, cfg)
	}
}

func TestLoadPausedModules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("PausedModules = [\"market\", \"Token\"]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(cfg.PausedModules, []string{"market", "Token"}) {
		t.Fatalf("unexpected paused modules: %v", cfg.PausedModules)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("OpsAddress = \":9000\"\nBogus = true\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadRejectsExcessiveFee(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("TradeFeeBps = 10001\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for fee above scale")
	}
}

func TestFeeTreasuryAddress(t *testing.T) {
	cfg := &Config{FeeTreasury: "0x" + strings.Repeat("ab", 20)}
	addr, err := cfg.FeeTreasuryAddress()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, b := range addr {
		if b != 0xAB {
			t.Fatalf("unexpected address byte %x", b)
		}
	}

	cfg = &Config{}
	addr, err = cfg.FeeTreasuryAddress()
	if err != nil || addr != ([20]byte{}) {
		t.Fatalf("expected zero address for empty setting, got %x err=%v", addr, err)
	}

	cfg = &Config{SettlementToken: token.SymbolKV1, FeeTreasury: "0x1234"}
	if _, err := cfg.FeeTreasuryAddress(); err == nil {
		t.Fatalf("expected error for short treasury address")
	}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation to reject short treasury address")
	}
}
