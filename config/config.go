package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"karvachain/native/fees"
	"karvachain/native/token"
)

// Config carries the daemon settings: where state lives, how the ops HTTP
// surface listens, and the marketplace settlement parameters.
type Config struct {
	OpsAddress      string `toml:"OpsAddress"`
	DataDir         string `toml:"DataDir"`
	NetworkName     string `toml:"NetworkName"`
	SettlementToken string `toml:"SettlementToken"`
	TradeFeeBps     uint32   `toml:"TradeFeeBps"`
	FeeTreasury     string   `toml:"FeeTreasury"` // hex, 20 bytes
	PausedModules   []string `toml:"PausedModules"`
}

// Load loads the configuration from the given path, creating a default file
// when none exists.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, err
	}
	for _, undecoded := range meta.Undecoded() {
		return nil, fmt.Errorf("config file %s contains unknown field %s", path, undecoded.String())
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if strings.TrimSpace(c.OpsAddress) == "" {
		c.OpsAddress = ":8081"
	}
	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = "./karva-data"
	}
	if strings.TrimSpace(c.NetworkName) == "" {
		c.NetworkName = "karva-local"
	}
	if strings.TrimSpace(c.SettlementToken) == "" {
		c.SettlementToken = token.SymbolKV1
	}
	if c.TradeFeeBps == 0 {
		c.TradeFeeBps = fees.DefaultTradeFeeBps
	}
}

// Validate rejects configurations the engines cannot run with.
func (c *Config) Validate() error {
	if c.TradeFeeBps > fees.MaxBps {
		return fmt.Errorf("config: TradeFeeBps %d exceeds %d", c.TradeFeeBps, fees.MaxBps)
	}
	if token.NormalizeSymbol(c.SettlementToken) == "" {
		return fmt.Errorf("config: SettlementToken must not be empty")
	}
	if strings.TrimSpace(c.FeeTreasury) != "" {
		if _, err := c.FeeTreasuryAddress(); err != nil {
			return err
		}
	}
	return nil
}

// FeeTreasuryAddress decodes the configured fee treasury account. An empty
// setting yields the zero address.
func (c *Config) FeeTreasuryAddress() ([20]byte, error) {
	var addr [20]byte
	trimmed := strings.TrimPrefix(strings.TrimSpace(c.FeeTreasury), "0x")
	if trimmed == "" {
		return addr, nil
	}
	decoded, err := hex.DecodeString(trimmed)
	if err != nil {
		return addr, fmt.Errorf("config: invalid FeeTreasury: %w", err)
	}
	if len(decoded) != len(addr) {
		return addr, fmt.Errorf("config: FeeTreasury must be %d bytes, got %d", len(addr), len(decoded))
	}
	copy(addr[:], decoded)
	return addr, nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
