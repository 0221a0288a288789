// Package config loads and validates the sequencer's node configuration.
package config

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
)

// TLSConfig holds paths to the PEM files needed to serve RPC over TLS.
// When nil or all paths empty, the RPC server falls back to plain HTTP.
type TLSConfig struct {
	Cert string `json:"cert"` // server certificate PEM path
	Key  string `json:"key"`  // server private key PEM path
}

// Config holds all node configuration.
type Config struct {
	DataDir      string     `json:"data_dir"`
	RPCAddr      string     `json:"rpc_addr"`
	GossipAddr   string     `json:"gossip_addr"`
	Peers        []string   `json:"peers,omitempty"` // gossip peer addresses (host:port)
	MaxBlockTxs  int        `json:"max_block_txs"`    // B in the proposer's get_batch(B); default 100, must be positive
	MempoolMaxTx int        `json:"mempool_max_tx"`   // max_tx mempool capacity; default 10000, must be positive
	ValidatorID  string     `json:"validator_id"`     // hex-encoded 32-byte validator identity
	TLS          *TLSConfig `json:"tls,omitempty"`    // nil → plain HTTP
}

// DefaultConfig returns a single-node development configuration.
func DefaultConfig() *Config {
	return &Config{
		DataDir:      "./data",
		RPCAddr:      ":8545",
		GossipAddr:   ":30303",
		MaxBlockTxs:  100,
		MempoolMaxTx: 10_000,
	}
}

// Load reads a JSON config file from path over a copy of DefaultConfig, so
// unset fields keep their defaults. It does not validate: validator_id is
// commonly left out of the file and backfilled from the node's wallet
// before the caller calls Validate.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all required fields are present and well-formed.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir must not be empty")
	}
	if c.RPCAddr == "" {
		return fmt.Errorf("rpc_addr must not be empty")
	}
	if c.GossipAddr == "" {
		return fmt.Errorf("gossip_addr must not be empty")
	}
	if c.MaxBlockTxs <= 0 {
		return fmt.Errorf("max_block_txs must be positive, got %d", c.MaxBlockTxs)
	}
	if c.MempoolMaxTx <= 0 {
		return fmt.Errorf("mempool_max_tx must be positive, got %d", c.MempoolMaxTx)
	}
	b, err := hex.DecodeString(c.ValidatorID)
	if err != nil || len(b) != 32 {
		return fmt.Errorf("validator_id: must be 64-char hex (32 bytes), got %q", c.ValidatorID)
	}
	if c.TLS != nil {
		t := c.TLS
		allSet := t.Cert != "" && t.Key != ""
		allEmpty := t.Cert == "" && t.Key == ""
		if !allSet && !allEmpty {
			return fmt.Errorf("tls: both cert and key must be set or both empty")
		}
	}
	return nil
}

// ValidatorBytes decodes ValidatorID into its fixed-size form. Validate
// must have succeeded before this is called.
func (c *Config) ValidatorBytes() [32]byte {
	var id [32]byte
	b, _ := hex.DecodeString(c.ValidatorID)
	copy(id[:], b)
	return id
}

// Save writes the config to path as formatted JSON.
func Save(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
