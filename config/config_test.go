package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.ValidatorID = "11" + strings.Repeat("00", 31)
	return cfg
}

func TestDefaultConfigFailsValidateWithoutValidatorID(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("DefaultConfig has no validator_id and should fail Validate")
	}
}

func TestValidConfigPassesValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidateRejectsBadValidatorID(t *testing.T) {
	cfg := validConfig()
	cfg.ValidatorID = "not-hex"
	if err := cfg.Validate(); err == nil {
		t.Error("a non-hex validator_id should fail Validate")
	}
}

func TestValidateRejectsPartialTLS(t *testing.T) {
	cfg := validConfig()
	cfg.TLS = &TLSConfig{Cert: "server.crt"}
	if err := cfg.Validate(); err == nil {
		t.Error("a TLS config with only Cert set should fail Validate")
	}
}

func TestLoadDoesNotValidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := Save(DefaultConfig(), path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail just because validator_id is unset: %v", err)
	}
	if cfg.ValidatorID != "" {
		t.Error("expected empty validator_id to be preserved by Load")
	}
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	original := validConfig()
	original.Peers = []string{"127.0.0.1:30304"}
	if err := Save(original, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.ValidatorID != original.ValidatorID {
		t.Errorf("ValidatorID: got %q want %q", loaded.ValidatorID, original.ValidatorID)
	}
	if len(loaded.Peers) != 1 || loaded.Peers[0] != original.Peers[0] {
		t.Errorf("Peers: got %v want %v", loaded.Peers, original.Peers)
	}
}

func TestValidatorBytesDecodesHex(t *testing.T) {
	cfg := validConfig()
	b := cfg.ValidatorBytes()
	if b[0] != 0x11 {
		t.Errorf("ValidatorBytes[0]: got %#x want 0x11", b[0])
	}
}
