package config

import "crypto/tls"

// LoadTLSConfig builds a *tls.Config for serving RPC from the PEM paths in
// cfg. If cfg is nil or both paths are empty it returns (nil, nil), meaning
// the caller should fall back to plain HTTP.
func LoadTLSConfig(cfg *TLSConfig) (*tls.Config, error) {
	if cfg == nil || (cfg.Cert == "" && cfg.Key == "") {
		return nil, nil
	}
	cert, err := tls.LoadX509KeyPair(cfg.Cert, cfg.Key)
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS13,
	}, nil
}
