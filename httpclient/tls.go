package httpclient

import (
	"crypto/tls"

	"github.com/kbukum/plughttp/security"
)

// TLSConfig is an alias for the shared security TLS configuration.
type TLSConfig = security.TLSConfig

// tlsContext builds the transport TLS settings for cfg. A nil result means
// Go's defaults.
func tlsContext(cfg *Config) (*tls.Config, error) {
	tlsCfg, err := security.ClientContext(cfg.TLS, cfg.StrictTLS)
	if err != nil {
		return nil, newError(KindSecuritySetup, "building TLS context", err)
	}
	return tlsCfg, nil
}
