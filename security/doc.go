// Package security builds TLS contexts for outbound clients.
//
// Strict mode verifies the server (optionally against a private CA);
// permissive mode accepts any certificate, for upstreams with self-signed
// certificates:
//
//	tlsCfg, err := security.ClientContext(&security.TLSConfig{CAFile: "/etc/ca.pem"}, true)
package security
