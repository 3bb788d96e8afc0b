package httpclient

import (
	"crypto/tls"
	"net/http"
)

// Engine executes HTTP exchanges. One engine is shared by all requests of
// a client and must be safe for concurrent use. Close releases pooled
// connections.
type Engine interface {
	Do(req *http.Request) (*http.Response, error)
	Close() error
}

// NewTransport clones the default transport, applies tlsCfg (nil keeps Go's
// defaults) and selects proxies per request via RequestProxy.
func NewTransport(tlsCfg *tls.Config) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = RequestProxy
	if tlsCfg != nil {
		t.TLSClientConfig = tlsCfg
	}
	return t
}

type transportEngine struct {
	client    *http.Client
	transport *http.Transport
}

// NewTransportEngine returns the default net/http engine. Timeouts are
// enforced by the Client, so the underlying http.Client has none.
func NewTransportEngine(tlsCfg *tls.Config) Engine {
	t := NewTransport(tlsCfg)
	return &transportEngine{
		client:    &http.Client{Transport: t},
		transport: t,
	}
}

func (e *transportEngine) Do(req *http.Request) (*http.Response, error) {
	return e.client.Do(req)
}

func (e *transportEngine) Close() error {
	e.transport.CloseIdleConnections()
	return nil
}
