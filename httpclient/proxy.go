package httpclient

import (
	"context"
	"net/http"
	"net/url"

	"golang.org/x/net/http/httpproxy"
)

// proxyFor returns the proxy for target, or nil for a direct connection.
// Without a NoProxy list every request goes through the proxy. With one,
// x/net/http/httpproxy rules apply, which also bypass localhost.
func proxyFor(cfg *Config, target *url.URL) (*url.URL, error) {
	if !cfg.hasProxy() {
		return nil, nil
	}
	proxyURL := &url.URL{Scheme: "http", Host: cfg.proxyAddr()}
	if cfg.NoProxy == "" {
		return proxyURL, nil
	}

	selector := (&httpproxy.Config{
		HTTPProxy:  proxyURL.String(),
		HTTPSProxy: proxyURL.String(),
		NoProxy:    cfg.NoProxy,
	}).ProxyFunc()
	p, err := selector(target)
	if err != nil {
		return nil, newError(KindURLConfiguration, "resolving proxy", err)
	}
	return p, nil
}

type proxyKey struct{}

// WithProxy attaches a proxy to ctx for RequestProxy.
func WithProxy(ctx context.Context, proxy *url.URL) context.Context {
	return context.WithValue(ctx, proxyKey{}, proxy)
}

// ProxyFromContext returns the proxy attached by WithProxy, or nil.
func ProxyFromContext(ctx context.Context) *url.URL {
	p, _ := ctx.Value(proxyKey{}).(*url.URL)
	return p
}

// RequestProxy is an http.Transport Proxy function that reads the proxy
// from the request context.
func RequestProxy(req *http.Request) (*url.URL, error) {
	return ProxyFromContext(req.Context()), nil
}
