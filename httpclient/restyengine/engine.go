// Package restyengine provides an httpclient.Engine backed by go-resty.
//
// It shares the transport setup of the default engine (TLS settings and
// per-request proxy selection), so it can be swapped in without changing
// request semantics:
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: base,
//	    Engine:  restyengine.New(nil),
//	})
//
// Resty treats some verbs as payload-less and drops their bodies (always
// OPTIONS); use the default engine when such bodies matter. The engine
// installs resty's pre-request hook; replacing it through Resty() brings
// back resty's guessed Content-Type headers.
package restyengine

import (
	"context"
	"crypto/tls"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/kbukum/plughttp/httpclient"
)

// Engine executes requests through a resty client.
type Engine struct {
	client    *resty.Client
	transport *http.Transport
}

var _ httpclient.Engine = (*Engine)(nil)

// New creates an engine. tlsCfg may be nil for Go's defaults.
func New(tlsCfg *tls.Config) *Engine {
	t := httpclient.NewTransport(tlsCfg)
	client := resty.New().
		SetTransport(t).
		SetCookieJar(nil).
		SetRetryCount(0).
		SetPreRequestHook(dropGuessedContentType)
	return &Engine{client: client, transport: t}
}

// Do converts req into a resty request and returns the raw response with
// its body unread.
func (e *Engine) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	if req.Header.Get("Content-Type") == "" {
		ctx = context.WithValue(ctx, noContentTypeKey{}, true)
	}
	r := e.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		SetHeaderMultiValues(req.Header)
	if req.Body != nil && req.Body != http.NoBody {
		r.SetBody(req.Body)
	}
	resp, err := r.Execute(req.Method, req.URL.String())
	if err != nil {
		return nil, err
	}
	return resp.RawResponse, nil
}

type noContentTypeKey struct{}

// dropGuessedContentType removes the Content-Type resty derives from the
// body when the caller did not set one.
func dropGuessedContentType(_ *resty.Client, req *http.Request) error {
	if req.Context().Value(noContentTypeKey{}) != nil {
		req.Header.Del("Content-Type")
	}
	return nil
}

// Close releases idle connections.
func (e *Engine) Close() error {
	e.transport.CloseIdleConnections()
	return nil
}

// Resty exposes the underlying client, e.g. to register middleware.
func (e *Engine) Resty() *resty.Client {
	return e.client
}
