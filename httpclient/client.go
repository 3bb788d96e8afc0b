package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/plughttp/codec"
	"github.com/kbukum/plughttp/logger"
	"github.com/kbukum/plughttp/observability"
)

const spanName = "httpclient.issue"

// Client issues requests against a configured base URL. It is safe for
// concurrent use; one engine and one codec are shared by all calls.
type Client struct {
	cfg     Config
	engine  Engine
	codec   codec.Codec
	log     *logger.Logger
	metrics *observability.Metrics

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// New validates cfg, builds the TLS context and creates the engine.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := cfg.Logger
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	log = log.WithComponent("httpclient").WithFields(logger.Fields("client", cfg.Name))

	tlsCfg, err := tlsContext(&cfg)
	if err != nil {
		return nil, err
	}
	if !cfg.StrictTLS {
		log.Warn("TLS certificate verification is disabled")
	}

	engine := cfg.Engine
	if engine == nil {
		engine = NewTransportEngine(tlsCfg)
	}
	cd := cfg.Codec
	if cd == nil {
		cd = codec.JSON()
	}

	metrics, err := observability.NewMetrics(observability.Meter(observability.InstrumentationName))
	if err != nil {
		log.Warn("request metrics disabled", logger.Fields(logger.FieldError, err.Error()))
	}

	cfg.Logger, cfg.Engine, cfg.Codec = nil, nil, nil
	return &Client{
		cfg:     cfg,
		engine:  engine,
		codec:   cd,
		log:     log,
		metrics: metrics,
	}, nil
}

// Config returns a copy of the client configuration after defaults.
func (c *Client) Config() Config {
	return c.cfg
}

// Codec returns the client's payload codec.
func (c *Client) Codec() codec.Codec {
	return c.codec
}

// Do issues spec and decodes the response body into out, which must be a
// pointer. A nil out discards the body. A *Response out receives the raw
// status, headers and body without going through the codec.
func (c *Client) Do(ctx context.Context, spec RequestSpec, out any) error {
	req, err := Prepare(&c.cfg, spec)
	if err != nil {
		return err
	}
	return c.ExecuteAndWait(ctx, req, c.cfg.Timeout, out)
}

// ExecuteAndWait submits req to the engine and blocks until a response
// arrives or timeout elapses. A non-positive timeout uses the configured one.
func (c *Client) ExecuteAndWait(ctx context.Context, req *PreparedRequest, timeout time.Duration, out any) error {
	if c.closed.Load() {
		return newError(KindTransport, "client closed", ErrClientClosed)
	}
	if timeout <= 0 {
		timeout = c.cfg.Timeout
	}

	start := time.Now()
	ctx, span := observability.StartClientSpan(ctx, spanName, req.Method, req.URL)
	if c.metrics != nil {
		c.metrics.RecordRequestStart(ctx)
	}

	status, err := c.execute(ctx, req, timeout, out)
	elapsed := time.Since(start)

	observability.EndSpan(span, status, err)
	if c.metrics != nil {
		c.metrics.RecordRequestEnd(ctx, c.cfg.Name, req.Method, status, elapsed)
		if err != nil {
			c.metrics.RecordError(ctx, c.cfg.Name, string(KindOf(err)))
		}
	}

	fields := logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldURL, req.URL,
		logger.FieldStatus, status,
	)
	if err != nil {
		fields["kind"] = string(KindOf(err))
	}
	c.log.Debug("request completed", logger.MergeWithDuration(fields, elapsed))
	return err
}

func (c *Client) execute(ctx context.Context, req *PreparedRequest, timeout time.Duration, out any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := req.HTTPRequest(ctx)
	if err != nil {
		return 0, err
	}
	resp, err := c.roundTrip(ctx, httpReq)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		body, readErr := io.ReadAll(resp.Body)
		statusErr := newStatusError(&Response{
			StatusCode: resp.StatusCode,
			Headers:    resp.Header,
			Body:       body,
		})
		if readErr != nil {
			// Body is truncated; keep the status kind and expose the cause.
			statusErr.Err = classifyContextErr(ctx, readErr)
		}
		return resp.StatusCode, statusErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if raw, ok := out.(*Response); ok {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, classifyContextErr(ctx, err)
		}
		*raw = Response{StatusCode: resp.StatusCode, Headers: resp.Header, Body: body}
		return resp.StatusCode, nil
	}
	if err := c.codec.Decode(resp.Body, out); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return resp.StatusCode, newError(KindTimeout, "reading response body", err)
		}
		return resp.StatusCode, newError(KindDeserialization, "decoding response body", err)
	}
	return resp.StatusCode, nil
}

type roundTripResult struct {
	resp *http.Response
	err  error
}

// roundTrip runs the engine on its own goroutine so that engines which
// ignore ctx are still bounded by it.
func (c *Client) roundTrip(ctx context.Context, req *http.Request) (*http.Response, error) {
	done := make(chan roundTripResult, 1)
	go func() {
		resp, err := c.engine.Do(req)
		done <- roundTripResult{resp: resp, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, classifyContextErr(ctx, r.err)
		}
		if r.resp == nil {
			return nil, newError(KindTransport, "engine returned no response", nil)
		}
		return r.resp, nil
	case <-ctx.Done():
		go drainLate(done)
		return nil, classifyContextErr(ctx, ctx.Err())
	}
}

func classifyContextErr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return newError(KindTimeout, "no response before timeout", err)
	}
	return newError(KindTransport, "request failed", err)
}

// drainLate closes the body of a response that arrives after the caller
// gave up on it.
func drainLate(done <-chan roundTripResult) {
	if r := <-done; r.resp != nil && r.resp.Body != nil {
		_ = r.resp.Body.Close()
	}
}

// Close releases the engine. It is safe to call more than once; later
// requests fail with ErrClientClosed.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		c.closeErr = c.engine.Close()
	})
	return c.closeErr
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	return c.closed.Load()
}
