package restyengine

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/plughttp/httpclient"
	"github.com/kbukum/plughttp/logger"
)

func newClient(t *testing.T, cfg httpclient.Config) *httpclient.Client {
	t.Helper()
	cfg.Engine = New(nil)
	cfg.Logger = logger.Nop()
	c, err := httpclient.New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestEngine_GetWithOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/items" || r.URL.Query().Get("limit") != "5" {
			t.Errorf("unexpected request %s", r.URL)
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "u" || pass != "p" {
			t.Errorf("missing basic auth")
		}
		if ua := r.Header.Get("User-Agent"); ua != httpclient.DefaultUserAgent {
			t.Errorf("User-Agent = %q", ua)
		}
		_ = json.NewEncoder(w).Encode(map[string]int{"count": 5})
	}))
	defer srv.Close()

	c := newClient(t, httpclient.Config{BaseURL: srv.URL + "/v1", Username: "u", Password: "p"})
	got, err := httpclient.Get[map[string]int](context.Background(), c, "/items",
		httpclient.NewOptions().Set("limit", "5").Set(httpclient.HeaderAccept, httpclient.ContentTypeJSON))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got["count"] != 5 {
		t.Errorf("count = %d", got["count"])
	}
}

func TestEngine_PostBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if string(body) != `{"amount":10}` {
			t.Errorf("body = %q", body)
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := newClient(t, httpclient.Config{BaseURL: srv.URL})
	got, err := httpclient.Post[map[string]bool](context.Background(), c, "/pay", httpclient.String(`{"amount":10}`), nil)
	if err != nil {
		t.Fatalf("Post: %v", err)
	}
	if !got["ok"] {
		t.Errorf("unexpected response %v", got)
	}
}

func TestEngine_ContentTypeOnlyFromOptions(t *testing.T) {
	var got []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Get("Content-Type"))
	}))
	defer srv.Close()

	c := newClient(t, httpclient.Config{BaseURL: srv.URL})
	body := httpclient.String(`{"a":1}`)
	if _, err := httpclient.Post[map[string]any](context.Background(), c, "/", body, nil); err != nil && !httpclient.IsDeserialization(err) {
		t.Fatalf("Post without option: %v", err)
	}
	opts := httpclient.NewOptions().Set(httpclient.HeaderContentType, httpclient.ContentTypeXML)
	if _, err := httpclient.Post[map[string]any](context.Background(), c, "/", body, opts); err != nil && !httpclient.IsDeserialization(err) {
		t.Fatalf("Post with option: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("server saw %d requests", len(got))
	}
	if got[0] != "" {
		t.Errorf("Content-Type without option = %q, want none", got[0])
	}
	if got[1] != httpclient.ContentTypeXML {
		t.Errorf("Content-Type with option = %q", got[1])
	}
}

func TestEngine_StatusMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))
	defer srv.Close()

	c := newClient(t, httpclient.Config{BaseURL: srv.URL})
	if _, err := httpclient.Get[any](context.Background(), c, "/secret", nil); !httpclient.IsUnauthorized(err) {
		t.Errorf("expected unauthorized, got %v", err)
	}
	_, err := httpclient.Get[any](context.Background(), c, "/nope", nil)
	if !httpclient.IsInvalidRequest(err) {
		t.Fatalf("expected invalid request, got %v", err)
	}
	if resp := httpclient.ResponseOf(err); resp == nil || string(resp.Body) != "missing" {
		t.Errorf("unexpected response on error: %+v", resp)
	}
}

func TestEngine_Proxy(t *testing.T) {
	var proxied string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		proxied = r.URL.String()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer proxy.Close()

	host, port := splitHostPort(t, proxy.Listener.Addr().String())
	c := newClient(t, httpclient.Config{ProxyHost: host, ProxyPort: port})
	if err := c.Do(context.Background(), httpclient.RequestSpec{Verb: httpclient.VerbGet, URI: "http://upstream.invalid/x"}, nil); err != nil {
		t.Fatalf("Do: %v", err)
	}
	if proxied != "http://upstream.invalid/x" {
		t.Errorf("proxy saw %q", proxied)
	}
}
