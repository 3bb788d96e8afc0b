package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/plughttp/httpclient"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestCall_GetWithOptionsAndExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/accounts" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.URL.Query().Get("status"); got != "open" {
			t.Errorf("status query = %q", got)
		}
		if r.URL.Query().Has("Accept") {
			t.Error("Accept must not be sent as a query parameter")
		}
		_, _ = w.Write([]byte(`[{"id":"a1"},{"id":"a2"}]`))
	}))
	defer srv.Close()

	out, _, err := runCLI(t, "", "call", "get", "/accounts",
		"--base-url", srv.URL+"/v1",
		"-o", "Accept=application/json",
		"-o", "status=open",
		"--extract", "1.id",
		"--no-color")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if out != "a2\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestCall_PostBodyAndBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "svc" || pass != "secret" {
			t.Errorf("basic auth = %q %q %v", user, pass, ok)
		}
		body, _ := io.ReadAll(r.Body)
		if r.Method != http.MethodPost || string(body) != `{"name":"x"}` {
			t.Errorf("unexpected request %s %q", r.Method, body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	out, _, err := runCLI(t, "", "call", "POST", srv.URL+"/accounts",
		"-d", `{"name":"x"}`, "-u", "svc", "-p", "secret", "--raw", "--no-color")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if out != "{\"ok\":true}\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestCall_BodySources(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		got = string(b)
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "body.json")
	if err := os.WriteFile(path, []byte(`{"from":"file"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, "", "call", "PUT", srv.URL, "-d", "@"+path); err != nil {
		t.Fatalf("file body: %v", err)
	}
	if got != `{"from":"file"}` {
		t.Errorf("file body = %q", got)
	}

	if _, _, err := runCLI(t, `{"from":"stdin"}`, "call", "PUT", srv.URL, "-d", "-"); err != nil {
		t.Fatalf("stdin body: %v", err)
	}
	if got != `{"from":"stdin"}` {
		t.Errorf("stdin body = %q", got)
	}
}

func TestCall_Include(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Trace", "abc")
		_, _ = w.Write([]byte("plain text"))
	}))
	defer srv.Close()

	out, _, err := runCLI(t, "", "call", "GET", srv.URL, "-i", "--no-color")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if !strings.HasPrefix(out, "HTTP 200 OK\n") {
		t.Errorf("missing status line in %q", out)
	}
	if !strings.Contains(out, "X-Trace: abc\n") || !strings.HasSuffix(out, "\nplain text\n") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestCall_StatusErrorPrintsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"nope"}`))
	}))
	defer srv.Close()

	out, _, err := runCLI(t, "", "call", "GET", srv.URL, "--raw", "--no-color")
	if !httpclient.IsUnauthorized(err) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if ExitCode(err) != ExitRequestFailed {
		t.Errorf("ExitCode = %d", ExitCode(err))
	}
	if !strings.Contains(out, "nope") {
		t.Errorf("error body not printed: %q", out)
	}
}

func TestCall_ConfigFileAndFlagOverride(t *testing.T) {
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/ping" {
			t.Errorf("path = %q", r.URL.Path)
		}
		agent = r.UserAgent()
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "config.yml")
	yml := "name: plughttp-test\n" +
		"logging:\n  level: error\n" +
		"http:\n  base_url: " + srv.URL + "/api\n  user_agent: cfg-agent/2.0\n  timeout: 2s\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, _, err := runCLI(t, "", "call", "GET", "/ping", "--config", path); err != nil {
		t.Fatalf("call: %v", err)
	}
	if agent != "cfg-agent/2.0" {
		t.Errorf("User-Agent from file = %q", agent)
	}

	if _, _, err := runCLI(t, "", "call", "GET", "/ping", "--config", path, "--user-agent", "flag-agent"); err != nil {
		t.Fatalf("call: %v", err)
	}
	if agent != "flag-agent" {
		t.Errorf("User-Agent from flag = %q", agent)
	}
}

func TestCall_ClientLifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, stderr, err := runCLI(t, "", "call", "GET", srv.URL, "--log-level", "debug", "--no-color")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	started := strings.Index(stderr, "component started")
	completed := strings.Index(stderr, "request completed")
	stopped := strings.Index(stderr, "component stopped")
	if started < 0 || completed < started || stopped < completed {
		t.Errorf("expected start, request, stop in order; got %q", stderr)
	}
}

func TestCall_DefaultUserAgent(t *testing.T) {
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.UserAgent()
	}))
	defer srv.Close()

	if _, _, err := runCLI(t, "", "call", "HEAD", srv.URL); err != nil {
		t.Fatalf("call: %v", err)
	}
	if agent != httpclient.DefaultUserAgent {
		t.Errorf("User-Agent = %q", agent)
	}
}

func TestCall_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, _, err := runCLI(t, "", "call", "GET", srv.URL, "--timeout", "50ms")
	if !httpclient.IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
	if ExitCode(err) != ExitNetworkError {
		t.Errorf("ExitCode = %d", ExitCode(err))
	}
}

func TestCall_ExtractFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/text" {
			_, _ = w.Write([]byte("hello"))
			return
		}
		_, _ = w.Write([]byte(`{"id":"1"}`))
	}))
	defer srv.Close()

	_, _, err := runCLI(t, "", "call", "GET", srv.URL+"/json", "--extract", "missing")
	if !errors.Is(err, ErrPathNotFound) || ExitCode(err) != ExitResponseError {
		t.Errorf("missing path: %v", err)
	}
	_, _, err = runCLI(t, "", "call", "GET", srv.URL+"/text", "--extract", "id")
	if !errors.Is(err, ErrNotJSON) || ExitCode(err) != ExitResponseError {
		t.Errorf("text body: %v", err)
	}
}

func TestCall_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"invalid verb", []string{"call", "PATCH", "http://example.invalid/"}, ExitUsageError},
		{"missing uri", []string{"call", "GET"}, ExitUsageError},
		{"unknown flag", []string{"call", "GET", "/", "--bogus"}, ExitUsageError},
		{"relative uri without base", []string{"call", "GET", "/accounts"}, ExitUsageError},
		{"empty option key", []string{"call", "GET", "http://example.invalid/", "-o", "=v"}, ExitUsageError},
		{"missing config file", []string{"call", "GET", "/", "--config", "/nonexistent/config.yml"}, ExitConfigError},
		{"proxy host without port", []string{"call", "GET", "http://example.invalid/", "--proxy-host", "proxy.local"}, ExitConfigError},
		{"bad log level", []string{"call", "GET", "http://example.invalid/", "--log-level", "loud"}, ExitConfigError},
		{"missing body file", []string{"call", "POST", "http://example.invalid/", "-d", "@/nonexistent/body"}, ExitUsageError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, "", tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := ExitCode(err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", err, got, tt.want)
			}
		})
	}
}

func TestParseOptions(t *testing.T) {
	opts, err := parseOptions([]string{"Accept=application/json", "q=a=b", "flag"})
	if err != nil {
		t.Fatalf("parseOptions: %v", err)
	}
	if v, _ := opts.Get("Accept"); v != "application/json" {
		t.Errorf("Accept = %q", v)
	}
	if v, _ := opts.Get("q"); v != "a=b" {
		t.Errorf("q = %q", v)
	}
	if v, ok := opts.Get("flag"); !ok || v != "" {
		t.Errorf("flag = %q, %v", v, ok)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{&httpclient.Error{Kind: httpclient.KindInvalidRequest}, ExitRequestFailed},
		{&httpclient.Error{Kind: httpclient.KindTransport}, ExitNetworkError},
		{&httpclient.Error{Kind: httpclient.KindSecuritySetup}, ExitConfigError},
		{&httpclient.Error{Kind: httpclient.KindURLConfiguration}, ExitUsageError},
		{&httpclient.Error{Kind: httpclient.KindDeserialization}, ExitResponseError},
		{errors.New("other"), ExitRequestFailed},
	}
	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.want {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestPrinterFailure(t *testing.T) {
	var buf bytes.Buffer
	newPrinter(&buf, true).failure(&httpclient.Error{Kind: httpclient.KindTimeout, Message: "no response before timeout"})
	out := buf.String()
	if !strings.HasPrefix(out, "✗ TIMEOUT: ") || !strings.Contains(out, "(retryable)") {
		t.Errorf("failure output = %q", out)
	}
}

func TestPrinterFailureJSON(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"client error", &httpclient.Error{Kind: httpclient.KindUnauthorized, Response: &httpclient.Response{StatusCode: 401}}, "UNAUTHORIZED"},
		{"usage error", &usageError{errors.New("bad flag")}, "INVALID_INPUT"},
		{"other", errors.New("boom"), "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			p := newPrinter(&buf, true)
			p.jsonErrors = true
			p.failure(tt.err)

			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(buf.Bytes(), &body); err != nil {
				t.Fatalf("invalid JSON %q: %v", buf.String(), err)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestPrinterPrettyPrintsJSON(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf, true)
	if err := p.response(&httpclient.Response{StatusCode: 200, Body: []byte(`{"a":1}`)}, ""); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "{\n  \"a\": 1\n}\n" {
		t.Errorf("pretty output = %q", buf.String())
	}
}

func TestVersionCmd(t *testing.T) {
	out, _, err := runCLI(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "plughttp version ") {
		t.Errorf("stdout = %q", out)
	}

	out, _, err = runCLI(t, "", "version", "--json")
	if err != nil {
		t.Fatalf("version --json: %v", err)
	}
	var info map[string]any
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if info["version"] == "" || info["version"] == nil {
		t.Errorf("missing version in %v", info)
	}
}
