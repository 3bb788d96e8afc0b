package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// PreparedRequest is a fully resolved request. It is built by Prepare and
// never modified afterwards.
type PreparedRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   *string
	// Proxy is nil when the request goes direct.
	Proxy *url.URL
}

// Prepare resolves spec against cfg without performing I/O.
func Prepare(cfg *Config, spec RequestSpec) (*PreparedRequest, error) {
	if !spec.Verb.Valid() {
		return nil, newError(KindInvalidVerb, "unrecognized verb: "+string(spec.Verb), nil)
	}

	raw, target, err := resolveURL(cfg.BaseURL, spec.URI)
	if err != nil {
		return nil, err
	}

	header := make(http.Header)
	header.Set("User-Agent", cfg.UserAgent)
	if cfg.hasCredentials() {
		header.Set("Authorization", basicAuth(cfg.Username, cfg.Password))
	}

	query := url.Values{}
	for _, key := range spec.Options.sortedKeys() {
		value, ok := spec.Options.Get(key)
		if !ok {
			continue
		}
		// Only the exact reserved spellings are headers.
		switch key {
		case HeaderAccept, HeaderContentType:
			header.Set(key, value)
		default:
			query.Add(key, value)
		}
	}
	if len(query) > 0 {
		raw = appendQuery(raw, query.Encode())
	}

	proxy, err := proxyFor(cfg, target)
	if err != nil {
		return nil, err
	}

	req := &PreparedRequest{
		Method: string(spec.Verb),
		URL:    raw,
		Header: header,
		Proxy:  proxy,
	}
	if spec.Verb.AllowsBody() && spec.Body != nil {
		body := *spec.Body
		req.Body = &body
	}
	return req, nil
}

// resolveURL uses an absolute uri verbatim and appends a relative one to
// base by plain concatenation. The returned string is the URL as given;
// the parsed form is only used for checks and proxy selection.
func resolveURL(base, uri string) (string, *url.URL, error) {
	if uri == "" {
		return "", nil, newError(KindURLConfiguration, "URL misconfigured: empty URI", nil)
	}
	parsed, err := parseStrict(uri)
	if err != nil {
		return "", nil, err
	}
	if parsed.IsAbs() {
		return uri, parsed, nil
	}

	full := base + uri
	target, err := parseStrict(full)
	if err != nil {
		return "", nil, err
	}
	if !target.IsAbs() || target.Host == "" {
		return "", nil, newError(KindURLConfiguration, "URL misconfigured: "+full+" is not absolute", nil)
	}
	return full, target, nil
}

// parseStrict rejects whitespace, which url.Parse would otherwise accept
// and escape.
func parseStrict(s string) (*url.URL, error) {
	if strings.ContainsAny(s, " \t\r\n") {
		return nil, newError(KindURLConfiguration, "URL misconfigured: whitespace in "+s, nil)
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, newError(KindURLConfiguration, "URL misconfigured: "+s, err)
	}
	return u, nil
}

// appendQuery adds encoded parameters to raw, after any existing query and
// before any fragment.
func appendQuery(raw, encoded string) string {
	prefix, fragment, hasFragment := strings.Cut(raw, "#")
	switch {
	case strings.HasSuffix(prefix, "?"), strings.HasSuffix(prefix, "&"):
		prefix += encoded
	case strings.Contains(prefix, "?"):
		prefix += "&" + encoded
	default:
		prefix += "?" + encoded
	}
	if hasFragment {
		return prefix + "#" + fragment
	}
	return prefix
}

// HTTPRequest builds an *http.Request bound to ctx. The proxy, if any,
// travels in the context for engines built on NewTransport.
func (p *PreparedRequest) HTTPRequest(ctx context.Context) (*http.Request, error) {
	if p.Proxy != nil {
		ctx = WithProxy(ctx, p.Proxy)
	}
	var body io.Reader
	if p.Body != nil {
		body = strings.NewReader(*p.Body)
	}
	req, err := http.NewRequestWithContext(ctx, p.Method, p.URL, body)
	if err != nil {
		return nil, newError(KindURLConfiguration, "building request", err)
	}
	req.Header = p.Header.Clone()
	return req, nil
}
