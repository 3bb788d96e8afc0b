package httpclient

import (
	"net/http"
	"sort"
)

// Option keys routed to headers instead of query parameters.
const (
	HeaderAccept      = "Accept"
	HeaderContentType = "Content-Type"
)

// Common media types for the Accept and Content-Type options.
const (
	ContentTypeJSON = "application/json"
	ContentTypeXML  = "application/xml"
	ContentTypeForm = "application/x-www-form-urlencoded"
)

// Options carries per-request settings. Accept and Content-Type become
// headers; every other key becomes a query parameter. Nil values are
// skipped.
type Options map[string]*string

// NewOptions returns an empty Options.
func NewOptions() Options { return Options{} }

// OptionsFrom copies m into a new Options.
func OptionsFrom(m map[string]string) Options {
	o := make(Options, len(m))
	for k, v := range m {
		o.Set(k, v)
	}
	return o
}

// Set stores value under key and returns o.
func (o Options) Set(key, value string) Options {
	o[key] = &value
	return o
}

// Unset stores an explicit nil under key and returns o.
func (o Options) Unset(key string) Options {
	o[key] = nil
	return o
}

// Get returns the value for key and whether it is present and non-nil.
func (o Options) Get(key string) (string, bool) {
	v := o[key]
	if v == nil {
		return "", false
	}
	return *v, true
}

// sortedKeys returns keys in lexical order so built URLs are stable.
func (o Options) sortedKeys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns a pointer to s, for RequestSpec.Body and Options values.
func String(s string) *string { return &s }

// RequestSpec describes one call.
type RequestSpec struct {
	Verb Verb
	// URI is absolute, or relative to Config.BaseURL. Empty is an error.
	URI string
	// Body is sent verbatim for verbs other than GET and HEAD. Nil means none.
	Body    *string
	Options Options
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsError returns true if the status code is 4xx or 5xx.
func (r *Response) IsError() bool {
	return r.StatusCode >= 400
}
