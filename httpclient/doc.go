// Package httpclient issues HTTP calls for plugins against a configured
// upstream.
//
// A Client resolves each RequestSpec against its base URL, adds preemptive
// Basic auth, a fixed User-Agent and the request options (Accept and
// Content-Type as headers, everything else as query parameters), sends it
// through an optional proxy and decodes the JSON response:
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL:   "https://api.example.com/v1",
//	    Username:  "plugin",
//	    Password:  secret,
//	    StrictTLS: true,
//	})
//	defer client.Close()
//
//	acct, err := httpclient.Get[Account](ctx, client, "/accounts/42",
//	    httpclient.NewOptions().Set(httpclient.HeaderAccept, httpclient.ContentTypeJSON))
//
// Status 401 yields a KindUnauthorized error and any other status >= 400 a
// KindInvalidRequest error; both carry the Response. Every call is bounded
// by Config.Timeout (10s by default).
//
// Passing a *Response to Client.Do captures the raw status, headers and
// body instead of decoding.
package httpclient
