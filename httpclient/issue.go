package httpclient

import "context"

// Issue performs spec and decodes the response into a T.
func Issue[T any](ctx context.Context, c *Client, spec RequestSpec) (T, error) {
	var out T
	err := c.Do(ctx, spec, &out)
	return out, err
}

// Get performs a GET request and decodes the response into a T.
func Get[T any](ctx context.Context, c *Client, uri string, opts Options) (T, error) {
	return Issue[T](ctx, c, RequestSpec{Verb: VerbGet, URI: uri, Options: opts})
}

// Post performs a POST request with body and decodes the response into a T.
func Post[T any](ctx context.Context, c *Client, uri string, body *string, opts Options) (T, error) {
	return Issue[T](ctx, c, RequestSpec{Verb: VerbPost, URI: uri, Body: body, Options: opts})
}

// Put performs a PUT request with body and decodes the response into a T.
func Put[T any](ctx context.Context, c *Client, uri string, body *string, opts Options) (T, error) {
	return Issue[T](ctx, c, RequestSpec{Verb: VerbPut, URI: uri, Body: body, Options: opts})
}

// Delete performs a DELETE request with an optional body and decodes the
// response into a T.
func Delete[T any](ctx context.Context, c *Client, uri string, body *string, opts Options) (T, error) {
	return Issue[T](ctx, c, RequestSpec{Verb: VerbDelete, URI: uri, Body: body, Options: opts})
}

// Head performs a HEAD request. HEAD responses carry no body, so nothing
// is decoded.
func Head(ctx context.Context, c *Client, uri string, opts Options) error {
	return c.Do(ctx, RequestSpec{Verb: VerbHead, URI: uri, Options: opts}, nil)
}

// DoOptions performs an OPTIONS request and decodes the response into a T.
func DoOptions[T any](ctx context.Context, c *Client, uri string, body *string, opts Options) (T, error) {
	return Issue[T](ctx, c, RequestSpec{Verb: VerbOptions, URI: uri, Body: body, Options: opts})
}
