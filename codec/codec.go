package codec

import "io"

// Codec serializes request payloads and decodes response bodies.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Decode(r io.Reader, v any) error
	ContentType() string
}
