package codec

import (
	"bytes"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
)

// ErrEmptyBody is returned by Decode when the reader yields no bytes.
var ErrEmptyBody = fmt.Errorf("codec: empty body")

type jsonCodec struct {
	api jsoniter.API
}

// JSON returns the default codec. It omits null object members when
// encoding and accepts unescaped control characters inside strings when
// decoding.
func JSON() Codec {
	return &jsonCodec{api: jsoniter.ConfigCompatibleWithStandardLibrary}
}

func (c *jsonCodec) ContentType() string { return "application/json" }

func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	raw, err := c.api.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("codec: marshal: %w", err)
	}
	if !bytes.Contains(raw, []byte("null")) {
		return raw, nil
	}
	return stripNulls(make([]byte, 0, len(raw)), gjson.ParseBytes(raw)), nil
}

func (c *jsonCodec) Decode(r io.Reader, v any) error {
	raw, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("codec: read body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return ErrEmptyBody
	}
	if err := c.api.Unmarshal(escapeControlChars(raw), v); err != nil {
		return fmt.Errorf("codec: unmarshal: %w", err)
	}
	return nil
}

// stripNulls re-emits a compact JSON document without object members whose
// value is null. Array elements are kept as-is.
func stripNulls(dst []byte, r gjson.Result) []byte {
	switch {
	case r.IsObject():
		dst = append(dst, '{')
		n := 0
		r.ForEach(func(key, val gjson.Result) bool {
			if val.Type == gjson.Null {
				return true
			}
			if n > 0 {
				dst = append(dst, ',')
			}
			n++
			dst = append(dst, key.Raw...)
			dst = append(dst, ':')
			dst = stripNulls(dst, val)
			return true
		})
		return append(dst, '}')
	case r.IsArray():
		dst = append(dst, '[')
		n := 0
		r.ForEach(func(_, val gjson.Result) bool {
			if n > 0 {
				dst = append(dst, ',')
			}
			n++
			dst = stripNulls(dst, val)
			return true
		})
		return append(dst, ']')
	default:
		return append(dst, r.Raw...)
	}
}

// escapeControlChars rewrites raw bytes below 0x20 found inside string
// literals as \u00XX escapes. Input without such bytes is returned as is.
func escapeControlChars(in []byte) []byte {
	const hex = "0123456789abcdef"
	var out []byte
	inString, escaped := false, false
	for i, b := range in {
		switch {
		case escaped:
			escaped = false
		case inString && b == '\\':
			escaped = true
		case b == '"':
			inString = !inString
		case inString && b < 0x20:
			if out == nil {
				out = make([]byte, i, len(in)+16)
				copy(out, in[:i])
			}
			out = append(out, '\\', 'u', '0', '0', hex[b>>4], hex[b&0xf])
			continue
		}
		if out != nil {
			out = append(out, b)
		}
	}
	if out == nil {
		return in
	}
	return out
}
