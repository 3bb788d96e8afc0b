// Package codec provides the payload codec used by the HTTP client.
//
// The default JSON codec drops null object members on encode, tolerates raw
// control characters in string values on decode and writes dates as
// ISO-8601 text (time.Time values use RFC 3339; Timestamp uses ISO8601).
package codec
