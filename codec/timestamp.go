package codec

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// ISO8601 is the layout used for encoded timestamps.
const ISO8601 = "2006-01-02T15:04:05.000Z07:00"

// Timestamp is a time that encodes as ISO-8601 text. Decoding also accepts
// epoch milliseconds. The zero value encodes as null and is therefore
// omitted by the JSON codec.
type Timestamp struct {
	time.Time
}

// At wraps t.
func At(t time.Time) Timestamp { return Timestamp{Time: t} }

// FromEpochMillis builds a Timestamp from milliseconds since the Unix epoch.
func FromEpochMillis(ms int64) Timestamp { return Timestamp{Time: time.UnixMilli(ms).UTC()} }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.Format(ISO8601))), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("codec: timestamp: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("codec: timestamp: %w", err)
		}
		t.Time = parsed
		return nil
	}
	ms, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("codec: timestamp: %w", err)
	}
	*t = FromEpochMillis(ms)
	return nil
}
