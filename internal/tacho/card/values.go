package card

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNoDate is returned when a date field is absent or null
var ErrNoDate = errors.New("date not present")

// Text is a string leaf that tolerates numbers and null
type Text string

// UnmarshalJSON never fails: unexpected shapes decode to an empty Text
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*t = Text(n.String())
		return nil
	}

	*t = ""
	return nil
}

// Clean strips NUL padding and surrounding whitespace
func (t Text) Clean() string {
	return strings.TrimSpace(strings.ReplaceAll(string(t), "\x00", ""))
}

// Timestamp keeps the raw decoder representation of a date until asked for it
type Timestamp struct {
	raw json.RawMessage
}

// NewTimestamp wraps a raw JSON value
func NewTimestamp(raw string) Timestamp {
	return Timestamp{raw: json.RawMessage(raw)}
}

// UnmarshalJSON stores the value as-is
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	ts.raw = append(ts.raw[:0], data...)
	return nil
}

// IsZero reports whether the field was absent or null
func (ts Timestamp) IsZero() bool {
	raw := bytes.TrimSpace(ts.raw)
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Calendar normalises the value to YYYY-MM-DD in UTC.
// Strings are parsed with the known layouts; numbers are unix seconds.
func (ts Timestamp) Calendar() (string, error) {
	if ts.IsZero() {
		return "", ErrNoDate
	}

	var s string
	if err := json.Unmarshal(ts.raw, &s); err == nil {
		s = strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
		if s == "" {
			return "", ErrNoDate
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC().Format("2006-01-02"), nil
			}
		}
		return "", fmt.Errorf("unrecognized date %q", s)
	}

	var n json.Number
	if err := json.Unmarshal(ts.raw, &n); err == nil {
		secs, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return "", fmt.Errorf("invalid unix timestamp %s: %w", n, err)
		}
		return time.Unix(secs, 0).UTC().Format("2006-01-02"), nil
	}

	return "", fmt.Errorf("unsupported date value %s", string(ts.raw))
}
