package model

import (
	"bytes"
	"fmt"
	"time"
)

// LocalDateTimeLayout is the zone-less timestamp format used by the backend.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

var timestampLayouts = []string{
	LocalDateTimeLayout,
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02",
}

// Timestamp decodes the backend's zone-less date-times. Null or empty values
// decode to the zero time.
type Timestamp struct {
	time.Time
}

// ParseTimestamp accepts any of the layouts the backend is known to emit.
func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Timestamp{t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}
	ts, err := ParseTimestamp(string(data))
	if err != nil {
		return err
	}
	*t = ts
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.Format(LocalDateTimeLayout) + `"`), nil
}
