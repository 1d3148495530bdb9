package core

import (
	"time"
)

// Timestamp is a decision time. Timestamps are kept in UTC so that ledger rows
// compare and sort the same way on every backend.
type Timestamp time.Time

// Now returns the current time in UTC
func Now() Timestamp {
	return Timestamp(time.Now().UTC())
}

func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// UTC normalizes a timestamp read from storage or JSON
func (t Timestamp) UTC() Timestamp {
	return Timestamp(time.Time(t).UTC())
}

func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t Timestamp) String() string { return t.Time().UTC().Format(time.RFC3339) }

// MarshalJSON writes RFC 3339 with nanoseconds in UTC
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Time().UTC().Format(time.RFC3339Nano) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var parsed time.Time
	if err := parsed.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = Timestamp(parsed.UTC())
	return nil
}
