package format

import (
	"encoding/json"
	"time"
)

// NullString is a string that may be absent.
//
// The wire format distinguishes an absent string (marker 0x00) from an empty
// one (marker 0x0B, length 0); Valid keeps that distinction.
type NullString struct {
	String string
	Valid  bool
}

// Text returns a present NullString holding s.
func Text(s string) NullString {
	return NullString{String: s, Valid: true}
}

// Or returns the string, or def when it is absent.
func (n NullString) Or(def string) string {
	if !n.Valid {
		return def
	}

	return n.String
}

// MarshalJSON encodes an absent string as null.
func (n NullString) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(n.String)
}

// UnmarshalJSON accepts null or a JSON string.
func (n *NullString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullString{}
		return nil
	}
	if err := json.Unmarshal(data, &n.String); err != nil {
		return err
	}
	n.Valid = true

	return nil
}

const (
	ticksPerSecond = 10_000_000
	// seconds between 0001-01-01 and 1970-01-01
	unixEpochSeconds = 62_135_596_800
)

// TicksToTime converts .NET DateTime ticks (100ns units since 0001-01-01 UTC)
// to a UTC time. Zero ticks map to the zero time.
//
// Timestamps are stored as unsigned 64-bit integers, so values above
// math.MaxInt64 are read without wraparound; such values are far beyond
// any real date and still convert without overflow since the seconds part
// always fits an int64.
func TicksToTime(ticks uint64) time.Time {
	if ticks == 0 {
		return time.Time{}
	}
	secs := int64(ticks/ticksPerSecond) - unixEpochSeconds //nolint:gosec
	nsec := int64(ticks%ticksPerSecond) * 100              //nolint:gosec

	return time.Unix(secs, nsec).UTC()
}

// TimeToTicks is the inverse of TicksToTime. Times before year 1 map to zero.
func TimeToTicks(t time.Time) uint64 {
	if t.IsZero() {
		return 0
	}
	secs := t.Unix() + unixEpochSeconds
	if secs < 0 {
		return 0
	}

	return uint64(secs)*ticksPerSecond + uint64(t.Nanosecond()/100) //nolint:gosec
}
