package models

import (
	"bytes"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/linesmerrill/case-tracker-api/dates"
)

// Date is an optional date as stored by the case forms. Older documents hold
// strings, newer ones BSON datetimes, and many hold null or "". The zero value
// means absent; malformed input decodes as absent instead of failing the
// whole document.
type Date struct {
	time.Time
}

// NewDate wraps t
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// DateOf parses s, returning the zero Date when s is not a date
func DateOf(s string) Date {
	t, _ := dates.Parse(s)
	return Date{Time: t}
}

// Valid reports whether a date is present
func (d Date) Valid() bool {
	return !d.IsZero()
}

// MarshalJSON writes null for an absent date and RFC 3339 otherwise
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.UTC().Format(time.RFC3339))
}

// UnmarshalJSON accepts null, "" or any layout known to dates.Parse
func (d *Date) UnmarshalJSON(b []byte) error {
	d.Time = time.Time{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return nil
	}
	if t, ok := dates.Parse(s); ok {
		d.Time = t
	}
	return nil
}

// MarshalBSONValue stores present dates as BSON datetimes
func (d Date) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if d.IsZero() {
		return bsontype.Null, nil, nil
	}
	return bson.MarshalValue(d.UTC())
}

// UnmarshalBSONValue accepts datetimes and strings; everything else is absent
func (d *Date) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	d.Time = time.Time{}
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.DateTime:
		d.Time = raw.Time().UTC()
	case bsontype.String:
		if s, ok := raw.StringValueOK(); ok {
			if parsed, ok := dates.Parse(s); ok {
				d.Time = parsed
			}
		}
	}
	return nil
}
