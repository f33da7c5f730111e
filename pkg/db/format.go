package db

import (
	"fmt"
	"net/netip"
	"reflect"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/goccy/go-json"
)

// Canonical boolean tokens stored in BOOLEAN columns.
const (
	True  int64 = 1
	False int64 = 0
)

const (
	TimeFormat = "2006-01-02T15:04:05Z"
	DateFormat = "2006-01-02"
)

// FormatBool converts an optional boolean to its column value.
func FormatBool(v *bool) any {
	if v == nil {
		return nil
	}
	if *v {
		return True
	}
	return False
}

// CoerceBool converts a loosely typed value into True, False or nil.
// Numbers are truthy when non-zero. Strings are matched against the usual
// spellings; any other non-empty string is truthy. It never fails, and
// coercing its own output returns the same token.
func CoerceBool(v any) any {
	switch b := v.(type) {
	case nil:
		return nil
	case bool:
		return FormatBool(&b)
	case *bool:
		return FormatBool(b)
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "", "0", "f", "false", "n", "no", "off":
			return False
		default:
			return True
		}
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return CoerceBool(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return boolToken(rv.Int() != 0)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return boolToken(rv.Uint() != 0)
	case reflect.Float32, reflect.Float64:
		return boolToken(rv.Float() != 0)
	default:
		return True
	}
}

func boolToken(b bool) int64 {
	if b {
		return True
	}
	return False
}

// FormatTime normalizes t to UTC with second precision. The zero time is NULL.
func FormatTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(TimeFormat)
}

// FormatTimePtr is FormatTime for optional timestamps.
func FormatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return FormatTime(*t)
}

// FormatDate keeps only the calendar date of t. The zero time is NULL.
func FormatDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(DateFormat)
}

// CoerceTime converts a timestamp-like value into the canonical datetime
// text. Accepted: time.Time, *time.Time, unix seconds and date strings in
// any layout dateparse understands. Strings without a zone are read as UTC.
// Unparseable input is an error, never a stored value.
func CoerceTime(v any) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return FormatTime(t), nil
	case *time.Time:
		return FormatTimePtr(t), nil
	case int:
		return FormatTime(time.Unix(int64(t), 0)), nil
	case int64:
		return FormatTime(time.Unix(t, 0)), nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil, nil
		}
		parsed, err := dateparse.ParseIn(s, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid datetime %q: %w", s, err)
		}
		return FormatTime(parsed), nil
	default:
		return nil, fmt.Errorf("invalid datetime value of type %T", v)
	}
}

// ParseTime is CoerceTime for callers that need the time.Time itself.
func ParseTime(s string) (time.Time, error) {
	parsed, err := dateparse.ParseIn(strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid datetime %q: %w", s, err)
	}
	return parsed.UTC(), nil
}

// FormatIP returns the canonical text of an IP address, or NULL when s is
// empty or not an address.
func FormatIP(s string) any {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return addr.Unmap().String()
}

// ToJSON encodes v as compact JSON text. nil stays NULL.
func ToJSON(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(data), nil
}

// ToBlob passes bytes through as a BLOB parameter. nil stays NULL.
func ToBlob(data []byte) any {
	if data == nil {
		return nil
	}
	return data
}

// FormatInt converts an optional integer to its column value.
func FormatInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}
