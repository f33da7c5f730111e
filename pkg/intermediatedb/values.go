package intermediatedb

import (
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/dtnitsch/intermediate-db/pkg/db"
)

// ID is a reference to a row of the source system: an integer of any
// width or a string. nil and "" mean "not set".
type ID = any

// Bool returns a pointer to v, for optional boolean fields.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v, for optional integer fields.
func Int(v int) *int { return &v }

func idValue(v ID) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		if x == "" {
			return nil
		}
		return x
	case int64:
		return x
	case int:
		return int64(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return idValue(rv.Elem().Interface())
	case reflect.Int8, reflect.Int16, reflect.Int32:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return strconv.FormatUint(u, 10)
		}
		return int64(u)
	case reflect.String:
		return idValue(rv.String())
	default:
		return v
	}
}

func str(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func num(v int) any { return int64(v) }

func intPtr(v *int) any { return db.FormatInt(v) }

func boolPtr(v *bool) any { return db.FormatBool(v) }

func ts(t time.Time) any { return db.FormatTime(t) }
