package menu

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Fields is the raw row as returned by a tenant backend. Menu rows carry
// language-suffixed variants (name_sq, description_en, ...) whose set is
// not known up front, so every read model keeps its full row alongside
// the typed fields.
type Fields map[string]any

// String returns the string value for a key, or "" when the key is
// absent, null, or not a string.
func (f Fields) String(key string) string {
	if f == nil {
		return ""
	}
	s, _ := f[key].(string)
	return s
}

// Bool returns the bool value for a key, false when absent or mistyped
func (f Fields) Bool(key string) bool {
	if f == nil {
		return false
	}
	b, _ := f[key].(bool)
	return b
}

// Int returns the numeric value for a key as an int. JSON numbers decode
// as float64, so both representations are accepted.
func (f Fields) Int(key string) int {
	if f == nil {
		return 0
	}
	switch v := f[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	}
	return 0
}

// Decimal returns the value for a key as a decimal, accepting both JSON
// numbers and numeric strings. Returns zero when absent or unparseable.
func (f Fields) Decimal(key string) decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	switch v := f[key].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		d, err := decimal.NewFromString(v)
		if err == nil {
			return d
		}
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err == nil {
			return d
		}
	}
	return decimal.Zero
}

// Time parses an RFC3339 timestamp field, returning the zero time when
// absent or malformed.
func (f Fields) Time(key string) time.Time {
	s := f.String(key)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Has reports whether the key is present with a non-nil value
func (f Fields) Has(key string) bool {
	if f == nil {
		return false
	}
	v, ok := f[key]
	return ok && v != nil
}
