package rdbms

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Result is the tabular response of one executed statement.
type Result struct {
	Success bool   `json:"success"`
	Data    []Row  `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Row is a single record keyed by column name. The engine serializes values
// loosely (numbers may arrive as float64 or string), so access goes through
// the typed accessors below.
type Row map[string]any

// String returns the column as a string, or "" if absent or NULL.
func (r Row) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Int returns the column as an int, or 0 if absent or unparseable.
func (r Row) Int(key string) int {
	switch v := r[key].(type) {
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	default:
		return 0
	}
}

// Bool returns the column as a bool. String forms "true"/"TRUE"/"1" count.
func (r Row) Bool(key string) bool {
	switch v := r[key].(type) {
	case bool:
		return v
	case float64:
		return v != 0
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "true" || s == "t" || s == "1"
	default:
		return false
	}
}

// Decimal returns the column as a fixed-point decimal, or zero if absent.
// Monetary columns travel as numeric strings to avoid float drift, but a
// plain JSON number is accepted too.
func (r Row) Decimal(key string) decimal.Decimal {
	switch v := r[key].(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero
		}
		return d
	case float64:
		return decimal.NewFromFloat(v)
	default:
		return decimal.Zero
	}
}

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Time parses the column as a timestamp. Zero time if absent or unparseable.
func (r Row) Time(key string) time.Time {
	s, ok := r[key].(string)
	if !ok || s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// IsNull reports whether the column is absent or SQL NULL.
func (r Row) IsNull(key string) bool {
	v, ok := r[key]
	return !ok || v == nil
}

// ScalarInt extracts a single integer from an aggregate result such as
// COUNT(*) or MAX(id). It tries the given column names first, then falls
// back to the first numeric-looking value in the row, since the engine is
// not consistent about how it labels computed columns.
func (res *Result) ScalarInt(keys ...string) int {
	if len(res.Data) == 0 {
		return 0
	}
	row := res.Data[0]
	for _, k := range keys {
		if _, ok := row[k]; ok && !row.IsNull(k) {
			return row.Int(k)
		}
	}
	for _, v := range row {
		switch n := v.(type) {
		case float64:
			return int(n)
		case string:
			if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
				return i
			}
		}
	}
	return 0
}

// ScalarDecimal is ScalarInt's fixed-point counterpart, for SUM() results.
func (res *Result) ScalarDecimal(keys ...string) decimal.Decimal {
	if len(res.Data) == 0 {
		return decimal.Zero
	}
	row := res.Data[0]
	for _, k := range keys {
		if _, ok := row[k]; ok && !row.IsNull(k) {
			return row.Decimal(k)
		}
	}
	for _, v := range row {
		switch n := v.(type) {
		case float64:
			return decimal.NewFromFloat(n)
		case string:
			if d, err := decimal.NewFromString(strings.TrimSpace(n)); err == nil {
				return d
			}
		}
	}
	return decimal.Zero
}
