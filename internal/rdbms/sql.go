package rdbms

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// The remote engine accepts only raw statement strings, so every dynamic
// value must be rendered as a SQL literal. All rendering goes through the
// helpers below; callers never concatenate user input directly.

// Quote renders s as a single-quoted SQL string literal, doubling any
// embedded quotes.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// QuoteOrNull renders s as a string literal, or NULL when empty.
func QuoteOrNull(s string) string {
	if s == "" {
		return "NULL"
	}
	return Quote(s)
}

// Money renders a monetary amount as a two-decimal fixed-point literal.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Rate renders a percentage such as a tax rate, two fractional digits.
func Rate(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Int renders an integer literal.
func Int(n int) string {
	return decimal.NewFromInt(int64(n)).String()
}

// Timestamp renders t in the engine's DATETIME format.
func Timestamp(t time.Time) string {
	return Quote(t.Format("2006-01-02 15:04:05"))
}

// Date renders t as a DATE literal.
func Date(t time.Time) string {
	return Quote(t.Format("2006-01-02"))
}

// Bool renders a boolean literal.
func Bool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// Like renders a %-wrapped LIKE pattern literal for substring search.
// The escaping is the same as Quote; the engine has no LIKE escape syntax,
// so literal % in search input widens the match rather than breaking it.
func Like(s string) string {
	return Quote("%" + s + "%")
}
