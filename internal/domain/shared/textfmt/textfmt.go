// Package textfmt holds the stateless string, amount and date formatters used
// when a payment message is rendered.
package textfmt

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Layouts used by ISO 20022 date and date-time elements
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02T15:04:05"
)

// allowedSepaChars is the character set accepted by every SEPA text element
const allowedSepaChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789@/-?:(). ,'\"+"

var upper = cases.Upper(language.Und)

// FormatAmount formats an amount with at most two fraction digits and no
// trailing zeros: 23.450 gives "23.45", 10.00 gives "10".
func FormatAmount(amount decimal.Decimal) string {
	return amount.Round(2).String()
}

// FormatDate formats the date part only
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateTime formats a local date and time without zone information
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}

// Truncate returns s limited to maxLen characters
func Truncate(s string, maxLen int) string {
	if maxLen < 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	return string(r[:maxLen])
}

// Length returns the number of characters in s
func Length(s string) int {
	return utf8.RuneCountInString(s)
}

// CleanString upper-cases s and replaces every character outside the SEPA
// character set with a space.
func CleanString(s string) string {
	if s == "" {
		return s
	}
	up := upper.String(s)

	var b strings.Builder
	b.Grow(len(up))
	for _, r := range up {
		if r < utf8.RuneSelf && strings.ContainsRune(allowedSepaChars, r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(' ')
	}
	return b.String()
}

// Transliterate strips diacritics so that "Société" becomes "Societe".
// Characters without a decomposition are left unchanged.
func Transliterate(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// StripWhitespace removes every whitespace character from s
func StripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// IsBlank reports whether s is empty or only whitespace
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
