package valueobject

import (
	"fmt"
	"strings"

	"github.com/erp/sepawriter/internal/domain/shared"
	"github.com/erp/sepawriter/internal/domain/shared/textfmt"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// EUR is the default currency of SEPA transactions and accounts
const EUR = "EUR"

// Bounds of an amount accepted in a SEPA transaction
var (
	MinAmount = decimal.RequireFromString("0.01")
	MaxAmount = decimal.RequireFromString("999999999.99")
)

// Amount is a value object holding a transaction amount.
// It is immutable and always lies in [MinAmount, MaxAmount] with at most two
// fraction digits.
type Amount struct {
	value decimal.Decimal
}

// NewAmount validates and wraps a decimal amount
func NewAmount(value decimal.Decimal) (Amount, error) {
	if value.LessThan(MinAmount) || value.GreaterThan(MaxAmount) {
		return Amount{}, shared.NewDomainError(shared.CodeInvalidAmount,
			fmt.Sprintf("Invalid amount value: %s", value.String()))
	}
	if !value.Round(2).Equal(value) {
		return Amount{}, shared.NewDomainError(shared.CodeInvalidAmount,
			fmt.Sprintf("Amount %s should have at most 2 decimals", value.String()))
	}
	return Amount{value: value}, nil
}

// NewAmountFromString parses and validates an amount such as "23.45"
func NewAmountFromString(value string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return Amount{}, shared.NewDomainError(shared.CodeInvalidAmount,
			fmt.Sprintf("Invalid amount string %q", value))
	}
	return NewAmount(d)
}

// MustNewAmount creates an Amount, panics on error
func MustNewAmount(value string) Amount {
	a, err := NewAmountFromString(value)
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal returns the underlying decimal value
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// IsZero reports whether the amount was never set
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// InCents returns the amount multiplied by 100
func (a Amount) InCents() decimal.Decimal {
	return a.value.Mul(decimal.NewFromInt(100))
}

// String returns the wire representation ("0.##")
func (a Amount) String() string {
	return textfmt.FormatAmount(a.value)
}

// NormalizeCurrency upper-cases code and checks it is a known ISO 4217 currency
func NormalizeCurrency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", shared.InvalidFormat(fmt.Sprintf("Invalid currency code %q, must be 3 letters", code))
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", shared.InvalidFormat(fmt.Sprintf("Unknown ISO 4217 currency code %q", code))
	}
	return unit.String(), nil
}
