package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are bounded so that rendering one never produces more than a few
// dozen digits.
const (
	maxAmountDigits = 18
	maxAmountScale  = 8
)

// thousandsSeparators are stripped from amounts before parsing.
var thousandsSeparators = strings.NewReplacer(
	",", "",
	"٬", "", // Arabic thousands separator
)

// ParseAmount parses an amount typed by the user.
//
// Thousands separators are removed and Persian or Arabic-Indic digits are
// mapped to ASCII before the value is interpreted as a decimal. The result
// is always strictly positive; ErrMalformedAmount is returned for text that
// is not a number or lies outside the supported range, and ErrInvalidAmount
// for zero or negative values.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(normalizeDigits(thousandsSeparators.Replace(s)))
	if s == "" {
		return decimal.Zero, ErrMalformedAmount
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrMalformedAmount, s)
	}

	if err := ValidateAmount(amount); err != nil {
		return decimal.Zero, err
	}

	return amount, nil
}

// ValidateAmount checks that a transaction amount is strictly positive and
// has at most maxAmountDigits integer and maxAmountScale fractional digits.
func ValidateAmount(amount decimal.Decimal) error {
	// Only the mantissa and exponent are inspected; comparing against another
	// decimal would rescale and expand a huge exponent.
	exp := int64(amount.Exponent())
	if exp < -maxAmountScale || int64(amount.NumDigits())+exp > maxAmountDigits {
		return fmt.Errorf("%w: out of range", ErrMalformedAmount)
	}
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// ValidateUserID rejects empty user identifiers.
func ValidateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidUserID)
	}
	return nil
}

// normalizeDigits maps Extended Arabic-Indic (Persian) and Arabic-Indic
// digits to their ASCII equivalents.
func normalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '۰' && r <= '۹':
			return '0' + (r - '۰')
		case r >= '٠' && r <= '٩':
			return '0' + (r - '٠')
		}
		return r
	}, s)
}
