package valueobjects

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var hundred = decimal.NewFromInt(100)

// Money is an exact decimal amount in an ISO 4217 currency.
type Money struct {
	amount   decimal.Decimal
	currency string
}

func NewMoney(amount decimal.Decimal, currencyCode string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("amount must not be negative: %s", amount.String())
	}
	code, err := NormalizeCurrencyCode(currencyCode)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: code}, nil
}

// NormalizeCurrencyCode upper-cases code and checks it against ISO 4217.
func NormalizeCurrencyCode(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return "", fmt.Errorf("invalid currency code: %q", code)
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("invalid currency code: %q", code)
	}
	return unit.String(), nil
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

// MinorUnits is amount × 100 rounded half away from zero, so 19.999 becomes
// 2000 and 10.005 becomes 1001. The provider expects hundredths for every
// currency.
func (m Money) MinorUnits() int64 {
	return m.amount.Mul(hundred).Round(0).IntPart()
}

func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount) && m.currency == other.currency
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}
