// Package currency converts native amounts to USD using a static rate table.
package currency

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
)

var ErrUnknownCurrency = errors.New("unknown currency")

type Code string

const (
	USD Code = "USD"
	CNY Code = "CNY"
	TWD Code = "TWD"
	EUR Code = "EUR"
	CHF Code = "CHF"
)

const Default = USD

// ratesToUSD is how many USD one unit of the currency buys.
var ratesToUSD = map[Code]decimal.Decimal{
	USD: decimal.NewFromInt(1),
	CNY: decimal.RequireFromString("0.14"),
	TWD: decimal.RequireFromString("0.032"),
	EUR: decimal.RequireFromString("1.07"),
	CHF: decimal.RequireFromString("1.12"),
}

// Codes returns the supported currency codes in a stable order.
func Codes() []Code {
	codes := make([]Code, 0, len(ratesToUSD))
	for c := range ratesToUSD {
		codes = append(codes, c)
	}

	slices.Sort(codes)

	return codes
}

func Rate(c Code) (decimal.Decimal, error) {
	rate, ok := ratesToUSD[c]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, c)
	}

	return rate, nil
}

// ToUSD converts amount in currency c to USD.
func ToUSD(amount decimal.Decimal, c Code) (decimal.Decimal, error) {
	rate, err := Rate(c)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return amount.Mul(rate), nil
}
