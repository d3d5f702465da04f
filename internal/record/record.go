package record

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ezexpenses/internal/currency"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateID   = errors.New("duplicate record id")
	ErrInvalidType   = errors.New("type must be income or expense")
	ErrInvalidAmount = errors.New("amount must be a non-negative number")
	ErrInvalidDate   = errors.New("date must be a YYYY-MM-DD calendar date")
	ErrEmptyPatch    = errors.New("bulk edit sets no fields")
	ErrNoIDs         = errors.New("no record ids given")
)

// Type represents the type of record (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Record is a single bookkeeping entry. Amount is in the native currency;
// ConvertedUSD is derived from Amount and Currency.
type Record struct {
	ID           int64           `json:"id"`
	CreatedAt    int64           `json:"createdAt"` // Unix milliseconds
	UpdatedAt    int64           `json:"updatedAt"` // Unix milliseconds
	Type         Type            `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     currency.Code   `json:"currency"`
	ConvertedUSD decimal.Decimal `json:"convertedUSD"`
	Date         string          `json:"date"` // YYYY-MM-DD
	Tags         []string        `json:"tags"`
	Note         string          `json:"note"`
}

// HasTag reports whether the record carries tag.
func (r *Record) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}
