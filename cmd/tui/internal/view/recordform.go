package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ezexpenses/internal/currency"
	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

// recordForm holds the huh bindings for one record. Models keep it behind a
// pointer so the bound fields survive bubbletea's value copies.
type recordForm struct {
	Type     record.Type
	Amount   string
	Currency currency.Code
	Date     string
	Tags     string
	Note     string
}

func newRecordForm(today string) *recordForm {
	return &recordForm{
		Type:     record.TypeExpense,
		Currency: currency.Default,
		Date:     today,
	}
}

func (f *recordForm) fill(r *record.Record) {
	f.Type = r.Type
	f.Amount = r.Amount.String()
	f.Currency = r.Currency
	f.Date = r.Date
	f.Tags = strings.Join(r.Tags, " ")
	f.Note = r.Note
}

func (f *recordForm) params() (record.CreateParams, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(f.Amount))
	if err != nil {
		return record.CreateParams{}, fmt.Errorf("amount: %w", record.ErrInvalidAmount)
	}

	return record.CreateParams{
		Type:     f.Type,
		Amount:   amount,
		Currency: f.Currency,
		Date:     strings.TrimSpace(f.Date),
		Tags:     ParseTags(f.Tags),
		Note:     strings.TrimSpace(f.Note),
	}, nil
}

func validateAmount(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("amount must be a number")
	}

	if d.IsNegative() {
		return fmt.Errorf("amount cannot be negative")
	}

	return nil
}

func validateDate(s string) error {
	if !record.ValidDate(strings.TrimSpace(s)) {
		return fmt.Errorf("date must be a real YYYY-MM-DD date")
	}

	return nil
}

func currencyOptions() []huh.Option[currency.Code] {
	codes := currency.Codes()
	opts := make([]huh.Option[currency.Code], len(codes))

	for i, c := range codes {
		opts[i] = huh.NewOption(string(c), c)
	}

	return opts
}

// build returns a form over f. suggestions feed tag autocompletion.
func (f *recordForm) build(title string, suggestions []string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[record.Type]().
				Title(title).
				Options(
					huh.NewOption("Expense", record.TypeExpense),
					huh.NewOption("Income", record.TypeIncome),
				).
				Value(&f.Type),
			huh.NewInput().
				Title("Amount").
				Placeholder("0.00").
				Validate(validateAmount).
				Value(&f.Amount),
			huh.NewSelect[currency.Code]().
				Title("Currency").
				Options(currencyOptions()...).
				Value(&f.Currency),
			huh.NewInput().
				Title("Date").
				Placeholder("YYYY-MM-DD").
				Validate(validateDate).
				Value(&f.Date),
			huh.NewInput().
				Title("Tags").
				Description("Separated by spaces or commas").
				Suggestions(suggestions).
				Value(&f.Tags),
			huh.NewInput().
				Title("Note").
				Value(&f.Note),
		),
	).WithWidth(45).WithShowHelp(false)
}
