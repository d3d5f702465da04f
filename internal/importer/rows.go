package importer

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/ezexpenses/internal/currency"
	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

var (
	ErrUnreadable     = errors.New("cannot read import file")
	ErrEmptyFile      = errors.New("file has no data rows")
	ErrMissingColumns = errors.New("header is missing required columns")
)

// IsInputError reports whether err is caused by the file itself rather than storage.
func IsInputError(err error) bool {
	return errors.Is(err, ErrUnreadable) || errors.Is(err, ErrEmptyFile) || errors.Is(err, ErrMissingColumns)
}

const (
	colType   = "type"
	colAmount = "amount"
	colDate   = "date"
	colTags   = "tags"
	colNote   = "note"
)

// Columns is the header every import file must carry, in export order.
var Columns = []string{colType, colAmount, colDate, colTags, colNote}

var tagSeparator = regexp.MustCompile(`[\s,]+`)

// Failure describes a data row that was skipped.
type Failure struct {
	Row    int    `json:"row"` // 1-based row number in the file
	Reason string `json:"reason"`
}

// Batch is the parsed content of a file: the rows that validated and the ones that did not.
type Batch struct {
	Params   []record.CreateParams
	Failures []Failure
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

func parseRows(rows [][]string) (*Batch, error) {
	if len(rows) < 2 {
		return nil, ErrEmptyFile
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	batch := &Batch{}

	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}

		p, err := parseRow(cols, row)
		if err != nil {
			batch.Failures = append(batch.Failures, Failure{Row: i + 2, Reason: err.Error()})
			continue
		}

		batch.Params = append(batch.Params, p)
	}

	return batch, nil
}

func headerIndex(header []string) (colIndex, error) {
	cols := make(colIndex, len(header))

	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if _, dup := cols[name]; name != "" && !dup {
			cols[name] = i
		}
	}

	var missing []string

	for _, c := range Columns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return cols, nil
}

func parseRow(cols colIndex, row []string) (record.CreateParams, error) {
	typ := cellValue(row, cols[colType])
	amount := cellValue(row, cols[colAmount])
	date := cellValue(row, cols[colDate])

	if typ == "" || amount == "" || date == "" {
		return record.CreateParams{}, errors.New("type, amount and date are required")
	}

	t := record.Type(strings.ToLower(typ))
	if !t.Valid() {
		return record.CreateParams{}, fmt.Errorf("invalid type %q", typ)
	}

	amt, err := decimal.NewFromString(amount)
	if err != nil || amt.IsNegative() {
		return record.CreateParams{}, fmt.Errorf("invalid amount %q", amount)
	}

	date, err = normalizeDate(date)
	if err != nil {
		return record.CreateParams{}, err
	}

	return record.CreateParams{
		Type:     t,
		Amount:   amt,
		Currency: currency.Default,
		Date:     date,
		Tags:     splitTags(cellValue(row, cols[colTags])),
		Note:     cellValue(row, cols[colNote]),
	}, nil
}

// normalizeDate accepts YYYY-MM-DD or a spreadsheet serial day number.
func normalizeDate(s string) (string, error) {
	if record.ValidDate(s) {
		return s, nil
	}

	serial, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 1 {
		return "", fmt.Errorf("invalid date %q", s)
	}

	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", fmt.Errorf("invalid date serial %q: %w", s, err)
	}

	// Serials far past the four-digit year range land outside YYYY-MM-DD.
	date := t.Format(time.DateOnly)
	if !record.ValidDate(date) {
		return "", fmt.Errorf("invalid date %q", s)
	}

	return date, nil
}

// splitTags splits on whitespace and commas and strips a leading '#'.
func splitTags(s string) []string {
	var tags []string

	for _, tok := range tagSeparator.Split(s, -1) {
		if tok = strings.TrimPrefix(tok, "#"); tok != "" {
			tags = append(tags, tok)
		}
	}

	return tags
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
