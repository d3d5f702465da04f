package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/ezexpenses/internal/importer"
	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

// SheetName is the worksheet records are written to.
const SheetName = "Records"

// Lister is the part of the record service the export needs.
type Lister interface {
	List(ctx context.Context, filter record.ListFilter) ([]*record.Record, error)
}

// Service writes record collections as spreadsheets that import back cleanly.
type Service struct {
	records Lister
}

// NewService creates a new export Service.
func NewService(records Lister) *Service {
	return &Service{records: records}
}

// Filename is the suggested download name for a format.
func Filename(format importer.Format) string {
	return SheetName + "." + string(format)
}

// ContentType is the MIME type of a format.
func ContentType(format importer.Format) string {
	if format == importer.FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	return "text/csv; charset=utf-8"
}

// Export writes the records matching filter to w, oldest first.
func (s *Service) Export(ctx context.Context, format importer.Format, filter record.ListFilter, w io.Writer) (int, error) {
	filter.Asc = true

	recs, err := s.records.List(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("listing records: %w", err)
	}

	switch format {
	case importer.FormatXLSX:
		err = writeXLSX(w, recs)
	case importer.FormatCSV:
		err = writeCSV(w, recs)
	default:
		return 0, fmt.Errorf("unknown export format: %s", format)
	}

	if err != nil {
		return 0, err
	}

	return len(recs), nil
}

func row(r *record.Record) []string {
	return []string{string(r.Type), r.Amount.String(), r.Date, strings.Join(r.Tags, ", "), r.Note}
}

func writeCSV(w io.Writer, recs []*record.Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(importer.Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, r := range recs {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("writing record %d: %w", r.ID, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

func writeXLSX(w io.Writer, recs []*record.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(importer.Columns))
	for i, c := range importer.Columns {
		header[i] = c
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range recs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		amount := r.Amount.InexactFloat64()
		values := []any{string(r.Type), amount, r.Date, strings.Join(r.Tags, ", "), r.Note}

		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("writing record %d: %w", r.ID, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}
