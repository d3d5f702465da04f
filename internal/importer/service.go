package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/ezexpenses/internal/importer/delimited"
	"github.com/MrJamesThe3rd/ezexpenses/internal/importer/sheet"
	"github.com/MrJamesThe3rd/ezexpenses/internal/record"
)

// RecordCreator commits validated rows.
type RecordCreator interface {
	CreateBatch(ctx context.Context, params []record.CreateParams) ([]*record.Record, error)
}

type Service struct {
	readers map[Format]RowReader
	records RecordCreator
}

func NewService(records RecordCreator) *Service {
	return &Service{
		readers: map[Format]RowReader{
			FormatXLSX: sheet.New(),
			FormatCSV:  delimited.New(),
		},
		records: records,
	}
}

// Parse reads and validates a file without storing anything.
func (s *Service) Parse(format Format, r io.Reader) (*Batch, error) {
	reader, ok := s.readers[format]
	if !ok {
		return nil, fmt.Errorf("%w: unknown format %q", ErrUnreadable, format)
	}

	rows, err := reader.ReadRows(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, format, err)
	}

	return parseRows(rows)
}

type Result struct {
	BatchID  uuid.UUID
	Records  []*record.Record
	Failures []Failure
}

func (r *Result) Imported() int { return len(r.Records) }
func (r *Result) Failed() int   { return len(r.Failures) }

// Import parses a file and stores every valid row in one write. Invalid
// rows are counted and skipped.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader) (*Result, error) {
	batch, err := s.Parse(format, r)
	if err != nil {
		return nil, err
	}

	result := &Result{BatchID: uuid.New(), Failures: batch.Failures}

	recs, err := s.records.CreateBatch(ctx, batch.Params)
	if err != nil {
		return nil, fmt.Errorf("storing imported records: %w", err)
	}

	result.Records = recs

	slog.Info("import finished",
		"batch", result.BatchID,
		"format", format,
		"imported", result.Imported(),
		"failed", result.Failed(),
	)

	return result, nil
}
