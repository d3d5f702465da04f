// Package sheet reads the first worksheet of an XLSX workbook.
package sheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

type Reader struct{}

func New() *Reader {
	return &Reader{}
}

// ReadRows returns raw cell values, so date cells come back as serial numbers.
func (s *Reader) ReadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	return rows, nil
}
