package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// FormatFromFilename picks the format from a file extension.
func FormatFromFilename(name string) (Format, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")); ext {
	case "xlsx":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported file extension %q", ext)
	}
}

// RowReader turns a spreadsheet file into rows of cell text.
// The first row is the header.
type RowReader interface {
	ReadRows(r io.Reader) ([][]string, error)
}
