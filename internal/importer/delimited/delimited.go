// Package delimited reads comma or semicolon separated files in any of the
// encodings internal/encoding understands.
package delimited

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	enc "github.com/MrJamesThe3rd/ezexpenses/internal/encoding"
)

type Reader struct{}

func New() *Reader {
	return &Reader{}
}

func (d *Reader) ReadRows(r io.Reader) ([][]string, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// sniffDelimiter picks ';' when the header line has semicolons but no commas.
func sniffDelimiter(br *bufio.Reader) rune {
	buf, _ := br.Peek(4096)
	if i := bytes.IndexByte(buf, '\n'); i >= 0 {
		buf = buf[:i]
	}

	if bytes.IndexByte(buf, ';') >= 0 && bytes.IndexByte(buf, ',') < 0 {
		return ';'
	}

	return ','
}
