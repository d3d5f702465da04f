// Package encoding normalises uploaded text files to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Fallback is used when detection is inconclusive.
var Fallback xencoding.Encoding = charmap.Windows1252

// decoders maps chardet charset names to their decoders. Exporters in the
// regions whose currencies the app supports mostly emit one of these.
var decoders = map[string]xencoding.Encoding{
	"UTF-16LE":     unicode.UTF16(unicode.LittleEndian, unicode.UseBOM),
	"UTF-16BE":     unicode.UTF16(unicode.BigEndian, unicode.UseBOM),
	"GB-18030":     simplifiedchinese.GB18030,
	"Big5":         traditionalchinese.Big5,
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-9":   charmap.ISO8859_9,
	"ISO-8859-15":  charmap.ISO8859_15,
}

// Lookup returns the decoder for a chardet charset name.
func Lookup(charset string) (xencoding.Encoding, bool) {
	e, ok := decoders[charset]
	return e, ok
}

// detect names the charset of a file prefix. An empty name means UTF-8.
func detect(buf []byte) string {
	switch {
	case bytes.HasPrefix(buf, []byte{0xFF, 0xFE}):
		return "UTF-16LE"
	case bytes.HasPrefix(buf, []byte{0xFE, 0xFF}):
		return "UTF-16BE"
	case utf8.Valid(buf):
		return ""
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err != nil || result.Charset == "UTF-8" {
		return ""
	}

	return result.Charset
}

// NewUTF8Reader returns a reader that yields r decoded to UTF-8. A UTF-8 BOM
// is stripped; UTF-16 BOMs select the matching decoder; otherwise the
// charset is guessed from the first few KB, with Fallback for names that
// have no decoder.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	// A multi-byte rune cut at the sniff boundary is not a reason to guess.
	if len(buf) == sniffSize {
		buf = trimPartialRune(buf)
	}

	charset := detect(buf)
	if charset == "" {
		return br, nil
	}

	dec, ok := Lookup(charset)
	if !ok {
		dec = Fallback
	}

	return transform.NewReader(br, dec.NewDecoder()), nil
}

func trimPartialRune(buf []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(buf); i++ {
		if utf8.RuneStart(buf[len(buf)-i]) {
			if !utf8.FullRune(buf[len(buf)-i:]) {
				return buf[:len(buf)-i]
			}

			break
		}
	}

	return buf
}
