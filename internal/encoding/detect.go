// Package encoding normalises imported text files to UTF-8. Spreadsheet
// programs save CSV as UTF-8 with a BOM, UTF-16 or a Windows code page
// depending on platform and locale.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names the source encoding found by Detect.
type Charset string

const (
	UTF8        Charset = "UTF-8"
	UTF8BOM     Charset = "UTF-8 (BOM)"
	UTF16LE     Charset = "UTF-16LE"
	UTF16BE     Charset = "UTF-16BE"
	Windows1252 Charset = "windows-1252"
	ISO88599    Charset = "ISO-8859-9"
)

const sniffLen = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Detect guesses the charset of a file from its first bytes: BOM first, then
// UTF-8 validity, then chardet, falling back to Windows-1252.
func Detect(buf []byte) Charset {
	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		return UTF8BOM
	case bytes.HasPrefix(buf, bomUTF16LE):
		return UTF16LE
	case bytes.HasPrefix(buf, bomUTF16BE):
		return UTF16BE
	case utf8.Valid(buf):
		return UTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return UTF8
		case "ISO-8859-9":
			return ISO88599
		}
	}

	return Windows1252
}

// NewUTF8Reader wraps r so that it yields UTF-8 regardless of the source
// encoding, and reports which encoding was detected. A UTF-8 BOM is dropped.
func NewUTF8Reader(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	buf, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	cs := Detect(buf)

	var dec encoding.Encoding

	switch cs {
	case UTF8:
		return br, cs, nil
	case UTF8BOM:
		_, _ = br.Discard(len(bomUTF8))
		return br, cs, nil
	case UTF16LE:
		dec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case UTF16BE:
		dec = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case ISO88599:
		dec = charmap.ISO8859_9
	default:
		dec = charmap.Windows1252
	}

	return transform.NewReader(br, dec.NewDecoder()), cs, nil
}
