package core

// streaming.go wraps source readers so the CSV parser always sees UTF-8.
//
// Catalog exports are written by desktop tools in a single-byte code page, so
// the default decoding maps every byte to a rune and never fails. A leading
// UTF-8 BOM is dropped before decoding; otherwise Latin-1 decoding would turn
// it into "ï»¿" glued to the first lot number.

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// SourceEncoding names a supported source file encoding.
type SourceEncoding string

const (
	EncodingLatin1      SourceEncoding = "latin-1"
	EncodingWindows1252 SourceEncoding = "windows-1252"
	EncodingUTF8        SourceEncoding = "utf-8"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// ParseSourceEncoding converts a configuration string to a SourceEncoding.
// An empty string selects Latin-1.
func ParseSourceEncoding(s string) (SourceEncoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "latin-1", "latin1", "iso-8859-1":
		return EncodingLatin1, nil
	case "windows-1252", "cp1252":
		return EncodingWindows1252, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	default:
		return "", fmt.Errorf("encoding error: unsupported source encoding %q", s)
	}
}

func (e SourceEncoding) decoder() *encoding.Decoder {
	switch e {
	case EncodingWindows1252:
		return charmap.Windows1252.NewDecoder()
	case EncodingUTF8:
		// Invalid sequences become U+FFFD instead of failing the read.
		return unicode.UTF8.NewDecoder()
	default:
		return charmap.ISO8859_1.NewDecoder()
	}
}

// skipBOM returns a reader positioned after a UTF-8 BOM, if one is present.
func skipBOM(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(bomUTF8))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if bytes.Equal(head, bomUTF8) {
		if _, err := br.Discard(len(bomUTF8)); err != nil {
			return nil, err
		}
	}
	return br, nil
}

// NewSourceReader wraps r with BOM skipping and decoding to UTF-8.
//
// The order matters: the BOM is only recognizable in the raw bytes.
func NewSourceReader(r io.Reader, enc SourceEncoding) (io.Reader, error) {
	stripped, err := skipBOM(r)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	return enc.decoder().Reader(stripped), nil
}
