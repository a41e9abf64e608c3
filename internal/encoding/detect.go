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
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

type options struct {
	legacy xencoding.Encoding
}

type Option func(*options)

// WithLegacy names the single-byte charset the input is known to use when it
// is not Unicode, replacing heuristic detection.
func WithLegacy(e xencoding.Encoding) Option {
	return func(o *options) { o.legacy = e }
}

// NewUTF8Reader returns a reader that yields the input as UTF-8. A byte order
// mark decides first and a UTF-8 one is stripped. Valid UTF-8 passes through
// untouched. Anything else is decoded with the WithLegacy charset when given,
// otherwise with chardet's best guess, falling back to Windows-1252.
func NewUTF8Reader(r io.Reader, opts ...Option) (io.Reader, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	br := bufio.NewReader(r)

	// Peek enough bytes for BOM detection and charset heuristics.
	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if bytes.HasPrefix(buf, bomUTF8) {
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	}

	if bytes.HasPrefix(buf, bomUTF16LE) {
		decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder), nil
	}

	if bytes.HasPrefix(buf, bomUTF16BE) {
		decoder := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
		return transform.NewReader(br, decoder), nil
	}

	if utf8.Valid(buf) {
		return br, nil
	}

	if o.legacy != nil {
		return transform.NewReader(br, o.legacy.NewDecoder()), nil
	}

	detector := chardet.NewTextDetector()

	result, detectErr := detector.DetectBest(buf)
	if detectErr == nil {
		switch result.Charset {
		case "UTF-8":
			return br, nil
		case "ISO-8859-1", "windows-1252":
			return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
		case "ISO-8859-9":
			return transform.NewReader(br, charmap.ISO8859_9.NewDecoder()), nil
		case "windows-1256":
			return transform.NewReader(br, charmap.Windows1256.NewDecoder()), nil
		case "ISO-8859-6":
			return transform.NewReader(br, charmap.ISO8859_6.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}
