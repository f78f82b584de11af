package extract

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/ppiankov/verifact/internal/model"
)

// textEncoding is one candidate in the decoding cascade
type textEncoding struct {
	name   string
	decode func([]byte) (string, bool)
}

// TextDecoder decodes plain-text uploads by trying encodings in a fixed order:
// UTF-8, UTF-16, Latin-1, Windows-1252. The first strict success wins.
type TextDecoder struct {
	encodings []textEncoding
}

// NewTextDecoder creates the plain-text decoder
func NewTextDecoder() *TextDecoder {
	return &TextDecoder{
		encodings: []textEncoding{
			{name: "utf-8", decode: decodeUTF8},
			{name: "utf-16", decode: decodeUTF16},
			{name: "latin-1", decode: decodeLatin1},
			{name: "windows-1252", decode: decodeWindows1252},
		},
	}
}

func (d *TextDecoder) Name() string { return "txt" }

func (d *TextDecoder) Extensions() []string { return []string{".txt"} }

// Decode returns *model.EncodingError when no candidate encoding accepts the bytes
func (d *TextDecoder) Decode(data []byte, filename string) (string, error) {
	text, _, err := d.DecodeWithName(data, filename)
	return text, err
}

// DecodeWithName is Decode that also reports which encoding succeeded
func (d *TextDecoder) DecodeWithName(data []byte, filename string) (string, string, error) {
	tried := make([]string, 0, len(d.encodings))
	for _, enc := range d.encodings {
		if text, ok := enc.decode(data); ok {
			return text, enc.name, nil
		}
		tried = append(tried, enc.name)
	}
	return "", "", &model.EncodingError{Filename: filename, Tried: tried}
}

func decodeUTF8(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

// decodeUTF16 requires a byte order mark; without one any even-length
// single-byte text would decode as UTF-16 garbage.
func decodeUTF16(data []byte) (string, bool) {
	if len(data)%2 != 0 {
		return "", false
	}
	dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	return strictDecode(dec, data)
}

// decodeLatin1 rejects C1 control bytes (0x80-0x9F), which in practice mean
// the text is Windows-1252.
func decodeLatin1(data []byte) (string, bool) {
	for _, b := range data {
		if b >= 0x80 && b <= 0x9F {
			return "", false
		}
	}
	return strictDecode(charmap.ISO8859_1.NewDecoder(), data)
}

// windows1252Undefined are the bytes with no assigned character in Windows-1252
var windows1252Undefined = []byte{0x81, 0x8D, 0x8F, 0x90, 0x9D}

func decodeWindows1252(data []byte) (string, bool) {
	for _, b := range windows1252Undefined {
		if bytes.IndexByte(data, b) >= 0 {
			return "", false
		}
	}
	return strictDecode(charmap.Windows1252.NewDecoder(), data)
}

// strictDecode fails instead of substituting U+FFFD for invalid input
func strictDecode(dec *encoding.Decoder, data []byte) (string, bool) {
	out, err := dec.Bytes(data)
	if err != nil {
		return "", false
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}
