package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFDecoder extracts the text layer of PDF documents
type PDFDecoder struct{}

// NewPDFDecoder creates the PDF decoder
func NewPDFDecoder() *PDFDecoder {
	return &PDFDecoder{}
}

func (d *PDFDecoder) Name() string { return "pdf" }

func (d *PDFDecoder) Extensions() []string { return []string{".pdf"} }

// Decode concatenates the plain text of every page in page order, without a separator
func (d *PDFDecoder) Decode(data []byte, filename string) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var buf strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		buf.WriteString(text)
	}

	return buf.String(), nil
}
