// Package pdftext lee la capa de texto de PDFs digitales con ledongthuc/pdf.
// No hace OCR: un PDF escaneado devuelve domain.ErrEmptyDocument.
package pdftext

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/jhoicas/invoice-qc/internal/domain"
)

// Reader implementa qc.PDFTextReader.
type Reader struct{}

// NewReader construye el lector.
func NewReader() *Reader { return &Reader{} }

// ReadText concatena las filas de texto de cada página; las páginas se separan con "\f".
func (r *Reader) ReadText(ctx context.Context, src io.ReaderAt, size int64) (text string, err error) {
	// ledongthuc/pdf entra en pánico con algunos PDFs mal formados
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("pdftext: documento corrupto: %v", rec)
		}
	}()

	doc, err := pdf.NewReader(src, size)
	if err != nil {
		return "", fmt.Errorf("pdftext: abrir documento: %w", err)
	}

	pages := make([]string, 0, doc.NumPage())
	for i := 1; i <= doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("pdftext: página %d: %w", i, err)
		}
		var sb strings.Builder
		for _, row := range rows {
			for j, word := range row.Content {
				if j > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(word.S)
			}
			sb.WriteByte('\n')
		}
		pages = append(pages, sb.String())
	}

	text = strings.Join(pages, "\f")
	if strings.TrimSpace(text) == "" {
		return "", domain.ErrEmptyDocument
	}
	return text, nil
}
