package qc

import (
	"context"
	"io"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// PDFTextReader extrae la capa de texto de un PDF, una página tras otra
// separadas por "\f". Un documento sin texto devuelve domain.ErrEmptyDocument.
type PDFTextReader interface {
	ReadText(ctx context.Context, r io.ReaderAt, size int64) (string, error)
}

// ReportRenderer serializa un informe de lote en un formato concreto.
type ReportRenderer interface {
	Format() string      // json, xlsx, pdf, xml
	ContentType() string // MIME de la respuesta HTTP
	Render(ctx context.Context, w io.Writer, report *entity.BatchReport) error
}

// Document archivo recibido para extracción.
type Document struct {
	Name string
	Data []byte
}
