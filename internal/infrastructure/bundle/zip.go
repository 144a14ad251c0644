// Package bundle empaqueta el informe en todos los formatos disponibles en un único ZIP.
package bundle

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// Part renderizador de un formato incluido en el ZIP.
type Part interface {
	Format() string
	Render(ctx context.Context, w io.Writer, report *entity.BatchReport) error
}

// ZipRenderer implementa qc.ReportRenderer con formato "zip".
type ZipRenderer struct {
	parts []Part
}

// NewZipRenderer incluye una entrada por cada parte, en el orden recibido.
func NewZipRenderer(parts ...Part) *ZipRenderer {
	return &ZipRenderer{parts: parts}
}

func (r *ZipRenderer) Format() string      { return "zip" }
func (r *ZipRenderer) ContentType() string { return "application/zip" }

// Render escribe el ZIP en streaming; cada entrada se llama {base}.{formato}.
func (r *ZipRenderer) Render(ctx context.Context, w io.Writer, report *entity.BatchReport) error {
	zw := zip.NewWriter(w)
	base := BaseName(report)
	modified := time.Now()
	if report.GeneratedAt != nil {
		modified = *report.GeneratedAt
	}

	for _, p := range r.parts {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := base + "." + p.Format()
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return fmt.Errorf("zip: crear entrada %s: %w", name, err)
		}
		if err := p.Render(ctx, fw, report); err != nil {
			return fmt.Errorf("zip: escribir %s: %w", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("zip: cerrar archivo: %w", err)
	}
	return nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// BaseName nombre de archivo del informe: invoice-qc-{report_id} sin caracteres especiales.
// Ejemplo: invoice-qc-6f1c2b0e-...
func BaseName(report *entity.BatchReport) string {
	id := unsafeChars.ReplaceAllString(report.ReportID, "")
	if id == "" {
		return "invoice-qc"
	}
	return "invoice-qc-" + id
}
