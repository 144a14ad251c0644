package qc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jhoicas/invoice-qc/internal/domain"
	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// Reports catálogo de renderizadores por formato.
type Reports struct {
	renderers map[string]ReportRenderer
}

// NewReports registra los renderizadores; el JSON siempre está disponible.
func NewReports(renderers ...ReportRenderer) *Reports {
	r := &Reports{renderers: map[string]ReportRenderer{"json": JSONRenderer{}}}
	for _, rr := range renderers {
		r.renderers[strings.ToLower(rr.Format())] = rr
	}
	return r
}

// Get devuelve el renderizador del formato o domain.ErrUnknownFormat.
func (r *Reports) Get(format string) (ReportRenderer, error) {
	rr, ok := r.renderers[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (disponibles: %s)", domain.ErrUnknownFormat, format, strings.Join(r.Formats(), ", "))
	}
	return rr, nil
}

// Formats formatos registrados, ordenados.
func (r *Reports) Formats() []string {
	out := make([]string, 0, len(r.renderers))
	for f := range r.renderers {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Render escribe el informe en el formato pedido.
func (r *Reports) Render(ctx context.Context, format string, w io.Writer, report *entity.BatchReport) error {
	rr, err := r.Get(format)
	if err != nil {
		return err
	}
	if err := rr.Render(ctx, w, report); err != nil {
		return fmt.Errorf("informe %s: %w", rr.Format(), err)
	}
	return nil
}

// FormatFromPath deduce el formato por la extensión del archivo ("" si no tiene).
func FormatFromPath(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 && i < len(path)-1 && !strings.ContainsAny(path[i:], `/\`) {
		return strings.ToLower(path[i+1:])
	}
	return ""
}

// JSONRenderer informe JSON indentado.
type JSONRenderer struct{}

func (JSONRenderer) Format() string      { return "json" }
func (JSONRenderer) ContentType() string { return "application/json" }

func (JSONRenderer) Render(_ context.Context, w io.Writer, report *entity.BatchReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WriteInvoicesJSON serializa facturas extraídas (salida de "invoiceqc extract").
func WriteInvoicesJSON(w io.Writer, invoices []entity.Invoice) error {
	if invoices == nil {
		invoices = []entity.Invoice{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(invoices)
}
