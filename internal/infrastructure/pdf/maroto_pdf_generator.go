// Package pdf genera el informe de control de calidad de un lote en PDF (Maroto v2).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + Informe N° + Fecha de generación          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Total | Aprobadas | Rechazadas                    │
//	│  REGLAS: regla → ocurrencias                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Factura | Estado | Violaciones                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"io"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorGreen   = &props.Color{Red: 20, Green: 120, Blue: 50}
	colorRed     = &props.Color{Red: 154, Green: 5, Blue: 17}
)

const maxMessageLen = 110

// ── Renderer ──────────────────────────────────────────────────────────────────

// MarotoReportRenderer implementa qc.ReportRenderer usando Maroto v2.
type MarotoReportRenderer struct {
	author string
}

// NewMarotoReportRenderer construye el renderizador; author figura en los metadatos del PDF.
func NewMarotoReportRenderer(author string) *MarotoReportRenderer {
	return &MarotoReportRenderer{author: author}
}

func (g *MarotoReportRenderer) Format() string      { return "pdf" }
func (g *MarotoReportRenderer) ContentType() string { return "application/pdf" }

// Render genera el PDF y lo escribe en w.
func (g *MarotoReportRenderer) Render(_ context.Context, w io.Writer, report *entity.BatchReport) error {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Informe de control de calidad de facturas", true).
		WithAuthor(nonEmpty(g.author, "invoice-qc"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report.Summary))
	m.AddRows(ruleCountRows(report.Summary)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(resultRows(report.Results)...)

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}
	if _, err := w.Write(doc.GetBytes()); err != nil {
		return fmt.Errorf("pdf: escribir documento: %w", err)
	}
	return nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) e identificador + fecha del informe (der).
func headerRow(report *entity.BatchReport) core.Row {
	generated := "—"
	if report.GeneratedAt != nil {
		generated = report.GeneratedAt.Format("2006-01-02 15:04 MST")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("CONTROL DE CALIDAD DE FACTURAS", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Extracción y validación por lote", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("INFORME", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(report.ReportID, "—"), props.Text{
				Size: 7, Align: align.Right, Top: 7,
			}),
			text.New("Generado: "+generated, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// summaryRow: conteos del lote.
func summaryRow(s entity.Summary) core.Row {
	cell := func(label string, value int, c *props.Color) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Center}),
			text.New(fmt.Sprintf("%d", value), props.Text{Style: fontstyle.Bold, Size: 14, Top: 6, Color: c, Align: align.Center}),
		)
	}
	return row.New(16).Add(
		cell("TOTAL", s.Total, colorPrimary),
		cell("APROBADAS", s.Passed, colorGreen),
		cell("RECHAZADAS", s.Failed, colorRed),
	)
}

// ruleCountRows: una fila por regla, de mayor a menor número de ocurrencias.
func ruleCountRows(s entity.Summary) []core.Row {
	if len(s.RuleCounts) == 0 {
		return nil
	}
	rows := []core.Row{row.New(6).Add(col.New(12).Add(
		text.New("VIOLACIONES POR REGLA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
	))}
	for _, rc := range s.SortedRuleCounts() {
		rows = append(rows, row.New(5).Add(
			col.New(6).Add(text.New(rc.RuleID, props.Text{Size: 8, Left: 2, Top: 0.5})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", rc.Count), props.Text{Size: 8, Align: align.Right, Top: 0.5})),
			col.New(4),
		))
	}
	return rows
}

// tableHeaderRow: cabecera de la tabla de resultados.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Factura", 3, align.Left),
		h("Estado", 2, align.Center),
		h("Violaciones", 7, align.Left),
	)
}

// resultRows: una fila por factura; la altura crece con el número de violaciones.
func resultRows(results []entity.ValidationResult) []core.Row {
	out := make([]core.Row, 0, len(results))
	for _, r := range results {
		status, c := "APROBADA", colorGreen
		if !r.Passed {
			status, c = "RECHAZADA", colorRed
		}

		violations := col.New(7)
		if len(r.Violations) == 0 {
			violations.Add(text.New("—", props.Text{Size: 7.5, Top: 1, Left: 1, Color: colorGray}))
		}
		for i, v := range r.Violations {
			msg := fmt.Sprintf("[%s] %s: %s", v.Severity, v.RuleID, truncate(v.Message, maxMessageLen))
			violations.Add(text.New(msg, props.Text{Size: 7, Top: 1 + float64(i)*4, Left: 1}))
		}

		height := 7.0
		if n := len(r.Violations); n > 1 {
			height = 3 + float64(n)*4
		}
		out = append(out, row.New(height).Add(
			col.New(3).Add(text.New(r.Invoice.DisplayID, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(status, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 1, Color: c})),
			violations,
		))
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// truncate recorta s a n runas añadiendo "…".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
