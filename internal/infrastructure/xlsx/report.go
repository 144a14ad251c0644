// Package xlsx exporta el informe de un lote a una hoja de cálculo (excelize).
package xlsx

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

const (
	sheetSummary = "Resumen"
	sheetResults = "Resultados"
)

// ReportRenderer implementa qc.ReportRenderer.
type ReportRenderer struct{}

func NewReportRenderer() *ReportRenderer { return &ReportRenderer{} }

func (r *ReportRenderer) Format() string { return "xlsx" }

func (r *ReportRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Render escribe dos hojas: Resumen (conteos y reglas) y Resultados (una fila por
// violación; las facturas aprobadas sin avisos ocupan una fila sin regla).
func (r *ReportRenderer) Render(_ context.Context, w io.Writer, report *entity.BatchReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return fmt.Errorf("xlsx: hoja resumen: %w", err)
	}
	if _, err := f.NewSheet(sheetResults); err != nil {
		return fmt.Errorf("xlsx: hoja resultados: %w", err)
	}

	bold, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	red, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "9A0511"}})

	// --- Resumen ---
	generated := ""
	if report.GeneratedAt != nil {
		generated = report.GeneratedAt.Format("2006-01-02 15:04:05 MST")
	}
	summary := [][]any{
		{"Informe", report.ReportID},
		{"Generado", generated},
		{"Total", report.Summary.Total},
		{"Aprobadas", report.Summary.Passed},
		{"Rechazadas", report.Summary.Failed},
		{},
		{"Regla", "Ocurrencias"},
	}
	for _, rc := range report.Summary.SortedRuleCounts() {
		summary = append(summary, []any{rc.RuleID, rc.Count})
	}
	for i, values := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &values); err != nil {
			return fmt.Errorf("xlsx: fila %d: %w", i+1, err)
		}
	}
	_ = f.SetCellStyle(sheetSummary, "A1", "A5", bold)
	_ = f.SetCellStyle(sheetSummary, "A7", "B7", bold)
	_ = f.SetColWidth(sheetSummary, "A", "A", 24)
	_ = f.SetColWidth(sheetSummary, "B", "B", 40)

	// --- Resultados ---
	headers := []string{"Factura", "Número", "Referencia externa", "Estado", "Regla", "Severidad", "Mensaje", "Diferencia"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetResults, cell, h)
	}
	_ = f.SetCellStyle(sheetResults, "A1", "H1", bold)

	row := 2
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheetResults, cell, v)
	}
	for _, res := range report.Results {
		status := "APROBADA"
		if !res.Passed {
			status = "RECHAZADA"
		}
		violations := res.Violations
		if len(violations) == 0 {
			violations = []entity.Violation{{}}
		}
		for _, v := range violations {
			write(1, res.Invoice.DisplayID)
			write(2, res.Invoice.InvoiceNumber)
			write(3, res.Invoice.ExternalReference)
			write(4, status)
			write(5, v.RuleID)
			write(6, string(v.Severity))
			write(7, v.Message)
			if v.Delta != nil {
				write(8, v.Delta.String())
			}
			if !res.Passed {
				cell, _ := excelize.CoordinatesToCellName(4, row)
				_ = f.SetCellStyle(sheetResults, cell, cell, red)
			}
			row++
		}
	}
	_ = f.SetColWidth(sheetResults, "A", "C", 20)
	_ = f.SetColWidth(sheetResults, "E", "E", 22)
	_ = f.SetColWidth(sheetResults, "G", "G", 80)

	idx, _ := f.GetSheetIndex(sheetSummary)
	f.SetActiveSheet(idx)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return nil
}
