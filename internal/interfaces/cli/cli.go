// Package cli comandos de la herramienta invoiceqc: extract, validate y full-run.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jhoicas/invoice-qc/internal/application/dto"
	"github.com/jhoicas/invoice-qc/internal/application/qc"
	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// ErrChecksFailed al menos una factura no superó la validación (código de salida 1).
var ErrChecksFailed = errors.New("hay facturas que no superan la validación")

// topRules máximo de reglas listadas en el resumen.
const topRules = 10

// Deps dependencias de los comandos.
type Deps struct {
	UseCase *qc.UseCase
	Reports *qc.Reports
	Stdout  io.Writer // resumen y mensajes
	Stderr  io.Writer // barra de progreso
}

// NewRootCommand construye el comando raíz con sus subcomandos.
func NewRootCommand(deps Deps) *cobra.Command {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	root := &cobra.Command{
		Use:           "invoiceqc",
		Short:         "Extracción y control de calidad de facturas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(deps.Stdout)
	root.SetErr(deps.Stderr)
	root.AddCommand(newExtractCommand(deps), newValidateCommand(deps), newFullRunCommand(deps))
	return root
}

func newExtractCommand(deps Deps) *cobra.Command {
	var pdfDir, output string
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extrae las facturas de una carpeta de PDFs a JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			extracted, err := extractDir(cmd.Context(), deps, pdfDir)
			if err != nil {
				return err
			}
			invoices := make([]entity.Invoice, len(extracted))
			for i, ex := range extracted {
				invoices[i] = ex.Invoice
			}
			if err := writeFile(output, func(w io.Writer) error { return qc.WriteInvoicesJSON(w, invoices) }); err != nil {
				return err
			}
			fmt.Fprintf(deps.Stdout, "Extraídas %d facturas -> %s\n", len(invoices), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&pdfDir, "pdf-dir", "", "carpeta con los PDFs de facturas")
	cmd.Flags().StringVar(&output, "output", "", "archivo JSON de salida")
	_ = cmd.MarkFlagRequired("pdf-dir")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func newValidateCommand(deps Deps) *cobra.Command {
	var input, reportPath, format string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Valida un archivo JSON de facturas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("leer %s: %w", input, err)
			}
			report, err := deps.UseCase.ValidateJSON(data)
			if err != nil {
				return err
			}
			if reportPath != "" {
				if err := writeReport(cmd.Context(), deps, reportPath, format, &report); err != nil {
					return err
				}
			}
			return finish(deps.Stdout, &report)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "archivo JSON con un arreglo de facturas")
	cmd.Flags().StringVar(&reportPath, "report", "", "ruta opcional del informe")
	cmd.Flags().StringVar(&format, "format", "", "json | xlsx | pdf | xml | zip (por defecto, según la extensión)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func newFullRunCommand(deps Deps) *cobra.Command {
	var pdfDir, reportPath, format string
	cmd := &cobra.Command{
		Use:   "full-run",
		Short: "Extrae y valida una carpeta de PDFs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			extracted, err := extractDir(cmd.Context(), deps, pdfDir)
			if err != nil {
				return err
			}
			invoices := make([]entity.Invoice, len(extracted))
			for i, ex := range extracted {
				invoices[i] = ex.Invoice
			}
			report := deps.UseCase.Validate(invoices)
			if err := writeReport(cmd.Context(), deps, reportPath, format, &report); err != nil {
				return err
			}
			return finish(deps.Stdout, &report)
		},
	}
	cmd.Flags().StringVar(&pdfDir, "pdf-dir", "", "carpeta con los PDFs de facturas")
	cmd.Flags().StringVar(&reportPath, "report", "", "ruta del informe")
	cmd.Flags().StringVar(&format, "format", "", "json | xlsx | pdf | xml | zip (por defecto, según la extensión)")
	_ = cmd.MarkFlagRequired("pdf-dir")
	_ = cmd.MarkFlagRequired("report")
	return cmd
}

// extractDir extrae los PDFs de primer nivel de dir, en orden alfabético.
func extractDir(ctx context.Context, deps Deps, dir string) ([]dto.ExtractedInvoice, error) {
	docs, err := loadPDFs(dir)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return []dto.ExtractedInvoice{}, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	bar := progressbar.NewOptions(len(docs),
		progressbar.OptionSetWriter(deps.Stderr),
		progressbar.OptionSetDescription("Procesando facturas"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	extracted, err := deps.UseCase.ExtractPDFs(ctx, docs, func(done int) { _ = bar.Set(done) })
	_ = bar.Finish()
	fmt.Fprintln(deps.Stderr)
	return extracted, err
}

func loadPDFs(dir string) ([]qc.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("leer carpeta %s: %w", dir, err)
	}
	var docs []qc.Document
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("leer %s: %w", path, err)
		}
		docs = append(docs, qc.Document{Name: e.Name(), Data: data})
	}
	return docs, nil
}

func writeReport(ctx context.Context, deps Deps, path, format string, report *entity.BatchReport) error {
	if format == "" {
		format = qc.FormatFromPath(path)
	}
	if format == "" {
		format = "json"
	}
	// Formato inválido antes de crear el archivo.
	if _, err := deps.Reports.Get(format); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := writeFile(path, func(w io.Writer) error { return deps.Reports.Render(ctx, format, w, report) }); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Informe escrito en %s\n", path)
	return nil
}

func writeFile(path string, write func(io.Writer) error) (err error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("crear carpeta %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("crear %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("cerrar %s: %w", path, cerr)
		}
	}()
	return write(f)
}

// finish imprime el resumen y devuelve ErrChecksFailed si alguna factura falló.
func finish(w io.Writer, report *entity.BatchReport) error {
	PrintSummary(w, report.Summary)
	if report.Summary.Failed > 0 {
		return ErrChecksFailed
	}
	return nil
}

// PrintSummary totales y reglas más frecuentes.
func PrintSummary(w io.Writer, s entity.Summary) {
	fmt.Fprintf(w, "Total: %d\n", s.Total)
	fmt.Fprintf(w, "Válidas: %d  Inválidas: %d\n", s.Passed, s.Failed)
	counts := s.SortedRuleCounts()
	if len(counts) == 0 {
		return
	}
	if len(counts) > topRules {
		counts = counts[:topRules]
	}
	fmt.Fprintln(w, "Reglas más frecuentes:")
	for _, rc := range counts {
		fmt.Fprintf(w, "- %s: %d\n", rc.RuleID, rc.Count)
	}
}
