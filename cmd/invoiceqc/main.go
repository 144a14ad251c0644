// invoiceqc extrae facturas de PDFs con capa de texto y valida sus datos.
//
// Uso:
//
//	invoiceqc extract  --pdf-dir facturas/ --output extraidas.json
//	invoiceqc validate --input extraidas.json [--report informe.xlsx]
//	invoiceqc full-run --pdf-dir facturas/ --report informe.pdf
//
// Sale con código 1 si alguna factura no supera la validación y 2 ante cualquier otro error.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/invoice-qc/internal/application/qc"
	"github.com/jhoicas/invoice-qc/internal/domain/extraction"
	"github.com/jhoicas/invoice-qc/internal/domain/validation"
	"github.com/jhoicas/invoice-qc/internal/infrastructure/bundle"
	infrapdf "github.com/jhoicas/invoice-qc/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-qc/internal/infrastructure/pdftext"
	"github.com/jhoicas/invoice-qc/internal/infrastructure/xlsx"
	"github.com/jhoicas/invoice-qc/internal/infrastructure/xmlreport"
	"github.com/jhoicas/invoice-qc/internal/interfaces/cli"
	"github.com/jhoicas/invoice-qc/pkg/config"
	"github.com/jhoicas/invoice-qc/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		return 2
	}

	// stdout queda libre para el resumen
	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		Out:   os.Stderr,
	})

	tolerance, err := cfg.QC.ToleranceDecimal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Tolerancia: %v\n", err)
		return 2
	}
	uc := qc.NewUseCase(
		extraction.NewExtractor(extraction.Options{CurrencyFallback: cfg.QC.CurrencyFallback}),
		validation.NewValidator(validation.Config{
			Tolerance:         tolerance,
			AllowedCurrencies: cfg.QC.AllowedCurrencies,
			Workers:           cfg.QC.Workers,
		}),
		pdftext.NewReader(),
		log,
	)
	xlsxRenderer := xlsx.NewReportRenderer()
	pdfRenderer := infrapdf.NewMarotoReportRenderer(cfg.App.Name)
	xmlRenderer := xmlreport.NewReportRenderer()
	reports := qc.NewReports(
		xlsxRenderer,
		pdfRenderer,
		xmlRenderer,
		bundle.NewZipRenderer(qc.JSONRenderer{}, xlsxRenderer, pdfRenderer, xmlRenderer),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(cli.Deps{UseCase: uc, Reports: reports, Stdout: os.Stdout, Stderr: os.Stderr})
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrChecksFailed) {
			return 1
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return 0
}
