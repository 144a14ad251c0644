package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-qc/internal/application/qc"
	"github.com/jhoicas/invoice-qc/internal/domain"
	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/domain/extraction"
	"github.com/jhoicas/invoice-qc/internal/domain/validation"
	"github.com/jhoicas/invoice-qc/internal/interfaces/cli"
	"github.com/jhoicas/invoice-qc/pkg/logger"
)

// textReader trata el contenido tras la cabecera %PDF como capa de texto.
type textReader struct{}

func (textReader) ReadText(_ context.Context, r io.ReaderAt, size int64) (string, error) {
	buf := make([]byte, size)
	if _, err := r.ReadAt(buf, 0); err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimPrefix(string(buf), "%PDF-1.4\n"), nil
}

func invoiceText(number string) string {
	return "Invoice Number: " + number + `
Invoice Date: 2024-01-10
Seller: ACME GmbH
Buyer: Contoso Ltd
Currency: EUR
Subtotal: 100.00
Tax: 18.00
Total: 118.00
`
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	uc := qc.NewUseCase(
		extraction.NewExtractor(extraction.Options{}),
		validation.NewValidator(validation.Config{}),
		textReader{},
		logger.Nop(),
	)
	var out bytes.Buffer
	root := cli.NewRootCommand(cli.Deps{UseCase: uc, Reports: qc.NewReports(), Stdout: &out, Stderr: io.Discard})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writePDFs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, text := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4\n"+text), 0o644))
	}
	return dir
}

func TestExtract_EscribeJSON(t *testing.T) {
	dir := writePDFs(t, map[string]string{
		"b.pdf": invoiceText("INV-2"),
		"a.pdf": invoiceText("INV-1"),
	})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("ignorar"), 0o644))
	output := filepath.Join(t.TempDir(), "out", "invoices.json")

	stdout, err := run(t, "extract", "--pdf-dir", dir, "--output", output)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Extraídas 2 facturas")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var invoices []entity.Invoice
	require.NoError(t, json.Unmarshal(data, &invoices))
	require.Len(t, invoices, 2)
	assert.Equal(t, "INV-1", invoices[0].InvoiceNumber)
	assert.Equal(t, "a.pdf", invoices[0].ExternalReference)
	assert.Equal(t, "INV-2", invoices[1].InvoiceNumber)
}

func TestExtract_CarpetaVacia(t *testing.T) {
	output := filepath.Join(t.TempDir(), "invoices.json")
	_, err := run(t, "extract", "--pdf-dir", t.TempDir(), "--output", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestValidate_CodigoDeSalida(t *testing.T) {
	input := filepath.Join(t.TempDir(), "invoices.json")
	require.NoError(t, os.WriteFile(input, []byte(`[
	  {"invoice_number":"INV-1","invoice_date":"2024-01-10","seller_name":"ACME","buyer_name":"Contoso",
	   "currency":"EUR","net_total":100,"tax_amount":18,"gross_total":118},
	  {"invoice_number":"INV-2","invoice_date":"2024-01-10","seller_name":"ACME","buyer_name":"Contoso",
	   "currency":"XYZ","net_total":100,"tax_amount":18,"gross_total":118}
	]`), 0o644))
	reportPath := filepath.Join(t.TempDir(), "report.json")

	stdout, err := run(t, "validate", "--input", input, "--report", reportPath)
	require.ErrorIs(t, err, cli.ErrChecksFailed)
	assert.Contains(t, stdout, "Total: 2")
	assert.Contains(t, stdout, "Válidas: 1  Inválidas: 1")
	assert.Contains(t, stdout, "- currency_valid: 1")

	data, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var report entity.BatchReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 2, report.Summary.Total)
}

func TestValidate_TodoCorrecto(t *testing.T) {
	input := filepath.Join(t.TempDir(), "invoices.json")
	require.NoError(t, os.WriteFile(input, []byte(`[]`), 0o644))
	stdout, err := run(t, "validate", "--input", input)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total: 0")
}

func TestValidate_EntradaMalFormada(t *testing.T) {
	input := filepath.Join(t.TempDir(), "invoices.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"invoice_number":"X"}`), 0o644))
	_, err := run(t, "validate", "--input", input)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFullRun_DuplicadosYFormatoDesconocido(t *testing.T) {
	dir := writePDFs(t, map[string]string{
		"a.pdf": invoiceText("INV-1"),
		"b.pdf": invoiceText("INV-1"),
	})

	reportPath := filepath.Join(t.TempDir(), "report.json")
	stdout, err := run(t, "full-run", "--pdf-dir", dir, "--report", reportPath)
	require.ErrorIs(t, err, cli.ErrChecksFailed)
	assert.Contains(t, stdout, "- duplicate: 2")
	assert.FileExists(t, reportPath)

	other := filepath.Join(t.TempDir(), "report.docx")
	_, err = run(t, "full-run", "--pdf-dir", dir, "--report", other)
	require.ErrorIs(t, err, domain.ErrUnknownFormat)
	assert.NoFileExists(t, other)
}

func TestPrintSummary_LimitaYOrdena(t *testing.T) {
	var buf bytes.Buffer
	cli.PrintSummary(&buf, entity.Summary{
		Total: 3, Passed: 1, Failed: 2,
		RuleCounts: map[string]int{"b_rule": 1, "a_rule": 1, "top": 2},
	})
	out := buf.String()
	assert.Less(t, strings.Index(out, "- top: 2"), strings.Index(out, "- a_rule: 1"))
	assert.Less(t, strings.Index(out, "- a_rule: 1"), strings.Index(out, "- b_rule: 1"))
}
