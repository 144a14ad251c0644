package qc_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-qc/internal/application/qc"
	"github.com/jhoicas/invoice-qc/internal/domain"
	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/domain/extraction"
	"github.com/jhoicas/invoice-qc/internal/domain/validation"
	"github.com/jhoicas/invoice-qc/pkg/logger"
)

// fakeReader devuelve el contenido del "PDF" tras la cabecera como texto.
type fakeReader struct {
	err error
}

func (f fakeReader) ReadText(_ context.Context, r io.ReaderAt, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	buf := make([]byte, size)
	if _, err := r.ReadAt(buf, 0); err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimPrefix(string(buf), "%PDF-1.4\n"), nil
}

const goodText = `Invoice Number: INV-1
Invoice Date: 2024-01-10
Seller: ACME GmbH
Buyer: Contoso Ltd
Currency: EUR
Subtotal: 100.00
Tax: 18.00
Total: 118.00
`

func newUseCase(reader qc.PDFTextReader) *qc.UseCase {
	return qc.NewUseCase(
		extraction.NewExtractor(extraction.Options{}),
		validation.NewValidator(validation.Config{}),
		reader,
		logger.Nop(),
	)
}

func pdfDoc(name, text string) qc.Document {
	return qc.Document{Name: name, Data: []byte("%PDF-1.4\n" + text)}
}

func TestExtractAndValidate_PDFs(t *testing.T) {
	uc := newUseCase(fakeReader{})
	docs := []qc.Document{
		pdfDoc("a.pdf", goodText),
		pdfDoc("b.pdf", "Invoice Number: INV-2\nCurrency: XYZ"),
	}
	var progress []int
	resp, err := uc.ExtractAndValidate(context.Background(), docs, func(done int) { progress = append(progress, done) })
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, progress)
	require.Len(t, resp.Invoices, 2)
	assert.Equal(t, "INV-1", resp.Invoices[0].Invoice.InvoiceNumber)
	assert.Equal(t, "a.pdf", resp.Invoices[0].Invoice.ExternalReference)
	assert.NotNil(t, resp.Invoices[0].Warnings)

	rep := resp.Validation
	assert.Equal(t, 2, rep.Summary.Total)
	assert.Equal(t, 1, rep.Summary.Passed)
	assert.True(t, rep.Results[0].Passed)
	assert.True(t, rep.Results[1].HasRule(validation.RuleCurrencyValid))
	_, err = uuid.Parse(rep.ReportID)
	assert.NoError(t, err)
	assert.NotNil(t, rep.GeneratedAt)
}

func TestExtractAndValidate_SinArchivos(t *testing.T) {
	_, err := newUseCase(fakeReader{}).ExtractAndValidate(context.Background(), nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExtractPDF_ArchivoNoSoportado(t *testing.T) {
	_, err := newUseCase(fakeReader{}).ExtractPDF(context.Background(), qc.Document{Name: "notes.txt", Data: []byte("hola")})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFile)
}

func TestExtractPDF_SinTextoNoEsFatal(t *testing.T) {
	uc := newUseCase(fakeReader{err: domain.ErrEmptyDocument})
	ex, err := uc.ExtractPDF(context.Background(), pdfDoc("scan.pdf", ""))
	require.NoError(t, err)

	assert.Equal(t, "scan.pdf", ex.Invoice.ExternalReference)
	assert.Equal(t, "scan.pdf", ex.Invoice.DisplayID())
	require.Len(t, ex.Warnings, 1)
	assert.Equal(t, "document", ex.Warnings[0].Field)

	rep := uc.Validate([]entity.Invoice{ex.Invoice})
	assert.True(t, rep.Results[0].HasRule(validation.RuleRequiredFields))
}

func TestExtractPDFs_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newUseCase(fakeReader{}).ExtractPDFs(ctx, []qc.Document{pdfDoc("a.pdf", goodText)}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestValidateJSON(t *testing.T) {
	uc := newUseCase(nil)
	body := `[
		{"invoice_number":"INV-9","invoice_date":"2024-02-01","due_date":"2024-01-15",
		 "seller_name":"ACME","buyer_name":"Contoso","currency":"EUR",
		 "net_total":100,"tax_amount":"18.00","gross_total":118.05}
	]`
	rep, err := uc.ValidateJSON([]byte(body))
	require.NoError(t, err)

	require.Len(t, rep.Results, 1)
	r := rep.Results[0]
	assert.False(t, r.Passed)
	assert.True(t, r.HasRule(validation.RuleDueDateOrdering))
	viol, ok := r.Violation(validation.RuleTotalsArithmetic)
	require.True(t, ok)
	assert.Equal(t, "0.05", viol.Delta.String())
}

func TestDecodeInvoices_EntradaMalFormada(t *testing.T) {
	cases := map[string]string{
		"objeto":        `{"invoice_number":"X"}`,
		"vacío":         ``,
		"json inválido": `[{"invoice_number":`,
		"no objeto":     `[1, 2]`,
		"tipo erróneo":  `[{"invoice_number": 5}]`,
		"importe bool":  `[{"net_total": true}]`,
		"líneas objeto": `[{"line_items": {"description": "x"}}]`,
	}
	for name, body := range cases {
		_, err := qc.DecodeInvoices(strings.NewReader(body))
		assert.ErrorIs(t, err, domain.ErrInvalidInput, name)
	}
}

func TestDecodeInvoices_ImporteTextoQuedaSinParsear(t *testing.T) {
	invs, err := qc.DecodeInvoices(strings.NewReader(`[{"invoice_number":"A","net_total":"n/a","gross_total":"1.234,50"}]`))
	require.NoError(t, err)
	require.Len(t, invs, 1)
	assert.True(t, invs[0].NetTotal.IsUnparsed())
	assert.Equal(t, "1234.5", invs[0].GrossTotal.Decimal.String())
}

func TestDecodeInvoices_LineItemsNuncaNulos(t *testing.T) {
	invs, err := qc.DecodeInvoices(strings.NewReader(`[{"invoice_number":"A","line_items":null}]`))
	require.NoError(t, err)
	require.Len(t, invs, 1)
	assert.NotNil(t, invs[0].LineItems)
}

func TestReports_JSONYFormatoDesconocido(t *testing.T) {
	reports := qc.NewReports()
	rep := newUseCase(nil).Validate([]entity.Invoice{{InvoiceNumber: "A"}})

	var buf bytes.Buffer
	require.NoError(t, reports.Render(context.Background(), "JSON", &buf, &rep))
	assert.Contains(t, buf.String(), `"report_id"`)
	assert.Contains(t, buf.String(), `"rule_counts"`)

	err := reports.Render(context.Background(), "docx", &buf, &rep)
	assert.ErrorIs(t, err, domain.ErrUnknownFormat)
	assert.Equal(t, []string{"json"}, reports.Formats())
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, "xlsx", qc.FormatFromPath("out/report.XLSX"))
	assert.Equal(t, "", qc.FormatFromPath("out.d/report"))
	assert.Equal(t, "json", qc.FormatFromPath("report.json"))
}
