package extraction_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/invoice-qc/internal/domain/extraction"
)

func TestNormalize_LimpiaEspaciosYSaltos(t *testing.T) {
	in := "  ACME   GmbH \r\nInvoice No:\r\n   INV-1002\f\n\n\n\nConsult-\ning services\t\t 1   100.00  \n\n"
	got := extraction.Normalize(in)

	assert.Equal(t, "ACME GmbH\nInvoice No: INV-1002\n\nConsulting services 1 100.00", got)
}

func TestNormalize_NFKC(t *testing.T) {
	// espacio duro y dígitos de ancho completo
	got := extraction.Normalize("Total:\u00a0\uff11\uff12\uff13.\uff10\uff10")
	assert.Equal(t, "Total: 123.00", got)
}

func TestNormalize_Idempotente(t *testing.T) {
	inputs := []string{
		"",
		"Invoice No:\nINV-7\nDate:\n\nBuyer:",
		"Multi-\nline hy-\nphen-\nated",
		"Seller:\nBuyer:\nACME",
		"\n\n a \n\n\n b \n\n",
		"Total  € 1.234,56\f\fNotes: paid",
	}
	for _, in := range inputs {
		once := extraction.Normalize(in)
		assert.Equal(t, once, extraction.Normalize(once), "entrada %q", in)
	}
}

func TestNormalize_NoUneGuionAnteMayuscula(t *testing.T) {
	got := extraction.Normalize("Net-\nTotal 10.00")
	assert.Equal(t, "Net-\nTotal 10.00", got)
}
