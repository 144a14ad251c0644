package validation_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/domain/validation"
)

func TestValidateBatch_DuplicadosSimetricos(t *testing.T) {
	a := validInvoice()
	a.ExternalReference = "a.pdf"
	b := validInvoice()
	b.ExternalReference = "b.pdf"
	b.SellerName = "acme  gmbh"
	c := validInvoice()
	c.InvoiceNumber = "INV-2000"

	v := newValidator()
	forward := v.ValidateBatch([]entity.Invoice{a, b, c})
	backward := v.ValidateBatch([]entity.Invoice{c, b, a})

	da, ok := forward.Results[0].Violation(validation.RuleDuplicate)
	require.True(t, ok)
	db, ok := forward.Results[1].Violation(validation.RuleDuplicate)
	require.True(t, ok)
	assert.Equal(t, da, db)
	assert.False(t, forward.Results[2].HasRule(validation.RuleDuplicate))

	// mismo resultado con el orden invertido
	assert.Equal(t, forward.Results[0], backward.Results[2])
	assert.Equal(t, forward.Results[1], backward.Results[1])
	assert.Equal(t, forward.Results[2], backward.Results[0])
	assert.Equal(t, forward.Summary, backward.Summary)
}

func TestValidateBatch_FechaDistintaNoEsDuplicado(t *testing.T) {
	a := validInvoice()
	b := validInvoice()
	b.InvoiceDate = entity.NewDate(2024, time.February, 2)

	report := newValidator().ValidateBatch([]entity.Invoice{a, b})
	assert.Equal(t, 2, report.Summary.Passed)
	assert.Zero(t, report.Summary.RuleCounts[validation.RuleDuplicate])
}

func TestValidateBatch_SinClaveNoSeCompara(t *testing.T) {
	report := newValidator().ValidateBatch([]entity.Invoice{{}, {}})
	for _, r := range report.Results {
		assert.False(t, r.HasRule(validation.RuleDuplicate))
	}
}

func TestValidateBatch_Resumen(t *testing.T) {
	ok := validInvoice()
	badCurrency := validInvoice()
	badCurrency.InvoiceNumber = "INV-1"
	badCurrency.Currency = "XYZ"
	badTotals := validInvoice()
	badTotals.InvoiceNumber = "INV-2"
	badTotals.GrossTotal = amt("120.00")
	badTotals.Currency = ""

	report := newValidator().ValidateBatch([]entity.Invoice{ok, badCurrency, badTotals})

	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Passed)
	assert.Equal(t, 2, report.Summary.Failed)
	assert.Equal(t, map[string]int{
		validation.RuleCurrencyValid:    2,
		validation.RuleTotalsArithmetic: 1,
	}, report.Summary.RuleCounts)

	require.Len(t, report.Results, 3)
	assert.Equal(t, "INV-1002", report.Results[0].Invoice.InvoiceNumber)
	assert.Equal(t, "INV-1", report.Results[1].Invoice.InvoiceNumber)
	assert.Equal(t, "INV-2", report.Results[2].Invoice.InvoiceNumber)
	assert.Empty(t, report.ReportID, "el identificador lo asigna la capa de aplicación")
}

func TestValidateBatch_Vacio(t *testing.T) {
	report := newValidator().ValidateBatch(nil)
	assert.Equal(t, 0, report.Summary.Total)
	assert.NotNil(t, report.Summary.RuleCounts)
	assert.Empty(t, report.Results)
}

func TestValidateBatch_ParaleloConservaOrden(t *testing.T) {
	invoices := make([]entity.Invoice, 200)
	for i := range invoices {
		inv := validInvoice()
		inv.InvoiceNumber = fmt.Sprintf("INV-%04d", i)
		if i%3 == 0 {
			inv.Currency = "XYZ"
		}
		invoices[i] = inv
	}
	v := validation.NewValidator(validation.Config{Workers: 8})
	report := v.ValidateBatch(invoices)

	require.Len(t, report.Results, 200)
	for i, r := range report.Results {
		assert.Equal(t, fmt.Sprintf("INV-%04d", i), r.Invoice.InvoiceNumber)
		assert.Equal(t, i%3 != 0, r.Passed)
	}
	assert.Equal(t, 67, report.Summary.Failed)
}
