package xmlreport_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/internal/infrastructure/xmlreport"
)

func TestRender_EstructuraXML(t *testing.T) {
	delta := decimal.RequireFromString("0.05")
	report := &entity.BatchReport{
		ReportID: "r-1",
		Summary:  entity.Summary{Total: 1, Failed: 1, RuleCounts: map[string]int{"totals_arithmetic": 1}},
		Results: []entity.ValidationResult{
			{Invoice: entity.InvoiceRef{InvoiceNumber: "INV-2", DisplayID: "INV-2"}, Violations: []entity.Violation{
				{RuleID: "totals_arithmetic", Message: "net + tax <> gross & más", Severity: entity.SeverityError, Delta: &delta},
			}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, xmlreport.NewReportRenderer().Render(context.Background(), &buf, report))

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(buf.Bytes()))

	root := doc.SelectElement("QualityReport")
	require.NotNil(t, root)
	assert.Equal(t, "r-1", root.SelectAttrValue("id", ""))
	assert.Equal(t, "1", root.FindElement("Summary").SelectAttrValue("failed", ""))
	assert.Equal(t, "totals_arithmetic", root.FindElement("Summary/Rule").SelectAttrValue("id", ""))

	v := root.FindElement("Results/Invoice/Violation")
	require.NotNil(t, v)
	assert.Equal(t, "0.05", v.SelectAttrValue("delta", ""))
	assert.Equal(t, "net + tax <> gross & más", v.Text())
	assert.Equal(t, "false", root.FindElement("Results/Invoice").SelectAttrValue("passed", ""))
}
