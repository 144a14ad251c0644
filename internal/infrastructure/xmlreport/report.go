// Package xmlreport serializa el informe de un lote como XML (etree).
//
//	<QualityReport id="..." generatedAt="...">
//	  <Summary total="2" passed="1" failed="1">
//	    <Rule id="currency_valid" count="1"/>
//	  </Summary>
//	  <Results>
//	    <Invoice displayId="INV-2" number="INV-2" externalReference="" passed="false">
//	      <Violation rule="currency_valid" severity="error" delta="">mensaje</Violation>
//	    </Invoice>
//	  </Results>
//	</QualityReport>
package xmlreport

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// ReportRenderer implementa qc.ReportRenderer.
type ReportRenderer struct{}

func NewReportRenderer() *ReportRenderer { return &ReportRenderer{} }

func (r *ReportRenderer) Format() string      { return "xml" }
func (r *ReportRenderer) ContentType() string { return "application/xml" }

// Render construye el documento y lo escribe indentado.
func (r *ReportRenderer) Render(_ context.Context, w io.Writer, report *entity.BatchReport) error {
	doc := Build(report)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("xmlreport: escribir documento: %w", err)
	}
	return nil
}

// Build arma el árbol XML del informe.
func Build(report *entity.BatchReport) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("QualityReport")
	if report.ReportID != "" {
		root.CreateAttr("id", report.ReportID)
	}
	if report.GeneratedAt != nil {
		root.CreateAttr("generatedAt", report.GeneratedAt.Format(time.RFC3339))
	}

	summary := root.CreateElement("Summary")
	summary.CreateAttr("total", strconv.Itoa(report.Summary.Total))
	summary.CreateAttr("passed", strconv.Itoa(report.Summary.Passed))
	summary.CreateAttr("failed", strconv.Itoa(report.Summary.Failed))
	for _, rc := range report.Summary.SortedRuleCounts() {
		rule := summary.CreateElement("Rule")
		rule.CreateAttr("id", rc.RuleID)
		rule.CreateAttr("count", strconv.Itoa(rc.Count))
	}

	results := root.CreateElement("Results")
	for _, res := range report.Results {
		inv := results.CreateElement("Invoice")
		inv.CreateAttr("displayId", res.Invoice.DisplayID)
		inv.CreateAttr("number", res.Invoice.InvoiceNumber)
		inv.CreateAttr("externalReference", res.Invoice.ExternalReference)
		inv.CreateAttr("passed", strconv.FormatBool(res.Passed))
		for _, v := range res.Violations {
			el := inv.CreateElement("Violation")
			el.CreateAttr("rule", v.RuleID)
			el.CreateAttr("severity", string(v.Severity))
			if v.Delta != nil {
				el.CreateAttr("delta", v.Delta.String())
			}
			el.SetText(v.Message)
		}
	}

	doc.Indent(2)
	return doc
}
