package entity

import "encoding/json"

// Invoice registro estructurado de una factura. Se construye una vez por extracción
// (o decodificación JSON) y no se modifica después. Los nombres JSON son parte del
// contrato externo.
type Invoice struct {
	InvoiceNumber     string     `json:"invoice_number"`
	ExternalReference string     `json:"external_reference"`
	InvoiceDate       Date       `json:"invoice_date"`
	DueDate           Date       `json:"due_date"`
	SellerName        string     `json:"seller_name"`
	SellerAddress     string     `json:"seller_address"`
	SellerTaxID       string     `json:"seller_tax_id"`
	BuyerName         string     `json:"buyer_name"`
	BuyerAddress      string     `json:"buyer_address"`
	BuyerTaxID        string     `json:"buyer_tax_id"`
	Currency          string     `json:"currency"`
	PaymentTerms      string     `json:"payment_terms"`
	NetTotal          Amount     `json:"net_total"`
	TaxAmount         Amount     `json:"tax_amount"`
	GrossTotal        Amount     `json:"gross_total"`
	Notes             string     `json:"notes"`
	LineItems         []LineItem `json:"line_items"`
}

// LineItem fila del detalle, en el orden del documento.
type LineItem struct {
	Description string `json:"description"`
	Quantity    Amount `json:"quantity"`
	UnitPrice   Amount `json:"unit_price"`
	LineTotal   Amount `json:"line_total"`
	TaxRate     Amount `json:"tax_rate"` // porcentaje (18 = 18 %), opcional
}

// MarshalJSON serializa line_items como [] cuando no hay filas.
func (inv Invoice) MarshalJSON() ([]byte, error) {
	type plain Invoice
	p := plain(inv)
	if p.LineItems == nil {
		p.LineItems = []LineItem{}
	}
	return json.Marshal(p)
}

// DisplayID identificador para mensajes e informes.
func (inv *Invoice) DisplayID() string {
	switch {
	case inv.InvoiceNumber != "":
		return inv.InvoiceNumber
	case inv.ExternalReference != "":
		return inv.ExternalReference
	default:
		return "<unknown>"
	}
}

// Ref campos identificativos que acompañan al resultado de validación.
func (inv *Invoice) Ref() InvoiceRef {
	return InvoiceRef{
		InvoiceNumber:     inv.InvoiceNumber,
		ExternalReference: inv.ExternalReference,
		DisplayID:         inv.DisplayID(),
	}
}
