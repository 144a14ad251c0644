package qc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/jhoicas/invoice-qc/internal/domain"
	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// batchSchema forma aceptada para un lote: arreglo de objetos factura. Los importes
// admiten número o cadena (una cadena no numérica queda como "sin parsear" y la
// marcan las reglas, no la frontera).
const batchSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "invoice_number":     {"type": ["string", "null"]},
      "external_reference": {"type": ["string", "null"]},
      "invoice_date":       {"type": ["string", "null"]},
      "due_date":           {"type": ["string", "null"]},
      "seller_name":        {"type": ["string", "null"]},
      "seller_address":     {"type": ["string", "null"]},
      "seller_tax_id":      {"type": ["string", "null"]},
      "buyer_name":         {"type": ["string", "null"]},
      "buyer_address":      {"type": ["string", "null"]},
      "buyer_tax_id":       {"type": ["string", "null"]},
      "currency":           {"type": ["string", "null"]},
      "payment_terms":      {"type": ["string", "null"]},
      "notes":              {"type": ["string", "null"]},
      "net_total":          {"$ref": "#/definitions/amount"},
      "tax_amount":         {"$ref": "#/definitions/amount"},
      "gross_total":        {"$ref": "#/definitions/amount"},
      "line_items": {
        "type": ["array", "null"],
        "items": {
          "type": "object",
          "properties": {
            "description": {"type": ["string", "null"]},
            "quantity":    {"$ref": "#/definitions/amount"},
            "unit_price":  {"$ref": "#/definitions/amount"},
            "line_total":  {"$ref": "#/definitions/amount"},
            "tax_rate":    {"$ref": "#/definitions/amount"}
          }
        }
      }
    }
  },
  "definitions": {
    "amount": {"type": ["number", "string", "null"]}
  }
}`

var compiledBatchSchema = jsonschema.MustCompileString("invoice-batch.json", batchSchema)

// DecodeInvoices lee un arreglo JSON de objetos factura. Cualquier otra forma
// (objeto suelto, elementos que no son objetos, tipos erróneos, JSON inválido) es
// un único error de frontera envuelto en domain.ErrInvalidInput.
func DecodeInvoices(r io.Reader) ([]entity.Invoice, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: leer entrada: %v", domain.ErrInvalidInput, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: JSON inválido: %v", domain.ErrInvalidInput, err)
	}
	if err := compiledBatchSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: se esperaba un arreglo JSON de facturas: %v", domain.ErrInvalidInput, err)
	}

	var invoices []entity.Invoice
	if err := json.Unmarshal(data, &invoices); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if invoices == nil {
		invoices = []entity.Invoice{}
	}
	for i := range invoices {
		if invoices[i].LineItems == nil {
			invoices[i].LineItems = []entity.LineItem{}
		}
	}
	return invoices, nil
}
