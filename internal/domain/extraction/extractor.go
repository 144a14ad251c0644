package extraction

import (
	"fmt"
	"strings"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// Warning aviso local a un campo; nunca interrumpe la extracción.
type Warning struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (w Warning) String() string { return w.Field + ": " + w.Message }

// Options configura el extractor.
type Options struct {
	// CurrencyFallback código asignado cuando el texto no contiene código ni símbolo.
	// Vacío: sin fallback, la moneda queda ausente.
	CurrencyFallback string
}

// Extractor convierte texto de factura en un entity.Invoice. Es puro y seguro
// para uso concurrente.
type Extractor struct {
	currencyFallback string
}

func NewExtractor(opts Options) *Extractor {
	return &Extractor{currencyFallback: strings.ToUpper(strings.TrimSpace(opts.CurrencyFallback))}
}

// Extract normaliza el texto y resuelve cada campo por su lista de patrones.
// Los campos no encontrados quedan ausentes; los no convertibles, sin parsear.
func (e *Extractor) Extract(text string) (entity.Invoice, []Warning) {
	norm := Normalize(text)
	c := &collector{}

	inv := entity.Invoice{
		InvoiceNumber:     resolveText(c, invoiceNumberSpec, norm),
		ExternalReference: resolveText(c, externalReferenceSpec, norm),
		InvoiceDate:       resolveDate(c, invoiceDateSpec, norm),
		DueDate:           resolveDate(c, dueDateSpec, norm),
		SellerName:        resolveText(c, sellerNameSpec, norm),
		SellerAddress:     resolveText(c, sellerAddressSpec, norm),
		SellerTaxID:       resolveText(c, sellerTaxIDSpec, norm),
		BuyerName:         resolveText(c, buyerNameSpec, norm),
		BuyerAddress:      resolveText(c, buyerAddressSpec, norm),
		BuyerTaxID:        resolveText(c, buyerTaxIDSpec, norm),
		Currency:          e.resolveCurrency(c, norm),
		PaymentTerms:      resolveText(c, paymentTermsSpec, norm),
		NetTotal:          resolveAmount(c, netTotalSpec, norm),
		TaxAmount:         resolveAmount(c, taxAmountSpec, norm),
		GrossTotal:        resolveAmount(c, grossTotalSpec, norm),
		Notes:             resolveText(c, notesSpec, norm),
	}
	inv.LineItems = lineItems(c, norm)
	return inv, c.warnings
}

// ExtractNamed como Extract; si el texto no trae referencia externa se usa sourceName
// (normalmente el nombre del archivo).
func (e *Extractor) ExtractNamed(sourceName, text string) (entity.Invoice, []Warning) {
	inv, warnings := e.Extract(text)
	if inv.ExternalReference == "" {
		inv.ExternalReference = strings.TrimSpace(sourceName)
	}
	return inv, warnings
}

type collector struct {
	warnings []Warning
}

func (c *collector) add(field, format string, args ...any) {
	c.warnings = append(c.warnings, Warning{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (c *collector) loose(field string, m match) {
	if m.loose {
		c.add(field, "valor obtenido con un patrón secundario: %q", m.raw)
	}
}

func resolveText(c *collector, spec fieldSpec[string], text string) string {
	v, m := spec.resolve(text)
	c.loose(spec.field, m)
	return v
}

func resolveDate(c *collector, spec fieldSpec[entity.Date], text string) entity.Date {
	v, m := spec.resolve(text)
	c.loose(spec.field, m)
	if v.IsUnparsed() {
		c.add(spec.field, "fecha no reconocida: %q", v.Raw)
	}
	return v
}

func resolveAmount(c *collector, spec fieldSpec[entity.Amount], text string) entity.Amount {
	v, m := spec.resolve(text)
	c.loose(spec.field, m)
	if v.IsUnparsed() {
		c.add(spec.field, "importe no numérico: %q", v.Raw)
	}
	return v
}

func (e *Extractor) resolveCurrency(c *collector, text string) string {
	code, m := currencySpec.resolve(text)
	if !m.found {
		if e.currencyFallback != "" {
			c.add(currencySpec.field, "sin código ni símbolo de moneda; se asume %s", e.currencyFallback)
			return e.currencyFallback
		}
		return ""
	}
	for _, sym := range symbolPattern.FindAllString(text, -1) {
		if other := symbolCode(sym); other != "" && other != code {
			c.add(currencySpec.field, "el símbolo %s (%s) contradice el código %s; prevalece el código", sym, other, code)
			break
		}
	}
	return code
}

func lineItems(c *collector, text string) []entity.LineItem {
	lines := strings.Split(text, "\n")
	if block, ok := itemBlock(lines); ok {
		items, warnings := ParseLineItems(block)
		c.warnings = append(c.warnings, warnings...)
		return items
	}
	rows := looseItemRows(lines)
	if len(rows) == 0 {
		return []entity.LineItem{}
	}
	items, warnings := ParseLineItems(rows)
	c.warnings = append(c.warnings, warnings...)
	c.add("line_items", "%d líneas de detalle detectadas sin cabecera de tabla", len(items))
	return items
}
