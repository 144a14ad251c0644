package extraction

import (
	"regexp"
	"strings"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/pkg/money"
)

// candidate patrón + conversor. El grupo 1 del patrón captura solo el valor,
// nunca la etiqueta. loose marca patrones posicionales o laxos: si ganan se
// registra un Warning. Si el grupo "rate" participa, la captura es un
// porcentaje y la coincidencia se descarta.
type candidate[T any] struct {
	re      *regexp.Regexp
	convert func(string) T
	loose   bool
}

// fieldSpec lista de prioridad de un campo: gana el primer patrón que coincide
// con captura no vacía. La conversión se aplica solo al ganador; si falla, el
// campo queda sin parsear (no se prueba el siguiente patrón).
type fieldSpec[T any] struct {
	field      string
	candidates []candidate[T]
}

type match struct {
	raw   string
	loose bool
	found bool
}

func (f fieldSpec[T]) resolve(text string) (T, match) {
	for _, c := range f.candidates {
		rate := c.re.SubexpIndex("rate")
		for _, m := range c.re.FindAllStringSubmatch(text, -1) {
			raw := strings.TrimSpace(m[1])
			if raw == "" || (rate > 0 && m[rate] != "") {
				continue
			}
			return c.convert(raw), match{raw: raw, loose: c.loose, found: true}
		}
	}
	var zero T
	return zero, match{}
}

// Fragmentos comunes.
const (
	sepFrag  = `\s*[:#\-]?\s*`
	idFrag   = `([A-Za-z0-9_/.\-]*\d[A-Za-z0-9_/.\-]*)`
	restFrag = `(\S.*?)\s*$`
	dateFrag = `(\d{4}[./-]\d{1,2}[./-]\d{1,2}` +
		`|\d{1,2}[./-]\d{1,2}[./-]\d{2,4}` +
		`|\d{1,2}[ -][A-Za-z]{3,9}\.?[ -]\d{4}` +
		`|[A-Za-z]{3,9}\.? \d{1,2},? \d{4})`
	// tasa opcional ("18%", "(18%)", "@ 18 %"), código entre paréntesis, separadores y símbolo.
	// El importe admite miles separados por espacio ("1 000,00"). Una captura
	// seguida de "%" es una tasa sin importe ("GST 18%").
	amountTailFrag = `[ \t]*(?:\(\s*\d{1,2}(?:[.,]\d{1,2})?\s*%\s*\)|@?[ \t]*\d{1,2}(?:[.,]\d{1,2})?[ \t]*%)?` +
		`[ \t]*(?:\((?:EUR|USD|GBP|INR)\))?[ \t]*[:=.]*[ \t]*(?:[€$£₹]|EUR|USD|GBP|INR)?[ \t]*` +
		`(\(?-?(?:[0-9]{1,3}(?:[ \x{00A0}][0-9]{3})+(?:[.,][0-9]+)?|[0-9][0-9.,']*)\)?)(?:[ \t]*(?P<rate>%))?`
	taxIDLabelFrag = `(?:tax\s*id|tax\s*no\.?|vat\s*(?:id|no\.?|number|reg(?:istration)?\s*no\.?)|gstin|gst\s*(?:no\.?|number)|tin\b)`
)

func re(pattern string) *regexp.Regexp { return regexp.MustCompile(pattern) }

func cleanID(s string) string { return strings.Trim(strings.TrimSpace(s), ".,;:-") }

func cleanText(s string) string { return strings.TrimRight(strings.TrimSpace(s), ",;:|") }

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

func symbolCode(s string) string {
	code, _ := money.CodeForSymbol(s)
	return code
}

func textSpec(field string, cands ...candidate[string]) fieldSpec[string] {
	return fieldSpec[string]{field: field, candidates: cands}
}

func text(pattern string, loose bool) candidate[string] {
	return candidate[string]{re: re(pattern), convert: cleanText, loose: loose}
}

func ident(pattern string, loose bool) candidate[string] {
	return candidate[string]{re: re(pattern), convert: cleanID, loose: loose}
}

func date(pattern string, loose bool) candidate[entity.Date] {
	return candidate[entity.Date]{re: re(pattern), convert: entity.ParseDate, loose: loose}
}

func amount(pattern string, loose bool) candidate[entity.Amount] {
	return candidate[entity.Amount]{re: re(pattern), convert: entity.ParseAmount, loose: loose}
}

var invoiceNumberSpec = textSpec("invoice_number",
	ident(`(?i)\binvoice\s*(?:number|num\.?|no\.?|nr\.?|#)`+sepFrag+idFrag, false),
	ident(`(?i)\b(?:bill|inv\.?|document|doc\.?)\s*(?:number|no\.?|#)`+sepFrag+idFrag, false),
	ident(`(?im)^\s*(?:tax\s+)?invoice\s+([A-Za-z]{0,6}[-/]?\d[A-Za-z0-9_/.\-]*)\s*$`, true),
	ident(`\b([A-Z]{2,5}[-/]\d{2,}[A-Za-z0-9/\-]*)\b`, true),
)

var externalReferenceSpec = textSpec("external_reference",
	ident(`(?i)\b(?:p\.?o\.?|purchase\s*order|order|your\s*ref(?:erence)?|reference|ref\.?)\s*(?:no\.?|number|#)?\s*[:#]\s*([A-Za-z0-9][A-Za-z0-9_/.\-]*)`, false),
)

var invoiceDateSpec = fieldSpec[entity.Date]{field: "invoice_date", candidates: []candidate[entity.Date]{
	date(`(?i)\b(?:invoice|issue|issued|billing|bill)\s*date`+sepFrag+dateFrag, false),
	date(`(?i)\bdate\s*of\s*(?:issue|invoice)`+sepFrag+dateFrag, false),
	date(`(?im)^\s*date`+sepFrag+dateFrag, true),
	date(`(?im)\b(?:invoice|issue)\s*date\s*[:\-]\s*`+restFrag, true),
}}

var dueDateSpec = fieldSpec[entity.Date]{field: "due_date", candidates: []candidate[entity.Date]{
	date(`(?i)\b(?:payment\s*)?due\s*date`+sepFrag+dateFrag, false),
	date(`(?i)\b(?:due\s*(?:by|on)|payable\s*by|pay\s*by)`+sepFrag+dateFrag, false),
	date(`(?im)\bdue\s*date\s*[:\-]\s*`+restFrag, true),
}}

var sellerNameSpec = textSpec("seller_name",
	text(`(?im)^\s*(?:seller|vendor|supplier|sold\s*by|billed\s*by|issued\s*by)(?:\s*name)?\s*[:\-]\s*`+restFrag, false),
	text(`(?im)^\s*from\s*[:\-]\s*`+restFrag, true),
)

var buyerNameSpec = textSpec("buyer_name",
	text(`(?im)^\s*(?:buyer|customer|client|bill(?:ed)?\s*to|sold\s*to)(?:\s*name)?\s*[:\-]\s*`+restFrag, false),
	text(`(?im)^\s*to\s*[:\-]\s*`+restFrag, true),
)

var sellerAddressSpec = textSpec("seller_address",
	text(`(?im)^\s*(?:seller|vendor|supplier)\s*address\s*[:\-]\s*`+restFrag, false),
)

var buyerAddressSpec = textSpec("buyer_address",
	text(`(?im)^\s*(?:buyer|customer|client|billing)\s*address\s*[:\-]\s*`+restFrag, false),
)

var sellerTaxIDSpec = textSpec("seller_tax_id",
	ident(`(?i)\b(?:seller|vendor|supplier)\s*`+taxIDLabelFrag+sepFrag+idFrag, false),
	ident(`(?im)^\s*`+taxIDLabelFrag+sepFrag+idFrag, true),
)

var buyerTaxIDSpec = textSpec("buyer_tax_id",
	ident(`(?i)\b(?:buyer|customer|client)\s*`+taxIDLabelFrag+sepFrag+idFrag, false),
)

// currencySpec: etiqueta explícita (se conserva tal cual; la validación decide),
// código ISO aceptado en cualquier posición y, por último, símbolo.
// Con código y símbolo en conflicto prevalece el código.
var currencySpec = fieldSpec[string]{field: "currency", candidates: []candidate[string]{
	{re: re(`(?i)\bcurrency\s*(?:code)?\s*[:\-]\s*([A-Za-z]{3})\b`), convert: upper},
	{re: re(`\b(EUR|USD|GBP|INR)\b`), convert: upper},
	{re: re(`(` + symbolClass + `)`), convert: symbolCode},
}}

var (
	symbolClass   = "[" + regexp.QuoteMeta(strings.Join(money.Symbols(), "")) + "]"
	symbolPattern = re(symbolClass)
)

var paymentTermsSpec = textSpec("payment_terms",
	text(`(?im)\bpayment\s*terms?\s*[:\-]\s*`+restFrag, false),
	text(`(?im)\bterms\s*[:\-]\s*(net\s*\d{1,3}(?:\s*days)?|due\s*on\s*receipt|\d{1,3}\s*days)`, false),
	text(`(?im)\b(net\s*\d{1,3}(?:\s*days)?)(?:[\s,;]|$)`, true),
	text(`(?i)\b(due\s*on\s*receipt)\b`, true),
)

var notesSpec = textSpec("notes",
	text(`(?im)^\s*(?:notes?|remarks?|comments?|memo)\s*[:\-]\s*`+restFrag, false),
)

const (
	netLabels   = `sub\s*-?\s*total|net\s*total|net\s*amount|total\s*net|total\s*before\s*tax|taxable\s*(?:amount|value)|amount\s*before\s*tax`
	taxLabels   = `tax\s*amount|total\s*tax|vat\s*amount|gst\s*amount|vat|gst|igst|iva|tax`
	grossLabels = `grand\s*total|invoice\s*total|total\s*amount(?:\s*due)?|total\s*due|amount\s*due|balance\s*due|total\s*payable|amount\s*payable|total`
)

var netTotalSpec = fieldSpec[entity.Amount]{field: "net_total", candidates: []candidate[entity.Amount]{
	amount(`(?im)^\s*(?:`+netLabels+`)`+amountTailFrag, false),
	amount(`(?i)\b(?:sub\s*-?\s*total|net\s*total|net\s*amount)`+amountTailFrag, true),
}}

var taxAmountSpec = fieldSpec[entity.Amount]{field: "tax_amount", candidates: []candidate[entity.Amount]{
	amount(`(?im)^\s*(?:`+taxLabels+`)`+amountTailFrag, false),
	amount(`(?i)\b(?:tax\s*amount|total\s*tax|vat\s*amount|gst\s*amount|vat|gst)`+amountTailFrag, true),
}}

var grossTotalSpec = fieldSpec[entity.Amount]{field: "gross_total", candidates: []candidate[entity.Amount]{
	amount(`(?im)^\s*(?:`+grossLabels+`)`+amountTailFrag, false),
	amount(`(?i)\b(?:grand\s*total|invoice\s*total|amount\s*due|total\s*due|balance\s*due)`+amountTailFrag, true),
	amount(`(?i)[0-9%)]\s+total\b`+amountTailFrag, true),
}}
