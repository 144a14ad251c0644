package extraction

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/pkg/money"
)

var (
	itemHeader    = re(`(?i)\b(?:description|items?|products?|services?|particulars|articles?)\b.*\b(?:qty|quantity|units?|hrs|hours)\b`)
	itemBlockEnd  = re(`(?i)^\s*(?:sub\s*-?\s*total|net\s*total|net\s*amount|grand\s*total|total|tax|vat|gst|amount\s*due|balance|notes?|payment)\b`)
	labelLine     = re(`^[\p{L} .#/()]{2,40}:\s`)
	numericToken  = re(`^\(?-?[€$£₹]?-?[0-9][0-9.,']*%?\)?$`)
	currencyToken = re(`^(?:[€$£₹]|EUR|USD|GBP|INR)$`)
	tableRule     = re(`^[-=_*|+ ]+$`)
)

// maxNumericTail número máximo de tokens numéricos finales considerados por fila.
const maxNumericTail = 6

// rowArithmeticTolerance margen para decidir por aritmética si cantidad × precio ≈ total.
var rowArithmeticTolerance = decimal.New(5, -2)

type numToken struct {
	idx  int
	text string
	pct  bool
}

// ParseLineItems descompone cada fila del bloque de detalle con la forma
// "descripción cantidad precio_unitario total [tasa]". Las filas con menos de tres
// campos numéricos recuperables (o sin descripción) se descartan con un Warning.
// No verifica la coherencia aritmética; eso corresponde a la validación.
func ParseLineItems(rows []string) ([]entity.LineItem, []Warning) {
	items := make([]entity.LineItem, 0, len(rows))
	var warnings []Warning
	for i, row := range rows {
		row = strings.TrimSpace(row)
		if row == "" || tableRule.MatchString(row) {
			continue
		}
		item, ok := parseRow(row)
		if !ok {
			warnings = append(warnings, Warning{
				Field:   "line_items",
				Message: fmt.Sprintf("fila %d descartada: se requieren descripción, cantidad, precio unitario y total (%q)", i+1, row),
			})
			continue
		}
		items = append(items, item)
	}
	return items, warnings
}

func parseRow(row string) (entity.LineItem, bool) {
	tokens := strings.Fields(strings.ReplaceAll(row, "|", " "))

	var nums []numToken
	for i := len(tokens) - 1; i >= 0 && len(nums) < maxNumericTail; i-- {
		tok := tokens[i]
		if currencyToken.MatchString(tok) {
			continue
		}
		if !numericToken.MatchString(tok) {
			break
		}
		nums = append([]numToken{{idx: i, text: tok, pct: strings.HasSuffix(strings.TrimRight(tok, ")"), "%")}}, nums...)
	}

	var rate *numToken
	core := nums
	if n := len(core); n > 0 && core[n-1].pct {
		rate = &core[n-1]
		core = core[:n-1]
	}
	if len(core) < 3 {
		return entity.LineItem{}, false
	}
	if n := len(core); rate == nil && n >= 4 && productMatches(core[n-4].text, core[n-3].text, core[n-2].text) {
		rate = &core[n-1]
		core = core[:n-1]
	}
	n := len(core)
	q, u, t := core[n-3], core[n-2], core[n-1]

	desc := tokens[:q.idx]
	for len(desc) > 0 && currencyToken.MatchString(desc[len(desc)-1]) {
		desc = desc[:len(desc)-1]
	}
	description := strings.Trim(strings.Join(desc, " "), " -:")
	if description == "" {
		return entity.LineItem{}, false
	}

	item := entity.LineItem{
		Description: description,
		Quantity:    entity.ParseAmount(q.text),
		UnitPrice:   entity.ParseAmount(u.text),
		LineTotal:   entity.ParseAmount(t.text),
	}
	if !item.Quantity.Valid || !item.UnitPrice.Valid || !item.LineTotal.Valid {
		return entity.LineItem{}, false
	}
	if rate != nil {
		item.TaxRate = entity.ParseAmount(strings.Trim(rate.text, "()%"))
	}
	return item, true
}

// productMatches indica si a × b ≈ c.
func productMatches(a, b, c string) bool {
	da, errA := money.ParseAmount(a)
	db, errB := money.ParseAmount(b)
	dc, errC := money.ParseAmount(c)
	if errA != nil || errB != nil || errC != nil {
		return false
	}
	return da.Mul(db).Sub(dc).Abs().LessThanOrEqual(rowArithmeticTolerance)
}

// itemBlock localiza las filas entre la cabecera de la tabla y la primera línea de totales.
func itemBlock(lines []string) ([]string, bool) {
	start := -1
	for i, l := range lines {
		if itemHeader.MatchString(l) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, false
	}
	var block []string
	for _, l := range lines[start:] {
		if itemBlockEnd.MatchString(l) {
			break
		}
		block = append(block, l)
	}
	return block, true
}

// looseItemRows sin cabecera: candidatas son las líneas que no son etiqueta ni
// totales y cuya descomposición cuadra aritméticamente.
func looseItemRows(lines []string) []string {
	var rows []string
	for _, l := range lines {
		if l == "" || labelLine.MatchString(l) || itemBlockEnd.MatchString(l) {
			continue
		}
		item, ok := parseRow(l)
		if !ok {
			continue
		}
		if item.Quantity.Decimal.Mul(item.UnitPrice.Decimal).Sub(item.LineTotal.Decimal).Abs().GreaterThan(rowArithmeticTolerance) {
			continue
		}
		rows = append(rows, l)
	}
	return rows
}
