package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
	"github.com/jhoicas/invoice-qc/pkg/money"
)

// Identificadores de regla (estables: aparecen en informes y en rule_counts).
const (
	RuleRequiredFields     = "required_fields"
	RuleDateParseable      = "date_parseable"
	RuleDueDateParseable   = "due_date_parseable"
	RuleCurrencyValid      = "currency_valid"
	RuleTotalsNonNegative  = "totals_non_negative"
	RuleTotalsArithmetic   = "totals_arithmetic"
	RuleLineItemSum        = "line_item_sum"
	RuleDueDateOrdering    = "due_date_ordering"
	RuleZeroTotalAnomaly   = "zero_total_anomaly"
	RuleLineItemArithmetic = "line_item_arithmetic"
	RuleDuplicate          = "duplicate"
)

// Tolerance diferencia absoluta máxima admitida para una moneda.
type Tolerance func(currency string) decimal.Decimal

// CurrencyTolerance dos unidades mínimas de la moneda de la factura.
var CurrencyTolerance Tolerance = money.DefaultTolerance

// FixedTolerance misma tolerancia para cualquier moneda.
func FixedTolerance(d decimal.Decimal) Tolerance {
	return func(string) decimal.Decimal { return d }
}

func violation(id, format string, args ...any) *entity.Violation {
	return &entity.Violation{RuleID: id, Message: fmt.Sprintf(format, args...), Severity: entity.SeverityError}
}

func withDelta(v *entity.Violation, delta decimal.Decimal) *entity.Violation {
	v.Delta = &delta
	return v
}

// RequiredFields invoice_number, invoice_date, seller_name y buyer_name presentes.
// Una fecha sin parsear cuenta como ausente.
func RequiredFields() Rule {
	return NewRule(RuleRequiredFields, func(inv *entity.Invoice) *entity.Violation {
		var missing []string
		if strings.TrimSpace(inv.InvoiceNumber) == "" {
			missing = append(missing, "invoice_number")
		}
		if !inv.InvoiceDate.Valid {
			missing = append(missing, "invoice_date")
		}
		if strings.TrimSpace(inv.SellerName) == "" {
			missing = append(missing, "seller_name")
		}
		if strings.TrimSpace(inv.BuyerName) == "" {
			missing = append(missing, "buyer_name")
		}
		if len(missing) == 0 {
			return nil
		}
		return violation(RuleRequiredFields, "faltan campos obligatorios: %s", strings.Join(missing, ", "))
	})
}

// DateParseable invoice_date presente pero sin parsear.
func DateParseable() Rule {
	return NewRule(RuleDateParseable, func(inv *entity.Invoice) *entity.Violation {
		if !inv.InvoiceDate.IsUnparsed() {
			return nil
		}
		return violation(RuleDateParseable, "invoice_date con formato no reconocido: %q", inv.InvoiceDate.Raw)
	})
}

// DueDateParseable due_date presente pero sin parsear.
func DueDateParseable() Rule {
	return NewRule(RuleDueDateParseable, func(inv *entity.Invoice) *entity.Violation {
		if !inv.DueDate.IsUnparsed() {
			return nil
		}
		return violation(RuleDueDateParseable, "due_date con formato no reconocido: %q", inv.DueDate.Raw)
	})
}

// CurrencyValid la moneda pertenece al conjunto aceptado (la ausencia también falla).
// allowed vacío equivale a money.AcceptedCurrencies.
func CurrencyValid(allowed []string) Rule {
	if len(allowed) == 0 {
		allowed = money.AcceptedCurrencies
	}
	set := make([]string, len(allowed))
	copy(set, allowed)
	return NewRule(RuleCurrencyValid, func(inv *entity.Invoice) *entity.Violation {
		code := strings.TrimSpace(inv.Currency)
		if code == "" {
			return violation(RuleCurrencyValid, "moneda ausente (aceptadas: %s)", strings.Join(set, ", "))
		}
		if money.IsAcceptedIn(code, set) {
			return nil
		}
		return violation(RuleCurrencyValid, "moneda %q no aceptada (aceptadas: %s)", code, strings.Join(set, ", "))
	})
}

// TotalsNonNegative ningún total negativo ni sin parsear. Los totales ausentes no cuentan.
func TotalsNonNegative() Rule {
	return NewRule(RuleTotalsNonNegative, func(inv *entity.Invoice) *entity.Violation {
		var problems []string
		for _, t := range totals(inv) {
			switch {
			case t.amount.IsUnparsed():
				problems = append(problems, fmt.Sprintf("%s no numérico (%q)", t.field, t.amount.Raw))
			case t.amount.IsNegative():
				problems = append(problems, fmt.Sprintf("%s negativo (%s)", t.field, t.amount))
			}
		}
		if len(problems) == 0 {
			return nil
		}
		return violation(RuleTotalsNonNegative, "%s", strings.Join(problems, "; "))
	})
}

// TotalsArithmetic |net_total + tax_amount − gross_total| <= tolerancia.
// Requiere los tres totales parseados.
func TotalsArithmetic(tol Tolerance) Rule {
	return NewRule(RuleTotalsArithmetic, func(inv *entity.Invoice) *entity.Violation {
		if !inv.NetTotal.Valid || !inv.TaxAmount.Valid || !inv.GrossTotal.Valid {
			return nil
		}
		limit := tol(inv.Currency)
		sum := inv.NetTotal.Decimal.Add(inv.TaxAmount.Decimal)
		delta := sum.Sub(inv.GrossTotal.Decimal).Abs()
		if delta.LessThanOrEqual(limit) {
			return nil
		}
		return withDelta(violation(RuleTotalsArithmetic,
			"net_total + tax_amount = %s no coincide con gross_total = %s (diferencia %s, tolerancia %s)",
			sum, inv.GrossTotal.Decimal, delta, limit), delta)
	})
}

// LineItemSum con líneas presentes, |round(Σ line_total) − net_total| <= tolerancia.
// La suma se redondea a la unidad mínima de la moneda; las líneas sin importe no suman.
func LineItemSum(tol Tolerance) Rule {
	return NewRule(RuleLineItemSum, func(inv *entity.Invoice) *entity.Violation {
		if len(inv.LineItems) == 0 || !inv.NetTotal.Valid {
			return nil
		}
		sum := decimal.Zero
		for _, li := range inv.LineItems {
			if li.LineTotal.Valid {
				sum = sum.Add(li.LineTotal.Decimal)
			}
		}
		sum = sum.RoundBank(money.MinorUnits(inv.Currency))
		limit := tol(inv.Currency)
		delta := sum.Sub(inv.NetTotal.Decimal).Abs()
		if delta.LessThanOrEqual(limit) {
			return nil
		}
		return withDelta(violation(RuleLineItemSum,
			"la suma de line_total = %s no coincide con net_total = %s (diferencia %s, tolerancia %s)",
			sum, inv.NetTotal.Decimal, delta, limit), delta)
	})
}

// DueDateOrdering due_date no anterior a invoice_date (ambas parseadas).
func DueDateOrdering() Rule {
	return NewRule(RuleDueDateOrdering, func(inv *entity.Invoice) *entity.Violation {
		if !inv.DueDate.Before(inv.InvoiceDate) {
			return nil
		}
		return violation(RuleDueDateOrdering, "due_date %s es anterior a invoice_date %s", inv.DueDate, inv.InvoiceDate)
	})
}

// ZeroTotalAnomaly los tres totales en cero mientras alguna línea tiene importe.
func ZeroTotalAnomaly() Rule {
	return NewRule(RuleZeroTotalAnomaly, func(inv *entity.Invoice) *entity.Violation {
		for _, t := range totals(inv) {
			if !t.amount.IsZero() {
				return nil
			}
		}
		nonZero := 0
		for _, li := range inv.LineItems {
			if li.LineTotal.Valid && !li.LineTotal.Decimal.IsZero() {
				nonZero++
			}
		}
		if nonZero == 0 {
			return nil
		}
		return violation(RuleZeroTotalAnomaly, "totales en cero con %d línea(s) de importe distinto de cero", nonZero)
	})
}

// LineItemArithmetic aviso: quantity × unit_price difiere de line_total.
// No hace fallar la factura.
func LineItemArithmetic(tol Tolerance) Rule {
	return NewRule(RuleLineItemArithmetic, func(inv *entity.Invoice) *entity.Violation {
		limit := tol(inv.Currency)
		var rows []string
		for i, li := range inv.LineItems {
			if !li.Quantity.Valid || !li.UnitPrice.Valid || !li.LineTotal.Valid {
				continue
			}
			expected := li.Quantity.Decimal.Mul(li.UnitPrice.Decimal).RoundBank(money.MinorUnits(inv.Currency))
			if expected.Sub(li.LineTotal.Decimal).Abs().GreaterThan(limit) {
				rows = append(rows, strconv.Itoa(i+1))
			}
		}
		if len(rows) == 0 {
			return nil
		}
		return &entity.Violation{
			RuleID:   RuleLineItemArithmetic,
			Message:  fmt.Sprintf("quantity × unit_price no coincide con line_total en la(s) línea(s) %s", strings.Join(rows, ", ")),
			Severity: entity.SeverityWarning,
		}
	})
}

type namedTotal struct {
	field  string
	amount entity.Amount
}

func totals(inv *entity.Invoice) []namedTotal {
	return []namedTotal{
		{"net_total", inv.NetTotal},
		{"tax_amount", inv.TaxAmount},
		{"gross_total", inv.GrossTotal},
	}
}
