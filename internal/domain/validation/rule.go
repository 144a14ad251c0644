// Package validation implementa el motor de reglas de calidad de facturas:
// un registro ordenado de reglas independientes y el agregador por lote
// (validación en paralelo + regla de duplicados + resumen).
package validation

import (
	"errors"
	"fmt"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// ErrDuplicateRule dos reglas del mismo registro comparten identificador.
var ErrDuplicateRule = errors.New("validation: identificador de regla duplicado")

// Rule regla independiente sobre una factura. Evaluate devuelve nil si la
// factura cumple la regla. No debe modificar la factura.
type Rule interface {
	ID() string
	Evaluate(inv *entity.Invoice) *entity.Violation
}

type funcRule struct {
	id   string
	eval func(inv *entity.Invoice) *entity.Violation
}

func (r funcRule) ID() string { return r.id }

func (r funcRule) Evaluate(inv *entity.Invoice) *entity.Violation { return r.eval(inv) }

// NewRule construye una regla a partir de una función.
func NewRule(id string, eval func(inv *entity.Invoice) *entity.Violation) Rule {
	return funcRule{id: id, eval: eval}
}

// Registry lista ordenada de reglas. El orden de registro es el orden de evaluación
// y, por tanto, el orden de las violaciones en el resultado.
type Registry struct {
	rules []Rule
}

// NewRegistry valida que los identificadores sean únicos.
func NewRegistry(rules ...Rule) (*Registry, error) {
	seen := make(map[string]bool, len(rules))
	for _, r := range rules {
		if seen[r.ID()] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateRule, r.ID())
		}
		seen[r.ID()] = true
	}
	out := make([]Rule, len(rules))
	copy(out, rules)
	return &Registry{rules: out}, nil
}

// DefaultRegistry reglas estándar en su orden documentado.
func DefaultRegistry(tol Tolerance, allowedCurrencies []string) *Registry {
	return &Registry{rules: []Rule{
		RequiredFields(),
		DateParseable(),
		DueDateParseable(),
		CurrencyValid(allowedCurrencies),
		TotalsNonNegative(),
		TotalsArithmetic(tol),
		LineItemSum(tol),
		DueDateOrdering(),
		ZeroTotalAnomaly(),
		LineItemArithmetic(tol),
	}}
}

// IDs identificadores en orden de evaluación.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.rules))
	for i, rule := range r.rules {
		ids[i] = rule.ID()
	}
	return ids
}

// Evaluate ejecuta todas las reglas (aunque alguna anterior falle).
func (r *Registry) Evaluate(inv *entity.Invoice) []entity.Violation {
	violations := make([]entity.Violation, 0)
	for _, rule := range r.rules {
		if v := rule.Evaluate(inv); v != nil {
			if v.RuleID == "" {
				v.RuleID = rule.ID()
			}
			if v.Severity == "" {
				v.Severity = entity.SeverityError
			}
			violations = append(violations, *v)
		}
	}
	return violations
}
