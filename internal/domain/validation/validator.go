package validation

import (
	"runtime"

	"github.com/shopspring/decimal"
	"github.com/sourcegraph/conc/iter"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

// Config parámetros del validador.
type Config struct {
	// Tolerance fija para todas las monedas. nil: dos unidades mínimas de la moneda.
	Tolerance *decimal.Decimal
	// AllowedCurrencies vacío: money.AcceptedCurrencies.
	AllowedCurrencies []string
	// Workers máximo de goroutines en ValidateBatch. <= 0: GOMAXPROCS.
	Workers int
}

// Validator aplica un Registry a facturas sueltas o a lotes. Sin estado mutable:
// seguro para uso concurrente.
type Validator struct {
	registry *Registry
	workers  int
}

// NewValidator validador con las reglas estándar.
func NewValidator(cfg Config) *Validator {
	tol := CurrencyTolerance
	if cfg.Tolerance != nil {
		tol = FixedTolerance(*cfg.Tolerance)
	}
	return NewValidatorWithRegistry(DefaultRegistry(tol, cfg.AllowedCurrencies), cfg.Workers)
}

// NewValidatorWithRegistry validador con un registro de reglas propio.
func NewValidatorWithRegistry(reg *Registry, workers int) *Validator {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Validator{registry: reg, workers: workers}
}

// Registry reglas que aplica el validador (sin la regla de lote "duplicate").
func (v *Validator) Registry() *Registry { return v.registry }

// Validate evalúa todas las reglas sobre una factura.
func (v *Validator) Validate(inv *entity.Invoice) entity.ValidationResult {
	return entity.NewValidationResult(inv.Ref(), v.registry.Evaluate(inv))
}

// ValidateBatch valida cada factura en paralelo (como mucho Workers goroutines),
// espera a que terminen todas y solo entonces aplica la regla de duplicados.
// Los resultados conservan el orden de entrada.
func (v *Validator) ValidateBatch(invoices []entity.Invoice) entity.BatchReport {
	mapper := iter.Mapper[entity.Invoice, []entity.Violation]{MaxGoroutines: v.workers}
	perInvoice := mapper.Map(invoices, func(inv *entity.Invoice) []entity.Violation {
		return v.registry.Evaluate(inv)
	})

	duplicates := duplicateViolations(invoices)

	results := make([]entity.ValidationResult, len(invoices))
	for i := range invoices {
		violations := perInvoice[i]
		if d, ok := duplicates[i]; ok {
			violations = append(violations, d)
		}
		results[i] = entity.NewValidationResult(invoices[i].Ref(), violations)
	}
	return entity.BatchReport{Summary: Summarize(results), Results: results}
}

// Summarize conteos de un conjunto de resultados.
func Summarize(results []entity.ValidationResult) entity.Summary {
	s := entity.Summary{Total: len(results), RuleCounts: make(map[string]int)}
	for _, r := range results {
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
		for _, vi := range r.Violations {
			s.RuleCounts[vi.RuleID]++
		}
	}
	return s
}
