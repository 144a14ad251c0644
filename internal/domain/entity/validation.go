package entity

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Severity gravedad de una violación. Solo SeverityError hace fallar la factura.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Violation regla incumplida: identificador, motivo legible, gravedad y, cuando
// aplica, la diferencia calculada (p. ej. descuadre de totales).
type Violation struct {
	RuleID   string           `json:"rule_id"`
	Message  string           `json:"message"`
	Severity Severity         `json:"severity"`
	Delta    *decimal.Decimal `json:"delta,omitempty"`
}

// InvoiceRef referencia a los campos identificativos de la factura (no la factura completa).
type InvoiceRef struct {
	InvoiceNumber     string `json:"invoice_number"`
	ExternalReference string `json:"external_reference"`
	DisplayID         string `json:"display_id"`
}

// ValidationResult resultado de validar una factura. Las violaciones siguen el
// orden de evaluación de las reglas.
type ValidationResult struct {
	Invoice    InvoiceRef  `json:"invoice"`
	Passed     bool        `json:"passed"`
	Violations []Violation `json:"violations"`
}

// NewValidationResult copia las violaciones y calcula Passed
// (ninguna violación con severidad error).
func NewValidationResult(ref InvoiceRef, violations []Violation) ValidationResult {
	vs := make([]Violation, len(violations))
	copy(vs, violations)
	passed := true
	for _, v := range vs {
		if v.Severity == SeverityError {
			passed = false
			break
		}
	}
	return ValidationResult{Invoice: ref, Passed: passed, Violations: vs}
}

// HasRule indica si el resultado contiene una violación de la regla id.
func (r ValidationResult) HasRule(id string) bool {
	_, ok := r.Violation(id)
	return ok
}

// Violation devuelve la primera violación de la regla id.
func (r ValidationResult) Violation(id string) (Violation, bool) {
	for _, v := range r.Violations {
		if v.RuleID == id {
			return v, true
		}
	}
	return Violation{}, false
}

// Summary conteos del lote. RuleCounts cuenta violaciones por regla.
type Summary struct {
	Total      int            `json:"total"`
	Passed     int            `json:"passed"`
	Failed     int            `json:"failed"`
	RuleCounts map[string]int `json:"rule_counts"`
}

// RuleCount par regla → ocurrencias.
type RuleCount struct {
	RuleID string `json:"rule_id"`
	Count  int    `json:"count"`
}

// SortedRuleCounts reglas por ocurrencias descendente y luego por identificador.
func (s Summary) SortedRuleCounts() []RuleCount {
	out := make([]RuleCount, 0, len(s.RuleCounts))
	for id, n := range s.RuleCounts {
		out = append(out, RuleCount{RuleID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].RuleID < out[j].RuleID
	})
	return out
}

// BatchReport informe de un lote. ReportID y GeneratedAt los asigna la capa de aplicación.
type BatchReport struct {
	ReportID    string             `json:"report_id,omitempty"`
	GeneratedAt *time.Time         `json:"generated_at,omitempty"`
	Summary     Summary            `json:"summary"`
	Results     []ValidationResult `json:"results"`
}
