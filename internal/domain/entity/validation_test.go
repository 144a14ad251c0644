package entity_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

func TestSummary_SortedRuleCounts(t *testing.T) {
	s := entity.Summary{RuleCounts: map[string]int{"b": 1, "a": 1, "c": 3}}
	assert.Equal(t, []entity.RuleCount{{RuleID: "c", Count: 3}, {RuleID: "a", Count: 1}, {RuleID: "b", Count: 1}}, s.SortedRuleCounts())
}

func TestNewValidationResult_SoloErroresHacenFallar(t *testing.T) {
	ref := entity.InvoiceRef{DisplayID: "X"}
	warn := entity.Violation{RuleID: "w", Severity: entity.SeverityWarning}
	errV := entity.Violation{RuleID: "e", Severity: entity.SeverityError}

	assert.True(t, entity.NewValidationResult(ref, nil).Passed)
	assert.True(t, entity.NewValidationResult(ref, []entity.Violation{warn}).Passed)
	assert.False(t, entity.NewValidationResult(ref, []entity.Violation{warn, errV}).Passed)

	raw, err := json.Marshal(entity.NewValidationResult(ref, nil))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"violations":[]`)
}
