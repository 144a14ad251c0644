package entity_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

func TestAmount_TresEstadosDesdeJSON(t *testing.T) {
	var v struct {
		Number  entity.Amount `json:"number"`
		Text    entity.Amount `json:"text"`
		Garbage entity.Amount `json:"garbage"`
		Null    entity.Amount `json:"null"`
		Missing entity.Amount `json:"missing"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"number":118.05,"text":"1.234,50","garbage":"n/a","null":null}`), &v))

	assert.True(t, v.Number.Valid)
	assert.True(t, v.Number.Decimal.Equal(decimal.RequireFromString("118.05")))
	assert.True(t, v.Text.Valid)
	assert.Equal(t, "1234.5", v.Text.Decimal.String())
	assert.True(t, v.Garbage.IsUnparsed())
	assert.True(t, v.Null.IsAbsent())
	assert.True(t, v.Missing.IsAbsent())
}

func TestAmount_MarshalJSON(t *testing.T) {
	raw, err := json.Marshal(map[string]entity.Amount{
		"valid":    entity.NewAmount(decimal.RequireFromString("100.50")),
		"unparsed": entity.ParseAmount("abc"),
		"absent":   {},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"valid":100.5,"unparsed":"abc","absent":null}`, string(raw))
}

func TestDate_TresEstados(t *testing.T) {
	var v struct {
		ISO      entity.Date `json:"iso"`
		DayFirst entity.Date `json:"day_first"`
		Bad      entity.Date `json:"bad"`
		Null     entity.Date `json:"null"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"iso":"2024-01-10","day_first":"02/03/2024","bad":"someday","null":null}`), &v))

	assert.True(t, v.ISO.Equal(entity.NewDate(2024, time.January, 10)))
	assert.True(t, v.DayFirst.Equal(entity.NewDate(2024, time.March, 2)))
	assert.True(t, v.Bad.IsUnparsed())
	assert.Equal(t, "someday", v.Bad.String())
	assert.True(t, v.Null.IsAbsent())

	raw, err := json.Marshal(struct {
		A entity.Date `json:"a"`
		B entity.Date `json:"b"`
		C entity.Date `json:"c"`
	}{v.DayFirst, v.Bad, v.Null})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"2024-03-02","b":"someday","c":null}`, string(raw))
}

func TestDate_Before(t *testing.T) {
	jan := entity.NewDate(2024, time.January, 10)
	feb := entity.NewDate(2024, time.February, 1)
	assert.True(t, jan.Before(feb))
	assert.False(t, feb.Before(jan))
	assert.False(t, jan.Before(entity.ParseDate("??")))
}

func TestInvoice_JSONContrato(t *testing.T) {
	inv := entity.Invoice{InvoiceNumber: "INV-1", Currency: "EUR"}
	raw, err := json.Marshal(inv)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	for _, key := range []string{
		"invoice_number", "external_reference", "invoice_date", "due_date",
		"seller_name", "seller_address", "seller_tax_id", "buyer_name", "buyer_address",
		"buyer_tax_id", "currency", "payment_terms", "net_total", "tax_amount",
		"gross_total", "notes", "line_items",
	} {
		assert.Contains(t, m, key)
	}
	assert.Equal(t, []any{}, m["line_items"])
	assert.Nil(t, m["net_total"])
}

func TestInvoice_DisplayID(t *testing.T) {
	assert.Equal(t, "INV-1", (&entity.Invoice{InvoiceNumber: "INV-1", ExternalReference: "a.pdf"}).DisplayID())
	assert.Equal(t, "a.pdf", (&entity.Invoice{ExternalReference: "a.pdf"}).DisplayID())
	assert.Equal(t, "<unknown>", (&entity.Invoice{}).DisplayID())
}
