package validation

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/invoice-qc/internal/domain/entity"
)

type duplicateKey struct {
	number string
	seller string
	date   string
}

func keyOf(inv *entity.Invoice) (duplicateKey, bool) {
	k := duplicateKey{
		number: fold(inv.InvoiceNumber),
		seller: fold(inv.SellerName),
		date:   fold(inv.InvoiceDate.String()),
	}
	return k, k != duplicateKey{}
}

// fold ignora mayúsculas y espacios repetidos.
func fold(s string) string {
	return cases.Fold().String(strings.Join(strings.Fields(s), " "))
}

// duplicateViolations marca todas las facturas cuya clave (invoice_number,
// seller_name, invoice_date) se repite en el lote. Todas las del grupo reciben el
// mismo mensaje, independiente del orden. Las facturas sin ningún componente de
// clave no se comparan.
func duplicateViolations(invoices []entity.Invoice) map[int]entity.Violation {
	groups := make(map[duplicateKey][]int)
	for i := range invoices {
		if k, ok := keyOf(&invoices[i]); ok {
			groups[k] = append(groups[k], i)
		}
	}
	out := make(map[int]entity.Violation)
	for k, idx := range groups {
		if len(idx) < 2 {
			continue
		}
		v := entity.Violation{
			RuleID: RuleDuplicate,
			Message: fmt.Sprintf("%d facturas del lote comparten invoice_number %q, seller_name %q e invoice_date %q",
				len(idx), k.number, k.seller, k.date),
			Severity: entity.SeverityError,
		}
		for _, i := range idx {
			out[i] = v
		}
	}
	return out
}
