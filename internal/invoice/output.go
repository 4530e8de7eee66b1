package invoice

import (
	"encoding/json"
	"fmt"
	"strings"
)

type invoiceJSON struct {
	Number      *string `json:"number"`
	Date        *string `json:"date"`
	DueDate     *string `json:"due_date"`
	TotalAmount *Amount `json:"total_amount"`
	VATAmount   *Amount `json:"vat_amount"`
	VATRate     *Amount `json:"vat_rate"`
	HasVAT      bool    `json:"has_vat"`
}

type parsedJSON struct {
	Invoice    invoiceJSON  `json:"invoice"`
	Contractor Counterparty `json:"contractor"`
	Items      []LineItem   `json:"items"`
	Trace      []Decision   `json:"trace,omitempty"`
}

type rejectionJSON struct {
	*Rejection
	Trace []Decision `json:"trace,omitempty"`
}

// MarshalResult renders the result in its wire shape: an invoice document
// with contractor and items, or the rejection payload.
func MarshalResult(r Result) ([]byte, error) {
	return marshalResult(r, false)
}

// MarshalResultWithTrace is MarshalResult with the decision trace attached.
func MarshalResultWithTrace(r Result) ([]byte, error) {
	return marshalResult(r, true)
}

func marshalResult(r Result, withTrace bool) ([]byte, error) {
	var trace []Decision
	if withTrace {
		trace = r.Trace
	}
	if r.Rejection != nil {
		return json.Marshal(rejectionJSON{Rejection: r.Rejection, Trace: trace})
	}
	if r.Invoice == nil {
		return nil, fmt.Errorf("marshal result: neither invoice nor rejection set")
	}
	inv := r.Invoice
	items := inv.LineItems
	if items == nil {
		items = []LineItem{}
	}
	contractor := inv.Counterparty
	if contractor.AllTaxIDs == nil {
		contractor.AllTaxIDs = []string{}
	}
	return json.Marshal(parsedJSON{
		Invoice: invoiceJSON{
			Number:      inv.InvoiceNumber,
			Date:        inv.InvoiceDate,
			DueDate:     inv.DueDate,
			TotalAmount: inv.TotalAmount,
			VATAmount:   inv.VATAmount,
			VATRate:     inv.VATRate,
			HasVAT:      inv.HasVAT,
		},
		Contractor: contractor,
		Items:      items,
		Trace:      trace,
	})
}

const undetermined = "не определено"

// Readable renders the result as the Russian plain-text report printed by
// the command line tool.
func (r Result) Readable() string {
	var b strings.Builder
	if r.Rejection != nil {
		fmt.Fprintf(&b, "ОШИБКА: %s\n", r.Rejection.Error)
		fmt.Fprintf(&b, "%s\n", r.Rejection.Message)
		if r.Rejection.Reason != "" {
			fmt.Fprintf(&b, "Причина: %s\n", r.Rejection.Reason)
		}
		return b.String()
	}
	inv := r.Invoice
	if inv == nil {
		return ""
	}
	b.WriteString("РЕЗУЛЬТАТ РАЗБОРА СЧЁТА\n")
	b.WriteString(strings.Repeat("=", 40) + "\n")
	line(&b, "Номер счёта", str(inv.InvoiceNumber))
	line(&b, "Дата счёта", str(inv.InvoiceDate))
	line(&b, "Срок оплаты", str(inv.DueDate))
	line(&b, "Сумма", money(inv.TotalAmount, " руб."))
	line(&b, "НДС", money(inv.VATAmount, " руб."))
	line(&b, "Ставка НДС", money(inv.VATRate, "%"))
	if inv.HasVAT {
		line(&b, "С НДС", "да")
	} else {
		line(&b, "С НДС", "нет")
	}
	b.WriteString("\nКОНТРАГЕНТ\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")
	line(&b, "Название", str(inv.Counterparty.Name))
	line(&b, "ИНН", str(inv.Counterparty.TaxID))
	if len(inv.Counterparty.AllTaxIDs) > 1 {
		line(&b, "Все ИНН", strings.Join(inv.Counterparty.AllTaxIDs, ", "))
	}
	line(&b, "КПП", str(inv.Counterparty.KPP))
	line(&b, "Адрес", str(inv.Counterparty.Address))
	return b.String()
}

func line(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%-14s %s\n", label+":", value)
}

func str(p *string) string {
	if p == nil {
		return undetermined
	}
	return *p
}

func money(a *Amount, suffix string) string {
	if a == nil {
		return undetermined
	}
	return a.StringFixed(2) + suffix
}
