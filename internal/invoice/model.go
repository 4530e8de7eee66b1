package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-parser/constants"
	"github.com/joseph-ayodele/invoice-parser/internal/common"
)

// Amount is a two-decimal monetary or percentage value. It serializes as a
// JSON number, not a quoted string.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) *Amount {
	return &Amount{Decimal: d.Round(2)}
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(2)), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	return a.Decimal.UnmarshalJSON(b)
}

// Counterparty is the supplier the invoice was issued by.
type Counterparty struct {
	Name      *string  `json:"name"`
	TaxID     *string  `json:"inn"`
	AllTaxIDs []string `json:"all_inns"`
	KPP       *string  `json:"kpp"`
	Address   *string  `json:"address"`
}

// LineItem is part of the output shape; extraction of items is not attempted.
type LineItem struct {
	Position  int     `json:"position"`
	Name      string  `json:"name"`
	Quantity  *Amount `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitPrice *Amount `json:"unit_price"`
	LineTotal *Amount `json:"line_total"`
}

// ParsedInvoice is the record built for one accepted text.
type ParsedInvoice struct {
	InvoiceNumber *string
	InvoiceDate   *string
	DueDate       *string
	TotalAmount   *Amount
	VATAmount     *Amount
	VATRate       *Amount
	HasVAT        bool
	Counterparty  Counterparty
	LineItems     []LineItem
}

// Rejection is returned instead of a record when the classifier says the
// text is not an invoice.
type Rejection struct {
	Code         string `json:"code"`
	Error        string `json:"error"`
	DocumentType string `json:"document_type"`
	Message      string `json:"message"`
	Reason       string `json:"-"`
}

func newRejection(reason string) *Rejection {
	return &Rejection{
		Code:         constants.RejectionCode,
		Error:        constants.RejectionError,
		DocumentType: constants.DocumentTypeUnknown,
		Message:      constants.RejectionMessage,
		Reason:       reason,
	}
}

// Result is the outcome of Engine.Parse. Exactly one of Invoice and
// Rejection is set.
type Result struct {
	Invoice   *ParsedInvoice
	Rejection *Rejection
	Trace     []Decision
}

func (r Result) IsInvoice() bool {
	return r.Invoice != nil
}

func (r Result) Status() constants.ResultStatus {
	if r.Rejection != nil {
		return constants.StatusNotInvoice
	}
	return constants.StatusOK
}

// Err converts a rejection into an AppError wrapping common.ErrNotInvoice.
func (r Result) Err() error {
	if r.Rejection == nil {
		return nil
	}
	msg := r.Rejection.Error
	if r.Rejection.Reason != "" {
		msg = fmt.Sprintf("%s (%s)", msg, r.Rejection.Reason)
	}
	return common.NewAppError(r.Rejection.Code, msg, common.ErrNotInvoice)
}

func strPtr(s string) *string {
	return &s
}
