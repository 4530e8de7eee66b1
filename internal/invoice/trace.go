package invoice

import (
	"context"
	"log/slog"
	"strings"
)

// Field names used in the trace.
const (
	FieldClassifier = "classifier"
	FieldNumber     = "invoice_number"
	FieldDate       = "invoice_date"
	FieldDueDate    = "due_date"
	FieldName       = "contractor_name"
	FieldSupplierID = "supplier_inn"
	FieldTaxIDs     = "all_inns"
	FieldKPP        = "kpp"
	FieldAddress    = "address"
	FieldTotal      = "total_amount"
	FieldVAT        = "vat"
	FieldVATRate    = "vat_rate"
)

// Outcome of one rule hit.
type Outcome string

const (
	OutcomeAccepted   Outcome = "accepted"
	OutcomeRejected   Outcome = "rejected"
	OutcomeUnparsable Outcome = "unparsable"
	OutcomeMiss       Outcome = "miss"
	OutcomeCorrected  Outcome = "corrected"
	OutcomeDerived    Outcome = "derived"
)

// Decision records why a field ended up with its value, or without one.
type Decision struct {
	Field   string  `json:"field"`
	Rule    string  `json:"rule,omitempty"`
	Value   string  `json:"value,omitempty"`
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
}

func (d Decision) String() string {
	var b strings.Builder
	b.WriteString(d.Field)
	if d.Rule != "" {
		b.WriteString(" [" + d.Rule + "]")
	}
	b.WriteString(" " + string(d.Outcome))
	if d.Value != "" {
		b.WriteString(" " + d.Value)
	}
	if d.Reason != "" {
		b.WriteString(": " + d.Reason)
	}
	return b.String()
}

func (s *scan) record(field, rule, value string, outcome Outcome, reason string) {
	d := Decision{Field: field, Rule: rule, Value: value, Outcome: outcome, Reason: reason}
	s.trace = append(s.trace, d)
	if s.logger.Enabled(context.Background(), slog.LevelDebug) {
		s.logger.Debug("invoice.rule."+string(outcome),
			"field", field,
			"rule", rule,
			"value", value,
			"reason", reason,
		)
	}
}

// Decisions returns the trace entries for one field, in evaluation order.
func (r Result) Decisions(field string) []Decision {
	var out []Decision
	for _, d := range r.Trace {
		if d.Field == field {
			out = append(out, d)
		}
	}
	return out
}

// AcceptedRule names the rule that produced a field's value, if any.
func (r Result) AcceptedRule(field string) string {
	for _, d := range r.Trace {
		if d.Field == field && (d.Outcome == OutcomeAccepted || d.Outcome == OutcomeDerived) {
			return d.Rule
		}
	}
	return ""
}
