package invoice

import (
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/invoice-parser/internal/core/textnorm"
)

// Engine extracts invoice fields from plain text. It holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	cfg    Config
	logger *slog.Logger

	buyerIDs     map[string]struct{}
	buyerNeedles []string

	numberRules    []Rule[string]
	dateRules      []Rule[string]
	dueRules       []Rule[string]
	directRules    []Rule[string]
	knownRules     []Rule[string]
	recipientRules []Rule[string]
	contextRules   []Rule[string]
	bareRules      []Rule[string]
	supplierRules  []Rule[string]
	totalRules     []Rule[totalHit]
	vatRules       []Rule[VATInfo]
	rateRules      []Rule[VATInfo]
}

func NewEngine(cfg Config, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()

	disabled := make(map[string]struct{}, len(cfg.DisabledRules))
	for _, name := range cfg.DisabledRules {
		disabled[name] = struct{}{}
	}

	e := &Engine{
		cfg:            cfg,
		logger:         logger,
		buyerIDs:       make(map[string]struct{}, len(cfg.BuyerTaxIDs)),
		numberRules:    activeRules(numberRules, disabled),
		dateRules:      activeRules(dateRules, disabled),
		dueRules:       activeRules(dueDateRules, disabled),
		directRules:    activeRules(directSupplierRules, disabled),
		knownRules:     activeRules(knownCompanyRules(cfg.KnownCompanies), disabled),
		recipientRules: activeRules(recipientRules, disabled),
		contextRules:   activeRules(supplierContextRules, disabled),
		bareRules:      activeRules(bareNameRules, disabled),
		supplierRules:  activeRules(supplierTaxIDRules, disabled),
		totalRules:     activeRules(totalRules, disabled),
		vatRules:       activeRules(vatAmountRules, disabled),
		rateRules:      activeRules(vatRateRules, disabled),
	}
	for _, id := range cfg.BuyerTaxIDs {
		e.buyerIDs[id] = struct{}{}
		e.buyerNeedles = append(e.buyerNeedles, id)
	}
	for _, name := range cfg.BuyerNames {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			e.buyerNeedles = append(e.buyerNeedles, name)
		}
	}
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// scan is the per-call state of one extraction: the prepared text, lazily
// built exclusion knowledge and the decision trace.
type scan struct {
	eng    *Engine
	logger *slog.Logger
	text   string
	lower  string
	trace  []Decision
	excl   *exclusions
}

func (e *Engine) newScan(text string) *scan {
	return &scan{eng: e, logger: e.logger, text: text, lower: strings.ToLower(text)}
}

func (e *Engine) prepare(text string) *scan {
	return e.newScan(textnorm.Prepare(text))
}

// Parse classifies the text and, when it looks like an invoice, extracts
// every field into a fresh record.
func (e *Engine) Parse(text string) Result {
	start := time.Now()
	s := e.prepare(text)

	if ok, reason := s.classify(); !ok {
		e.logger.Info("invoice.parse.rejected",
			"reason", reason,
			"text_len", len(s.text),
		)
		return Result{Rejection: newRejection(reason), Trace: s.trace}
	}

	inv := s.assemble()
	e.logger.Info("invoice.parse.ok",
		"number", deref(inv.InvoiceNumber),
		"total", amountString(inv.TotalAmount),
		"inn", deref(inv.Counterparty.TaxID),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{Invoice: inv, Trace: s.trace}
}

// IsInvoiceDocument reports whether text passes the classifier gate.
func (e *Engine) IsInvoiceDocument(text string) bool {
	ok, _ := e.prepare(text).classify()
	return ok
}

func (e *Engine) ExtractInvoiceNumber(text string) (string, bool) {
	return e.prepare(text).invoiceNumber()
}

func (e *Engine) ExtractDate(text string) (string, bool) {
	return e.prepare(text).invoiceDate()
}

func (e *Engine) ExtractDueDate(text string) (string, bool) {
	return e.prepare(text).dueDate()
}

func (e *Engine) ExtractContractorName(text string) (string, bool) {
	return e.prepare(text).contractorName()
}

// ExtractTaxIDs returns every INN found, the supplier's first. Nil when none.
func (e *Engine) ExtractTaxIDs(text string) []string {
	return e.prepare(text).taxIDs().All
}

func (e *Engine) ExtractKPP(text string) (string, bool) {
	s := e.prepare(text)
	return s.kpp(s.taxIDs().Supplier)
}

func (e *Engine) ExtractAddress(text string) (string, bool) {
	return e.prepare(text).address()
}

func (e *Engine) ExtractTotalAmount(text string) (decimal.Decimal, bool) {
	return e.prepare(text).totalAmount()
}

func (e *Engine) ExtractVATInfo(text string) VATInfo {
	return e.prepare(text).vatInfo()
}

func (s *scan) assemble() *ParsedInvoice {
	inv := &ParsedInvoice{LineItems: []LineItem{}}

	if v, ok := s.invoiceNumber(); ok {
		inv.InvoiceNumber = strPtr(v)
	}
	if v, ok := s.invoiceDate(); ok {
		inv.InvoiceDate = strPtr(v)
	}
	if v, ok := s.dueDate(); ok {
		inv.DueDate = strPtr(v)
	}
	if v, ok := s.contractorName(); ok {
		inv.Counterparty.Name = strPtr(v)
	}

	ids := s.taxIDs()
	inv.Counterparty.AllTaxIDs = ids.All
	if id := ids.primary(s.eng); id != "" {
		inv.Counterparty.TaxID = strPtr(id)
	}
	if v, ok := s.kpp(ids.Supplier); ok {
		inv.Counterparty.KPP = strPtr(v)
	}
	if v, ok := s.address(); ok {
		inv.Counterparty.Address = strPtr(v)
	}

	total, hasTotal := s.totalAmount()
	if hasTotal {
		inv.TotalAmount = NewAmount(total)
	}

	vat := s.vatInfo()
	if vat.Amount.Valid {
		inv.VATAmount = NewAmount(vat.Amount.Decimal)
	}
	if vat.Rate.Valid {
		inv.VATRate = NewAmount(vat.Rate.Decimal)
	} else if vat.Amount.Valid && hasTotal {
		if rate, ok := s.eng.DeriveVATRate(vat.Amount.Decimal, total); ok {
			inv.VATRate = NewAmount(rate)
			s.record(FieldVATRate, "vat_rate.derived", rate.String(), OutcomeDerived, "from vat and total")
		}
	}
	inv.HasVAT = inv.VATAmount != nil || inv.VATRate != nil
	return inv
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func amountString(a *Amount) string {
	if a == nil {
		return ""
	}
	return a.StringFixed(2)
}
