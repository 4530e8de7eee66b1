package constants

// ResultStatus is the per-document outcome of a parse.
type ResultStatus string

const (
	StatusOK         ResultStatus = "ok"          // fields extracted
	StatusNotInvoice ResultStatus = "not_invoice" // rejected by the classifier
	StatusError      ResultStatus = "error"       // source could not be read
)

// Rejection payload values returned when a document is not an invoice.
const (
	RejectionCode       = "NOT_INVOICE"
	RejectionError      = "Загруженный документ не является счетом"
	RejectionMessage    = "Пожалуйста, загрузите файл со счетом-фактурой или коммерческим предложением"
	DocumentTypeUnknown = "unknown"
)
