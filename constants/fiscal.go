package constants

const (
	// StandardVATRate is the general Russian VAT rate in percent.
	StandardVATRate = 20
	// ReducedVATRate applies to food, children's goods and the like.
	ReducedVATRate = 10

	// DefaultBuyerTaxID is the INN of the party the invoices are addressed to.
	DefaultBuyerTaxID = "784802613697"

	BankAccountDigits = 20
	BICDigits         = 9
	LegalTaxIDDigits  = 10
	PersonTaxIDDigits = 12
)

// DefaultBuyerNames are lowercase fragments identifying the buyer in names.
var DefaultBuyerNames = []string{"ткачев", "tkachev"}
