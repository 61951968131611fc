package domain

// Currency represents a detected bill currency.
type Currency string

const (
	CurrencyINR     Currency = "INR"
	CurrencyUSD     Currency = "USD"
	CurrencyEUR     Currency = "EUR"
	CurrencyGBP     Currency = "GBP"
	CurrencyUnknown Currency = "UNKNOWN"
)

// SupportedCurrencies lists detectable currencies in scoring/tie-break order.
var SupportedCurrencies = []Currency{CurrencyINR, CurrencyUSD, CurrencyEUR, CurrencyGBP}

// Status is the terminal state of a pipeline run.
type Status string

const (
	StatusOK             Status = "ok"
	StatusLowConfidence  Status = "low_confidence"
	StatusNoAmountsFound Status = "no_amounts_found"
	StatusError          Status = "error"
)

// ExtractionStatus is the outcome of the extraction stage, as reported by the
// OCR/text collaborator.
type ExtractionStatus string

const (
	ExtractionSuccess        ExtractionStatus = "success"
	ExtractionError          ExtractionStatus = "error"
	ExtractionNoAmountsFound ExtractionStatus = "no_amounts_found"
)

// Canonical financial amount types. Classified items may also carry a medical
// service name ("x_ray", "consultation", ...) or a dynamic label derived from
// the bill text.
const (
	TypeTotalBill = "total_bill"
	TypePaid      = "paid"
	TypeDue       = "due"
	TypeDiscount  = "discount"
	TypeTax       = "tax"
	TypeCopay     = "copay"
	TypeOther     = "other"
)

// CanonicalFinancialTypes are the types subject to duplicate conflict
// resolution. Service-type items are never grouped.
var CanonicalFinancialTypes = map[string]bool{
	TypeTotalBill: true,
	TypePaid:      true,
	TypeDue:       true,
	TypeDiscount:  true,
	TypeTax:       true,
	TypeCopay:     true,
}

// Source tags for classified items.
const (
	SourceText  = "text"
	SourceImage = "image"
)
