package domain

// RawToken is a numeric candidate found in the source text. It is created by
// the tokenizer and never mutated afterwards.
type RawToken struct {
	Text     string
	Position int    // byte offset in the source text
	Context  string // fixed window around the match
}

// NormalizedAmount is a validated numeric amount produced from one raw token.
type NormalizedAmount struct {
	Value       float64
	Confidence  float64
	Corrections []string // human-readable "from -> to" substitutions, diagnostic only
}

// AmountItem is a classified amount in the final result.
type AmountItem struct {
	Type   string  `json:"type"`
	Value  float64 `json:"value"`
	Source string  `json:"source,omitempty"`
}

// Extraction is the output of the extraction stage (text or image path).
type Extraction struct {
	RawTokens    []string
	CurrencyHint Currency // CurrencyUnknown when no hint
	Confidence   float64
	Status       ExtractionStatus
	Reason       string
	OriginalText string // OCR-corrected text, kept for classification context
}

// Result is the terminal artifact of a pipeline run. It is assembled once and
// never mutated.
type Result struct {
	Currency                 Currency     `json:"currency,omitempty"`
	Amounts                  []AmountItem `json:"amounts"`
	Status                   Status       `json:"status"`
	Confidence               float64      `json:"confidence"`
	RawTokens                []string     `json:"raw_tokens,omitempty"`
	NormalizationConfidence  float64      `json:"normalization_confidence,omitempty"`
	ClassificationConfidence float64      `json:"classification_confidence,omitempty"`
	Reason                   string       `json:"reason,omitempty"`
}
