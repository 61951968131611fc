package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is loaded once at startup and
// treated as immutable; components receive the pieces they need at
// construction and never consult ambient global state.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Pipeline  PipelineConfig
	Tokenizer TokenizerConfig
	Classify  ClassifyConfig
	OCR       OCRConfig
	Tables    Tables
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// PipelineConfig holds stage thresholds and global amount bounds.
type PipelineConfig struct {
	ProcessingThreshold     float64 `mapstructure:"processing_threshold"`
	ClassificationThreshold float64 `mapstructure:"classification_threshold"`
	MinOCRConfidence        float64 `mapstructure:"min_ocr_confidence"`
	MinAmountValue          float64 `mapstructure:"min_amount_value"`
	MaxAmountValue          float64 `mapstructure:"max_amount_value"`
	MaxTextLength           int     `mapstructure:"max_text_length"`
	MaxImageBytes           int64   `mapstructure:"max_image_bytes"`
}

// TokenizerConfig holds tokenizer tuning knobs.
type TokenizerConfig struct {
	BucketWidth   int `mapstructure:"bucket_width"`
	ContextWindow int `mapstructure:"context_window"`
}

// ClassifyConfig holds classifier tuning knobs. ExcludedPhrases and
// MinPhraseLength are the only guard against mislabeling noise as a dynamic
// service name, so they are explicit configuration.
type ClassifyConfig struct {
	ResolveConflicts bool     `mapstructure:"resolve_conflicts"`
	ExcludedPhrases  []string `mapstructure:"excluded_phrases"`
	MinPhraseLength  int      `mapstructure:"min_phrase_length"`
}

// OCRConfig holds settings for the external tesseract invocation.
type OCRConfig struct {
	Command     string `mapstructure:"command"`
	Languages   string `mapstructure:"languages"`
	PageSegMode int    `mapstructure:"page_seg_mode"`
	EngineMode  int    `mapstructure:"engine_mode"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// DigitCorrection maps a visually-confusable character to the digit it was
// likely meant to be.
type DigitCorrection struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// CurrencyPatterns binds a currency code to the regex patterns that signal it.
type CurrencyPatterns struct {
	Currency string   `mapstructure:"currency"`
	Patterns []string `mapstructure:"patterns"`
}

// TypeKeywords binds an amount type to its classification keywords.
type TypeKeywords struct {
	Type     string   `mapstructure:"type"`
	Keywords []string `mapstructure:"keywords"`
}

// Tables holds the rule tables consumed by the pipeline. They are ordered
// slices, not maps, so tie-breaks stay deterministic. Overridable through the
// optional config file (PLUM_CONFIG_FILE).
type Tables struct {
	DigitCorrections   []DigitCorrection  `mapstructure:"digit_corrections"`
	CurrencyPatterns   []CurrencyPatterns `mapstructure:"currency_patterns"`
	AmountTypeKeywords []TypeKeywords     `mapstructure:"amount_type_keywords"`
}

// DefaultDigitCorrections returns the built-in OCR digit-confusion table.
func DefaultDigitCorrections() []DigitCorrection {
	return []DigitCorrection{
		{From: "l", To: "1"}, {From: "I", To: "1"},
		{From: "O", To: "0"}, {From: "o", To: "0"},
		{From: "S", To: "5"}, {From: "s", To: "5"},
		{From: "G", To: "6"}, {From: "T", To: "7"},
		{From: "B", To: "8"}, {From: "b", To: "6"},
		{From: "g", To: "9"}, {From: "Z", To: "2"}, {From: "z", To: "2"},
		{From: "¢", To: "0"}, {From: "@", To: "0"},
		{From: "e", To: "0"}, {From: "c", To: "0"},
	}
}

// DefaultCurrencyPatterns returns the built-in currency detection table, in
// tie-break order.
func DefaultCurrencyPatterns() []CurrencyPatterns {
	return []CurrencyPatterns{
		{Currency: "INR", Patterns: []string{`INR`, `Rs\.?`, `₹`, `Rupees?`}},
		{Currency: "USD", Patterns: []string{`USD`, `\$`, `Dollars?`}},
		{Currency: "EUR", Patterns: []string{`EUR`, `€`, `Euros?`}},
		{Currency: "GBP", Patterns: []string{`GBP`, `£`, `Pounds?`}},
	}
}

// DefaultAmountTypeKeywords returns the built-in keyword table, in tie-break
// order.
func DefaultAmountTypeKeywords() []TypeKeywords {
	return []TypeKeywords{
		{Type: "total_bill", Keywords: []string{"total", "amount", "bill", "invoice", "grand total"}},
		{Type: "paid", Keywords: []string{"paid", "payment", "received", "collected"}},
		{Type: "due", Keywords: []string{"due", "balance", "outstanding", "pending", "owed"}},
		{Type: "discount", Keywords: []string{"discount", "off", "reduction", "concession"}},
		{Type: "tax", Keywords: []string{"tax", "gst", "vat", "service tax"}},
		{Type: "copay", Keywords: []string{"copay", "co-pay", "patient share"}},
		{Type: "deductible", Keywords: []string{"deductible", "excess"}},
		{Type: "insurance_covered", Keywords: []string{"insurance", "covered", "claim", "reimbursed"}},
	}
}

// DefaultExcludedPhrases returns the generic financial words a dynamic service
// label may never be.
func DefaultExcludedPhrases() []string {
	return []string{"total", "paid", "due", "discount", "tax", "amount", "bill", "balance"}
}

// Load reads configuration from environment variables with the PLUM_ prefix.
// If PLUM_CONFIG_FILE points at a YAML/JSON file it is read first, which is
// the only way to override the rule tables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PLUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Pipeline defaults
	v.SetDefault("pipeline.processing_threshold", 0.3)
	v.SetDefault("pipeline.classification_threshold", 0.4)
	v.SetDefault("pipeline.min_ocr_confidence", 0.1)
	v.SetDefault("pipeline.min_amount_value", 0.01)
	v.SetDefault("pipeline.max_amount_value", 1000000.0)
	v.SetDefault("pipeline.max_text_length", 10000)
	v.SetDefault("pipeline.max_image_bytes", 10*1024*1024)

	// Tokenizer defaults
	v.SetDefault("tokenizer.bucket_width", 5)
	v.SetDefault("tokenizer.context_window", 20)

	// Classifier defaults
	v.SetDefault("classify.resolve_conflicts", false)
	v.SetDefault("classify.min_phrase_length", 2)

	// OCR defaults
	v.SetDefault("ocr.command", "tesseract")
	v.SetDefault("ocr.languages", "eng")
	v.SetDefault("ocr.page_seg_mode", 6)
	v.SetDefault("ocr.engine_mode", 3)
	v.SetDefault("ocr.timeout_secs", 30)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                       "PLUM_SERVER_PORT",
		"server.read_timeout":               "PLUM_SERVER_READ_TIMEOUT",
		"server.write_timeout":              "PLUM_SERVER_WRITE_TIMEOUT",
		"server.environment":                "PLUM_SERVER_ENVIRONMENT",
		"log.level":                         "PLUM_LOG_LEVEL",
		"log.format":                        "PLUM_LOG_FORMAT",
		"pipeline.processing_threshold":     "PLUM_PIPELINE_PROCESSING_THRESHOLD",
		"pipeline.classification_threshold": "PLUM_PIPELINE_CLASSIFICATION_THRESHOLD",
		"pipeline.min_ocr_confidence":       "PLUM_PIPELINE_MIN_OCR_CONFIDENCE",
		"pipeline.min_amount_value":         "PLUM_PIPELINE_MIN_AMOUNT_VALUE",
		"pipeline.max_amount_value":         "PLUM_PIPELINE_MAX_AMOUNT_VALUE",
		"pipeline.max_text_length":          "PLUM_PIPELINE_MAX_TEXT_LENGTH",
		"pipeline.max_image_bytes":          "PLUM_PIPELINE_MAX_IMAGE_BYTES",
		"tokenizer.bucket_width":            "PLUM_TOKENIZER_BUCKET_WIDTH",
		"tokenizer.context_window":          "PLUM_TOKENIZER_CONTEXT_WINDOW",
		"classify.resolve_conflicts":        "PLUM_CLASSIFY_RESOLVE_CONFLICTS",
		"classify.min_phrase_length":        "PLUM_CLASSIFY_MIN_PHRASE_LENGTH",
		"ocr.command":                       "PLUM_OCR_COMMAND",
		"ocr.languages":                     "PLUM_OCR_LANGUAGES",
		"ocr.page_seg_mode":                 "PLUM_OCR_PAGE_SEG_MODE",
		"ocr.engine_mode":                   "PLUM_OCR_ENGINE_MODE",
		"ocr.timeout_secs":                  "PLUM_OCR_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	// Optional config file, the only way to override the rule tables.
	if file := os.Getenv("PLUM_CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	cfg := &Config{}

	cfg.Server = ServerConfig{
		Port:         v.GetString("server.port"),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Pipeline = PipelineConfig{
		ProcessingThreshold:     v.GetFloat64("pipeline.processing_threshold"),
		ClassificationThreshold: v.GetFloat64("pipeline.classification_threshold"),
		MinOCRConfidence:        v.GetFloat64("pipeline.min_ocr_confidence"),
		MinAmountValue:          v.GetFloat64("pipeline.min_amount_value"),
		MaxAmountValue:          v.GetFloat64("pipeline.max_amount_value"),
		MaxTextLength:           v.GetInt("pipeline.max_text_length"),
		MaxImageBytes:           v.GetInt64("pipeline.max_image_bytes"),
	}
	cfg.Tokenizer = TokenizerConfig{
		BucketWidth:   v.GetInt("tokenizer.bucket_width"),
		ContextWindow: v.GetInt("tokenizer.context_window"),
	}
	cfg.Classify = ClassifyConfig{
		ResolveConflicts: v.GetBool("classify.resolve_conflicts"),
		MinPhraseLength:  v.GetInt("classify.min_phrase_length"),
		ExcludedPhrases:  v.GetStringSlice("classify.excluded_phrases"),
	}
	if len(cfg.Classify.ExcludedPhrases) == 0 {
		cfg.Classify.ExcludedPhrases = DefaultExcludedPhrases()
	}
	cfg.OCR = OCRConfig{
		Command:     v.GetString("ocr.command"),
		Languages:   v.GetString("ocr.languages"),
		PageSegMode: v.GetInt("ocr.page_seg_mode"),
		EngineMode:  v.GetInt("ocr.engine_mode"),
		TimeoutSecs: v.GetInt("ocr.timeout_secs"),
	}

	if err := v.UnmarshalKey("tables", &cfg.Tables); err != nil {
		return nil, fmt.Errorf("unmarshaling rule tables: %w", err)
	}
	if len(cfg.Tables.DigitCorrections) == 0 {
		cfg.Tables.DigitCorrections = DefaultDigitCorrections()
	}
	if len(cfg.Tables.CurrencyPatterns) == 0 {
		cfg.Tables.CurrencyPatterns = DefaultCurrencyPatterns()
	}
	if len(cfg.Tables.AmountTypeKeywords) == 0 {
		cfg.Tables.AmountTypeKeywords = DefaultAmountTypeKeywords()
	}

	return cfg, nil
}
