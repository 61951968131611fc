package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harish176/plum-project/internal/direct"
	"github.com/harish176/plum-project/internal/domain"
	"github.com/harish176/plum-project/internal/extract"
	"github.com/harish176/plum-project/internal/port"
)

// DirectHandler serves the pattern-matching extraction endpoints, which skip
// classification and report the source line for every amount.
type DirectHandler struct {
	svc           *direct.Service
	imageOCR      port.ImageOCR
	maxImageBytes int64
	logger        *zap.Logger
}

func NewDirectHandler(svc *direct.Service, imageOCR port.ImageOCR, maxImageBytes int64, logger *zap.Logger) *DirectHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectHandler{svc: svc, imageOCR: imageOCR, maxImageBytes: maxImageBytes, logger: logger}
}

// DirectResult is the response body for direct extraction endpoints.
type DirectResult struct {
	Status            string         `json:"status"`
	TotalAmountsFound int            `json:"total_amounts_found"`
	Amounts           []DirectAmount `json:"amounts"`
	ExtractionMethod  string         `json:"extraction_method"`
	OCRConfidence     float64        `json:"ocr_confidence,omitempty"`
	RawOCRText        string         `json:"raw_ocr_text,omitempty"`
}

// DirectAmount is one labeled amount with its source line.
type DirectAmount struct {
	Label      string  `json:"label"`
	Value      float64 `json:"value"`
	Currency   string  `json:"currency"`
	SourceLine string  `json:"source_line"`
}

// FromText extracts labeled amounts from raw bill text.
// POST /api/v1/direct/text
func (h *DirectHandler) FromText(c *gin.Context) {
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text field is required")
		return
	}

	items := h.svc.ExtractWithFallback(req.Text)
	RespondOK(c, formatDirect(items, 0, ""))
}

// FromImage runs OCR and then line-pattern extraction over an uploaded image.
// POST /api/v1/direct/image
func (h *DirectHandler) FromImage(c *gin.Context) {
	data, ok := readUpload(c)
	if !ok {
		return
	}
	if err := extract.ValidateImage(data, h.maxImageBytes); err != nil {
		HandleError(c, h.logger, err)
		return
	}

	text, conf, err := h.imageOCR.Recognize(c.Request.Context(), data)
	if err != nil {
		h.logger.Warn("image recognition failed", zap.Error(err))
		RespondError(c, http.StatusUnprocessableEntity, "OCR_FAILED", "could not extract text from image")
		return
	}
	if strings.TrimSpace(text) == "" {
		RespondError(c, http.StatusUnprocessableEntity, "NO_TEXT_DETECTED", "no text detected in image")
		return
	}

	items := h.svc.ExtractWithFallback(text)
	RespondOK(c, formatDirect(items, conf, text))
}

func formatDirect(items []domain.AmountItem, ocrConf float64, rawText string) DirectResult {
	amounts := make([]DirectAmount, 0, len(items))
	for _, item := range items {
		amounts = append(amounts, DirectAmount{
			Label:      item.Type,
			Value:      item.Value,
			Currency:   string(domain.CurrencyINR),
			SourceLine: item.Source,
		})
	}
	return DirectResult{
		Status:            "success",
		TotalAmountsFound: len(amounts),
		Amounts:           amounts,
		ExtractionMethod:  "direct_pattern_matching",
		OCRConfidence:     ocrConf,
		RawOCRText:        rawText,
	}
}
