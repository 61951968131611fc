package pipeline_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/harish176/plum-project/internal/classify"
	"github.com/harish176/plum-project/internal/config"
	"github.com/harish176/plum-project/internal/currency"
	"github.com/harish176/plum-project/internal/domain"
	"github.com/harish176/plum-project/internal/extract"
	"github.com/harish176/plum-project/internal/normalize"
	"github.com/harish176/plum-project/internal/pipeline"
	"github.com/harish176/plum-project/internal/port"
	"github.com/harish176/plum-project/internal/textproc"
	"github.com/harish176/plum-project/mocks"
)

func pipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		ProcessingThreshold:     0.3,
		ClassificationThreshold: 0.4,
		MinAmountValue:          0.01,
		MaxAmountValue:          1000000,
		MaxTextLength:           10000,
		MaxImageBytes:           10 * 1024 * 1024,
	}
}

func newPipeline(imageOCR port.ImageOCR) *pipeline.Pipeline {
	cfg := pipelineConfig()
	corrector := textproc.NewCorrector(config.DefaultDigitCorrections())
	tokenizer := textproc.NewTokenizer(nil, 20)
	detector := currency.NewDetector(config.DefaultCurrencyPatterns())

	extractor := extract.NewService(cfg, tokenizer, corrector, detector, imageOCR, nil)
	normalizer := normalize.NewService(cfg, corrector, nil)
	classifier := classify.NewClassifier(config.ClassifyConfig{
		ExcludedPhrases: config.DefaultExcludedPhrases(),
		MinPhraseLength: 2,
	}, config.DefaultAmountTypeKeywords(), corrector, nil)

	return pipeline.New(cfg, extractor, normalizer, classifier, detector, nil)
}

func TestProcessText(t *testing.T) {
	p := newPipeline(nil)

	t.Run("full bill", func(t *testing.T) {
		result := p.ProcessText("Total: INR 1200 | Paid: 1000 | Due: 200 | Discount: 10%")

		assert.Equal(t, domain.StatusOK, result.Status)
		assert.Equal(t, domain.CurrencyINR, result.Currency)
		assert.Greater(t, result.Confidence, 0.5)

		require.Len(t, result.Amounts, 4)
		types := make([]string, len(result.Amounts))
		values := make([]float64, len(result.Amounts))
		for i, a := range result.Amounts {
			types[i] = a.Type
			values[i] = a.Value
			assert.Equal(t, domain.SourceText, a.Source)
		}
		assert.Equal(t, []string{"total_bill", "paid", "due", "discount"}, types)
		assert.Equal(t, []float64{1200, 1000, 200, 10}, values)
	})

	t.Run("itemized bill", func(t *testing.T) {
		result := p.ProcessText("Consultation Rs.100\nX-Ray Rs.800\nMedicine Rs.400\n" +
			"Total Bill Rs.1600\nPaid Rs.1500\nDue Rs.200\nDiscount: 10%")

		assert.Equal(t, domain.StatusOK, result.Status)
		assert.Equal(t, domain.CurrencyINR, result.Currency)
		require.Len(t, result.Amounts, 7)

		byValue := make(map[float64]string, len(result.Amounts))
		for _, a := range result.Amounts {
			byValue[a.Value] = a.Type
		}
		assert.Equal(t, map[float64]string{
			100:  "consultation",
			800:  "x_ray",
			400:  "medicine",
			1600: "total_bill",
			1500: "paid",
			200:  "due",
			10:   "discount",
		}, byValue)
	})

	t.Run("no currency signal omits the field", func(t *testing.T) {
		result := p.ProcessText("Total: 1200 | Paid: 1000 | Balance: 200")

		assert.Equal(t, domain.StatusOK, result.Status)
		assert.Empty(t, result.Currency)

		encoded, err := json.Marshal(result)
		require.NoError(t, err)
		assert.NotContains(t, string(encoded), `"currency"`)
	})

	t.Run("empty input", func(t *testing.T) {
		result := p.ProcessText("")
		assert.Equal(t, domain.StatusError, result.Status)
		assert.Equal(t, "text input cannot be empty", result.Reason)
	})

	t.Run("no numeric tokens", func(t *testing.T) {
		result := p.ProcessText("no numbers here at all")
		assert.Equal(t, domain.StatusNoAmountsFound, result.Status)
		assert.Equal(t, "no numeric tokens found in text", result.Reason)
	})
}

func TestProcessImage(t *testing.T) {
	ocr := new(mocks.MockImageOCR)
	ocr.On("Recognize", mock.Anything, mock.Anything).
		Return("Total: Rs.1200 | Paid: Rs.1000", 0.9, nil)

	p := newPipeline(ocr)

	image := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 128)...)
	result := p.ProcessImage(context.Background(), image)

	assert.Equal(t, domain.StatusOK, result.Status)
	assert.Equal(t, domain.CurrencyINR, result.Currency)
	require.Len(t, result.Amounts, 2)
	assert.Equal(t, "total_bill", result.Amounts[0].Type)
	assert.Equal(t, "paid", result.Amounts[1].Type)
	assert.Equal(t, domain.SourceImage, result.Amounts[0].Source)
	ocr.AssertExpectations(t)
}

func TestProcessImageValidation(t *testing.T) {
	p := newPipeline(new(mocks.MockImageOCR))

	t.Run("empty image", func(t *testing.T) {
		result := p.ProcessImage(context.Background(), nil)
		assert.Equal(t, domain.StatusError, result.Status)
		assert.Equal(t, "image data cannot be empty", result.Reason)
	})

	t.Run("unknown format", func(t *testing.T) {
		result := p.ProcessImage(context.Background(), bytes.Repeat([]byte{0x42}, 200))
		assert.Equal(t, domain.StatusError, result.Status)
		assert.Equal(t, "unsupported image format", result.Reason)
	})
}
