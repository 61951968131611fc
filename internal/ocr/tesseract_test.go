package ocr

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harish176/plum-project/internal/config"
)

type stubRunner struct {
	stdout  string
	err     error
	gotName string
	gotArgs []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.gotName = name
	s.gotArgs = args
	return []byte(s.stdout), nil, s.err
}

func ocrConfig() config.OCRConfig {
	return config.OCRConfig{
		Command:     "tesseract",
		Languages:   "eng",
		PageSegMode: 6,
		EngineMode:  3,
		TimeoutSecs: 5,
	}
}

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t600\t400\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t0\t0\t50\t20\t90\tTotal:\n" +
	"5\t1\t1\t1\t1\t2\t60\t0\t70\t20\t88\tRs.1200\n" +
	"5\t1\t1\t1\t2\t1\t0\t30\t50\t20\t92\tPaid:\n" +
	"5\t1\t1\t1\t2\t2\t60\t30\t70\t20\t90\tRs.1000\n"

func TestRecognize(t *testing.T) {
	stub := &stubRunner{stdout: sampleTSV}
	tess := NewTesseractWithRunner(ocrConfig(), stub, nil)

	text, conf, err := tess.Recognize(context.Background(), []byte("fake image"))
	require.NoError(t, err)

	assert.Equal(t, "Total: Rs.1200\nPaid: Rs.1000", text)
	assert.InDelta(t, 0.9, conf, 1e-9)

	assert.Equal(t, "tesseract", stub.gotName)
	assert.Contains(t, stub.gotArgs, "tsv")
	assert.Contains(t, stub.gotArgs, "--psm")
	assert.Contains(t, stub.gotArgs, "6")
	assert.Contains(t, stub.gotArgs, "eng")
}

func TestRecognizeRunnerError(t *testing.T) {
	stub := &stubRunner{err: errors.New("binary not found")}
	tess := NewTesseractWithRunner(ocrConfig(), stub, nil)

	_, _, err := tess.Recognize(context.Background(), []byte("fake image"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract")
}

func TestParseTSVNoConfidences(t *testing.T) {
	tsv := "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
		"5\t1\t1\t1\t1\t1\t0\t0\t50\t20\tabc\tTotal:\n"
	text, conf := parseTSV(tsv)
	assert.Equal(t, "Total:", text)
	assert.Zero(t, conf)
}

func TestHeuristicConfidence(t *testing.T) {
	t.Run("bill like text scores high", func(t *testing.T) {
		conf := heuristicConfidence("Total: Rs.1200 Paid: Rs.1000")
		assert.InDelta(t, 0.7, conf, 1e-9)
	})

	t.Run("plain prose scores low", func(t *testing.T) {
		conf := heuristicConfidence(strings.Repeat("word ", 10))
		assert.InDelta(t, 0.2, conf, 1e-9)
	})
}
