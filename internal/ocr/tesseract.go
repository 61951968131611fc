// Package ocr adapts the external tesseract binary to the ImageOCR port.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/harish176/plum-project/internal/config"
)

// Runner lets tests stub the external command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct {
	logger *zap.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		r.logger.Error("exec failed",
			zap.String("cmd", name),
			zap.Duration("duration", dur),
			zap.Error(err),
			zap.String("stderr", truncate(errb.String(), 8<<10)))
	} else {
		r.logger.Debug("exec ok",
			zap.String("cmd", name),
			zap.Duration("duration", dur),
			zap.Int("stdout_bytes", out.Len()))
	}

	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

// Tesseract runs the tesseract binary over image bytes and reports the text
// with the mean word confidence.
type Tesseract struct {
	cfg    config.OCRConfig
	runner Runner
	logger *zap.Logger
}

func NewTesseract(cfg config.OCRConfig, logger *zap.Logger) *Tesseract {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tesseract{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

// NewTesseractWithRunner injects a custom Runner. Used in tests.
func NewTesseractWithRunner(cfg config.OCRConfig, runner Runner, logger *zap.Logger) *Tesseract {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tesseract{cfg: cfg, runner: runner, logger: logger}
}

// Recognize writes the image to a temp file, invokes tesseract in TSV mode,
// and reconstructs the text line by line. Confidence is the mean per-word
// confidence tesseract reports, or a content heuristic when the TSV carries
// none.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, float64, error) {
	tmp, err := os.CreateTemp("", "bill-*.img")
	if err != nil {
		return "", 0, fmt.Errorf("creating temp image: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(image); err != nil {
		tmp.Close()
		return "", 0, fmt.Errorf("writing temp image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", 0, fmt.Errorf("closing temp image: %w", err)
	}

	if t.cfg.TimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(t.cfg.TimeoutSecs)*time.Second)
		defer cancel()
	}

	args := []string{
		tmp.Name(), "stdout",
		"-l", t.cfg.Languages,
		"--psm", strconv.Itoa(t.cfg.PageSegMode),
		"--oem", strconv.Itoa(t.cfg.EngineMode),
		"tsv",
	}
	stdout, _, err := t.runner.Run(ctx, t.cfg.Command, args...)
	if err != nil {
		return "", 0, fmt.Errorf("running %s: %w", t.cfg.Command, err)
	}

	text, conf := parseTSV(string(stdout))
	if conf == 0 && text != "" {
		conf = heuristicConfidence(text)
	}

	t.logger.Debug("recognition complete",
		zap.Int("chars", len(text)), zap.Float64("confidence", conf))

	return text, conf, nil
}

// parseTSV rebuilds text from tesseract's TSV output, one output line per
// recognized line, and averages the word confidences.
func parseTSV(tsv string) (string, float64) {
	var (
		lines    []string
		words    []string
		lastLine = -1
		confSum  float64
		confN    int
	)

	flush := func() {
		if len(words) > 0 {
			lines = append(lines, strings.Join(words, " "))
			words = words[:0]
		}
	}

	for i, row := range strings.Split(tsv, "\n") {
		if i == 0 {
			continue // header
		}
		fields := strings.Split(row, "\t")
		if len(fields) < 12 || fields[0] != "5" {
			continue
		}
		word := strings.TrimSpace(fields[11])
		if word == "" {
			continue
		}

		lineKey := 0
		for _, f := range fields[2:5] { // block, par, line
			n, _ := strconv.Atoi(f)
			lineKey = lineKey*1000 + n
		}
		if lineKey != lastLine {
			flush()
			lastLine = lineKey
		}
		words = append(words, word)

		if conf, err := strconv.ParseFloat(fields[10], 64); err == nil && conf >= 0 {
			confSum += conf
			confN++
		}
	}
	flush()

	text := strings.Join(lines, "\n")
	if confN == 0 {
		return text, 0
	}
	return text, confSum / float64(confN) / 100
}

// heuristicConfidence estimates recognition quality from bill-like artifacts
// in the text when tesseract reports no word confidences.
func heuristicConfidence(text string) float64 {
	lower := strings.ToLower(text)
	score := 0.2
	if strings.ContainsAny(text, "₹$£€") ||
		strings.Contains(lower, "rs") || strings.Contains(lower, "inr") {
		score += 0.2
	}
	for _, kw := range []string{"total", "paid", "due", "amount", "bill"} {
		if strings.Contains(lower, kw) {
			score += 0.15
			break
		}
	}
	if strings.ContainsAny(text, "0123456789") {
		score += 0.15
	}
	if len(text) > 120 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
