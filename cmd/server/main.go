package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/harish176/plum-project/internal/classify"
	"github.com/harish176/plum-project/internal/config"
	"github.com/harish176/plum-project/internal/currency"
	"github.com/harish176/plum-project/internal/direct"
	"github.com/harish176/plum-project/internal/extract"
	"github.com/harish176/plum-project/internal/handler"
	"github.com/harish176/plum-project/internal/logging"
	"github.com/harish176/plum-project/internal/normalize"
	"github.com/harish176/plum-project/internal/ocr"
	"github.com/harish176/plum-project/internal/pipeline"
	"github.com/harish176/plum-project/internal/router"
	"github.com/harish176/plum-project/internal/textproc"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// .env is optional; real deployments set environment variables directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Text processing components
	corrector := textproc.NewCorrector(cfg.Tables.DigitCorrections)
	tokenizer := textproc.NewTokenizer(
		textproc.BucketResolver{Width: cfg.Tokenizer.BucketWidth},
		cfg.Tokenizer.ContextWindow,
	)
	detector := currency.NewDetector(cfg.Tables.CurrencyPatterns)

	// Pipeline stages
	imageOCR := ocr.NewTesseract(cfg.OCR, logger)
	extractor := extract.NewService(cfg.Pipeline, tokenizer, corrector, detector, imageOCR, logger)
	normalizer := normalize.NewService(cfg.Pipeline, corrector, logger)
	classifier := classify.NewClassifier(cfg.Classify, cfg.Tables.AmountTypeKeywords, corrector, logger)
	pipe := pipeline.New(cfg.Pipeline, extractor, normalizer, classifier, detector, logger)
	directSvc := direct.NewService(corrector, logger)

	// Handlers
	extractH := handler.NewExtractHandler(pipe, logger)
	directH := handler.NewDirectHandler(directSvc, imageOCR, cfg.Pipeline.MaxImageBytes, logger)
	healthH := handler.NewHealthHandler()

	r := router.Setup(extractH, directH, healthH, logger)

	logger.Info("server starting", zap.String("addr", cfg.Server.Port))
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
