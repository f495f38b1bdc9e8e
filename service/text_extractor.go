package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aashish23092/ocr-phone-extractor/client"
	"github.com/Aashish23092/ocr-phone-extractor/config"
	"github.com/Aashish23092/ocr-phone-extractor/dto"
)

// TextExtractor is the OCR boundary: it takes an encoded image payload and returns
// the unstructured text found in it, "" when there is none.
type TextExtractor interface {
	Name() string
	ExtractText(ctx context.Context, payload string) (string, error)
}

// NewTextExtractor builds the OCR backend selected in cfg.
func NewTextExtractor(cfg config.OCRConfig) (TextExtractor, error) {
	switch cfg.Backend {
	case "gemini":
		return client.NewGeminiClient(cfg.Gemini, cfg.Timeout), nil
	case "paddle":
		return client.NewPaddleClient(cfg.Paddle, cfg.Timeout), nil
	case "tesseract":
		return client.NewTesseractClient(cfg.Tesseract), nil
	default:
		return nil, fmt.Errorf("unknown OCR backend %q", cfg.Backend)
	}
}

// extractText calls the backend and reports any failure as an ExtractionError.
func extractText(ctx context.Context, extractor TextExtractor, payload string) (string, error) {
	text, err := extractor.ExtractText(ctx, payload)
	if err != nil {
		var extractionErr *dto.ExtractionError
		if errors.As(err, &extractionErr) {
			return "", err
		}
		return "", &dto.ExtractionError{Backend: extractor.Name(), Err: err}
	}
	return text, nil
}
