package client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/otiai10/gosseract/v2"

	"github.com/Aashish23092/ocr-phone-extractor/config"
)

// TesseractClient runs OCR locally through libtesseract.
type TesseractClient struct {
	dataPath string
	language string
}

func NewTesseractClient(cfg config.TesseractConfig) *TesseractClient {
	return &TesseractClient{
		dataPath: cfg.DataPath,
		language: cfg.Language,
	}
}

func (tc *TesseractClient) Name() string { return "tesseract" }

// ExtractText decodes the payload and runs Tesseract over the image bytes
func (tc *TesseractClient) ExtractText(ctx context.Context, payload string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	imageBytes, err := decodePayload(payload)
	if err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetTessdataPrefix(tc.dataPath); err != nil {
		return "", fmt.Errorf("failed to set tessdata prefix: %w", err)
	}

	if err := client.SetLanguage(tc.language); err != nil {
		return "", fmt.Errorf("failed to set language: %w", err)
	}

	if err := client.SetImageFromBytes(imageBytes); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	slog.Debug("tesseract extracted text", "chars", len(text))
	return text, nil
}
