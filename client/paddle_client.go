package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Aashish23092/ocr-phone-extractor/config"
)

// PaddleClient calls a PaddleOCR hub serving endpoint over HTTP
type PaddleClient struct {
	apiURL     string
	httpClient *http.Client
}

// NewPaddleClient creates a new PaddleOCR client. A zero timeout leaves calls unbounded.
func NewPaddleClient(cfg config.PaddleConfig, timeout time.Duration) *PaddleClient {
	slog.Info("PaddleOCR client initialized", "api_url", cfg.APIURL)
	return &PaddleClient{
		apiURL:     cfg.APIURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (p *PaddleClient) Name() string { return "paddle" }

// ExtractText sends the base64 image to PaddleOCR and joins the recognised lines
func (p *PaddleClient) ExtractText(ctx context.Context, payload string) (string, error) {
	_, encoded := StripDataURI(payload)

	payloadBytes, err := json.Marshal(map[string]interface{}{
		"images": []string{encoded},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL, bytes.NewReader(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call PaddleOCR API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("PaddleOCR API returned status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Results [][]struct {
			Text       string  `json:"text"`
			Confidence float64 `json:"confidence"`
		} `json:"results"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode PaddleOCR response: %w", err)
	}

	var textBuilder strings.Builder
	if len(result.Results) > 0 {
		for _, line := range result.Results[0] {
			textBuilder.WriteString(line.Text)
			textBuilder.WriteString("\n")
		}
	}

	slog.Debug("PaddleOCR HTTP API extracted text", "chars", textBuilder.Len())
	return textBuilder.String(), nil
}
