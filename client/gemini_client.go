package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Aashish23092/ocr-phone-extractor/config"
)

// GeminiClient sends images to the Gemini generateContent API with a fixed
// instruction and returns the text it reads.
type GeminiClient struct {
	cfg        config.GeminiConfig
	httpClient *http.Client
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// NewGeminiClient creates a client. A zero timeout leaves calls unbounded.
func NewGeminiClient(cfg config.GeminiConfig, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (g *GeminiClient) Name() string { return "gemini" }

// ExtractText returns all text Gemini detects in the encoded image, or "" when it
// reports none.
func (g *GeminiClient) ExtractText(ctx context.Context, payload string) (string, error) {
	if g.cfg.APIKey == "" {
		return "", errors.New("gemini api key is not configured")
	}

	mimeType, data := StripDataURI(payload)
	reqBody := geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: g.cfg.Prompt},
				{InlineData: &geminiInlineData{MimeType: mimeType, Data: data}},
			},
		}},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(g.cfg.BaseURL, "/"), g.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.cfg.APIKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, string(body))
	}

	var result geminiResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("gemini error %d: %s", result.Error.Code, result.Error.Message)
	}

	var text strings.Builder
	if len(result.Candidates) > 0 {
		for _, part := range result.Candidates[0].Content.Parts {
			text.WriteString(part.Text)
		}
	}

	slog.Debug("gemini extracted text", "chars", text.Len())
	return text.String(), nil
}
