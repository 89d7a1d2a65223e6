package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"FolderTranslator/internal/config"
	"FolderTranslator/internal/ports"
)

const defaultLibreEndpoint = "http://localhost:5000"

// LibreClient talks to a LibreTranslate instance.
type LibreClient struct {
	endpoint string
	apiKey   string
	http     *resty.Client
}

var _ ports.TextTranslator = (*LibreClient)(nil)

// NewLibreClient creates a reusable HTTP client.
func NewLibreClient(cfg config.TranslatorConfig) *LibreClient {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = defaultLibreEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &LibreClient{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		http:     resty.New().SetTimeout(timeout),
	}
}

type libreResponse struct {
	TranslatedText   string `json:"translatedText"`
	DetectedLanguage struct {
		Confidence float64 `json:"confidence"`
		Language   string  `json:"language"`
	} `json:"detectedLanguage"`
}

type libreError struct {
	Error string `json:"error"`
}

// Translate asks the service to auto-detect the source language.
func (c *LibreClient) Translate(ctx context.Context, text, target string) (string, string, error) {
	payload := map[string]any{
		"q":      text,
		"source": "auto",
		"target": target,
		"format": "text",
	}
	if c.apiKey != "" {
		payload["api_key"] = c.apiKey
	}

	var result libreResponse
	var apiErr libreError
	// some deployments answer JSON as text/html
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		SetError(&apiErr).
		ForceContentType("application/json").
		Post(c.endpoint + "/translate")
	if err != nil {
		return "", "", fmt.Errorf("libretranslate: %w", err)
	}
	if resp.IsError() {
		msg := strings.TrimSpace(apiErr.Error)
		if msg == "" {
			msg = abbreviate(resp.String(), 512)
		}
		return "", "", fmt.Errorf("libretranslate: %s: %s", resp.Status(), msg)
	}

	return result.TranslatedText, strings.ToLower(result.DetectedLanguage.Language), nil
}
