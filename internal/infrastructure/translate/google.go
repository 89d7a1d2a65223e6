package translate

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"FolderTranslator/internal/config"
	"FolderTranslator/internal/ports"
)

const defaultGoogleEndpoint = "https://translation.googleapis.com/language/translate/v2"

// GoogleClient implements ports.TextTranslator with the Cloud Translation v2 REST API.
type GoogleClient struct {
	endpoint string
	apiKey   string
	http     *resty.Client
}

var _ ports.TextTranslator = (*GoogleClient)(nil)

// NewGoogleClient builds a client from configuration.
func NewGoogleClient(cfg config.TranslatorConfig) *GoogleClient {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultGoogleEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &GoogleClient{
		endpoint: endpoint,
		apiKey:   cfg.APIKey,
		http:     resty.New().SetTimeout(timeout),
	}
}

type googleResponse struct {
	Data struct {
		Translations []struct {
			TranslatedText         string `json:"translatedText"`
			DetectedSourceLanguage string `json:"detectedSourceLanguage"`
		} `json:"translations"`
	} `json:"data"`
}

type googleError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Translate leaves the source language unset so the service detects it.
func (c *GoogleClient) Translate(ctx context.Context, text, target string) (string, string, error) {
	if c.apiKey == "" {
		return "", "", fmt.Errorf("google translate: api key is not configured")
	}

	var result googleResponse
	var apiErr googleError
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"q":      text,
			"target": target,
			"format": "text",
			"key":    c.apiKey,
		}).
		SetResult(&result).
		SetError(&apiErr).
		Post(c.endpoint)
	if err != nil {
		return "", "", fmt.Errorf("google translate: %w", err)
	}
	if resp.IsError() {
		msg := strings.TrimSpace(apiErr.Error.Message)
		if msg == "" {
			msg = abbreviate(resp.String(), 512)
		}
		return "", "", fmt.Errorf("google translate: %s: %s", resp.Status(), msg)
	}
	if len(result.Data.Translations) == 0 {
		return "", "", fmt.Errorf("google translate: no translations returned")
	}

	first := result.Data.Translations[0]
	return html.UnescapeString(first.TranslatedText), strings.ToLower(first.DetectedSourceLanguage), nil
}

func abbreviate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
