package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"FolderTranslator/internal/config"
	"FolderTranslator/internal/ports"
)

// ChatGPTClient implements ports.TextTranslator backed by OpenAI-compatible APIs.
type ChatGPTClient struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	http         *resty.Client
}

var _ ports.TextTranslator = (*ChatGPTClient)(nil)

// NewChatGPTClient builds a client from configuration.
func NewChatGPTClient(cfg config.ChatGPTConfig, timeout time.Duration) *ChatGPTClient {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ChatGPTClient{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		http:         resty.New().SetTimeout(timeout),
	}
}

type chatCompletion struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Translate sends the text as a user message and expects a JSON object
// with the translation and the ISO 639-1 code of the detected source.
func (c *ChatGPTClient) Translate(ctx context.Context, text, target string) (string, string, error) {
	if c == nil {
		return "", "", fmt.Errorf("chatgpt client is nil")
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", "", fmt.Errorf("chatgpt client misconfigured")
	}

	payload := map[string]any{
		"model":           c.model,
		"temperature":     0,
		"response_format": map[string]string{"type": "json_object"},
		"messages": []map[string]string{
			{"role": "system", "content": safePrompt(c.systemPrompt)},
			{"role": "user", "content": instruction(target) + "\n\n" + text},
		},
	}

	var completion chatCompletion
	var apiErr chatError
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(c.apiKey).
		SetBody(payload).
		SetResult(&completion).
		SetError(&apiErr).
		ForceContentType("application/json").
		Post(c.endpoint)
	if err != nil {
		return "", "", fmt.Errorf("send translation: %w", err)
	}
	if resp.IsError() {
		msg := strings.TrimSpace(apiErr.Error.Message)
		if msg == "" {
			msg = abbreviate(resp.String(), 1024)
		}
		return "", "", fmt.Errorf("chatgpt error %s: %s", resp.Status(), msg)
	}
	if len(completion.Choices) == 0 {
		return "", "", fmt.Errorf("no choices returned")
	}

	return parseCompletion(completion.Choices[0].Message.Content)
}

func instruction(target string) string {
	return fmt.Sprintf(`Translate the text below into the language with ISO 639-1 code %q. `+
		`Reply with a JSON object {"translation": string, "source_language": string} where `+
		`source_language is the ISO 639-1 code of the detected input language.`, target)
}

func parseCompletion(content string) (string, string, error) {
	s := strings.TrimSpace(content)
	if idx := strings.Index(s, "```"); idx >= 0 {
		rest := strings.TrimPrefix(s[idx+3:], "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			s = strings.TrimSpace(rest[:j])
		}
	}
	if i, j := strings.Index(s, "{"), strings.LastIndex(s, "}"); i >= 0 && j > i {
		s = s[i : j+1]
	}

	var out struct {
		Translation    string `json:"translation"`
		SourceLanguage string `json:"source_language"`
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return "", "", fmt.Errorf("failed to parse translation json: %w; content: %s", err, abbreviate(content, 512))
	}
	return out.Translation, strings.ToLower(strings.TrimSpace(out.SourceLanguage)), nil
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You are a translation engine that answers with JSON only."
	}
	return prompt
}
