package telegram

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/go-resty/resty/v2"

	"FolderTranslator/internal/domain"
	"FolderTranslator/internal/ports"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	// Telegram counts message length in UTF-16 code units.
	maxMessageUnits = 4096
)

// Notifier sends per-file reports to a Telegram chat via bot API.
type Notifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *resty.Client
}

var _ ports.Reporter = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  defaultBaseURL,
		client:   resty.New().SetTimeout(5 * time.Second),
	}
}

// Report posts a plain-text summary of the processed file. Unsupported
// files are not announced.
func (n *Notifier) Report(ctx context.Context, report domain.Report) error {
	if report.Status() == domain.StatusSkipped {
		return nil
	}
	return n.send(ctx, FormatReport(report))
}

func (n *Notifier) send(ctx context.Context, text string) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(n.baseURL, "/"), n.botToken)
	resp, err := n.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"chat_id": n.chatID,
			"text":    truncate(text, maxMessageUnits),
		}).
		Post(endpoint)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("telegram error: %s: %s", resp.Status(), strings.TrimSpace(resp.String()))
	}

	return nil
}

// FormatReport renders the message body sent for one file.
func FormatReport(report domain.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s): %s\n", report.FileName(), report.Extraction.Kind, report.Status())

	switch report.Status() {
	case domain.StatusExtractionFailed:
		fmt.Fprintf(&b, "error: %s\n", report.Extraction.Err)
	case domain.StatusTranslationFailed:
		fmt.Fprintf(&b, "error: %s\n\n%s\n", report.Translation.Err, report.Extraction.Text)
	case domain.StatusTranslated:
		tr := report.Translation
		fmt.Fprintf(&b, "%s → %s\n\n%s\n", tr.SourceLanguage, tr.TargetLanguage, tr.TranslatedText)
	}

	return strings.TrimRight(b.String(), "\n")
}

// truncate cuts s to at most limit UTF-16 code units, ellipsis included.
func truncate(s string, limit int) string {
	if utf16Len(s) <= limit {
		return s
	}

	units := 0
	for i, r := range s {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if units+n > limit-1 {
			return s[:i] + "…"
		}
		units += n
	}
	return s
}

func utf16Len(s string) int {
	units := 0
	for _, r := range s {
		if n := utf16.RuneLen(r); n > 0 {
			units += n
		} else {
			units++
		}
	}
	return units
}
