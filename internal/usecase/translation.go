package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"FolderTranslator/internal/domain"
	"FolderTranslator/internal/ports"
)

// TranslationService is the failure-tolerant boundary around a backend.
type TranslationService struct {
	backend ports.TextTranslator
	target  string
	retries int
	delay   time.Duration
	logger  *slog.Logger
}

var _ ports.Translator = (*TranslationService)(nil)

// TranslationOptions tunes the default target and the bounded retry.
type TranslationOptions struct {
	TargetLanguage string
	Retries        int
	RetryDelay     time.Duration
	Logger         *slog.Logger
}

// NewTranslationService wraps a backend.
func NewTranslationService(backend ports.TextTranslator, opts TranslationOptions) *TranslationService {
	target := opts.TargetLanguage
	if target == "" {
		target = "en"
	}
	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}
	return &TranslationService{
		backend: backend,
		target:  target,
		retries: retries,
		delay:   opts.RetryDelay,
		logger:  opts.Logger,
	}
}

// Translate never returns an error; failures are described by the result.
// Whitespace-only input short-circuits without contacting the backend.
func (s *TranslationService) Translate(ctx context.Context, text, target string) domain.TranslationResult {
	if target == "" {
		target = s.target
	}
	result := domain.TranslationResult{OriginalText: text, TargetLanguage: target}

	if strings.TrimSpace(text) == "" {
		result.Success = true
		return result
	}
	if s.backend == nil {
		result.Err = "translation backend is not configured"
		return result
	}

	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			s.warn("translation failed, retrying", "attempt", attempt, "delay", s.delay, "error", lastErr)
			if err := sleep(ctx, s.delay); err != nil {
				lastErr = err
				break
			}
		}

		result.Attempts++
		translated, source, err := s.backend.Translate(ctx, text, target)
		if err == nil {
			result.TranslatedText = translated
			result.SourceLanguage = source
			result.Success = true
			return result
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}

	result.Err = lastErr.Error()
	return result
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *TranslationService) warn(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
