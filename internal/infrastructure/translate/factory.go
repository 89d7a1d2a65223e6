package translate

import (
	"fmt"

	"FolderTranslator/internal/config"
	"FolderTranslator/internal/ports"
)

// New selects the backend named by cfg.Translator.Provider.
func New(cfg config.Config) (ports.TextTranslator, error) {
	switch cfg.Translator.Provider {
	case "", config.ProviderGoogle:
		return NewGoogleClient(cfg.Translator), nil
	case config.ProviderLibreTranslate:
		return NewLibreClient(cfg.Translator), nil
	case config.ProviderChatGPT:
		return NewChatGPTClient(cfg.ChatGPT, cfg.Translator.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported translator provider: %s", cfg.Translator.Provider)
	}
}
