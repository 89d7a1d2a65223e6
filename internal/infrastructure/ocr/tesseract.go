package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"FolderTranslator/internal/config"
	"FolderTranslator/internal/ports"
)

// ErrEngineUnavailable means the OCR binary could not be started.
var ErrEngineUnavailable = errors.New("ocr engine unavailable")

// Tesseract implements ports.OCR by piping images through the tesseract CLI.
type Tesseract struct {
	command   string
	languages string
	timeout   time.Duration
}

var _ ports.OCR = (*Tesseract)(nil)

// NewTesseract builds an OCR adapter from configuration.
func NewTesseract(cfg config.OCRConfig) *Tesseract {
	command := cfg.Command
	if command == "" {
		command = "tesseract"
	}
	return &Tesseract{
		command:   command,
		languages: cfg.Languages,
		timeout:   cfg.Timeout,
	}
}

// Recognize feeds the encoded image on stdin and returns recognized text.
func (t *Tesseract) Recognize(ctx context.Context, image io.Reader) (string, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, t.command, t.args()...)
	cmd.Stdin = image
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return "", fmt.Errorf("%w: %s: %v", ErrEngineUnavailable, t.command, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("tesseract: %w", ctxErr)
		}
		return "", fmt.Errorf("tesseract: %v: %s", err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}

func (t *Tesseract) args() []string {
	args := []string{"stdin", "stdout"}
	if t.languages != "" {
		args = append(args, "-l", t.languages)
	}
	return args
}
