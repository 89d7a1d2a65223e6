package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"FolderTranslator/internal/ports"
)

// ErrDestinationExists is returned when no free destination name was found.
var ErrDestinationExists = errors.New("no free archive name")

const maxSuffix = 10000

// Mover moves processed files into a subfolder of the watched directory.
type Mover struct {
	dir string
}

var _ ports.Archiver = (*Mover)(nil)

// NewMover targets dir, which is created on first use.
func NewMover(dir string) *Mover {
	return &Mover{dir: dir}
}

// Dir returns the archive directory.
func (m *Mover) Dir() string {
	return m.dir
}

// Archive moves path into the archive directory without overwriting:
// "scan.png" becomes "scan (1).png", "scan (2).png", … on collision.
func (m *Mover) Archive(path string) (string, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("create archive dir: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s is not a regular file", path)
	}

	dest, err := m.freeName(filepath.Base(path))
	if err != nil {
		return "", err
	}

	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("move to archive: %w", err)
	}
	return dest, nil
}

func (m *Mover) freeName(name string) (string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for i := 0; i < maxSuffix; i++ {
		candidate := name
		if i > 0 {
			candidate = fmt.Sprintf("%s (%d)%s", stem, i, ext)
		}
		dest := filepath.Join(m.dir, candidate)

		_, err := os.Lstat(dest)
		if errors.Is(err, fs.ErrNotExist) {
			return dest, nil
		}
		if err != nil {
			return "", fmt.Errorf("probe archive name: %w", err)
		}
	}
	return "", fmt.Errorf("%s: %w", name, ErrDestinationExists)
}
