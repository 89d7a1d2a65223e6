package logger

import (
	"fmt"
	"io"
	"log"
	"os"
)

// New returns a stdlib-backed logger with component prefix.
func New(component string) *log.Logger {
	return NewWithWriter(os.Stdout, component)
}

// NewWithWriter returns a prefixed line logger writing to w.
func NewWithWriter(w io.Writer, component string) *log.Logger {
	prefix := fmt.Sprintf("[%s] ", component)
	return log.New(w, prefix, log.LstdFlags|log.Lmsgprefix)
}
