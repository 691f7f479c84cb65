package pkg

import (
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// TeeWriter writes every chunk to all of its writers. A failing writer does
// not stop the others; the write only fails as a whole when none succeeded.
type TeeWriter struct {
	writers []io.Writer
}

func NewTeeWriter(writers ...io.Writer) *TeeWriter {
	return &TeeWriter{
		writers: writers,
	}
}

func (tw *TeeWriter) Write(p []byte) (int, error) {
	var err error
	succeeded := 0
	for i, w := range tw.writers {
		if _, werr := w.Write(p); werr != nil {
			err = multierr.Append(err, fmt.Errorf("writer %d: %w", i, werr))
			continue
		}
		succeeded++
	}
	if succeeded == 0 && len(tw.writers) > 0 {
		return 0, err
	}
	return len(p), err
}
