package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/loglift/loglift/internal/config"
)

func init() { register("file", newFileSource) }

// fileSource follows a log file tail-style. Reads at end-of-file return
// ErrNoData so the reader can poll for appended lines.
type fileSource struct {
	f       *os.File
	r       *bufio.Reader
	partial string
}

func newFileSource(cfg *config.SourceConfig) (LineSource, error) {
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("file source: %w", err)
	}
	if !cfg.FromStart {
		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			f.Close()
			return nil, fmt.Errorf("file source: seek end: %w", err)
		}
	}
	return &fileSource{f: f, r: bufio.NewReaderSize(f, 64*1024)}, nil
}

func (s *fileSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	chunk, err := s.r.ReadString('\n')
	if err == io.EOF {
		// Keep the incomplete tail until the writer finishes the line.
		s.partial += chunk
		return "", ErrNoData
	}
	if err != nil {
		return "", fmt.Errorf("file source: read: %w", err)
	}
	line := s.partial + strings.TrimRight(chunk, "\r\n")
	s.partial = ""
	return line, nil
}

func (s *fileSource) Close() error {
	return s.f.Close()
}
