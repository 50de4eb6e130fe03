package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/loglift/loglift/internal/config"
)

func init() { register("stdin", newStdinSource) }

// stdinSource reads lines from process stdin. Useful for piping a log
// file or another process into the relay.
type stdinSource struct {
	sc *bufio.Scanner
}

func newStdinSource(_ *config.SourceConfig) (LineSource, error) {
	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &stdinSource{sc: sc}, nil
}

func (s *stdinSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.sc.Scan() {
		return s.sc.Text(), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", fmt.Errorf("stdin source: read: %w", err)
	}
	return "", io.EOF
}

func (s *stdinSource) Close() error { return nil }
