package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/loglift/loglift/internal/config"
)

func init() { register("docker", newDockerSource) }

// dockerSource follows one container's log stream through the docker
// CLI. Container stdout and stderr are merged into a single pipe.
type dockerSource struct {
	cmd *exec.Cmd
	out *os.File
	sc  *bufio.Scanner
}

func newDockerSource(cfg *config.SourceConfig) (LineSource, error) {
	args := []string{"logs", "--follow"}
	if !cfg.FromStart {
		args = append(args, "--tail", "0")
	}
	args = append(args, cfg.Container)

	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("docker source: pipe: %w", err)
	}
	cmd := exec.Command("docker", args...)
	cmd.Stdout = pw
	cmd.Stderr = pw
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("docker source: start docker logs %s: %w", cfg.Container, err)
	}
	// The child holds its own copy of the write end.
	pw.Close()

	sc := bufio.NewScanner(pr)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &dockerSource{cmd: cmd, out: pr, sc: sc}, nil
}

func (s *dockerSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.sc.Scan() {
		return s.sc.Text(), nil
	}
	if err := s.sc.Err(); err != nil {
		return "", fmt.Errorf("docker source: read: %w", err)
	}
	return "", io.EOF
}

func (s *dockerSource) Close() error {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
	}
	_ = s.out.Close()
	_ = s.cmd.Wait()
	return nil
}
