package probe

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Runner executes an external command and returns its stdout.
// A non-zero exit must be reported as an error alongside whatever stdout was produced.
type Runner interface {
	Run(ctx context.Context, bin string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, bin string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		tail := stderr.String()
		if len(tail) > 1024 {
			tail = tail[len(tail)-1024:]
		}
		if tail != "" {
			return stdout.Bytes(), fmt.Errorf("%s: %w; stderr tail: %s", bin, err, tail)
		}
		return stdout.Bytes(), fmt.Errorf("%s: %w", bin, err)
	}
	return stdout.Bytes(), nil
}
