package command

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	execute "github.com/alexellis/go-execute/v2"
)

// Result carries the captured output of a finished process.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external programs.
type Runner interface {
	Run(ctx context.Context, name string, args []string, dir string) (Result, error)
}

// ExecRunner runs processes through go-execute.
type ExecRunner struct {
	logger *slog.Logger
}

var _ Runner = (*ExecRunner)(nil)

// NewExecRunner builds a runner that logs every invocation at debug level.
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRunner{logger: logger.With("component", "command")}
}

// Run executes name with args in dir. A non-zero exit code is reported as an error.
func (r *ExecRunner) Run(ctx context.Context, name string, args []string, dir string) (Result, error) {
	r.logger.Debug("executing", "command", name, "args", args)

	task := execute.ExecTask{
		Command: name,
		Args:    args,
		Cwd:     dir,
	}
	res, err := task.Execute(ctx)
	out := Result{Stdout: res.Stdout, Stderr: res.Stderr, ExitCode: res.ExitCode}
	if err != nil {
		return out, fmt.Errorf("run %s: %w", name, err)
	}
	if res.Cancelled {
		return out, fmt.Errorf("run %s: %w", name, context.Canceled)
	}
	if res.ExitCode != 0 {
		return out, fmt.Errorf("run %s: exit code %d: %s", name, res.ExitCode, lastLine(res.Stderr))
	}
	return out, nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.LastIndexByte(s, '\n'); idx >= 0 {
		return s[idx+1:]
	}
	return s
}
