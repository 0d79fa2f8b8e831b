//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/nxtscape/linux-packager/internal/logger"
)

// maxOutputInError bounds how much tool output is copied into an error message.
const maxOutputInError = 4096

// Runner runs external tools.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// LookPathFunc resolves a tool name on the search path, like exec.LookPath.
type LookPathFunc func(file string) (string, error)

// CommandError is returned when a tool exits unsuccessfully or cannot start.
type CommandError struct {
	// Command is the command line that was run.
	Command string
	// Output is the combined stdout and stderr, truncated.
	Output string
	// Err is the underlying exec error.
	Err error
}

// Error implements error.
func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}

	return fmt.Sprintf("%s: %v: %s", e.Command, e.Err, e.Output)
}

// Unwrap returns the underlying exec error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs tools with os/exec, stopping them when the context is canceled.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes name with args and waits for it to finish.
func (*ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	var (
		cmd    = exec.CommandContext(ctx, name, args...)
		output bytes.Buffer
	)

	cmd.Stdout = &output
	cmd.Stderr = &output

	logger.DebugKV(ctx, "Running command", "command", cmd.String())

	if err := cmd.Run(); err != nil {
		return &CommandError{
			Command: cmd.String(),
			Output:  truncate(strings.TrimSpace(output.String()), maxOutputInError),
			Err:     err,
		}
	}

	if out := strings.TrimSpace(output.String()); out != "" {
		logger.DebugKV(ctx, "Command output", "command", name, "output", out)
	}

	return nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}

	return s[len(s)-limit:]
}
