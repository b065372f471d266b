package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ezix/ezix/pkg/cmdrun"
)

// ExecChecker performs exec-based health checks by running a command
type ExecChecker struct {
	// Label names the check; defaults to the command line
	Label string

	// Command is the command to execute (e.g., ["iptables", "--version"])
	Command []string

	// Timeout is the command execution timeout (default: 10 seconds)
	Timeout time.Duration

	Runner cmdrun.Runner
}

// NewExecChecker creates a new exec health checker
func NewExecChecker(runner cmdrun.Runner, command ...string) *ExecChecker {
	return &ExecChecker{
		Command: command,
		Timeout: 10 * time.Second,
		Runner:  runner,
	}
}

func (e *ExecChecker) Name() string {
	if e.Label != "" {
		return e.Label
	}
	if len(e.Command) == 0 {
		return "exec"
	}
	return cmdrun.Line(e.Command[0], e.Command[1:]...)
}

// Check performs the exec health check
func (e *ExecChecker) Check(ctx context.Context) Result {
	start := time.Now()
	result := Result{Name: e.Name(), CheckedAt: start}

	if len(e.Command) == 0 {
		result.Message = "no command specified"
		result.Duration = time.Since(start)
		return result
	}

	execCtx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	out, err := e.Runner.Run(execCtx, e.Command[0], e.Command[1:]...)
	result.Duration = time.Since(start)
	if err != nil {
		result.Message = err.Error()
		return result
	}

	// First line of output, truncated if too long
	output, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	if len(output) > 100 {
		output = output[:100] + "..."
	}
	result.Healthy = true
	result.Message = output
	if output == "" {
		result.Message = fmt.Sprintf("%s available", e.Command[0])
	}
	return result
}

// WithTimeout sets the execution timeout
func (e *ExecChecker) WithTimeout(timeout time.Duration) *ExecChecker {
	e.Timeout = timeout
	return e
}

// WithLabel sets the check name
func (e *ExecChecker) WithLabel(label string) *ExecChecker {
	e.Label = label
	return e
}
